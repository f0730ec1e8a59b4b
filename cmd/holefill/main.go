package main

import (
	"log"

	"github.com/spf13/cobra"
)

func main() {
	log.SetFlags(0)

	root := &cobra.Command{
		Use:           "holefill",
		Short:         "Fill a region of an image with texture copied from another region",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("config", "holefill.yaml", "YAML configuration file")

	root.AddCommand(fillCommand(), regionsCommand(), configCommand())

	if err := root.Execute(); err != nil {
		log.Fatalf("holefill: %v", err)
	}
}
