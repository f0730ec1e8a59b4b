package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"holefill/pkg/imageio"
	"holefill/pkg/regions"
)

func regionsCommand() *cobra.Command {
	var (
		imagePath string
		fillSpec  string
		texSpec   string
		outDir    string
	)

	cmd := &cobra.Command{
		Use:   "regions",
		Short: "Create the fill and texture region masks",
		Long: `Create the fill and texture region masks for an image.

Coordinates are given as a flat list "x1,y1,x2,y2,...", x being the column and
y the row. Two points select the pixel rectangle between opposite corners,
three or more points select the pixels whose centres lie inside the polygon.`,
		Example: "  holefill regions --image donkey.jpg --fill 120,80,160,78,170,120,118,125 --texture 10,10,90,70",
		RunE: func(cmd *cobra.Command, _ []string) error {
			img, err := imageio.Load(imagePath, 1)
			if err != nil {
				return fmt.Errorf("failed to load image: %w", err)
			}

			for _, r := range []struct{ coords, file string }{
				{fillSpec, regions.DefaultFillFile},
				{texSpec, regions.DefaultTextureFile},
			} {
				points, err := regions.ParsePoints(r.coords)
				if err != nil {
					return err
				}
				mask, err := regions.FromPoints(img.Rows, img.Cols, points)
				if err != nil {
					return err
				}
				if !mask.Any() {
					return fmt.Errorf("%s selects no pixels", r.file)
				}

				path := filepath.Join(outDir, r.file)
				if err := regions.Save(path, mask); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Saved %d pixels to %s\n", mask.Count(), path)
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&imagePath, "image", "", "source image, used for its dimensions")
	flags.StringVar(&fillSpec, "fill", "", "fill region coordinates")
	flags.StringVar(&texSpec, "texture", "", "texture region coordinates")
	flags.StringVar(&outDir, "out-dir", ".", "directory for the mask files")
	for _, name := range []string{"image", "fill", "texture"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}
