package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/exp/rand"

	"holefill/pkg/config"
	"holefill/pkg/holefill"
	"holefill/pkg/imageio"
	"holefill/pkg/regions"
	"holefill/pkg/similarity"
)

func fillCommand() *cobra.Command {
	var confirm bool

	cmd := &cobra.Command{
		Use:   "fill",
		Short: "Fill the selected hole region with texture from the texture region",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return runFill(cfg, confirm, os.Stdin, os.Stdout)
		},
	}

	flags := cmd.Flags()
	flags.String("image", "", "source image")
	flags.String("fill-region", "", "fill region mask")
	flags.String("texture-region", "", "texture region mask")
	flags.StringP("output", "o", "", "output image (format from extension)")
	flags.String("preview", "", "write the hole image with the texture box outlined")
	flags.Int("patch-l", 0, "patch half-width, the patch size is 2*patchL+1")
	flags.Float64("sd", 0, "standard deviation for random patch selection")
	flags.String("scorer", "", "patch scorer: pixel or window")
	flags.Int("cores", 0, "CPU cores used by the pixel scorer")
	flags.Int("max-steps", 0, "maximum number of patch copies (0: hole size)")
	flags.Uint64("seed", 0, "random seed (0: from the clock)")
	flags.BoolVar(&confirm, "confirm", false, "ask for confirmation of the regions before filling")

	return cmd
}

// loadConfig reads the YAML configuration and applies command line overrides
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("image") {
		cfg.Input.Image, _ = flags.GetString("image")
	}
	if flags.Changed("fill-region") {
		cfg.Input.FillRegion, _ = flags.GetString("fill-region")
	}
	if flags.Changed("texture-region") {
		cfg.Input.TextureRegion, _ = flags.GetString("texture-region")
	}
	if flags.Changed("output") {
		cfg.Output.Result, _ = flags.GetString("output")
	}
	if flags.Changed("preview") {
		cfg.Output.Preview, _ = flags.GetString("preview")
	}
	if flags.Changed("patch-l") {
		cfg.Synthesis.PatchL, _ = flags.GetInt("patch-l")
	}
	if flags.Changed("sd") {
		cfg.Synthesis.RandomPatchSD, _ = flags.GetFloat64("sd")
	}
	if flags.Changed("scorer") {
		cfg.Synthesis.Scorer, _ = flags.GetString("scorer")
	}
	if flags.Changed("cores") {
		cfg.Synthesis.NumCores, _ = flags.GetInt("cores")
	}
	if flags.Changed("max-steps") {
		cfg.Synthesis.MaxSteps, _ = flags.GetInt("max-steps")
	}
	if flags.Changed("seed") {
		cfg.Synthesis.Seed, _ = flags.GetUint64("seed")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runFill(cfg *config.Config, confirm bool, in io.Reader, out io.Writer) error {
	source, err := imageio.Load(cfg.Input.Image, cfg.Input.Channels)
	if err != nil {
		return fmt.Errorf("failed to load image: %w", err)
	}
	fill, texture, err := regions.LoadPair(cfg.Input.FillRegion, cfg.Input.TextureRegion)
	if err != nil {
		return err
	}

	setup, err := holefill.Prepare(source, fill, texture, cfg.Synthesis.PatchL)
	if err != nil {
		return err
	}
	if cfg.Output.Verbose {
		fmt.Fprintf(out, "Loaded %s: %dx%d, %d pixels to fill, texture %dx%d\n",
			cfg.Input.Image, source.Cols, source.Rows, setup.Occupancy.Count(),
			setup.Texture.Cols, setup.Texture.Rows)
	}

	if cfg.Output.Preview != "" {
		preview := imageio.Preview(setup.Hole, setup.TextureBounds, cfg.Output.PreviewMaxSide)
		if err := imageio.SaveImage(cfg.Output.Preview, preview); err != nil {
			return fmt.Errorf("failed to save preview: %w", err)
		}
		fmt.Fprintf(out, "Preview saved to: %s\n", cfg.Output.Preview)
	}
	if confirm {
		if err := askConfirmation(in, out); err != nil {
			return err
		}
	}

	seed := cfg.Synthesis.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	var scorer similarity.Scorer
	switch cfg.Synthesis.Scorer {
	case config.ScorerWindow:
		scorer = similarity.NewWindowScorer()
	default:
		scorer = similarity.NewPixelScorer(cfg.Synthesis.NumCores)
	}

	filler := holefill.NewFiller(&holefill.Params{
		PatchHalfWidth: cfg.Synthesis.PatchL,
		RandomPatchSD:  cfg.Synthesis.RandomPatchSD,
		MaxSteps:       cfg.Synthesis.MaxSteps,
		Scorer:         scorer,
		Source:         rand.NewSource(seed),
	})
	if cfg.Output.Verbose {
		filler.SetProgressCallback(func(remaining, initial, pass int) {
			fmt.Fprintf(out, "Number of pixels remaining = %d\n", remaining)
		})
	}

	result, err := filler.Fill(setup)
	if err != nil {
		return fmt.Errorf("hole filling failed: %w", err)
	}

	if err := imageio.Save(cfg.Output.Result, result.Image); err != nil {
		return fmt.Errorf("failed to save result: %w", err)
	}

	fmt.Fprintf(out, "\nHole filled in %.2f seconds (%d passes, %d patches, seed %d)\n",
		result.Duration.Seconds(), result.Passes, result.Steps, seed)
	fmt.Fprintf(out, "Mean match error: %.1f, max: %.1f\n", result.MeanMatchError, result.MaxMatchError)
	fmt.Fprintf(out, "Output image saved to: %s\n", cfg.Output.Result)
	return nil
}

// askConfirmation repeats the question until the answer is Yes or No
func askConfirmation(in io.Reader, out io.Writer) error {
	fmt.Fprintln(out, "Are you happy with this choice of fill region and texture image?")
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "Yes or No: ")
		if !scanner.Scan() {
			return errors.New("no confirmation given")
		}
		switch strings.TrimSpace(scanner.Text()) {
		case "Yes":
			return nil
		case "No":
			return errors.New("regions rejected, select new regions and try again")
		}
	}
}
