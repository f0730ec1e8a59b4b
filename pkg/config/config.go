// Package config provides configuration loading and management for holefill.
// It handles loading configuration from YAML files, applies overrides from the
// environment (and an optional .env file) and provides default values.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Scorer names accepted in Synthesis.Scorer
const (
	ScorerPixel  = "pixel"
	ScorerWindow = "window"
)

// Environment variables that override the YAML configuration
const (
	EnvPatchL        = "HOLEFILL_PATCH_L"
	EnvRandomPatchSD = "HOLEFILL_RANDOM_PATCH_SD"
	EnvSeed          = "HOLEFILL_SEED"
	EnvScorer        = "HOLEFILL_SCORER"
	EnvNumCores      = "HOLEFILL_NUM_CORES"
)

// Config represents the application configuration loaded from YAML
type Config struct {
	// Input artifacts
	Input struct {
		// Image is the source image containing the region to fill
		Image string `yaml:"image"`

		// FillRegion and TextureRegion are the region mask artifacts
		FillRegion    string `yaml:"fillRegion"`
		TextureRegion string `yaml:"textureRegion"`

		// Channels is 3 for colour or 1 for luminance processing
		Channels int `yaml:"channels"`
	} `yaml:"input"`

	// Hole filling parameters
	Synthesis struct {
		// PatchL is the patch half-width; the patch size is 2*PatchL+1
		PatchL int `yaml:"patchL"`

		// RandomPatchSD is the standard deviation for random patch selection
		RandomPatchSD float64 `yaml:"randomPatchSD"`

		// Scorer is "pixel" or "window"
		Scorer string `yaml:"scorer"`

		// NumCores specifies how many CPU cores the pixel scorer uses
		NumCores int `yaml:"numCores"`

		// MaxSteps caps the number of patch copies, 0 means the hole size
		MaxSteps int `yaml:"maxSteps"`

		// Seed fixes the random source, 0 seeds from the clock
		Seed uint64 `yaml:"seed"`
	} `yaml:"synthesis"`

	// Output parameters
	Output struct {
		// Result is the filled image file
		Result string `yaml:"result"`

		// Preview, if set, receives the hole image with the texture box drawn
		Preview string `yaml:"preview"`

		// PreviewMaxSide bounds the preview dimensions, 0 keeps full size
		PreviewMaxSide int `yaml:"previewMaxSide"`

		// Verbose controls the level of logging output
		Verbose bool `yaml:"verbose"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Input.Image = "donkey.jpg"
	cfg.Input.FillRegion = "fill_region.png"
	cfg.Input.TextureRegion = "texture_region.png"
	cfg.Input.Channels = 3

	cfg.Synthesis.PatchL = 10
	cfg.Synthesis.RandomPatchSD = 1
	cfg.Synthesis.Scorer = ScorerPixel
	cfg.Synthesis.NumCores = runtime.NumCPU() // Use all available cores by default
	cfg.Synthesis.MaxSteps = 0
	cfg.Synthesis.Seed = 0

	cfg.Output.Result = "results.jpg"
	cfg.Output.Preview = ""
	cfg.Output.PreviewMaxSide = 800
	cfg.Output.Verbose = true

	return cfg
}

// LoadConfig loads configuration from a YAML file and applies environment
// overrides. If the file doesn't exist, the defaults are used.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(configPath)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("error reading config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	}

	// A missing .env file is not an error
	_ = godotenv.Load()

	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from environment variables looked up with getenv
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := getenv(EnvPatchL); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvPatchL, err)
		}
		c.Synthesis.PatchL = n
	}
	if v := getenv(EnvRandomPatchSD); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvRandomPatchSD, err)
		}
		c.Synthesis.RandomPatchSD = f
	}
	if v := getenv(EnvSeed); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvSeed, err)
		}
		c.Synthesis.Seed = n
	}
	if v := getenv(EnvScorer); v != "" {
		c.Synthesis.Scorer = strings.ToLower(v)
	}
	if v := getenv(EnvNumCores); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvNumCores, err)
		}
		c.Synthesis.NumCores = n
	}
	return nil
}

// Validate checks parameter ranges
func (c *Config) Validate() error {
	if c.Synthesis.PatchL < 0 {
		return fmt.Errorf("patchL must be non-negative, got %d", c.Synthesis.PatchL)
	}
	if c.Synthesis.RandomPatchSD < 0 {
		return fmt.Errorf("randomPatchSD must be non-negative, got %f", c.Synthesis.RandomPatchSD)
	}
	if c.Synthesis.Scorer != ScorerPixel && c.Synthesis.Scorer != ScorerWindow {
		return fmt.Errorf("unknown scorer %q (must be %s or %s)", c.Synthesis.Scorer, ScorerPixel, ScorerWindow)
	}
	if c.Input.Channels != 1 && c.Input.Channels != 3 {
		return fmt.Errorf("channels must be 1 or 3, got %d", c.Input.Channels)
	}
	if c.Synthesis.MaxSteps < 0 {
		return fmt.Errorf("maxSteps must be non-negative, got %d", c.Synthesis.MaxSteps)
	}
	return nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the specified path
func CreateDefaultConfigFile(configPath string) error {
	cfg := DefaultConfig()
	return SaveConfig(cfg, configPath)
}
