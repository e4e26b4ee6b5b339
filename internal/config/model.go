package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/JaimeStill/leafscan/pkg/classifier"
	"github.com/JaimeStill/leafscan/pkg/features"
	"github.com/JaimeStill/leafscan/pkg/imaging"
)

const (
	EnvModelArtifactKey = "LEAFSCAN_MODEL_ARTIFACT_KEY"
	EnvModelBins        = "LEAFSCAN_MODEL_BINS"
	EnvModelWidth       = "LEAFSCAN_MODEL_WIDTH"
	EnvModelHeight      = "LEAFSCAN_MODEL_HEIGHT"
	EnvModelClassifier  = "LEAFSCAN_MODEL_CLASSIFIER"
	EnvModelWorkers     = "LEAFSCAN_MODEL_WORKERS"
	EnvModelCacheSize   = "LEAFSCAN_MODEL_CACHE_SIZE"
	EnvModelMaxPixels   = "LEAFSCAN_MODEL_MAX_PIXELS"
)

// ModelConfig locates the model artifact and holds the training and
// inference parameters. Extraction parameters only drive training; a
// loaded artifact carries its own. A negative CacheSize disables the
// prediction cache. MaxPixels caps the declared size of any image decoded
// for training or prediction.
type ModelConfig struct {
	ArtifactKey string `toml:"artifact_key"`
	Bins        int    `toml:"bins"`
	Width       int    `toml:"width"`
	Height      int    `toml:"height"`
	Classifier  string `toml:"classifier"`
	Workers     int    `toml:"workers"`
	CacheSize   int    `toml:"cache_size"`
	MaxPixels   int    `toml:"max_pixels"`
}

// Features returns the extraction config.
func (c *ModelConfig) Features() features.Config {
	return features.Config{Bins: c.Bins, Width: c.Width, Height: c.Height}
}

// Kind returns the configured classifier kind. Finalize guarantees it parses.
func (c *ModelConfig) Kind() classifier.Kind {
	kind, _ := classifier.ParseKind(c.Classifier)
	return kind
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *ModelConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *ModelConfig) Merge(overlay *ModelConfig) {
	if overlay.ArtifactKey != "" {
		c.ArtifactKey = overlay.ArtifactKey
	}
	if overlay.Bins != 0 {
		c.Bins = overlay.Bins
	}
	if overlay.Width != 0 {
		c.Width = overlay.Width
	}
	if overlay.Height != 0 {
		c.Height = overlay.Height
	}
	if overlay.Classifier != "" {
		c.Classifier = overlay.Classifier
	}
	if overlay.Workers != 0 {
		c.Workers = overlay.Workers
	}
	if overlay.CacheSize != 0 {
		c.CacheSize = overlay.CacheSize
	}
	if overlay.MaxPixels != 0 {
		c.MaxPixels = overlay.MaxPixels
	}
}

func (c *ModelConfig) loadDefaults() {
	def := features.DefaultConfig()
	if c.ArtifactKey == "" {
		c.ArtifactKey = "model/model.json"
	}
	if c.Bins == 0 {
		c.Bins = def.Bins
	}
	if c.Width == 0 {
		c.Width = def.Width
	}
	if c.Height == 0 {
		c.Height = def.Height
	}
	if c.Classifier == "" {
		c.Classifier = string(classifier.KindLogistic)
	}
	if c.Workers == 0 {
		c.Workers = 1
	}
	if c.CacheSize == 0 {
		c.CacheSize = 256
	}
	if c.MaxPixels == 0 {
		c.MaxPixels = imaging.DefaultMaxPixels
	}
}

func (c *ModelConfig) loadEnv() {
	if v := os.Getenv(EnvModelArtifactKey); v != "" {
		c.ArtifactKey = v
	}
	if v := os.Getenv(EnvModelClassifier); v != "" {
		c.Classifier = v
	}
	setInt(EnvModelBins, &c.Bins)
	setInt(EnvModelWidth, &c.Width)
	setInt(EnvModelHeight, &c.Height)
	setInt(EnvModelWorkers, &c.Workers)
	setInt(EnvModelCacheSize, &c.CacheSize)
	setInt(EnvModelMaxPixels, &c.MaxPixels)
}

func (c *ModelConfig) validate() error {
	if err := c.Features().Validate(); err != nil {
		return err
	}
	if _, err := classifier.ParseKind(c.Classifier); err != nil {
		return err
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}
	if c.MaxPixels < 1 {
		return fmt.Errorf("max_pixels must be positive, got %d", c.MaxPixels)
	}
	return nil
}

func setInt(name string, dst *int) {
	if v := os.Getenv(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
