// Package config provides batch configuration management with support for
// TOML files, environment variable overrides, and configuration overlays.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/JaimeStill/imadjust/pkg/logging"
)

const (
	// BaseConfigFile is the configuration file read when no path is given.
	BaseConfigFile = "config.toml"

	// OverlayConfigPattern is the file name pattern for environment-specific overlays.
	OverlayConfigPattern = "config.%s.toml"

	// EnvConfigEnv specifies the environment name for configuration overlays.
	EnvConfigEnv = "IMADJUST_ENV"
)

var loggingEnv = &logging.Env{
	Level:  "IMADJUST_LOG_LEVEL",
	Format: "IMADJUST_LOG_FORMAT",
	File:   "IMADJUST_LOG_FILE",
}

// Config represents the root configuration of a batch run.
type Config struct {
	Batch      BatchConfig      `toml:"batch"`
	Adjustment AdjustmentConfig `toml:"adjustment"`
	Logging    logging.Config   `toml:"logging"`
}

// Load reads the configuration file at path and applies any environment-specific
// overlay found next to it. An empty path reads BaseConfigFile if it exists and
// falls back to an empty configuration otherwise; an explicit path must exist.
func Load(path string) (*Config, error) {
	optional := path == ""
	if optional {
		path = BaseConfigFile
	}

	cfg, err := load(path)
	if err != nil {
		if !optional || !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		cfg = &Config{}
	}

	if overlay := overlayPath(path); overlay != "" {
		o, err := load(overlay)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", overlay, err)
		}
		cfg.Merge(o)
	}
	return cfg, nil
}

// Finalize applies defaults, loads environment overrides, and validates the configuration.
func (c *Config) Finalize() error {
	if err := c.Batch.Finalize(); err != nil {
		return fmt.Errorf("batch: %w", err)
	}
	if err := c.Adjustment.Finalize(); err != nil {
		return fmt.Errorf("adjustment: %w", err)
	}
	if err := c.Logging.Finalize(loggingEnv); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	return nil
}

// Merge applies values from overlay configuration that differ from zero values.
func (c *Config) Merge(overlay *Config) {
	c.Batch.Merge(&overlay.Batch)
	c.Adjustment.Merge(&overlay.Adjustment)
	c.Logging.Merge(&overlay.Logging)
}

// Validate checks every section without applying defaults or environment overrides.
// Use it after merging command-line overrides into a finalized configuration.
func (c *Config) Validate() error {
	if err := c.Batch.Validate(); err != nil {
		return fmt.Errorf("batch: %w", err)
	}
	if err := c.Adjustment.Validate(); err != nil {
		return fmt.Errorf("adjustment: %w", err)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var cfg Config
	if err := dec.Decode(&cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return nil, fmt.Errorf("parse config: unknown keys in %s:\n%s", path, strict.String())
		}
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath(base string) string {
	if env := os.Getenv(EnvConfigEnv); env != "" {
		path := filepath.Join(filepath.Dir(base), fmt.Sprintf(OverlayConfigPattern, env))
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
