package config

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/JaimeStill/imadjust/pkg/levels"
)

const (
	// EnvLowIn overrides the lower input bounds (comma-separated fractions).
	EnvLowIn = "IMADJUST_LOW_IN"

	// EnvHighIn overrides the upper input bounds (comma-separated fractions).
	EnvHighIn = "IMADJUST_HIGH_IN"

	// EnvLowOut overrides the lower output bounds (comma-separated fractions).
	EnvLowOut = "IMADJUST_LOW_OUT"

	// EnvHighOut overrides the upper output bounds (comma-separated fractions).
	EnvHighOut = "IMADJUST_HIGH_OUT"

	// EnvGamma overrides the gamma exponents (comma-separated).
	EnvGamma = "IMADJUST_GAMMA"
)

// Default adjustment: the red and green channels get distinct input windows,
// blue passes through, and every channel stretches to the full output range.
var (
	DefaultLowIn   = []float64{0.2, 0.3, 0}
	DefaultHighIn  = []float64{0.6, 0.7, 1}
	DefaultLowOut  = []float64{0}
	DefaultHighOut = []float64{1}
	DefaultGamma   = []float64{levels.DefaultGamma}
)

// AdjustmentConfig holds the intensity bounds applied to every image.
// Each list holds one value for all channels or one value per channel.
type AdjustmentConfig struct {
	LowIn   []float64 `toml:"low_in"`
	HighIn  []float64 `toml:"high_in"`
	LowOut  []float64 `toml:"low_out"`
	HighOut []float64 `toml:"high_out"`
	Gamma   []float64 `toml:"gamma"`
}

// Spec returns the adjustment as a levels.Spec.
func (c *AdjustmentConfig) Spec() levels.Spec {
	return levels.Spec{
		LowIn:   slices.Clone(c.LowIn),
		HighIn:  slices.Clone(c.HighIn),
		LowOut:  slices.Clone(c.LowOut),
		HighOut: slices.Clone(c.HighOut),
		Gamma:   slices.Clone(c.Gamma),
	}
}

// Finalize applies defaults, loads environment overrides, and validates the adjustment.
func (c *AdjustmentConfig) Finalize() error {
	c.loadDefaults()
	if err := c.loadEnv(); err != nil {
		return err
	}
	return c.Validate()
}

// Merge applies the lists set in overlay.
func (c *AdjustmentConfig) Merge(overlay *AdjustmentConfig) {
	if overlay.LowIn != nil {
		c.LowIn = overlay.LowIn
	}
	if overlay.HighIn != nil {
		c.HighIn = overlay.HighIn
	}
	if overlay.LowOut != nil {
		c.LowOut = overlay.LowOut
	}
	if overlay.HighOut != nil {
		c.HighOut = overlay.HighOut
	}
	if overlay.Gamma != nil {
		c.Gamma = overlay.Gamma
	}
}

// Validate checks the adjustment invariants.
func (c *AdjustmentConfig) Validate() error {
	return c.Spec().Validate()
}

func (c *AdjustmentConfig) loadDefaults() {
	if len(c.LowIn) == 0 {
		c.LowIn = slices.Clone(DefaultLowIn)
	}
	if len(c.HighIn) == 0 {
		c.HighIn = slices.Clone(DefaultHighIn)
	}
	if len(c.LowOut) == 0 {
		c.LowOut = slices.Clone(DefaultLowOut)
	}
	if len(c.HighOut) == 0 {
		c.HighOut = slices.Clone(DefaultHighOut)
	}
	if len(c.Gamma) == 0 {
		c.Gamma = slices.Clone(DefaultGamma)
	}
}

func (c *AdjustmentConfig) loadEnv() error {
	targets := []struct {
		env string
		dst *[]float64
	}{
		{EnvLowIn, &c.LowIn},
		{EnvHighIn, &c.HighIn},
		{EnvLowOut, &c.LowOut},
		{EnvHighOut, &c.HighOut},
		{EnvGamma, &c.Gamma},
	}

	for _, t := range targets {
		v := os.Getenv(t.env)
		if v == "" {
			continue
		}
		values, err := ParseFloats(v)
		if err != nil {
			return fmt.Errorf("%s: %w", t.env, err)
		}
		*t.dst = values
	}
	return nil
}

// ParseFloats parses a comma-separated list of numbers such as "0.2, 0.3, 0".
func ParseFloats(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	values := make([]float64, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			return nil, fmt.Errorf("empty value in %q", s)
		}
		v, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid value %q: %w", part, err)
		}
		values = append(values, v)
	}
	return values, nil
}
