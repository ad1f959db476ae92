package levels

import (
	"fmt"
	"math"
)

// DefaultGamma is applied when a Spec leaves Gamma empty.
const DefaultGamma = 1.0

// Spec describes an intensity adjustment as fractions of the full sample range.
// Each field holds either a single value, broadcast to every channel, or one
// value per channel. All per-channel fields must agree on the channel count.
type Spec struct {
	LowIn   []float64 `json:"low_in" toml:"low_in"`
	HighIn  []float64 `json:"high_in" toml:"high_in"`
	LowOut  []float64 `json:"low_out" toml:"low_out"`
	HighOut []float64 `json:"high_out" toml:"high_out"`
	Gamma   []float64 `json:"gamma,omitempty" toml:"gamma"`
}

// Channel is a fully resolved adjustment for a single channel.
type Channel struct {
	LowIn   float64
	HighIn  float64
	LowOut  float64
	HighOut float64
	Gamma   float64
}

// Validate checks 0 <= low_in < high_in <= 1, 0 <= low_out <= high_out <= 1,
// and gamma > 0.
func (c Channel) Validate() error {
	for _, v := range []float64{c.LowIn, c.HighIn, c.LowOut, c.HighOut, c.Gamma} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: values must be finite", ErrInvalidSpec)
		}
	}
	if c.LowIn < 0 || c.HighIn > 1 || c.LowIn >= c.HighIn {
		return fmt.Errorf("%w: need 0 <= low_in < high_in <= 1, got low_in=%g high_in=%g", ErrInvalidSpec, c.LowIn, c.HighIn)
	}
	if c.LowOut < 0 || c.HighOut > 1 || c.LowOut > c.HighOut {
		return fmt.Errorf("%w: need 0 <= low_out <= high_out <= 1, got low_out=%g high_out=%g", ErrInvalidSpec, c.LowOut, c.HighOut)
	}
	if c.Gamma <= 0 {
		return fmt.Errorf("%w: gamma must be positive, got %g", ErrInvalidSpec, c.Gamma)
	}
	return nil
}

// Apply maps one normalized sample. Inputs at or below LowIn yield exactly
// LowOut; inputs at or above HighIn yield exactly HighOut.
func (c Channel) Apply(v float64) float64 {
	t := (v - c.LowIn) / (c.HighIn - c.LowIn)
	switch {
	case t <= 0:
		return c.LowOut
	case t >= 1:
		return c.HighOut
	}
	if c.Gamma != 1 {
		t = math.Pow(t, c.Gamma)
	}
	return c.LowOut + t*(c.HighOut-c.LowOut)
}

// Width returns the number of channels the spec is written for,
// or 1 when every field is broadcast.
func (s Spec) Width() int {
	n := 1
	for _, f := range s.fields() {
		if len(f.values) > n {
			n = len(f.values)
		}
	}
	return n
}

// Validate checks field lengths and the per-channel invariants.
func (s Spec) Validate() error {
	_, err := s.channels()
	return err
}

// Resolve expands the spec into one Channel per buffer channel.
func (s Spec) Resolve(channels int) ([]Channel, error) {
	resolved, err := s.channels()
	if err != nil {
		return nil, err
	}

	if len(resolved) == 1 {
		out := make([]Channel, channels)
		for i := range out {
			out[i] = resolved[0]
		}
		return out, nil
	}

	if len(resolved) != channels {
		return nil, fmt.Errorf("%w: spec has %d channels, buffer has %d", ErrChannelMismatch, len(resolved), channels)
	}
	return resolved, nil
}

type field struct {
	name     string
	values   []float64
	optional bool
}

func (s Spec) fields() []field {
	return []field{
		{name: "low_in", values: s.LowIn},
		{name: "high_in", values: s.HighIn},
		{name: "low_out", values: s.LowOut},
		{name: "high_out", values: s.HighOut},
		{name: "gamma", values: s.Gamma, optional: true},
	}
}

func (s Spec) channels() ([]Channel, error) {
	n := s.Width()

	for _, f := range s.fields() {
		switch len(f.values) {
		case 0:
			if !f.optional {
				return nil, fmt.Errorf("%w: %s required", ErrInvalidSpec, f.name)
			}
		case 1, n:
		default:
			return nil, fmt.Errorf("%w: %s has %d values, want 1 or %d", ErrInvalidSpec, f.name, len(f.values), n)
		}
	}

	out := make([]Channel, n)
	for i := range out {
		out[i] = Channel{
			LowIn:   pick(s.LowIn, i, 0),
			HighIn:  pick(s.HighIn, i, 0),
			LowOut:  pick(s.LowOut, i, 0),
			HighOut: pick(s.HighOut, i, 0),
			Gamma:   pick(s.Gamma, i, DefaultGamma),
		}
		if err := out[i].Validate(); err != nil {
			if n > 1 {
				return nil, fmt.Errorf("channel %d: %w", i, err)
			}
			return nil, err
		}
	}
	return out, nil
}

func pick(values []float64, i int, fallback float64) float64 {
	switch len(values) {
	case 0:
		return fallback
	case 1:
		return values[0]
	default:
		return values[i]
	}
}
