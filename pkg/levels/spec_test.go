package levels_test

import (
	"errors"
	"math"
	"testing"

	"github.com/JaimeStill/imadjust/pkg/levels"
)

func TestSpec_Validate(t *testing.T) {
	tests := []struct {
		name    string
		spec    levels.Spec
		wantErr bool
	}{
		{"identity", identity(), false},
		{
			"broadcast without gamma",
			levels.Spec{LowIn: []float64{0.2}, HighIn: []float64{0.6}, LowOut: []float64{0}, HighOut: []float64{1}},
			false,
		},
		{
			"per channel with broadcast outputs",
			levels.Spec{
				LowIn:   []float64{0.2, 0.3, 0},
				HighIn:  []float64{0.6, 0.7, 1},
				LowOut:  []float64{0},
				HighOut: []float64{1},
			},
			false,
		},
		{
			"equal output bounds",
			levels.Spec{LowIn: []float64{0}, HighIn: []float64{1}, LowOut: []float64{0.5}, HighOut: []float64{0.5}},
			false,
		},
		{
			"high_in below low_in",
			levels.Spec{LowIn: []float64{0.6}, HighIn: []float64{0.2}, LowOut: []float64{0}, HighOut: []float64{1}},
			true,
		},
		{
			"high_in equals low_in",
			levels.Spec{LowIn: []float64{0.5}, HighIn: []float64{0.5}, LowOut: []float64{0}, HighOut: []float64{1}},
			true,
		},
		{
			"low_out above high_out",
			levels.Spec{LowIn: []float64{0}, HighIn: []float64{1}, LowOut: []float64{0.8}, HighOut: []float64{0.2}},
			true,
		},
		{
			"high_in above one",
			levels.Spec{LowIn: []float64{0}, HighIn: []float64{1.5}, LowOut: []float64{0}, HighOut: []float64{1}},
			true,
		},
		{
			"negative low_out",
			levels.Spec{LowIn: []float64{0}, HighIn: []float64{1}, LowOut: []float64{-0.1}, HighOut: []float64{1}},
			true,
		},
		{
			"zero gamma",
			levels.Spec{LowIn: []float64{0}, HighIn: []float64{1}, LowOut: []float64{0}, HighOut: []float64{1}, Gamma: []float64{0}},
			true,
		},
		{
			"NaN bound",
			levels.Spec{LowIn: []float64{math.NaN()}, HighIn: []float64{1}, LowOut: []float64{0}, HighOut: []float64{1}},
			true,
		},
		{
			"missing low_in",
			levels.Spec{HighIn: []float64{1}, LowOut: []float64{0}, HighOut: []float64{1}},
			true,
		},
		{
			"inconsistent channel lengths",
			levels.Spec{
				LowIn:   []float64{0, 0, 0},
				HighIn:  []float64{1, 1},
				LowOut:  []float64{0},
				HighOut: []float64{1},
			},
			true,
		},
		{
			"invalid second channel",
			levels.Spec{
				LowIn:   []float64{0.1, 0.9},
				HighIn:  []float64{0.5, 0.4},
				LowOut:  []float64{0},
				HighOut: []float64{1},
			},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.spec.Validate()

			if tt.wantErr {
				if !errors.Is(err, levels.ErrInvalidSpec) {
					t.Errorf("Validate() error = %v, want ErrInvalidSpec", err)
				}
				return
			}
			if err != nil {
				t.Errorf("Validate() error = %v, want nil", err)
			}
		})
	}
}

func TestSpec_Resolve_Broadcast(t *testing.T) {
	spec := levels.Spec{
		LowIn:   []float64{0.1},
		HighIn:  []float64{0.9},
		LowOut:  []float64{0},
		HighOut: []float64{1},
	}

	channels, err := spec.Resolve(4)
	if err != nil {
		t.Fatalf("Resolve() failed: %v", err)
	}

	if len(channels) != 4 {
		t.Fatalf("len(channels) = %d, want 4", len(channels))
	}

	want := levels.Channel{LowIn: 0.1, HighIn: 0.9, LowOut: 0, HighOut: 1, Gamma: levels.DefaultGamma}
	for i, ch := range channels {
		if ch != want {
			t.Errorf("channels[%d] = %+v, want %+v", i, ch, want)
		}
	}
}

func TestSpec_Resolve_PerChannel(t *testing.T) {
	spec := levels.Spec{
		LowIn:   []float64{0.2, 0.3, 0},
		HighIn:  []float64{0.6, 0.7, 1},
		LowOut:  []float64{0},
		HighOut: []float64{1},
		Gamma:   []float64{1, 2, 0.5},
	}

	channels, err := spec.Resolve(3)
	if err != nil {
		t.Fatalf("Resolve() failed: %v", err)
	}

	if channels[1].LowIn != 0.3 || channels[1].HighIn != 0.7 || channels[1].Gamma != 2 {
		t.Errorf("channels[1] = %+v, want low_in=0.3 high_in=0.7 gamma=2", channels[1])
	}
	if channels[2].HighOut != 1 || channels[2].Gamma != 0.5 {
		t.Errorf("channels[2] = %+v, want high_out=1 gamma=0.5", channels[2])
	}
}

func TestSpec_Resolve_ChannelMismatch(t *testing.T) {
	spec := levels.Spec{
		LowIn:   []float64{0.2, 0.3, 0},
		HighIn:  []float64{0.6, 0.7, 1},
		LowOut:  []float64{0},
		HighOut: []float64{1},
	}

	_, err := spec.Resolve(1)
	if !errors.Is(err, levels.ErrChannelMismatch) {
		t.Errorf("Resolve(1) error = %v, want ErrChannelMismatch", err)
	}
}

func TestSpec_Width(t *testing.T) {
	if w := identity().Width(); w != 1 {
		t.Errorf("Width() of an identity spec = %d, want 1", w)
	}

	spec := levels.Spec{LowIn: []float64{0, 0, 0, 0}, HighIn: []float64{1}}
	if w := spec.Width(); w != 4 {
		t.Errorf("Width() = %d, want 4", w)
	}
}

func TestChannel_Apply(t *testing.T) {
	ch := levels.Channel{LowIn: 0.25, HighIn: 0.75, LowOut: 0.1, HighOut: 0.9, Gamma: 1}

	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"zero clamps to low_out", 0, 0.1},
		{"low_in maps to low_out", 0.25, 0.1},
		{"midpoint", 0.5, 0.5},
		{"high_in maps to high_out", 0.75, 0.9},
		{"one clamps to high_out", 1, 0.9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ch.Apply(tt.in)
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("Apply(%g) = %g, want %g", tt.in, got, tt.want)
			}
		})
	}
}

func TestChannel_Apply_Gamma(t *testing.T) {
	ch := levels.Channel{LowIn: 0, HighIn: 1, LowOut: 0, HighOut: 1, Gamma: 2}

	if got := ch.Apply(0.5); got != 0.25 {
		t.Errorf("Apply(0.5) with gamma 2 = %g, want 0.25", got)
	}

	ch.Gamma = 0.5
	if got := ch.Apply(0.25); got != 0.5 {
		t.Errorf("Apply(0.25) with gamma 0.5 = %g, want 0.5", got)
	}
}
