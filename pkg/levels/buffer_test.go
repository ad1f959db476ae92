package levels_test

import (
	"errors"
	"testing"

	"github.com/JaimeStill/imadjust/pkg/levels"
)

func TestNewBuffer(t *testing.T) {
	tests := []struct {
		name     string
		width    int
		height   int
		channels int
		depth    levels.Depth
		wantErr  bool
	}{
		{"gray 8-bit", 4, 3, 1, levels.Depth8, false},
		{"rgb 16-bit", 2, 2, 3, levels.Depth16, false},
		{"rgba float", 1, 1, 4, levels.DepthFloat, false},
		{"two channels", 2, 2, 2, levels.Depth8, true},
		{"zero width", 0, 2, 1, levels.Depth8, true},
		{"unsupported depth", 2, 2, 1, levels.Depth(12), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf, err := levels.NewBuffer(tt.width, tt.height, tt.channels, tt.depth)

			if tt.wantErr {
				if !errors.Is(err, levels.ErrInvalidBuffer) {
					t.Errorf("NewBuffer() error = %v, want ErrInvalidBuffer", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewBuffer() failed: %v", err)
			}
			if len(buf.Pix) != tt.width*tt.height*tt.channels {
				t.Errorf("len(Pix) = %d, want %d", len(buf.Pix), tt.width*tt.height*tt.channels)
			}
		})
	}
}

func TestBuffer_At(t *testing.T) {
	buf, _ := levels.NewBuffer(3, 2, 3, levels.Depth8)

	buf.Pix[(1*3+2)*3+1] = 200

	if got := buf.At(2, 1, 1); got != 200 {
		t.Errorf("At(2, 1, 1) = %g, want 200", got)
	}
	if got := buf.At(1, 1, 1); got != 0 {
		t.Errorf("At(1, 1, 1) = %g, want 0", got)
	}
}

func TestBuffer_Validate(t *testing.T) {
	tests := []struct {
		name string
		buf  *levels.Buffer
	}{
		{
			"short pix",
			&levels.Buffer{Width: 2, Height: 2, Channels: 1, Depth: levels.Depth8, Pix: []float64{0, 0, 0}},
		},
		{
			"sample above 8-bit range",
			&levels.Buffer{Width: 1, Height: 1, Channels: 1, Depth: levels.Depth8, Pix: []float64{256}},
		},
		{
			"fractional integer sample",
			&levels.Buffer{Width: 1, Height: 1, Channels: 1, Depth: levels.Depth16, Pix: []float64{1.5}},
		},
		{
			"float sample above one",
			&levels.Buffer{Width: 1, Height: 1, Channels: 1, Depth: levels.DepthFloat, Pix: []float64{1.01}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.buf.Validate(); !errors.Is(err, levels.ErrInvalidBuffer) {
				t.Errorf("Validate() error = %v, want ErrInvalidBuffer", err)
			}
		})
	}
}

func TestDepth_Max(t *testing.T) {
	if got := levels.Depth8.Max(); got != 255 {
		t.Errorf("Depth8.Max() = %g, want 255", got)
	}
	if got := levels.Depth16.Max(); got != 65535 {
		t.Errorf("Depth16.Max() = %g, want 65535", got)
	}
	if got := levels.DepthFloat.Max(); got != 1 {
		t.Errorf("DepthFloat.Max() = %g, want 1", got)
	}
}
