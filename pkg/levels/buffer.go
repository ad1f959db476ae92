package levels

import (
	"fmt"
	"math"
)

// Depth is the per-sample storage depth of a Buffer.
type Depth int

// Supported sample depths.
const (
	Depth8     Depth = 8
	Depth16    Depth = 16
	DepthFloat Depth = 32
)

// Max returns the largest representable sample value for the depth.
// Floating point buffers are normalized to [0, 1].
func (d Depth) Max() float64 {
	switch d {
	case Depth8:
		return 255
	case Depth16:
		return 65535
	default:
		return 1
	}
}

// Integer reports whether samples of this depth are stored as integers.
func (d Depth) Integer() bool {
	return d == Depth8 || d == Depth16
}

// Validate checks if the depth is supported.
func (d Depth) Validate() error {
	switch d {
	case Depth8, Depth16, DepthFloat:
		return nil
	default:
		return fmt.Errorf("%w: unsupported depth %d", ErrInvalidBuffer, d)
	}
}

func (d Depth) String() string {
	if d == DepthFloat {
		return "float"
	}
	return fmt.Sprintf("%d-bit", int(d))
}

// Buffer holds decoded image samples interleaved in row-major order.
// The sample for pixel (x, y) and channel c lives at (y*Width+x)*Channels + c.
type Buffer struct {
	Width    int
	Height   int
	Channels int
	Depth    Depth
	Pix      []float64
}

// NewBuffer allocates a zeroed buffer of the given shape.
func NewBuffer(width, height, channels int, depth Depth) (*Buffer, error) {
	b := &Buffer{
		Width:    width,
		Height:   height,
		Channels: channels,
		Depth:    depth,
	}
	if err := b.validateShape(); err != nil {
		return nil, err
	}
	b.Pix = make([]float64, width*height*channels)
	return b, nil
}

// Len returns the number of samples the shape requires.
func (b *Buffer) Len() int {
	return b.Width * b.Height * b.Channels
}

// At returns the sample at (x, y) for channel c.
func (b *Buffer) At(x, y, c int) float64 {
	return b.Pix[(y*b.Width+x)*b.Channels+c]
}

// Validate checks the buffer shape and that every sample lies in the
// representable range of its depth. Integer depths require integral samples.
func (b *Buffer) Validate() error {
	if err := b.validateShape(); err != nil {
		return err
	}
	if len(b.Pix) != b.Len() {
		return fmt.Errorf("%w: %d samples for %dx%dx%d", ErrInvalidBuffer, len(b.Pix), b.Width, b.Height, b.Channels)
	}

	limit := b.Depth.Max()
	integer := b.Depth.Integer()
	for i, v := range b.Pix {
		if math.IsNaN(v) || v < 0 || v > limit {
			return fmt.Errorf("%w: sample %d out of range [0, %g]", ErrInvalidBuffer, i, limit)
		}
		if integer && v != math.Trunc(v) {
			return fmt.Errorf("%w: sample %d is not integral", ErrInvalidBuffer, i)
		}
	}
	return nil
}

func (b *Buffer) validateShape() error {
	if b.Width <= 0 || b.Height <= 0 {
		return fmt.Errorf("%w: dimensions %dx%d", ErrInvalidBuffer, b.Width, b.Height)
	}
	switch b.Channels {
	case 1, 3, 4:
	default:
		return fmt.Errorf("%w: channel count %d (must be 1, 3, or 4)", ErrInvalidBuffer, b.Channels)
	}
	return b.Depth.Validate()
}
