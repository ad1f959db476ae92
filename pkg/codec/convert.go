package codec

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/JaimeStill/imadjust/pkg/levels"
)

// FromImage converts a decoded image into a Buffer.
// Gray images produce one channel; opaque color images produce three and
// images with transparency four. 16-bit source types keep 16-bit depth,
// everything else is read at 8 bits.
func FromImage(img image.Image) *levels.Buffer {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	depth := depthOf(img)
	channels := channelsOf(img)

	shift := uint(0)
	if depth == levels.Depth8 {
		shift = 8
	}

	buf := &levels.Buffer{
		Width:    w,
		Height:   h,
		Channels: channels,
		Depth:    depth,
		Pix:      make([]float64, w*h*channels),
	}

	read := reader(img)
	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if channels == 1 {
				g := color.Gray16Model.Convert(img.At(x, y)).(color.Gray16)
				buf.Pix[i] = float64(g.Y >> shift)
				i++
				continue
			}

			c := read(x, y)
			buf.Pix[i] = float64(c.R >> shift)
			buf.Pix[i+1] = float64(c.G >> shift)
			buf.Pix[i+2] = float64(c.B >> shift)
			if channels == 4 {
				buf.Pix[i+3] = float64(c.A >> shift)
			}
			i += channels
		}
	}

	return buf
}

// ToImage converts a Buffer into an image.Image suitable for the standard encoders.
// Floating point buffers are quantized to 16 bits.
func ToImage(buf *levels.Buffer) (image.Image, error) {
	if err := buf.Validate(); err != nil {
		return nil, err
	}

	rect := image.Rect(0, 0, buf.Width, buf.Height)
	sample := sampler(buf)
	wide := buf.Depth != levels.Depth8

	switch buf.Channels {
	case 1:
		if wide {
			img := image.NewGray16(rect)
			for y := 0; y < buf.Height; y++ {
				for x := 0; x < buf.Width; x++ {
					img.SetGray16(x, y, color.Gray16{Y: sample(x, y, 0)})
				}
			}
			return img, nil
		}
		img := image.NewGray(rect)
		for y := 0; y < buf.Height; y++ {
			for x := 0; x < buf.Width; x++ {
				img.SetGray(x, y, color.Gray{Y: uint8(sample(x, y, 0))})
			}
		}
		return img, nil

	case 3:
		if wide {
			img := image.NewRGBA64(rect)
			for y := 0; y < buf.Height; y++ {
				for x := 0; x < buf.Width; x++ {
					img.SetRGBA64(x, y, color.RGBA64{
						R: sample(x, y, 0), G: sample(x, y, 1), B: sample(x, y, 2), A: 0xffff,
					})
				}
			}
			return img, nil
		}
		img := image.NewRGBA(rect)
		for y := 0; y < buf.Height; y++ {
			for x := 0; x < buf.Width; x++ {
				img.SetRGBA(x, y, color.RGBA{
					R: uint8(sample(x, y, 0)), G: uint8(sample(x, y, 1)), B: uint8(sample(x, y, 2)), A: 0xff,
				})
			}
		}
		return img, nil

	case 4:
		if wide {
			img := image.NewNRGBA64(rect)
			for y := 0; y < buf.Height; y++ {
				for x := 0; x < buf.Width; x++ {
					img.SetNRGBA64(x, y, color.NRGBA64{
						R: sample(x, y, 0), G: sample(x, y, 1), B: sample(x, y, 2), A: sample(x, y, 3),
					})
				}
			}
			return img, nil
		}
		img := image.NewNRGBA(rect)
		for y := 0; y < buf.Height; y++ {
			for x := 0; x < buf.Width; x++ {
				img.SetNRGBA(x, y, color.NRGBA{
					R: uint8(sample(x, y, 0)), G: uint8(sample(x, y, 1)), B: uint8(sample(x, y, 2)), A: uint8(sample(x, y, 3)),
				})
			}
		}
		return img, nil
	}

	return nil, fmt.Errorf("%w: %d channels", levels.ErrInvalidBuffer, buf.Channels)
}

func sampler(buf *levels.Buffer) func(x, y, c int) uint16 {
	if buf.Depth.Integer() {
		return func(x, y, c int) uint16 {
			return uint16(buf.At(x, y, c))
		}
	}
	return func(x, y, c int) uint16 {
		return uint16(math.Round(buf.At(x, y, c) * 0xffff))
	}
}

// reader returns non-premultiplied samples, reading NRGBA sources directly
// so straight alpha survives without a premultiply round trip.
func reader(img image.Image) func(x, y int) color.NRGBA64 {
	switch m := img.(type) {
	case *image.NRGBA:
		return func(x, y int) color.NRGBA64 {
			c := m.NRGBAAt(x, y)
			return color.NRGBA64{
				R: uint16(c.R) * 0x101,
				G: uint16(c.G) * 0x101,
				B: uint16(c.B) * 0x101,
				A: uint16(c.A) * 0x101,
			}
		}
	case *image.NRGBA64:
		return m.NRGBA64At
	default:
		return func(x, y int) color.NRGBA64 {
			return color.NRGBA64Model.Convert(img.At(x, y)).(color.NRGBA64)
		}
	}
}

func depthOf(img image.Image) levels.Depth {
	switch img.(type) {
	case *image.Gray16, *image.RGBA64, *image.NRGBA64:
		return levels.Depth16
	default:
		return levels.Depth8
	}
}

func channelsOf(img image.Image) int {
	switch img.(type) {
	case *image.Gray, *image.Gray16:
		return 1
	}
	if o, ok := img.(interface{ Opaque() bool }); ok && o.Opaque() {
		return 3
	}
	return 4
}
