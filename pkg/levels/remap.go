package levels

import "math"

// Remap applies spec to src and returns a new buffer of identical shape.
// src is never modified. Integer samples are rounded to the nearest
// representable value; floating point samples are left unrounded.
//
// The output buffer is the only allocation that outlives the call. Large
// integer buffers also build one lookup table per channel (256 or 65536
// entries), which is discarded before Remap returns.
func Remap(src *Buffer, spec Spec) (*Buffer, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}

	channels, err := spec.Resolve(src.Channels)
	if err != nil {
		return nil, err
	}

	dst := &Buffer{
		Width:    src.Width,
		Height:   src.Height,
		Channels: src.Channels,
		Depth:    src.Depth,
		Pix:      make([]float64, len(src.Pix)),
	}

	if !src.Depth.Integer() {
		for i, v := range src.Pix {
			dst.Pix[i] = channels[i%src.Channels].Apply(v)
		}
		return dst, nil
	}

	limit := src.Depth.Max()
	size := int(limit) + 1

	// Tables only pay off once there are more samples than entries.
	if len(src.Pix) < size*src.Channels {
		for i, v := range src.Pix {
			dst.Pix[i] = quantize(channels[i%src.Channels].Apply(v/limit), limit)
		}
		return dst, nil
	}

	tables := make([][]float64, src.Channels)
	for c, ch := range channels {
		table := make([]float64, size)
		for v := range table {
			table[v] = quantize(ch.Apply(float64(v)/limit), limit)
		}
		tables[c] = table
	}

	for i, v := range src.Pix {
		dst.Pix[i] = tables[i%src.Channels][int(v)]
	}
	return dst, nil
}

// quantize denormalizes v to [0, limit] and rounds to the nearest integer.
func quantize(v, limit float64) float64 {
	q := math.Round(v * limit)
	switch {
	case q < 0:
		return 0
	case q > limit:
		return limit
	}
	return q
}
