// Package levels implements intensity remapping of image sample buffers.
// A Spec maps an input window [low_in, high_in] onto an output window
// [low_out, high_out] with an optional gamma curve, either globally or
// independently per channel.
package levels

import "errors"

// Domain errors for remapping operations.
var (
	ErrInvalidSpec     = errors.New("invalid adjustment spec")
	ErrChannelMismatch = errors.New("adjustment spec channel count does not match buffer")
	ErrInvalidBuffer   = errors.New("invalid image buffer")
)
