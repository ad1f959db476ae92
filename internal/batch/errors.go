// Package batch drives one adjustment run over a folder of images.
// Each matched file is decoded, remapped, and written to the output folder
// under its original name. Failures on one file are recorded and the run
// moves on to the next.
package batch

import "errors"

// Fatal errors stop the run before or while preparing it.
var (
	ErrConfiguration = errors.New("invalid batch configuration")
	ErrOutputFolder  = errors.New("output folder could not be created")
)

// Per-file errors are recorded in the Summary; the run continues.
var (
	ErrDecode       = errors.New("decode failed")
	ErrRemap        = errors.New("remap failed")
	ErrEncode       = errors.New("encode failed")
	ErrFileTooLarge = errors.New("file exceeds max_file_size")
)

// Kind names the failure class of a per-file error for log lines and summaries.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrDecode):
		return "decode"
	case errors.Is(err, ErrRemap):
		return "remap"
	case errors.Is(err, ErrEncode):
		return "encode"
	case errors.Is(err, ErrFileTooLarge):
		return "too_large"
	default:
		return "unknown"
	}
}
