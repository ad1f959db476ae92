// Package codec converts image files to and from levels.Buffer.
// The container format is inferred from the file extension: TIFF, PNG, JPEG, and BMP
// are supported.
package codec

import "errors"

// Codec errors.
var (
	ErrUnsupportedFormat     = errors.New("unsupported image format")
	ErrCorruptFile           = errors.New("corrupt image file")
	ErrWritePermissionDenied = errors.New("write permission denied")
)
