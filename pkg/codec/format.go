package codec

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format identifies an image container.
type Format string

// Supported formats.
const (
	TIFF Format = "tiff"
	PNG  Format = "png"
	JPEG Format = "jpeg"
	BMP  Format = "bmp"
)

// ParseFormat parses a format name or file extension, case-insensitively.
// A leading dot is accepted.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "tif", "tiff":
		return TIFF, nil
	case "png":
		return PNG, nil
	case "jpg", "jpeg":
		return JPEG, nil
	case "bmp":
		return BMP, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// FormatFromPath infers the format from the extension of path.
func FormatFromPath(path string) (Format, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return "", fmt.Errorf("%w: %s has no extension", ErrUnsupportedFormat, filepath.Base(path))
	}
	return ParseFormat(ext)
}
