package codec

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"io/fs"
	"os"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/JaimeStill/imadjust/pkg/levels"
)

// JPEGQuality is the quality used when writing JPEG files.
const JPEGQuality = 95

// Decode reads the image file at path into a Buffer.
func Decode(path string) (*levels.Buffer, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	return DecodeReader(f, format)
}

// DecodeReader decodes an image of the given format from r.
func DecodeReader(r io.Reader, format Format) (*levels.Buffer, error) {
	var (
		img image.Image
		err error
	)

	switch format {
	case TIFF:
		img, err = tiff.Decode(r)
	case PNG:
		img, err = png.Decode(r)
	case JPEG:
		img, err = jpeg.Decode(r)
	case BMP:
		img, err = bmp.Decode(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	if err != nil {
		return nil, classifyDecode(format, err)
	}

	return FromImage(img), nil
}

// Encode writes buf to path, creating or truncating the file.
func Encode(buf *levels.Buffer, path string) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return fmt.Errorf("%w: %s", ErrWritePermissionDenied, path)
		}
		return fmt.Errorf("create image: %w", err)
	}

	if err := EncodeWriter(f, buf, format); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}

// EncodeWriter encodes buf in the given format to w.
func EncodeWriter(w io.Writer, buf *levels.Buffer, format Format) error {
	bw := bufio.NewWriter(w)

	if err := encode(bw, buf, format); err != nil {
		return err
	}

	if err := bw.Flush(); err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return fmt.Errorf("%w: %w", ErrWritePermissionDenied, err)
		}
		return fmt.Errorf("flush %s: %w", format, err)
	}
	return nil
}

func encode(w io.Writer, buf *levels.Buffer, format Format) error {
	if format == TIFF && buf.Channels == 3 {
		if err := buf.Validate(); err != nil {
			return err
		}
		if err := writeRGBTIFF(w, buf); err != nil {
			return fmt.Errorf("encode %s: %w", format, err)
		}
		return nil
	}

	img, err := ToImage(buf)
	if err != nil {
		return err
	}

	switch format {
	case TIFF:
		err = tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	case PNG:
		err = png.Encode(w, img)
	case JPEG:
		err = jpeg.Encode(w, img, &jpeg.Options{Quality: JPEGQuality})
	case BMP:
		err = bmp.Encode(w, img)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	if err != nil {
		return fmt.Errorf("encode %s: %w", format, err)
	}
	return nil
}

func classifyDecode(format Format, err error) error {
	var (
		tiffUnsupported tiff.UnsupportedError
		pngUnsupported  png.UnsupportedError
		jpegUnsupported jpeg.UnsupportedError
	)

	switch {
	case errors.As(err, &tiffUnsupported),
		errors.As(err, &pngUnsupported),
		errors.As(err, &jpegUnsupported),
		errors.Is(err, bmp.ErrUnsupported):
		return fmt.Errorf("%w: %s: %w", ErrUnsupportedFormat, format, err)
	default:
		return fmt.Errorf("%w: %s: %w", ErrCorruptFile, format, err)
	}
}
