package codec

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/JaimeStill/imadjust/pkg/levels"
)

const (
	tagImageWidth      = 256
	tagImageLength     = 257
	tagBitsPerSample   = 258
	tagCompression     = 259
	tagPhotometric     = 262
	tagStripOffsets    = 273
	tagSamplesPerPixel = 277
	tagRowsPerStrip    = 278
	tagStripByteCounts = 279
	tagXResolution     = 282
	tagYResolution     = 283
	tagPlanarConfig    = 284
	tagResolutionUnit  = 296

	typeShort    = 3
	typeLong     = 4
	typeRational = 5

	compressionDeflate = 8
	photometricRGB     = 2
	planarContig       = 1
	resolutionPerInch  = 2
	dotsPerInch        = 72

	tiffHeaderLen = 8
	rgbEntryCount = 13
)

type ifdEntry struct {
	tag   uint16
	typ   uint16
	count uint32
	value uint32
}

// writeRGBTIFF writes a three-sample RGB TIFF as one deflate strip.
// x/image/tiff stores every colour image with an alpha sample, which would
// turn an h×w×3 input into an h×w×4 output.
func writeRGBTIFF(w io.Writer, buf *levels.Buffer) error {
	if buf.Channels != 3 {
		return fmt.Errorf("%w: rgb tiff needs 3 channels, got %d", levels.ErrInvalidBuffer, buf.Channels)
	}

	bits := 8
	if buf.Depth != levels.Depth8 {
		bits = 16
	}
	sample := sampler(buf)

	var strip bytes.Buffer
	zw := zlib.NewWriter(&strip)
	row := make([]byte, 0, buf.Width*3*bits/8)
	for y := 0; y < buf.Height; y++ {
		row = row[:0]
		for x := 0; x < buf.Width; x++ {
			for c := range 3 {
				v := sample(x, y, c)
				if bits == 8 {
					row = append(row, uint8(v))
				} else {
					row = binary.LittleEndian.AppendUint16(row, v)
				}
			}
		}
		if _, err := zw.Write(row); err != nil {
			return err
		}
	}
	if err := zw.Close(); err != nil {
		return err
	}

	stripLen := uint32(strip.Len())
	ifdOffset := tiffHeaderLen + stripLen
	pad := ifdOffset % 2
	ifdOffset += pad

	// BitsPerSample and both resolutions follow the IFD.
	extra := ifdOffset + 2 + 12*rgbEntryCount + 4

	entries := [rgbEntryCount]ifdEntry{
		{tagImageWidth, typeLong, 1, uint32(buf.Width)},
		{tagImageLength, typeLong, 1, uint32(buf.Height)},
		{tagBitsPerSample, typeShort, 3, extra},
		{tagCompression, typeShort, 1, compressionDeflate},
		{tagPhotometric, typeShort, 1, photometricRGB},
		{tagStripOffsets, typeLong, 1, tiffHeaderLen},
		{tagSamplesPerPixel, typeShort, 1, 3},
		{tagRowsPerStrip, typeLong, 1, uint32(buf.Height)},
		{tagStripByteCounts, typeLong, 1, stripLen},
		{tagXResolution, typeRational, 1, extra + 6},
		{tagYResolution, typeRational, 1, extra + 14},
		{tagPlanarConfig, typeShort, 1, planarContig},
		{tagResolutionUnit, typeShort, 1, resolutionPerInch},
	}

	le := binary.LittleEndian

	header := []byte{'I', 'I'}
	header = le.AppendUint16(header, 42)
	header = le.AppendUint32(header, ifdOffset)
	if _, err := w.Write(header); err != nil {
		return err
	}
	if _, err := strip.WriteTo(w); err != nil {
		return err
	}

	ifd := make([]byte, pad, pad+extra-ifdOffset+22)
	ifd = le.AppendUint16(ifd, rgbEntryCount)
	for _, e := range entries {
		ifd = le.AppendUint16(ifd, e.tag)
		ifd = le.AppendUint16(ifd, e.typ)
		ifd = le.AppendUint32(ifd, e.count)
		ifd = le.AppendUint32(ifd, e.value)
	}
	ifd = le.AppendUint32(ifd, 0)
	for range 3 {
		ifd = le.AppendUint16(ifd, uint16(bits))
	}
	for range 2 {
		ifd = le.AppendUint32(ifd, dotsPerInch)
		ifd = le.AppendUint32(ifd, 1)
	}

	_, err := w.Write(ifd)
	return err
}
