// Package pngenc writes 8-bit non-interlaced RGBA PNG streams.
//
// Scanlines are stored unfiltered (filter type 0) in a single IDAT chunk.
// That is not the smallest possible encoding, but it is simple and more
// than adequate for icon-sized images.
package pngenc

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
	"io"
	"math"
)

const (
	bitDepth  = 8
	colorRGBA = 6

	// maxLength is the largest chunk length and image dimension PNG allows.
	maxLength = math.MaxInt32
)

// CompressionLevel follows image/png's enum, except that the zero value
// asks for the smallest output.
type CompressionLevel int

const (
	BestCompression    CompressionLevel = 0
	DefaultCompression CompressionLevel = -1
	BestSpeed          CompressionLevel = -2
	NoCompression      CompressionLevel = -3
)

type Encoder struct {
	CompressionLevel CompressionLevel
}

// Encode writes pix, a width*height*4 slice of non-premultiplied RGBA
// bytes in row-major order, as a PNG stream.
func Encode(w io.Writer, width, height int, pix []byte) error {
	var e Encoder
	return e.Encode(w, width, height, pix)
}

// EncodeImage converts any image to non-premultiplied RGBA and encodes it.
func EncodeImage(w io.Writer, img image.Image) error {
	var e Encoder
	return e.EncodeImage(w, img)
}

func (e *Encoder) level() (int, error) {
	switch e.CompressionLevel {
	case BestCompression:
		return zlib.BestCompression, nil
	case DefaultCompression:
		return zlib.DefaultCompression, nil
	case BestSpeed:
		return zlib.BestSpeed, nil
	case NoCompression:
		return zlib.NoCompression, nil
	default:
		return 0, fmt.Errorf("unsupported compression level %d", e.CompressionLevel)
	}
}

func (e *Encoder) Encode(w io.Writer, width, height int, pix []byte) error {
	if width <= 0 || height <= 0 || width > maxLength || height > maxLength {
		return fmt.Errorf("invalid image dimensions %dx%d", width, height)
	}
	if want := width * height * 4; len(pix) != want {
		return fmt.Errorf("pixel buffer holds %d bytes, want %d for %dx%d", len(pix), want, width, height)
	}

	// Nothing reaches w unless the image data compressed fine.
	data, err := e.compress(width, height, pix)
	if err != nil {
		return err
	}

	if err := writeBytes(w, Signature[:]); err != nil {
		return fmt.Errorf("could not write signature: %w", err)
	}

	if err := writeChunk(w, TypeIHDR, header(width, height)); err != nil {
		return err
	}

	if err := writeChunk(w, TypeIDAT, data); err != nil {
		return err
	}

	return writeChunk(w, TypeIEND, nil)
}

func (e *Encoder) EncodeImage(w io.Writer, img image.Image) error {
	b := img.Bounds()
	pix := make([]byte, 0, b.Dx()*b.Dy()*4)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			pix = append(pix, c.R, c.G, c.B, c.A)
		}
	}
	return e.Encode(w, b.Dx(), b.Dy(), pix)
}

func header(width, height int) []byte {
	ihdr := make([]byte, 0, 13)
	ihdr = binary.BigEndian.AppendUint32(ihdr, uint32(width))
	ihdr = binary.BigEndian.AppendUint32(ihdr, uint32(height))
	// bit depth, color type, compression, filter, interlace
	return append(ihdr, bitDepth, colorRGBA, 0, 0, 0)
}

func (e *Encoder) compress(width, height int, pix []byte) ([]byte, error) {
	level, err := e.level()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	zw, err := zlib.NewWriterLevel(&buf, level)
	if err != nil {
		return nil, fmt.Errorf("could not create compressor: %w", err)
	}

	stride := width * 4
	filter := []byte{0}
	for y := range height {
		if _, err := zw.Write(filter); err != nil {
			return nil, fmt.Errorf("could not compress row %d: %w", y, err)
		}
		if _, err := zw.Write(pix[y*stride : (y+1)*stride]); err != nil {
			return nil, fmt.Errorf("could not compress row %d: %w", y, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("could not flush compressor: %w", err)
	}
	return buf.Bytes(), nil
}
