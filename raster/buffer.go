package raster

import (
	"image"
	"image/color"
)

// Color is a non-premultiplied RGBA value.
type Color struct {
	R, G, B, A uint8
}

func (c Color) RGBA() (uint32, uint32, uint32, uint32) {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}.RGBA()
}

// Hex builds a fully opaque color from 0xRRGGBB.
func Hex(rgb uint32) Color {
	return Color{R: uint8(rgb >> 16), G: uint8(rgb >> 8), B: uint8(rgb), A: 0xFF}
}

func (c Color) WithAlpha(a uint8) Color {
	c.A = a
	return c
}

type Buffer struct {
	// Pix holds the image's pixels, in R, G, B, A order and not
	// premultiplied. The pixel at (x, y) starts at Pix[y*Stride + x*4].
	Pix []uint8
	// Stride is the Pix stride (in bytes) between vertically adjacent pixels.
	Stride int
	// Rect is the image's bounds, always anchored at the origin.
	Rect image.Rectangle
}

// bytes per pixel: r, g, b, a uint8 = 4

func NewBuffer(width, height int) *Buffer {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Buffer{
		Pix:    make([]uint8, width*height*4),
		Stride: 4 * width,
		Rect:   image.Rect(0, 0, width, height),
	}
}

func (b *Buffer) Width() int  { return b.Rect.Dx() }
func (b *Buffer) Height() int { return b.Rect.Dy() }

func (b *Buffer) ColorModel() color.Model { return color.NRGBAModel }

func (b *Buffer) Bounds() image.Rectangle { return b.Rect }

func (b *Buffer) At(x, y int) color.Color {
	return b.NRGBAAt(x, y)
}

func (b *Buffer) NRGBAAt(x, y int) color.NRGBA {
	c := b.Pixel(x, y)
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

// RGBA64At returns the premultiplied color, as image.NRGBA does. Scalers in
// x/image/draw need it to take their fast paths.
func (b *Buffer) RGBA64At(x, y int) color.RGBA64 {
	r, g, bl, a := b.Pixel(x, y).RGBA()
	return color.RGBA64{R: uint16(r), G: uint16(g), B: uint16(bl), A: uint16(a)}
}

func (b *Buffer) SetRGBA64(x, y int, c color.RGBA64) {
	b.Set(x, y, c)
}

func (b *Buffer) Set(x, y int, c color.Color) {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	b.SetPixel(x, y, Color{R: n.R, G: n.G, B: n.B, A: n.A})
}

func (b *Buffer) contains(x, y int) bool {
	return x >= 0 && y >= 0 && x < b.Rect.Max.X && y < b.Rect.Max.Y
}

func (b *Buffer) offset(x, y int) int {
	return y*b.Stride + x*4
}

// Pixel returns the zero Color for coordinates outside the buffer.
func (b *Buffer) Pixel(x, y int) Color {
	if !b.contains(x, y) {
		return Color{}
	}
	i := b.offset(x, y)
	s := b.Pix[i : i+4 : i+4]
	return Color{R: s[0], G: s[1], B: s[2], A: s[3]}
}

// SetPixel silently drops writes outside the buffer.
func (b *Buffer) SetPixel(x, y int, c Color) {
	if !b.contains(x, y) {
		return
	}
	i := b.offset(x, y)
	s := b.Pix[i : i+4 : i+4]
	s[0], s[1], s[2], s[3] = c.R, c.G, c.B, c.A
}

// Blend composites c over the pixel at (x, y) using c's alpha as the
// coverage. The resulting alpha is the larger of the two.
func (b *Buffer) Blend(x, y int, c Color) {
	if !b.contains(x, y) {
		return
	}
	i := b.offset(x, y)
	s := b.Pix[i : i+4 : i+4]
	a := float64(c.A) / 255
	s[0] = mix(s[0], c.R, a)
	s[1] = mix(s[1], c.G, a)
	s[2] = mix(s[2], c.B, a)
	s[3] = max(s[3], c.A)
}

func mix(dst, src uint8, a float64) uint8 {
	return uint8(float64(dst)*(1-a) + float64(src)*a)
}

// Opaque reports the number of pixels with a non-zero alpha.
func (b *Buffer) Opaque() int {
	n := 0
	for i := 3; i < len(b.Pix); i += 4 {
		if b.Pix[i] != 0 {
			n++
		}
	}
	return n
}
