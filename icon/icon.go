// Package icon holds the drawing recipes for the extension's toolbar icons.
package icon

import (
	"fmt"
	"image"
	"slices"

	"iconforge/raster"
)

// Sizes are the icon sizes the extension manifest references.
var Sizes = []int{16, 32, 48, 128}

type Recipe func(size int) []raster.Shape

type Variant struct {
	Name   string
	Prefix string
	Recipe Recipe
}

var (
	Normal    = Variant{Name: "normal", Prefix: "icon", Recipe: normal}
	Recording = Variant{Name: "recording", Prefix: "icon-recording", Recipe: recording}
)

var Variants = []Variant{Normal, Recording}

func Lookup(name string) (Variant, error) {
	i := slices.IndexFunc(Variants, func(v Variant) bool { return v.Name == name })
	if i < 0 {
		return Variant{}, fmt.Errorf("unknown icon variant %q", name)
	}
	return Variants[i], nil
}

func (v Variant) FileName(size int) string {
	return fmt.Sprintf("%s-%d.png", v.Prefix, size)
}

// Render draws the variant onto a fresh transparent size×size buffer.
func (v Variant) Render(size int) *raster.Buffer {
	b := raster.NewBuffer(size, size)
	raster.Draw(b, v.Recipe(size)...)
	return b
}

// Colors returns the distinct fill colors of the recipe at size, in
// drawing order.
func (v Variant) Colors(size int) []raster.Color {
	var res []raster.Color
	for _, s := range v.Recipe(size) {
		if c := s.Fill(); !slices.Contains(res, c) {
			res = append(res, c)
		}
	}
	return res
}

var (
	blueDark  = raster.Hex(0x1e40af)
	blueLight = raster.Hex(0x3b82f6)
	red       = raster.Hex(0xef4444)
	redDark   = raster.Hex(0x7f1d1d)
	redPure   = raster.Hex(0xff0000)
	green     = raster.Hex(0x10b981)
	white     = raster.Hex(0xffffff)
)

func scale(size int, f float64) int {
	return int(float64(size) * f)
}

func disc(center, radius int, c raster.Color) raster.Circle {
	return raster.Circle{Center: image.Pt(center, center), Radius: radius, Color: c}
}

// ringed is the shared badge: an outer disc, a lighter border ring and an
// inner disc of the outer color.
func ringed(size int, base, border raster.Color) []raster.Shape {
	center := size / 2
	return []raster.Shape{
		disc(center, scale(size, 0.47), base),
		disc(center, scale(size, 0.45), border),
		disc(center, scale(size, 0.42), base),
	}
}

// cornerDots only shows up on 48px and larger.
func cornerDots(size int, c raster.Color) []raster.Shape {
	if size < 48 {
		return nil
	}

	r := max(2, size/25)
	m := scale(size, 0.23)
	var res []raster.Shape
	for _, p := range []image.Point{{m, m}, {size - m, m}, {m, size - m}, {size - m, size - m}} {
		res = append(res, raster.Circle{Center: p, Radius: r, Color: c})
	}
	return res
}

func normal(size int) []raster.Shape {
	center := size / 2
	shapes := ringed(size, blueDark, blueLight)
	shapes = append(shapes, disc(center, scale(size, 0.15), red))

	if size >= 32 {
		arrow := scale(size, 0.2)
		half := int(float64(arrow) * 0.7)
		shapes = append(shapes, raster.Triangle{
			Vertices: [3]image.Point{
				{center - arrow, center - half},
				{center - arrow, center + half},
				{center + arrow, center},
			},
			Color: white.WithAlpha(0xb0),
		})
	}

	return append(shapes, cornerDots(size, green)...)
}

func recording(size int) []raster.Shape {
	center := size / 2
	shapes := ringed(size, redDark, red)
	shapes = append(shapes, disc(center, scale(size, 0.2), redPure))

	if size >= 32 {
		shapes = append(shapes, disc(center, scale(size, 0.08), white))
	}

	return append(shapes, cornerDots(size, red)...)
}
