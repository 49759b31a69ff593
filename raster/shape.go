package raster

import (
	"image"
	"slices"
)

// Shape is a single draw operation applied to a Buffer.
type Shape interface {
	Draw(b *Buffer)
	Fill() Color
}

type Circle struct {
	Center image.Point
	Radius int
	Color  Color
}

func (c Circle) Draw(b *Buffer) { FillCircle(b, c.Center.X, c.Center.Y, c.Radius, c.Color) }
func (c Circle) Fill() Color    { return c.Color }

type Triangle struct {
	Vertices [3]image.Point
	Color    Color
}

func (t Triangle) Draw(b *Buffer) { FillTriangle(b, t.Vertices, t.Color) }
func (t Triangle) Fill() Color    { return t.Color }

// FillCircle overwrites every pixel whose squared distance to (cx, cy) is
// at most radius². No blending is done.
func FillCircle(b *Buffer, cx, cy, radius int, c Color) {
	if radius < 0 {
		return
	}

	minY, maxY := max(0, cy-radius), min(b.Height(), cy+radius+1)
	minX, maxX := max(0, cx-radius), min(b.Width(), cx+radius+1)
	r2 := radius * radius
	for y := minY; y < maxY; y++ {
		dy := y - cy
		for x := minX; x < maxX; x++ {
			dx := x - cx
			if dx*dx+dy*dy <= r2 {
				b.SetPixel(x, y, c)
			}
		}
	}
}

// FillTriangle scanline-fills the triangle, alpha blending c over the
// existing pixels. Edge intersections are truncated toward zero, so steep
// edges may be off by one pixel. A triangle with no vertical extent draws
// nothing.
func FillTriangle(b *Buffer, vertices [3]image.Point, c Color) {
	pts := vertices
	slices.SortStableFunc(pts[:], func(p, q image.Point) int { return p.Y - q.Y })

	top, bottom := pts[0].Y, pts[2].Y
	if top == bottom {
		return
	}

	edges := [3][2]image.Point{{pts[0], pts[1]}, {pts[1], pts[2]}, {pts[2], pts[0]}}
	xs := make([]int, 0, 3)
	for y := max(top, 0); y <= bottom && y < b.Height(); y++ {
		xs = xs[:0]
		for _, e := range edges {
			p1, p2 := e[0], e[1]
			if p1.Y == p2.Y {
				continue
			}
			if y < min(p1.Y, p2.Y) || y > max(p1.Y, p2.Y) {
				continue
			}
			t := float64(y-p1.Y) / float64(p2.Y-p1.Y)
			xs = append(xs, int(float64(p1.X)+t*float64(p2.X-p1.X)))
		}
		if len(xs) < 2 {
			continue
		}

		left, right := slices.Min(xs), slices.Max(xs)
		for x := max(left, 0); x <= right && x < b.Width(); x++ {
			b.Blend(x, y, c)
		}
	}
}

// Draw applies shapes in order, later shapes compositing over earlier ones.
func Draw(b *Buffer, shapes ...Shape) {
	for _, s := range shapes {
		s.Draw(b)
	}
}
