// Package sheet lays every icon out on one image so the small sizes can be
// compared side by side.
package sheet

import (
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"os"
	"path/filepath"

	"iconforge/icon"
	"iconforge/pngenc"

	"github.com/alecthomas/kong"
	"golang.org/x/image/draw"
)

type CLICmd struct {
	Out        string      `help:"Destination PNG file" default:"icons/sheet.png"`
	Cell       int         `help:"Edge of each square cell in pixels" default:"128"`
	Padding    int         `help:"Gap around cells in pixels" default:"8"`
	Filter     string      `help:"Scaling filter" enum:"nearest,catmullrom" default:"nearest"`
	Background string      `help:"Sheet background as #RGB, #RGBA, #RRGGBB or #RRGGBBAA; transparent if empty"`
	Sizes      []int       `help:"Icon sizes, one column each" default:"16,32,48,128"`
	BgColor    color.Color `kong:"-"`
}

func (c *CLICmd) Validate(kctx *kong.Context) error {
	out, err := filepath.Abs(c.Out)
	if err != nil {
		return fmt.Errorf("invalid destination path %q: %w", c.Out, err)
	}
	c.Out = out

	switch {
	case c.Cell < 1:
		return fmt.Errorf("invalid cell size: %d", c.Cell)
	case c.Padding < 0:
		return fmt.Errorf("invalid padding: %d", c.Padding)
	case len(c.Sizes) == 0:
		return fmt.Errorf("no icon sizes given")
	}
	for _, size := range c.Sizes {
		if size < 1 {
			return fmt.Errorf("invalid icon size: %d", size)
		}
	}

	if c.Background != "" {
		if c.BgColor, err = parseHexToColor(c.Background); err != nil {
			return err
		}
	}

	return nil
}

func (c *CLICmd) Run() error {
	img := Render(icon.Variants, c.Sizes, c.Cell, c.Padding, scaler(c.Filter), c.BgColor)

	if err := os.MkdirAll(filepath.Dir(c.Out), 0o755); err != nil {
		return fmt.Errorf("unable to create destination folder %q: %w", filepath.Dir(c.Out), err)
	}

	outFile, err := os.Create(c.Out)
	if err != nil {
		return fmt.Errorf("could not open destination file %q: %w", c.Out, err)
	}
	defer func() {
		if closeErr := outFile.Close(); closeErr != nil {
			slog.Error("could not close destination file", "name", c.Out, "error", closeErr)
		}
	}()

	if err := pngenc.EncodeImage(outFile, img); err != nil {
		return fmt.Errorf("could not encode sheet %q: %w", c.Out, err)
	}
	if err := outFile.Sync(); err != nil {
		return fmt.Errorf("could not flush destination file %q: %w", c.Out, err)
	}

	b := img.Bounds()
	slog.Info("created", "file", c.Out, "width", b.Dx(), "height", b.Dy())
	return nil
}

func scaler(name string) draw.Scaler {
	if name == "catmullrom" {
		return draw.CatmullRom
	}
	return draw.NearestNeighbor
}

// Render places one row per variant and one column per size. Each icon is
// scaled to fill its cell.
func Render(variants []icon.Variant, sizes []int, cell, padding int, s draw.Scaler, bg color.Color) *image.NRGBA {
	stride := cell + padding
	sheet := image.NewNRGBA(image.Rect(0, 0, padding+len(sizes)*stride, padding+len(variants)*stride))
	if bg != nil {
		draw.Draw(sheet, sheet.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	}

	for row, v := range variants {
		for col, size := range sizes {
			src := v.Render(size)
			origin := image.Pt(padding+col*stride, padding+row*stride)
			dr := image.Rectangle{Min: origin, Max: origin.Add(image.Pt(cell, cell))}
			slog.Debug("placing icon", "variant", v.Name, "size", size, "rect", dr)
			s.Scale(sheet, dr, src, src.Bounds(), draw.Over, nil)
		}
	}

	return sheet
}
