package palette

import (
	"fmt"
	"image/color"
	"log/slog"
	"os"
	"path/filepath"

	"iconforge/icon"

	"github.com/alecthomas/kong"
)

type CLICmd struct {
	Out  string `help:"Destination PAL file" default:"icons/icons.pal"`
	Size int    `help:"Icon size whose recipe supplies the colors" default:"128"`
}

func (c *CLICmd) Validate(kctx *kong.Context) error {
	out, err := filepath.Abs(c.Out)
	if err != nil {
		return fmt.Errorf("invalid destination path %q: %w", c.Out, err)
	}
	c.Out = out

	if c.Size < 1 {
		return fmt.Errorf("invalid icon size: %d", c.Size)
	}
	return nil
}

func (c *CLICmd) Run() error {
	pals := Scheme(icon.Variants, c.Size)

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

	n, err := WriteTo(outFile, pals)
	if err != nil {
		return fmt.Errorf("could not save palette %q: %w", c.Out, err)
	}
	if err := outFile.Sync(); err != nil {
		return fmt.Errorf("could not flush destination file %q: %w", c.Out, err)
	}

	slog.Info("created", "file", c.Out, "palettes", len(pals), "bytes", n)
	return nil
}

// Scheme returns one palette per variant holding the distinct colors its
// recipe paints at size.
func Scheme(variants []icon.Variant, size int) []color.Palette {
	res := make([]color.Palette, 0, len(variants))
	for _, v := range variants {
		var pal color.Palette
		for _, c := range v.Colors(size) {
			pal = append(pal, c)
		}
		res = append(res, pal)
	}
	return res
}
