package verify

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/png"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	"iconforge/pngenc"

	"github.com/alecthomas/kong"
)

type CLICmd struct {
	Scan string `help:"Folder holding the generated icons" default:"icons"`
}

func (c *CLICmd) Validate(kctx *kong.Context) error {
	scanDir, err := filepath.Abs(c.Scan)
	var info os.FileInfo
	if err == nil {
		if info, err = os.Stat(scanDir); err == nil && !info.IsDir() {
			err = fmt.Errorf("not a directory")
		}
	}
	if err != nil {
		return fmt.Errorf("invalid scan path %q: %w", c.Scan, err)
	}
	c.Scan = scanDir

	return nil
}

func (c *CLICmd) Run() error {
	files, err := filepath.Glob(filepath.Join(c.Scan, "*.png"))
	if err != nil {
		return fmt.Errorf("unable to read folder %q: %w", c.Scan, err)
	}

	var okCount, errCount int
	for _, name := range files {
		if err := File(name); err != nil {
			errCount++
			slog.Error("invalid icon", "file", name, "error", err)
			continue
		}
		okCount++
		slog.Debug("valid icon", "file", name)
	}

	slog.Info("stats", "valid", okCount, "invalid", errCount, "total", okCount+errCount)

	if len(files) == 0 {
		return fmt.Errorf("no icons found in %q", c.Scan)
	}
	if errCount > 0 {
		return fmt.Errorf("%d invalid icons", errCount)
	}
	return nil
}

var sizeSuffix = regexp.MustCompile(`^icon(?:-[a-z]+)*-(\d+)\.png$`)

// File checks that name is a well-formed PNG the standard decoder accepts,
// and that icons named after a size are square at that size.
func File(name string) error {
	data, err := os.ReadFile(name)
	if err != nil {
		return fmt.Errorf("could not read %q: %w", name, err)
	}

	chunks, err := pngenc.ReadChunks(bytes.NewReader(data))
	if err != nil {
		return err
	}
	if err := checkLayout(chunks); err != nil {
		return err
	}

	conf, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("could not decode: %w", err)
	} else if format != "png" {
		return fmt.Errorf("decoded as %s", format)
	}

	if m := sizeSuffix.FindStringSubmatch(filepath.Base(name)); m != nil {
		size, _ := strconv.Atoi(m[1])
		if conf.Width != size || conf.Height != size {
			return fmt.Errorf("dimensions %dx%d, want %dx%d", conf.Width, conf.Height, size, size)
		}
	}

	return nil
}

var errLayout = errors.New("unexpected chunk layout")

func checkLayout(chunks []pngenc.Chunk) error {
	if len(chunks) < 3 {
		return fmt.Errorf("%w: only %d chunks", errLayout, len(chunks))
	}
	if first := chunks[0]; first.Type != pngenc.TypeIHDR || len(first.Data) != 13 {
		return fmt.Errorf("%w: first chunk %s with %d bytes", errLayout, first.Type, len(first.Data))
	}
	if last := chunks[len(chunks)-1]; last.Type != pngenc.TypeIEND || len(last.Data) != 0 {
		return fmt.Errorf("%w: last chunk %s with %d bytes", errLayout, last.Type, len(last.Data))
	}
	for _, c := range chunks[1 : len(chunks)-1] {
		if c.Type == pngenc.TypeIDAT {
			return nil
		}
	}
	return fmt.Errorf("%w: no IDAT chunk", errLayout)
}
