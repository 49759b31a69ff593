package generate

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync/atomic"

	"iconforge/icon"
	"iconforge/parallel"

	"github.com/alecthomas/kong"
)

type CLICmd struct {
	Out      string   `help:"Destination folder for the icons" default:"icons"`
	Sizes    []int    `help:"Icon sizes to render" default:"16,32,48,128"`
	Variants []string `help:"Icon variants to render" enum:"normal,recording" default:"normal,recording"`
}

func (c *CLICmd) Validate(kctx *kong.Context) error {
	out, err := filepath.Abs(c.Out)
	if err != nil {
		return fmt.Errorf("invalid destination path %q: %w", c.Out, err)
	}
	c.Out = out

	if len(c.Sizes) == 0 {
		return fmt.Errorf("no icon sizes given")
	}
	for _, size := range c.Sizes {
		if size < 1 {
			return fmt.Errorf("invalid icon size: %d", size)
		}
	}
	slices.Sort(c.Sizes)
	c.Sizes = slices.Compact(c.Sizes)

	for _, name := range c.Variants {
		if _, err := icon.Lookup(name); err != nil {
			return err
		}
	}

	return nil
}

func (c *CLICmd) Run(worker parallel.WorkerFunc, wait parallel.WaitFunc) error {
	variants := make([]icon.Variant, 0, len(c.Variants))
	for _, name := range c.Variants {
		v, err := icon.Lookup(name)
		if err != nil {
			return errors.Join(err, wait())
		}
		variants = append(variants, v)
	}

	if err := os.MkdirAll(c.Out, 0o755); err != nil {
		err = fmt.Errorf("unable to create destination folder %q: %w", c.Out, err)
		return errors.Join(err, wait())
	}

	var createdCount, errCount atomic.Uint64
	for _, v := range variants {
		for _, size := range c.Sizes {
			worker(func() error {
				path := filepath.Join(c.Out, v.FileName(size))
				logger := slog.Default().With("file", path)

				if err := Write(path, v, size); err != nil {
					errCount.Add(1)
					logger.Error("could not create icon", "error", err)
					return err
				}

				createdCount.Add(1)
				logger.Info("created", "variant", v.Name, "size", size)
				return nil
			})
		}
	}

	err := wait()

	created := createdCount.Load()
	failed := errCount.Load()
	slog.Info("stats", "created", created, "errors", failed, "total", created+failed)

	if err != nil {
		return fmt.Errorf("error generating %d icons: %w", failed, err)
	}
	return nil
}
