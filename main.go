package main

import (
	"log/slog"
	"os"

	"iconforge/generate"
	"iconforge/palette"
	"iconforge/parallel"
	"iconforge/sheet"
	"iconforge/verify"

	"github.com/alecthomas/kong"
)

type cli struct {
	Workers int  `help:"Number of parallel workers, 0 for one per CPU" default:"0"`
	Debug   bool `help:"Log debug messages"`

	Generate generate.CLICmd `cmd:"" default:"withargs" help:"Render the normal and recording icons (default)"`
	Verify   verify.CLICmd   `cmd:"" help:"Check that a folder of icons holds valid PNGs of the right size"`
	Sheet    sheet.CLICmd    `cmd:"" help:"Render every icon onto one contact sheet"`
	Palette  palette.CLICmd  `cmd:"" help:"Export the icon color scheme as a RIFF PAL file"`
}

func main() {
	var c cli
	kctx := kong.Parse(&c,
		kong.Name("iconforge"),
		kong.Description("Generates the browser extension toolbar icons."),
		kong.UsageOnError(),
	)

	level := slog.LevelInfo
	if c.Debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	pool := parallel.Start(c.Workers)
	if err := kctx.Run(pool.Do, pool.Wait); err != nil {
		slog.Error("failed", "command", kctx.Command(), "error", err)
		os.Exit(1)
	}
}
