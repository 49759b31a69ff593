package generate

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"

	"iconforge/icon"
	"iconforge/parallel"
	"iconforge/pngenc"
)

func run(t *testing.T, c *CLICmd, workers int) error {
	t.Helper()
	if err := c.Validate(nil); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	pool := parallel.Start(workers)
	return c.Run(pool.Do, pool.Wait)
}

func defaults(out string) *CLICmd {
	return &CLICmd{
		Out:      out,
		Sizes:    []int{16, 32, 48, 128},
		Variants: []string{"normal", "recording"},
	}
}

func TestRunCreatesAllIcons(t *testing.T) {
	out := filepath.Join(t.TempDir(), "icons")
	if err := run(t, defaults(out), 4); err != nil {
		t.Fatalf("Run: %v", err)
	}

	entries, err := os.ReadDir(out)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	var got []string
	for _, e := range entries {
		got = append(got, e.Name())
	}
	want := []string{
		"icon-128.png", "icon-16.png", "icon-32.png", "icon-48.png",
		"icon-recording-128.png", "icon-recording-16.png", "icon-recording-32.png", "icon-recording-48.png",
	}
	slices.Sort(got)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("output files mismatch (-want +got):\n%s", diff)
	}

	for _, name := range want {
		data, err := os.ReadFile(filepath.Join(out, name))
		if err != nil {
			t.Fatalf("ReadFile: %v", err)
		}
		if _, err := pngenc.ReadChunks(bytes.NewReader(data)); err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}
}

func TestRunIdempotent(t *testing.T) {
	a, b := t.TempDir(), t.TempDir()
	if err := run(t, defaults(a), 1); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if err := run(t, defaults(b), 3); err != nil {
		t.Fatalf("second run: %v", err)
	}
	// Overwriting in place must also be stable.
	if err := run(t, defaults(a), 2); err != nil {
		t.Fatalf("rerun: %v", err)
	}

	for _, v := range icon.Variants {
		for _, size := range icon.Sizes {
			name := v.FileName(size)
			x, err := os.ReadFile(filepath.Join(a, name))
			if err != nil {
				t.Fatal(err)
			}
			y, err := os.ReadFile(filepath.Join(b, name))
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(x, y) {
				t.Errorf("%s differs between runs", name)
			}
		}
	}
}

func TestRunSubset(t *testing.T) {
	out := t.TempDir()
	c := &CLICmd{Out: out, Sizes: []int{64, 24, 64}, Variants: []string{"recording"}}
	if err := run(t, c, 1); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if diff := cmp.Diff([]int{24, 64}, c.Sizes); diff != "" {
		t.Errorf("sizes not normalized (-want +got):\n%s", diff)
	}

	f, err := os.Open(filepath.Join(out, "icon-recording-64.png"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("png.Decode: %v", err)
	}
	if got := img.Bounds(); got != image.Rect(0, 0, 64, 64) {
		t.Errorf("bounds %v", got)
	}
	if _, err := os.Stat(filepath.Join(out, "icon-64.png")); !os.IsNotExist(err) {
		t.Errorf("normal variant written although not requested: %v", err)
	}
}

func TestRunUnwritableDestination(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := run(t, defaults(filepath.Join(blocker, "icons")), 2); err == nil {
		t.Error("expected an error when the destination cannot be created")
	}
}

func TestRunAlwaysWaits(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		cmd  *CLICmd
	}{
		{"unwritable destination", defaults(filepath.Join(blocker, "icons"))},
		{"unknown variant", &CLICmd{Out: t.TempDir(), Sizes: []int{16}, Variants: []string{"normal", "paused"}}},
		{"success", defaults(t.TempDir())},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool := parallel.Start(2)
			waits := 0
			wait := func() error {
				waits++
				return pool.Wait()
			}

			_ = tt.cmd.Run(pool.Do, wait)
			if waits != 1 {
				t.Errorf("pool waited %d times, want 1", waits)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		cmd  CLICmd
	}{
		{"no sizes", CLICmd{Out: "icons", Variants: []string{"normal"}}},
		{"zero size", CLICmd{Out: "icons", Sizes: []int{0}, Variants: []string{"normal"}}},
		{"unknown variant", CLICmd{Out: "icons", Sizes: []int{16}, Variants: []string{"paused"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cmd.Validate(nil); err == nil {
				t.Error("expected a validation error")
			}
		})
	}
}

func TestWriteLeavesNoTempFiles(t *testing.T) {
	out := t.TempDir()
	if err := Write(filepath.Join(out, "icon-16.png"), icon.Normal, 16); err != nil {
		t.Fatalf("Write: %v", err)
	}

	entries, err := os.ReadDir(out)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "icon-16.png" {
		t.Errorf("unexpected folder contents: %v", entries)
	}
}
