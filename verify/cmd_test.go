package verify

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"iconforge/generate"
	"iconforge/icon"
	"iconforge/pngenc"
)

func TestFileAcceptsGeneratedIcons(t *testing.T) {
	dir := t.TempDir()
	for _, v := range icon.Variants {
		for _, size := range icon.Sizes {
			path := filepath.Join(dir, v.FileName(size))
			if err := generate.Write(path, v, size); err != nil {
				t.Fatalf("Write: %v", err)
			}
			if err := File(path); err != nil {
				t.Errorf("%s: %v", v.FileName(size), err)
			}
		}
	}

	c := &CLICmd{Scan: dir}
	if err := c.Validate(nil); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if err := c.Run(); err != nil {
		t.Errorf("Run: %v", err)
	}
}

func TestFileSizeMismatch(t *testing.T) {
	dir := t.TempDir()
	if err := generate.Write(filepath.Join(dir, "icon-48.png"), icon.Normal, 32); err != nil {
		t.Fatalf("Write: %v", err)
	}

	if err := File(filepath.Join(dir, "icon-48.png")); err == nil {
		t.Error("32px icon named icon-48.png accepted")
	}
}

func TestFileCorrupt(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "icon-16.png")
	if err := generate.Write(path, icon.Normal, 16); err != nil {
		t.Fatalf("Write: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	data[len(data)-20] ^= 0x55 // inside IDAT
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	if err := File(path); !errors.Is(err, pngenc.ErrChecksum) {
		t.Errorf("got %v, want ErrChecksum", err)
	}

	c := &CLICmd{Scan: dir}
	if err := c.Run(); err == nil {
		t.Error("Run accepted a corrupt icon")
	}
}

func TestFileStandardEncoderOutput(t *testing.T) {
	// A PNG written by image/png is fine as long as it follows the layout.
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewNRGBA(image.Rect(0, 0, 20, 20))); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "logo.png")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := File(path); err != nil {
		t.Errorf("File: %v", err)
	}
}

func TestCheckLayout(t *testing.T) {
	ihdr := pngenc.Chunk{Type: pngenc.TypeIHDR, Data: make([]byte, 13)}
	idat := pngenc.Chunk{Type: pngenc.TypeIDAT}
	iend := pngenc.Chunk{Type: pngenc.TypeIEND}

	tests := []struct {
		name   string
		chunks []pngenc.Chunk
		ok     bool
	}{
		{"valid", []pngenc.Chunk{ihdr, idat, iend}, true},
		{"split IDAT", []pngenc.Chunk{ihdr, idat, idat, iend}, true},
		{"missing IDAT", []pngenc.Chunk{ihdr, {Type: pngenc.ChunkType{'t', 'E', 'X', 't'}}, iend}, false},
		{"IEND first", []pngenc.Chunk{iend, ihdr, idat}, false},
		{"IEND with data", []pngenc.Chunk{ihdr, idat, {Type: pngenc.TypeIEND, Data: []byte{1}}}, false},
		{"too short", []pngenc.Chunk{ihdr, iend}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkLayout(tt.chunks)
			if tt.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.ok && !errors.Is(err, errLayout) {
				t.Errorf("got %v, want errLayout", err)
			}
		})
	}
}

func TestValidateMissingFolder(t *testing.T) {
	c := &CLICmd{Scan: filepath.Join(t.TempDir(), "nope")}
	if err := c.Validate(nil); err == nil {
		t.Error("missing folder accepted")
	}
}
