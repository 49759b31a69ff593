package generate

import (
	"fmt"
	"os"
	"path/filepath"

	"iconforge/icon"
	"iconforge/pngenc"
)

// Write renders one icon and stores it at path. The PNG goes to a
// temporary file in the same folder first, so path either holds a complete
// icon or is left as it was.
func Write(path string, v icon.Variant, size int) (err error) {
	destDir, destName := filepath.Split(path)

	outFile, err := os.CreateTemp(destDir, destName+".*")
	if err != nil {
		return fmt.Errorf("could not create temporary destination %q: %w", destName, err)
	}
	canRename := false
	defer func() {
		if defErr := outFile.Sync(); defErr != nil && err == nil {
			err = fmt.Errorf("could not flush temporary destination %q: %w", destName, defErr)
		}
		if defErr := outFile.Close(); defErr != nil && err == nil {
			err = fmt.Errorf("could not close temporary destination %q: %w", destName, defErr)
		}

		if canRename && err == nil {
			if defErr := os.Rename(outFile.Name(), path); defErr != nil {
				err = fmt.Errorf("could not rename destination file %q: %w", destName, defErr)
			}
		}
		if err != nil {
			os.Remove(outFile.Name())
		}
	}()

	if err = os.Chmod(outFile.Name(), 0o644); err != nil {
		return fmt.Errorf("could not set permissions on %q: %w", destName, err)
	}

	b := v.Render(size)
	if err = pngenc.Encode(outFile, b.Width(), b.Height(), b.Pix); err != nil {
		return fmt.Errorf("could not encode PNG destination %q: %w", destName, err)
	}

	canRename = true
	return nil
}
