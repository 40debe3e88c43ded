package main

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

// writeSplitPNG writes a 16x16 image whose left and right halves have
// the given brightness, enough structure for the pixel embedder to
// tell classes apart.
func writeSplitPNG(t *testing.T, path string, left, right uint8) {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			luma := left
			if x >= 8 {
				luma = right
			}
			img.Set(x, y, color.Gray{Y: luma})
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatalf("write png: %v", err)
	}
}

// setupSamples builds a samples folder with two visually distinct
// classes and returns its path.
func setupSamples(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	writeSplitPNG(t, filepath.Join(root, "cats", "a.png"), 230, 10)
	writeSplitPNG(t, filepath.Join(root, "cats", "b.png"), 220, 20)
	writeSplitPNG(t, filepath.Join(root, "cats", "c.png"), 240, 15)
	writeSplitPNG(t, filepath.Join(root, "dogs", "a.png"), 10, 230)
	writeSplitPNG(t, filepath.Join(root, "dogs", "b.png"), 20, 220)
	writeSplitPNG(t, filepath.Join(root, "dogs", "c.png"), 15, 240)

	return root
}

// missingConfig returns a config path that does not exist, so commands
// run on defaults instead of the user's real config.
func missingConfig(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "config.yml")
}
