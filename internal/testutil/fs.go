// Shared filesystem fixtures for tests: chapter archives and page images.

package testutil

import (
	"archive/zip"
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

// CreateTestCBZ creates a CBZ file with the given page names (empty
// content). Returns the archive path.
func CreateTestCBZ(t *testing.T, dir, name string, pages []string) string {
	t.Helper()
	filePath := filepath.Join(dir, name)
	file, err := os.Create(filePath)
	if err != nil {
		t.Fatalf("Failed to create temp cbz file: %v", err)
	}
	defer file.Close()

	zipWriter := zip.NewWriter(file)
	defer zipWriter.Close()

	for _, page := range pages {
		if _, err := zipWriter.Create(page); err != nil {
			t.Fatalf("Failed to create entry '%s' in zip: %v", page, err)
		}
	}
	return filePath
}

// PNGBytes encodes a solid-color PNG with the given dimensions. The cover
// selector reads real image headers, so fixtures need real pixels.
func PNGBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 200, B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("Failed to encode png: %v", err)
	}
	return buf.Bytes()
}

// CreateTestPNG writes a PNG with the given dimensions to path.
func CreateTestPNG(t *testing.T, path string, width, height int) {
	t.Helper()
	if err := os.WriteFile(path, PNGBytes(t, width, height), 0644); err != nil {
		t.Fatalf("Failed to write png %s: %v", path, err)
	}
}

// CreateTestCBZWithImages creates a CBZ whose pages are real PNGs with the
// given dimensions, named page_01.png, page_02.png, ...
func CreateTestCBZWithImages(t *testing.T, dir, name string, dims [][2]int) string {
	t.Helper()
	filePath := filepath.Join(dir, name)
	file, err := os.Create(filePath)
	if err != nil {
		t.Fatalf("Failed to create temp cbz file: %v", err)
	}
	defer file.Close()

	zipWriter := zip.NewWriter(file)
	defer zipWriter.Close()

	for i, d := range dims {
		w, err := zipWriter.Create(fmt.Sprintf("page_%02d.png", i+1))
		if err != nil {
			t.Fatalf("Failed to create page entry: %v", err)
		}
		if _, err := w.Write(PNGBytes(t, d[0], d[1])); err != nil {
			t.Fatalf("Failed to write page data: %v", err)
		}
	}
	return filePath
}
