// This file implements the extraction engine: unpacking one chapter archive
// into its per-chapter image directory. Extraction is idempotent by
// convention; re-extracting overwrites files of the same name, and callers
// use the chapter's is_downloaded flag to avoid redundant work.

package library

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/mholt/archives"

	"github.com/dmarreira/tankobon/internal/util"
)

// Extract decompresses the archive at archivePath into destDir, creating the
// directory (and parents) first. The archive's internal layout is preserved.
func Extract(ctx context.Context, archivePath, destDir string) error {
	f, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrArchiveUnreadable, archivePath, err)
	}
	defer f.Close()

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrDestinationUnwritable, destDir, err)
	}

	format, input, err := archives.Identify(ctx, filepath.Base(archivePath), f)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrArchiveUnreadable, archivePath, err)
	}
	extractor, ok := format.(archives.Extractor)
	if !ok {
		return fmt.Errorf("%w: %s: format %s cannot be extracted", ErrArchiveUnreadable, archivePath, format.Extension())
	}

	err = extractor.Extract(ctx, input, func(ctx context.Context, info archives.FileInfo) error {
		target, err := securePath(destDir, info.NameInArchive)
		if err != nil {
			return err
		}
		if info.IsDir() {
			return os.MkdirAll(target, 0755)
		}
		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return err
		}

		src, err := info.Open()
		if err != nil {
			return err
		}
		defer src.Close()

		dst, err := os.Create(target)
		if err != nil {
			return err
		}
		defer dst.Close()

		_, err = io.Copy(dst, src)
		return err
	})
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrExtractionFailed, archivePath, err)
	}
	return nil
}

// securePath joins an archive entry name onto the destination directory,
// rejecting entries that would escape it.
func securePath(destDir, nameInArchive string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(nameInArchive))
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) || filepath.IsAbs(clean) {
		return "", fmt.Errorf("archive entry %q escapes destination", nameInArchive)
	}
	return filepath.Join(destDir, clean), nil
}

// ListImages lists the page image files inside an extracted chapter
// directory in natural order. Pages may sit at the top level or inside an
// archive-preserved subdirectory.
func ListImages(chapterDir string) ([]string, error) {
	var images []string
	err := filepath.WalkDir(chapterDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && isImageFile(d.Name()) {
			images = append(images, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing images in %s: %w", chapterDir, err)
	}
	slices.SortFunc(images, func(a, b string) int {
		return util.NaturalCompare(filepath.Base(a), filepath.Base(b))
	})
	return images, nil
}

// isImageFile checks if a filename has a common image file extension.
func isImageFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".jpg" || ext == ".jpeg" || ext == ".png" || ext == ".gif" || ext == ".webp"
}
