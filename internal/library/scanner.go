// This file discovers chapter archives on disk and produces the canonical
// chapter order the rest of the pipeline depends on.

package library

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/dmarreira/tankobon/internal/util"
)

// IsSupportedArchive checks if a filename has a supported chapter archive
// extension.
func IsSupportedArchive(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".cbz" || ext == ".zip" || ext == ".cbr" || ext == ".rar" || ext == ".7z"
}

// ListArchives lists the chapter archive files directly inside dir
// (non-recursive), in natural order.
func ListArchives(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("listing archives in %s: %w", dir, err)
	}

	var archives []string
	for _, entry := range entries {
		if entry.IsDir() || !IsSupportedArchive(entry.Name()) {
			continue
		}
		archives = append(archives, filepath.Join(dir, entry.Name()))
	}

	slices.SortFunc(archives, func(a, b string) int {
		return util.NaturalCompare(filepath.Base(a), filepath.Base(b))
	})
	return archives, nil
}

// OrderByChapterNumber re-sorts archive paths ascending by the numeric token
// embedded in each basename, so "Chapter 10" follows "Chapter 2". A filename
// without a number fails the whole ordering: the resulting list is zipped
// against the series' chapter metadata, and a silent gap would desynchronize
// the two.
func OrderByChapterNumber(paths []string) ([]string, error) {
	type numbered struct {
		path string
		num  float64
	}

	items := make([]numbered, 0, len(paths))
	for _, p := range paths {
		n, err := util.ChapterNumber(filepath.Base(p))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidChapterName, err)
		}
		items = append(items, numbered{path: p, num: n})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].num < items[j].num
	})

	ordered := make([]string, len(items))
	for i, item := range items {
		ordered[i] = item.path
	}
	return ordered, nil
}

// ResolveDocumentPath locates the JSON metadata document for a series by
// scanning the documents directory. Both the raw and the sanitized name are
// accepted as the filename stem. Returns fs.ErrNotExist when no document
// matches.
func ResolveDocumentPath(docsDir, name string) (string, error) {
	exact := filepath.Join(docsDir, name+".json")
	if _, err := os.Stat(exact); err == nil {
		return exact, nil
	}

	entries, err := os.ReadDir(docsDir)
	if err != nil {
		return "", fmt.Errorf("document for %q: %w", name, fs.ErrNotExist)
	}
	sanitized := util.SanitizeName(name)
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		stem := strings.TrimSuffix(entry.Name(), ".json")
		if stem == name || stem == sanitized {
			return filepath.Join(docsDir, entry.Name()), nil
		}
	}
	return "", fmt.Errorf("document for %q: %w", name, fs.ErrNotExist)
}
