// This file implements the metadata store: one pretty-printed JSON document
// per series, read and written whole. There is no in-process cache; every
// read goes to disk so callers always see the latest committed state.

package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dmarreira/tankobon/internal/library"
	"github.com/dmarreira/tankobon/internal/models"
)

var (
	// ErrNotFound is returned when a series document does not exist.
	ErrNotFound = errors.New("series document not found")
	// ErrCorruptData is returned when a document cannot be parsed or fails
	// schema validation.
	ErrCorruptData = errors.New("series document is corrupt")
	// ErrConflict is returned when a write would clobber a newer version of
	// the document than the caller read.
	ErrConflict = errors.New("series document modified concurrently")
)

// Store persists series documents under a single documents directory.
type Store struct {
	dataDir string
}

// New creates a Store rooted at dataDir.
func New(dataDir string) *Store {
	return &Store{dataDir: dataDir}
}

// DataDir returns the documents directory.
func (s *Store) DataDir() string {
	return s.dataDir
}

// DocumentPath returns the canonical document location for a series name.
func (s *Store) DocumentPath(name string) string {
	return filepath.Join(s.dataDir, fmt.Sprintf("%s.json", name))
}

// ReadByPath loads and validates the series document at an exact path.
func (s *Store) ReadByPath(path string) (*models.Series, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("reading series document %s: %w", path, err)
	}

	var series models.Series
	if err := json.Unmarshal(data, &series); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorruptData, path, err)
	}
	if err := validate(&series, path); err != nil {
		return nil, err
	}
	return &series, nil
}

// ReadByName resolves a series document by name (via the archive scanner's
// path resolution) and loads it.
func (s *Store) ReadByName(name string) (*models.Series, error) {
	path, err := library.ResolveDocumentPath(s.dataDir, name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return s.ReadByPath(path)
}

// Write serializes the full document back to series.DataPath, pretty-printed,
// overwriting the previous content. The document's version field is checked
// against the on-disk version first; a mismatch means another writer got
// there since this copy was read, and the write fails with ErrConflict.
func (s *Store) Write(series *models.Series) error {
	if series.DataPath == "" {
		return fmt.Errorf("%w: series %q has no data_path", ErrCorruptData, series.Name)
	}

	if current, err := s.ReadByPath(series.DataPath); err == nil {
		if current.Version != series.Version {
			return fmt.Errorf("%w: %s (disk version %d, caller version %d)",
				ErrConflict, series.DataPath, current.Version, series.Version)
		}
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}
	series.Version++

	data, err := json.MarshalIndent(series, "", "  ")
	if err != nil {
		series.Version--
		return fmt.Errorf("marshaling series %q: %w", series.Name, err)
	}
	if err := os.WriteFile(series.DataPath, data, 0644); err != nil {
		series.Version--
		return fmt.Errorf("writing series document %s: %w", series.DataPath, err)
	}
	return nil
}

// LastDownloadIndex returns the series' resume pointer: the index of the
// next chapter to extract.
func (s *Store) LastDownloadIndex(series *models.Series) int {
	return series.Metadata.LastDownload
}

// ListSeries reads every series document in the documents directory.
// Unreadable documents are skipped so one corrupt file does not hide the
// rest of the library; callers that need strictness use ReadByPath.
func (s *Store) ListSeries() ([]*models.Series, error) {
	entries, err := os.ReadDir(s.dataDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("listing documents directory %s: %w", s.dataDir, err)
	}

	var all []*models.Series
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		series, err := s.ReadByPath(filepath.Join(s.dataDir, entry.Name()))
		if err != nil {
			continue
		}
		all = append(all, series)
	}
	return all, nil
}

// validate enforces the document schema at the read boundary, turning
// missing-field bugs into explicit errors instead of crashes downstream.
func validate(series *models.Series, path string) error {
	if series.Name == "" {
		return fmt.Errorf("%w: %s: missing name", ErrCorruptData, path)
	}
	if series.DataPath == "" {
		return fmt.Errorf("%w: %s: missing data_path", ErrCorruptData, path)
	}
	if filepath.Clean(series.DataPath) != filepath.Clean(path) {
		return fmt.Errorf("%w: %s: data_path %q disagrees with document location",
			ErrCorruptData, path, series.DataPath)
	}
	if series.Chapters == nil {
		return fmt.Errorf("%w: %s: missing chapters", ErrCorruptData, path)
	}
	if series.Metadata.LastDownload < 0 || series.Metadata.LastDownload > len(series.Chapters) {
		return fmt.Errorf("%w: %s: last_download %d outside [0, %d]",
			ErrCorruptData, path, series.Metadata.LastDownload, len(series.Chapters))
	}
	return nil
}
