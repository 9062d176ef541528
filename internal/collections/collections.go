// Package collections manages named groupings of series. Each collection is
// its own JSON document under a "collections" subdirectory of the data path,
// versioned the same way series documents are.
package collections

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmarreira/tankobon/internal/models"
	"github.com/dmarreira/tankobon/internal/store"
	"github.com/dmarreira/tankobon/internal/util"
)

// Service persists collection documents and resolves series references
// through the document store.
type Service struct {
	dir string
	st  *store.Store
}

// New creates a Service storing collections under <dataDir>/collections.
func New(dataDir string, st *store.Store) *Service {
	return &Service{dir: filepath.Join(dataDir, "collections"), st: st}
}

func (s *Service) path(name string) string {
	return filepath.Join(s.dir, util.SanitizeName(name)+".json")
}

// Create writes a new empty collection. Creating a collection that already
// exists is an error.
func (s *Service) Create(name, description string) (*models.Collection, error) {
	if strings.TrimSpace(name) == "" {
		return nil, errors.New("collection name must not be empty")
	}
	if _, err := os.Stat(s.path(name)); err == nil {
		return nil, fmt.Errorf("collection %q already exists", name)
	}
	c := &models.Collection{
		Name:        name,
		Description: description,
		Series:      []*models.SeriesSummary{},
		Comments:    []string{},
	}
	if err := s.write(c); err != nil {
		return nil, err
	}
	return c, nil
}

// Get reads one collection by name.
func (s *Service) Get(name string) (*models.Collection, error) {
	data, err := os.ReadFile(s.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("collection %q: %w", name, store.ErrNotFound)
		}
		return nil, err
	}
	var c models.Collection
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("collection %q: %w: %v", name, store.ErrCorruptData, err)
	}
	return &c, nil
}

// List returns all collections, skipping unreadable documents.
func (s *Service) List() ([]*models.Collection, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var out []*models.Collection
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			continue
		}
		var c models.Collection
		if err := json.Unmarshal(data, &c); err != nil {
			continue
		}
		out = append(out, &c)
	}
	return out, nil
}

// AddSeries looks the series up in the store and appends its summary to the
// collection. Adding a series twice is a no-op.
func (s *Service) AddSeries(collectionName, seriesName string) (*models.Collection, error) {
	c, err := s.Get(collectionName)
	if err != nil {
		return nil, err
	}
	for _, summary := range c.Series {
		if summary.Name == seriesName {
			return c, nil
		}
	}
	series, err := s.st.ReadByName(seriesName)
	if err != nil {
		return nil, err
	}
	c.Series = append(c.Series, &models.SeriesSummary{
		ID:            series.ID,
		Name:          series.Name,
		CoverImage:    series.CoverImage,
		SeriesPath:    series.DataPath,
		TotalChapters: series.TotalChapters,
		Status:        series.Metadata.Status,
		RecommendedBy: series.Metadata.RecommendedBy,
		OriginalOwner: series.Metadata.OriginalOwner,
	})
	if err := s.write(c); err != nil {
		return nil, err
	}
	return c, nil
}

// RemoveSeries drops a series from a collection. Removing a series that is
// not in the collection is a no-op.
func (s *Service) RemoveSeries(collectionName, seriesName string) (*models.Collection, error) {
	c, err := s.Get(collectionName)
	if err != nil {
		return nil, err
	}
	kept := c.Series[:0]
	for _, summary := range c.Series {
		if summary.Name != seriesName {
			kept = append(kept, summary)
		}
	}
	if len(kept) == len(c.Series) {
		return c, nil
	}
	c.Series = kept
	if err := s.write(c); err != nil {
		return nil, err
	}
	return c, nil
}

// AddComment appends a comment to the collection document.
func (s *Service) AddComment(collectionName, comment string) (*models.Collection, error) {
	c, err := s.Get(collectionName)
	if err != nil {
		return nil, err
	}
	c.Comments = append(c.Comments, comment)
	if err := s.write(c); err != nil {
		return nil, err
	}
	return c, nil
}

// Delete removes a collection document. The referenced series are untouched.
func (s *Service) Delete(name string) error {
	if err := os.Remove(s.path(name)); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("collection %q: %w", name, store.ErrNotFound)
		}
		return err
	}
	return nil
}

// write persists the document with the same compare-and-increment version
// check the series store uses.
func (s *Service) write(c *models.Collection) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("creating collections directory: %w", err)
	}
	if existing, err := s.Get(c.Name); err == nil {
		if existing.Version != c.Version {
			return fmt.Errorf("collection %q version %d is stale: %w", c.Name, c.Version, store.ErrConflict)
		}
	}
	c.Version++
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		c.Version--
		return fmt.Errorf("marshaling collection %q: %w", c.Name, err)
	}
	if err := os.WriteFile(s.path(c.Name), data, 0644); err != nil {
		c.Version--
		return fmt.Errorf("writing collection %q: %w", c.Name, err)
	}
	return nil
}
