package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dmarreira/tankobon/internal/models"
)

// NewSeries builds a series document whose chapters map one-to-one onto the
// given archive paths, in order.
func NewSeries(t *testing.T, docsDir, name string, archives []string) *models.Series {
	t.Helper()
	chapters := make([]*models.Chapter, len(archives))
	for i, archivePath := range archives {
		base := filepath.Base(archivePath)
		chapterName := strings.TrimSuffix(base, filepath.Ext(base))
		chapters[i] = &models.Chapter{
			ID:            int64(i),
			Name:          chapterName,
			SanitizedName: chapterName,
			ArchivePath:   archivePath,
			CreateDate:    "2026-01-02T15:04:05Z",
		}
	}
	archivesPath := ""
	if len(archives) > 0 {
		archivesPath = filepath.Dir(archives[0])
	}
	return &models.Series{
		ID:            1,
		Name:          name,
		SanitizedName: name,
		ArchivesPath:  archivesPath,
		DataPath:      filepath.Join(docsDir, name+".json"),
		TotalChapters: len(chapters),
		CreatedAt:     "2026-01-02T15:04:05Z",
		Chapters:      chapters,
		Metadata:      models.SeriesMetadata{Status: models.StatusInProgress},
		Comments:      []string{},
	}
}

// WriteSeriesDoc persists a series document directly, bypassing the store.
func WriteSeriesDoc(t *testing.T, series *models.Series) {
	t.Helper()
	data, err := json.MarshalIndent(series, "", "  ")
	if err != nil {
		t.Fatalf("Failed to marshal series doc: %v", err)
	}
	if err := os.WriteFile(series.DataPath, data, 0644); err != nil {
		t.Fatalf("Failed to write series doc: %v", err)
	}
}
