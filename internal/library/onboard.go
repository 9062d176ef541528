// This file builds series documents from source archive directories. A
// series is onboarded once, when its directory first appears under the
// library root; from then on the document is the source of truth and is only
// mutated, never rebuilt.

package library

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/dmarreira/tankobon/internal/models"
	"github.com/dmarreira/tankobon/internal/util"
)

// DocumentWriter is the slice of the metadata store onboarding needs.
type DocumentWriter interface {
	Write(series *models.Series) error
	ListSeries() ([]*models.Series, error)
	DocumentPath(name string) string
}

// CreateSeries scans archivesDir and persists a new series document for it.
// Chapter ids are the zero-based position in the ordered archive list, and
// the resume pointer starts at zero: nothing extracted yet.
func CreateSeries(docs DocumentWriter, archivesDir string) (*models.Series, error) {
	name := filepath.Base(archivesDir)

	archives, err := ListArchives(archivesDir)
	if err != nil {
		return nil, err
	}
	if len(archives) == 0 {
		return nil, fmt.Errorf("no chapter archives in %s", archivesDir)
	}
	ordered, err := OrderByChapterNumber(archives)
	if err != nil {
		return nil, fmt.Errorf("onboarding %q: %w", name, err)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	chapters := make([]*models.Chapter, len(ordered))
	for i, archivePath := range ordered {
		base := filepath.Base(archivePath)
		chapterName := base[:len(base)-len(filepath.Ext(base))]
		createDate := now
		if info, err := os.Stat(archivePath); err == nil {
			createDate = info.ModTime().UTC().Format(time.RFC3339)
		}
		chapters[i] = &models.Chapter{
			ID:            int64(i),
			Name:          chapterName,
			SanitizedName: util.SanitizeName(chapterName),
			ArchivePath:   archivePath,
			CreateDate:    createDate,
		}
	}

	series := &models.Series{
		ID:            nextSeriesID(docs),
		Name:          name,
		SanitizedName: util.SanitizeName(name),
		ArchivesPath:  archivesDir,
		DataPath:      docs.DocumentPath(util.SanitizeName(name)),
		TotalChapters: len(chapters),
		CreatedAt:     now,
		Chapters:      chapters,
		Metadata:      models.SeriesMetadata{Status: models.StatusInProgress},
		Comments:      []string{},
	}
	if err := docs.Write(series); err != nil {
		return nil, fmt.Errorf("persisting new series %q: %w", name, err)
	}
	return series, nil
}

// SyncLibrary onboards every directory under libraryRoot that has chapter
// archives but no series document yet. Returns the names of newly onboarded
// series.
func SyncLibrary(docs DocumentWriter, docsDir, libraryRoot string) ([]string, error) {
	entries, err := os.ReadDir(libraryRoot)
	if err != nil {
		return nil, fmt.Errorf("scanning library root %s: %w", libraryRoot, err)
	}

	var onboarded []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		name := entry.Name()
		if _, err := ResolveDocumentPath(docsDir, name); err == nil {
			continue // already onboarded
		}
		archivesDir := filepath.Join(libraryRoot, name)
		series, err := CreateSeries(docs, archivesDir)
		if err != nil {
			log.Printf("Skipping %s: %v", archivesDir, err)
			continue
		}
		onboarded = append(onboarded, series.Name)
	}
	return onboarded, nil
}

// nextSeriesID allocates the next numeric series id from the documents that
// already exist.
func nextSeriesID(docs DocumentWriter) int64 {
	all, err := docs.ListSeries()
	if err != nil {
		return 1
	}
	var max int64
	for _, s := range all {
		if s.ID > max {
			max = s.ID
		}
	}
	return max + 1
}
