// This file implements the chapter ingestion pipeline: the orchestrator that
// walks a series' ordered archives, extracts them one at a time, and commits
// progress to the metadata document after every chapter. The per-chapter
// write bounds data loss on a crash to the chapter in flight, and makes the
// whole operation resumable from the last committed chapter.

package ingest

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/dmarreira/tankobon/internal/config"
	"github.com/dmarreira/tankobon/internal/library"
	"github.com/dmarreira/tankobon/internal/models"
	"github.com/dmarreira/tankobon/internal/store"
	"github.com/dmarreira/tankobon/internal/websocket"
)

// ErrInvalidChapterID is returned when a chapter id does not exist in the
// series being ingested.
var ErrInvalidChapterID = errors.New("invalid chapter id")

// Pipeline wires the archive scanner, the extraction engine and the metadata
// store together.
type Pipeline struct {
	cfg *config.Config
	st  *store.Store
	hub *websocket.Hub // nil when no one is listening
}

// New creates a Pipeline. hub may be nil.
func New(cfg *config.Config, st *store.Store, hub *websocket.Hub) *Pipeline {
	return &Pipeline{cfg: cfg, st: st, hub: hub}
}

// Ingest extracts up to quantity chapters of a series, resuming from the
// series' last_download pointer. The series may be identified by name or by
// the path of its document. Returns the path of the last chapter extracted,
// or "" when the series was already up to date.
//
// Extraction is strictly sequential: each chapter's metadata write completes
// before the next extraction starts, so the resume pointer always reflects
// the last fully committed chapter.
func (p *Pipeline) Ingest(ctx context.Context, nameOrPath string, quantity int) (string, error) {
	series, err := p.resolve(nameOrPath)
	if err != nil {
		return "", err
	}

	ordered, err := p.orderedArchives(series)
	if err != nil {
		return "", err
	}

	firstIndex := p.st.LastDownloadIndex(series)
	lastIndex := min(firstIndex+quantity, len(ordered))

	jobID := uuid.NewString()
	lastProcessed := ""
	for i := firstIndex; i < lastIndex; i++ {
		dest, err := p.extractChapter(ctx, series, series.Chapters[i], ordered[i])
		if err != nil {
			return lastProcessed, err
		}
		series.Metadata.LastDownload = i + 1
		if err := p.st.Write(series); err != nil {
			return lastProcessed, err
		}
		lastProcessed = dest

		p.sendProgress(jobID, series.Name,
			fmt.Sprintf("Extracted %s", series.Chapters[i].Name),
			float64(i+1-firstIndex)/float64(lastIndex-firstIndex)*100,
			i+1 == lastIndex)
	}
	return lastProcessed, nil
}

// IngestByID extracts a single chapter located by id within the series
// document at dataPath. The resume pointer only advances when the chapter
// extends the contiguous downloaded prefix; extracting ahead of the pointer
// must not make a later batch ingest skip the chapters in between.
func (p *Pipeline) IngestByID(ctx context.Context, dataPath string, chapterID int64) (string, error) {
	series, err := p.st.ReadByPath(dataPath)
	if err != nil {
		return "", err
	}

	var chapter *models.Chapter
	var index int
	for i, ch := range series.Chapters {
		if ch.ID == chapterID {
			chapter = ch
			index = i
			break
		}
	}
	if chapter == nil {
		return "", fmt.Errorf("%w: %d not in series %q (0..%d)",
			ErrInvalidChapterID, chapterID, series.Name, len(series.Chapters)-1)
	}

	dest, err := p.extractChapter(ctx, series, chapter, chapter.ArchivePath)
	if err != nil {
		return "", err
	}
	if index == series.Metadata.LastDownload {
		series.Metadata.LastDownload = index + 1
	}
	if err := p.st.Write(series); err != nil {
		return "", err
	}
	return dest, nil
}

// EnsureFirstChapter extracts the series' first chapter unless it already is
// on disk, and returns its directory.
func (p *Pipeline) EnsureFirstChapter(ctx context.Context, series *models.Series) (string, error) {
	if len(series.Chapters) == 0 {
		return "", fmt.Errorf("series %q has no chapters", series.Name)
	}
	first := series.Chapters[0]
	if first.IsDownloaded && first.ChapterPath != "" {
		return first.ChapterPath, nil
	}
	return p.IngestByID(ctx, series.DataPath, first.ID)
}

// extractChapter runs the extraction engine for one chapter and mutates the
// in-memory document. The caller persists it.
func (p *Pipeline) extractChapter(ctx context.Context, series *models.Series, chapter *models.Chapter, archivePath string) (string, error) {
	chaptersPath := p.chaptersPath(series)
	base := filepath.Base(archivePath)
	dest := filepath.Join(chaptersPath, strings.TrimSuffix(base, filepath.Ext(base)))

	if err := library.Extract(ctx, archivePath, dest); err != nil {
		return "", fmt.Errorf("series %q chapter %q: %w", series.Name, chapter.Name, err)
	}

	chapter.IsDownloaded = true
	chapter.ChapterPath = dest
	if series.ChaptersPath == "" {
		series.ChaptersPath = chaptersPath
	}
	return dest, nil
}

// chaptersPath derives the extraction root for a series:
// <images>/<name>/<name> chapters.
func (p *Pipeline) chaptersPath(series *models.Series) string {
	return filepath.Join(p.cfg.Storage.ImagesPath, series.Name, fmt.Sprintf("%s chapters", series.Name))
}

// orderedArchives lists and orders the series' archives and checks they are
// still consistent with the chapter metadata they were zipped against.
func (p *Pipeline) orderedArchives(series *models.Series) ([]string, error) {
	archives, err := library.ListArchives(series.ArchivesPath)
	if err != nil {
		return nil, err
	}
	ordered, err := library.OrderByChapterNumber(archives)
	if err != nil {
		return nil, fmt.Errorf("series %q: %w", series.Name, err)
	}
	if len(ordered) != len(series.Chapters) {
		return nil, fmt.Errorf("series %q has %d chapters on record but %d archives on disk",
			series.Name, len(series.Chapters), len(ordered))
	}
	return ordered, nil
}

// resolve loads a series by document path when given one, by name otherwise.
func (p *Pipeline) resolve(nameOrPath string) (*models.Series, error) {
	if strings.HasSuffix(nameOrPath, ".json") {
		return p.st.ReadByPath(nameOrPath)
	}
	return p.st.ReadByName(nameOrPath)
}

func (p *Pipeline) sendProgress(jobID, seriesName, message string, progress float64, done bool) {
	if p.hub == nil {
		return
	}
	status := "in_progress"
	if done {
		status = "completed"
	}
	p.hub.BroadcastJSON(models.ProgressUpdate{
		JobID:    jobID,
		Series:   seriesName,
		Message:  message,
		Progress: progress,
		Status:   status,
		Done:     done,
	})
	log.Printf("[%s] %s: %s", jobID, seriesName, message)
}
