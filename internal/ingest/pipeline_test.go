package ingest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmarreira/tankobon/internal/config"
	"github.com/dmarreira/tankobon/internal/library"
	"github.com/dmarreira/tankobon/internal/models"
	"github.com/dmarreira/tankobon/internal/store"
	"github.com/dmarreira/tankobon/internal/testutil"
)

// setupSeries creates a library with one series of numChapters archives and
// a matching series document.
func setupSeries(t *testing.T, numChapters int) (*Pipeline, *store.Store, *models.Series) {
	t.Helper()
	root := t.TempDir()

	cfg := &config.Config{}
	cfg.Storage.DataPath = filepath.Join(root, "data")
	cfg.Storage.LibraryPath = filepath.Join(root, "library")
	cfg.Storage.ImagesPath = filepath.Join(root, "images")
	cfg.Storage.CoversPath = filepath.Join(root, "covers")
	for _, dir := range []string{cfg.Storage.DataPath, cfg.Storage.LibraryPath, cfg.Storage.ImagesPath, cfg.Storage.CoversPath} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("Failed to create %s: %v", dir, err)
		}
	}

	archivesDir := filepath.Join(cfg.Storage.LibraryPath, "Test Series")
	os.Mkdir(archivesDir, 0755)
	archives := make([]string, numChapters)
	for i := 0; i < numChapters; i++ {
		archives[i] = testutil.CreateTestCBZ(t, archivesDir,
			fmt.Sprintf("Chapter %d.cbz", i+1), []string{"01.jpg", "02.jpg"})
	}

	series := testutil.NewSeries(t, cfg.Storage.DataPath, "Test Series", archives)
	testutil.WriteSeriesDoc(t, series)

	st := store.New(cfg.Storage.DataPath)
	return New(cfg, st, nil), st, series
}

func TestIngestBatch(t *testing.T) {
	p, st, series := setupSeries(t, 12)

	lastPath, err := p.Ingest(context.Background(), "Test Series", 5)
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}
	if filepath.Base(lastPath) != "Chapter 5" {
		t.Errorf("expected last chapter path 'Chapter 5', got %s", lastPath)
	}

	got, err := st.ReadByPath(series.DataPath)
	if err != nil {
		t.Fatalf("ReadByPath failed: %v", err)
	}
	if got.Metadata.LastDownload != 5 {
		t.Errorf("expected last_download 5, got %d", got.Metadata.LastDownload)
	}
	for i, ch := range got.Chapters {
		wantDownloaded := i < 5
		if ch.IsDownloaded != wantDownloaded {
			t.Errorf("chapter %d: is_downloaded = %v, want %v", i, ch.IsDownloaded, wantDownloaded)
		}
		if wantDownloaded {
			if ch.ChapterPath == "" {
				t.Errorf("chapter %d: missing chapter_path", i)
			}
			if _, err := os.Stat(ch.ChapterPath); err != nil {
				t.Errorf("chapter %d: chapter_path does not exist: %v", i, err)
			}
		}
	}
	// One durable write per chapter: the version counts them.
	if got.Version != 5 {
		t.Errorf("expected 5 writes (version 5), got version %d", got.Version)
	}
	wantChaptersPath := filepath.Join(p.cfg.Storage.ImagesPath, "Test Series", "Test Series chapters")
	if got.ChaptersPath != wantChaptersPath {
		t.Errorf("unexpected chapters_path: %s", got.ChaptersPath)
	}
}

func TestIngestZeroIsNoop(t *testing.T) {
	p, st, series := setupSeries(t, 3)

	lastPath, err := p.Ingest(context.Background(), "Test Series", 0)
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}
	if lastPath != "" {
		t.Errorf("expected empty result, got %s", lastPath)
	}

	got, _ := st.ReadByPath(series.DataPath)
	if got.Version != 0 || got.Metadata.LastDownload != 0 {
		t.Errorf("document mutated by zero-quantity ingest: version %d, last_download %d",
			got.Version, got.Metadata.LastDownload)
	}
	if _, err := os.Stat(filepath.Join(p.cfg.Storage.ImagesPath, "Test Series")); !os.IsNotExist(err) {
		t.Error("filesystem mutated by zero-quantity ingest")
	}
}

func TestIngestClampsToRemaining(t *testing.T) {
	p, st, series := setupSeries(t, 3)

	if _, err := p.Ingest(context.Background(), "Test Series", 10); err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}
	got, _ := st.ReadByPath(series.DataPath)
	if got.Metadata.LastDownload != 3 {
		t.Errorf("expected last_download 3, got %d", got.Metadata.LastDownload)
	}

	// Already up to date: empty result, no error, no mutation.
	lastPath, err := p.Ingest(context.Background(), "Test Series", 2)
	if err != nil {
		t.Fatalf("Ingest on complete series failed: %v", err)
	}
	if lastPath != "" {
		t.Errorf("expected empty result for complete series, got %s", lastPath)
	}
	again, _ := st.ReadByPath(series.DataPath)
	if again.Version != got.Version {
		t.Error("complete series document rewritten")
	}
}

func TestIngestResumesWithoutReextracting(t *testing.T) {
	p, st, series := setupSeries(t, 4)

	if _, err := p.Ingest(context.Background(), "Test Series", 2); err != nil {
		t.Fatalf("first Ingest failed: %v", err)
	}
	got, _ := st.ReadByPath(series.DataPath)
	firstPage := filepath.Join(got.Chapters[0].ChapterPath, "01.jpg")
	past := time.Now().Add(-time.Hour)
	if err := os.Chtimes(firstPage, past, past); err != nil {
		t.Fatalf("Chtimes failed: %v", err)
	}

	if _, err := p.Ingest(context.Background(), "Test Series", 2); err != nil {
		t.Fatalf("second Ingest failed: %v", err)
	}
	info, err := os.Stat(firstPage)
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if !info.ModTime().Equal(past) {
		t.Error("chapter 1 was re-extracted on resume")
	}
	final, _ := st.ReadByPath(series.DataPath)
	if final.Metadata.LastDownload != 4 {
		t.Errorf("expected last_download 4, got %d", final.Metadata.LastDownload)
	}
}

func TestIngestByDocumentPath(t *testing.T) {
	p, _, series := setupSeries(t, 2)
	lastPath, err := p.Ingest(context.Background(), series.DataPath, 1)
	if err != nil {
		t.Fatalf("Ingest by path failed: %v", err)
	}
	if filepath.Base(lastPath) != "Chapter 1" {
		t.Errorf("unexpected last path: %s", lastPath)
	}
}

func TestIngestUnknownSeries(t *testing.T) {
	p, _, _ := setupSeries(t, 1)
	if _, err := p.Ingest(context.Background(), "No Such Series", 1); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestIngestCorruptArchiveStopsAtFailure(t *testing.T) {
	p, st, series := setupSeries(t, 3)
	// Corrupt the second archive; the first should still commit.
	os.WriteFile(series.Chapters[1].ArchivePath, []byte("garbage"), 0644)

	lastPath, err := p.Ingest(context.Background(), "Test Series", 3)
	if !errors.Is(err, library.ErrArchiveUnreadable) {
		t.Fatalf("expected ErrArchiveUnreadable, got %v", err)
	}
	if filepath.Base(lastPath) != "Chapter 1" {
		t.Errorf("expected last successful path 'Chapter 1', got %s", lastPath)
	}

	got, _ := st.ReadByPath(series.DataPath)
	if got.Metadata.LastDownload != 1 {
		t.Errorf("resume pointer should stay at the last committed chapter, got %d", got.Metadata.LastDownload)
	}
}

func TestIngestArchiveMismatch(t *testing.T) {
	p, _, series := setupSeries(t, 3)
	os.Remove(series.Chapters[2].ArchivePath)

	if _, err := p.Ingest(context.Background(), "Test Series", 1); err == nil {
		t.Error("expected error when archives and chapter metadata disagree")
	}
}

func TestIngestByID(t *testing.T) {
	p, st, series := setupSeries(t, 3)

	// Out-of-order extraction does not advance the resume pointer.
	dest, err := p.IngestByID(context.Background(), series.DataPath, 2)
	if err != nil {
		t.Fatalf("IngestByID failed: %v", err)
	}
	if filepath.Base(dest) != "Chapter 3" {
		t.Errorf("unexpected destination: %s", dest)
	}
	got, _ := st.ReadByPath(series.DataPath)
	if !got.Chapters[2].IsDownloaded {
		t.Error("chapter 3 not marked downloaded")
	}
	if got.Metadata.LastDownload != 0 {
		t.Errorf("out-of-order extraction moved the resume pointer to %d", got.Metadata.LastDownload)
	}

	// Extending the contiguous prefix does advance it.
	if _, err := p.IngestByID(context.Background(), series.DataPath, 0); err != nil {
		t.Fatalf("IngestByID failed: %v", err)
	}
	got, _ = st.ReadByPath(series.DataPath)
	if got.Metadata.LastDownload != 1 {
		t.Errorf("expected last_download 1, got %d", got.Metadata.LastDownload)
	}
}

func TestIngestByIDInvalidID(t *testing.T) {
	p, st, series := setupSeries(t, 2)

	_, err := p.IngestByID(context.Background(), series.DataPath, 99)
	if !errors.Is(err, ErrInvalidChapterID) {
		t.Fatalf("expected ErrInvalidChapterID, got %v", err)
	}
	got, _ := st.ReadByPath(series.DataPath)
	if got.Version != 0 {
		t.Error("document modified by failed IngestByID")
	}
}

func TestEnsureFirstChapter(t *testing.T) {
	p, st, series := setupSeries(t, 2)

	dest, err := p.EnsureFirstChapter(context.Background(), series)
	if err != nil {
		t.Fatalf("EnsureFirstChapter failed: %v", err)
	}
	if filepath.Base(dest) != "Chapter 1" {
		t.Errorf("unexpected destination: %s", dest)
	}

	// Already extracted: same path, no extra write.
	got, _ := st.ReadByPath(series.DataPath)
	again, err := p.EnsureFirstChapter(context.Background(), got)
	if err != nil {
		t.Fatalf("second EnsureFirstChapter failed: %v", err)
	}
	if again != dest {
		t.Errorf("expected same path, got %s", again)
	}
	final, _ := st.ReadByPath(series.DataPath)
	if final.Version != got.Version {
		t.Error("EnsureFirstChapter rewrote an already extracted chapter")
	}
}
