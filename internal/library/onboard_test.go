package library

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dmarreira/tankobon/internal/models"
	"github.com/dmarreira/tankobon/internal/testutil"
)

// fakeDocs is a minimal in-memory DocumentWriter. The real store lives in a
// package that depends on this one, so onboarding is tested against the
// interface.
type fakeDocs struct {
	dir     string
	written []*models.Series
}

func (f *fakeDocs) Write(s *models.Series) error {
	f.written = append(f.written, s)
	// Materialize an empty document so ResolveDocumentPath can see it.
	return os.WriteFile(s.DataPath, []byte("{}"), 0644)
}

func (f *fakeDocs) ListSeries() ([]*models.Series, error) { return f.written, nil }

func (f *fakeDocs) DocumentPath(name string) string {
	return filepath.Join(f.dir, name+".json")
}

func TestCreateSeries(t *testing.T) {
	root := t.TempDir()
	archivesDir := filepath.Join(root, "Dr. Stone")
	os.Mkdir(archivesDir, 0755)
	testutil.CreateTestCBZ(t, archivesDir, "Chapter 2.cbz", []string{"01.jpg"})
	testutil.CreateTestCBZ(t, archivesDir, "Chapter 10.cbz", []string{"01.jpg"})
	testutil.CreateTestCBZ(t, archivesDir, "Chapter 1.cbz", []string{"01.jpg"})

	docsDir := t.TempDir()
	docs := &fakeDocs{dir: docsDir}

	series, err := CreateSeries(docs, archivesDir)
	if err != nil {
		t.Fatalf("CreateSeries failed: %v", err)
	}

	if series.Name != "Dr. Stone" {
		t.Errorf("unexpected name: %q", series.Name)
	}
	if series.TotalChapters != 3 || len(series.Chapters) != 3 {
		t.Fatalf("expected 3 chapters, got %d", len(series.Chapters))
	}
	// Canonical order is numeric archive order; ids follow positions.
	wantNames := []string{"Chapter 1", "Chapter 2", "Chapter 10"}
	for i, ch := range series.Chapters {
		if ch.Name != wantNames[i] {
			t.Errorf("chapter %d: got %q, want %q", i, ch.Name, wantNames[i])
		}
		if ch.ID != int64(i) {
			t.Errorf("chapter %d: got id %d", i, ch.ID)
		}
		if ch.IsDownloaded || ch.ChapterPath != "" {
			t.Errorf("chapter %d should start undownloaded", i)
		}
	}
	if series.Metadata.LastDownload != 0 {
		t.Errorf("resume pointer should start at 0, got %d", series.Metadata.LastDownload)
	}
	if series.DataPath != docs.DocumentPath("Dr. Stone") {
		t.Errorf("unexpected data path: %s", series.DataPath)
	}
}

func TestCreateSeriesEmptyDirectory(t *testing.T) {
	root := t.TempDir()
	archivesDir := filepath.Join(root, "Empty")
	os.Mkdir(archivesDir, 0755)

	if _, err := CreateSeries(&fakeDocs{dir: t.TempDir()}, archivesDir); err == nil {
		t.Error("expected error for directory without archives")
	}
}

func TestSyncLibrary(t *testing.T) {
	libraryRoot := t.TempDir()
	docsDir := t.TempDir()
	docs := &fakeDocs{dir: docsDir}

	for _, name := range []string{"Series A", "Series B"} {
		dir := filepath.Join(libraryRoot, name)
		os.Mkdir(dir, 0755)
		testutil.CreateTestCBZ(t, dir, "Chapter 1.cbz", []string{"01.jpg"})
	}

	onboarded, err := SyncLibrary(docs, docsDir, libraryRoot)
	if err != nil {
		t.Fatalf("SyncLibrary failed: %v", err)
	}
	if len(onboarded) != 2 {
		t.Fatalf("expected 2 onboarded series, got %d", len(onboarded))
	}

	// A second sync onboards nothing: documents already exist.
	onboarded, err = SyncLibrary(docs, docsDir, libraryRoot)
	if err != nil {
		t.Fatalf("second SyncLibrary failed: %v", err)
	}
	if len(onboarded) != 0 {
		t.Errorf("expected no new series, got %v", onboarded)
	}
}

func TestSeriesIDAllocation(t *testing.T) {
	root := t.TempDir()
	docs := &fakeDocs{dir: t.TempDir()}

	for i, name := range []string{"First", "Second"} {
		dir := filepath.Join(root, name)
		os.Mkdir(dir, 0755)
		testutil.CreateTestCBZ(t, dir, "Chapter 1.cbz", []string{"01.jpg"})
		series, err := CreateSeries(docs, dir)
		if err != nil {
			t.Fatalf("CreateSeries failed: %v", err)
		}
		if series.ID != int64(i+1) {
			t.Errorf("expected id %d, got %d", i+1, series.ID)
		}
	}
}
