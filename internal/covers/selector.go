// This file implements cover selection: picking a representative page from a
// series' first chapter by inspecting image dimensions, copying it into the
// shared cover directory, and linking it back into the series document.

package covers

import (
	"context"
	"fmt"
	"image"
	_ "image/gif" // register decoders for DecodeConfig
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	_ "golang.org/x/image/webp"

	"github.com/dmarreira/tankobon/internal/config"
	"github.com/dmarreira/tankobon/internal/ingest"
	"github.com/dmarreira/tankobon/internal/library"
	"github.com/dmarreira/tankobon/internal/store"
)

// Rule is one tier of the selection policy: a predicate over image
// dimensions in pixels.
type Rule func(width, height int) bool

// DefaultPolicy is the ordered two-tier heuristic. Tier one wants a tall,
// cover-like page; tier two settles for anything big enough to display.
// Earlier tiers win: a later tier only runs when every image failed the
// tiers before it.
var DefaultPolicy = []Rule{
	func(w, h int) bool { return w <= 1200 && h >= 1300 },
	func(w, h int) bool { return w >= 400 || h >= 600 },
}

// Selector picks and persists cover images for series.
type Selector struct {
	cfg      *config.Config
	st       *store.Store
	pipeline *ingest.Pipeline
	policy   []Rule
}

// New creates a Selector with the default policy.
func New(cfg *config.Config, st *store.Store, pipeline *ingest.Pipeline) *Selector {
	return &Selector{cfg: cfg, st: st, pipeline: pipeline, policy: DefaultPolicy}
}

// WithPolicy replaces the selection policy.
func (s *Selector) WithPolicy(policy []Rule) *Selector {
	s.policy = policy
	return s
}

// SelectCovers assigns a cover to each named series. Series are independent
// documents with independent extraction subtrees, so the work fans out; a
// failure in one series aborts only that series.
func (s *Selector) SelectCovers(ctx context.Context, seriesNames []string) {
	var wg sync.WaitGroup
	for _, name := range seriesNames {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			if err := s.selectCover(ctx, name); err != nil {
				log.Printf("Cover selection for %q failed: %v", name, err)
			}
		}(name)
	}
	wg.Wait()
}

// selectCover runs the full flow for one series: ensure the first chapter is
// extracted, pick a page, copy it to the cover directory, link it back.
func (s *Selector) selectCover(ctx context.Context, name string) error {
	series, err := s.st.ReadByName(name)
	if err != nil {
		return err
	}

	chapterDir, err := s.pipeline.EnsureFirstChapter(ctx, series)
	if err != nil {
		return err
	}
	images, err := library.ListImages(chapterDir)
	if err != nil {
		return err
	}

	selected := s.pick(images)
	if selected == "" {
		log.Printf("No page of %q matched the cover policy; skipping", name)
		return nil
	}

	coverPath, err := s.copyCover(series.Name, filepath.Base(chapterDir), selected)
	if err != nil {
		return err
	}

	// EnsureFirstChapter may have rewritten the document; re-read before
	// the final write so the version check passes.
	series, err = s.st.ReadByPath(series.DataPath)
	if err != nil {
		return err
	}
	series.CoverImage = coverPath
	return s.st.Write(series)
}

// pick applies the policy tiers in order and returns the first matching
// image, or "" when nothing matches. Undecodable images are logged and
// skipped; cover selection is best-effort.
func (s *Selector) pick(images []string) string {
	for _, rule := range s.policy {
		for _, imagePath := range images {
			w, h, err := dimensions(imagePath)
			if err != nil {
				log.Printf("Skipping unreadable image %s: %v", imagePath, err)
				continue
			}
			if rule(w, h) {
				return imagePath
			}
		}
	}
	return ""
}

// copyCover copies the selected page into the shared cover directory under a
// collision-free name derived from the series, the chapter and the page.
func (s *Selector) copyCover(seriesName, chapterName, imagePath string) (string, error) {
	if err := os.MkdirAll(s.cfg.Storage.CoversPath, 0755); err != nil {
		return "", fmt.Errorf("creating covers directory: %w", err)
	}
	coverName := fmt.Sprintf("%s_%s_%s", seriesName, chapterName, filepath.Base(imagePath))
	coverPath := filepath.Join(s.cfg.Storage.CoversPath, coverName)

	src, err := os.Open(imagePath)
	if err != nil {
		return "", fmt.Errorf("opening selected page %s: %w", imagePath, err)
	}
	defer src.Close()
	dst, err := os.Create(coverPath)
	if err != nil {
		return "", fmt.Errorf("creating cover %s: %w", coverPath, err)
	}
	defer dst.Close()
	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("copying cover %s: %w", coverPath, err)
	}
	return coverPath, nil
}

// AssignExistingCovers re-links covers already present in the shared
// directory: a cover whose leading underscore-delimited token equals a
// series name is assigned to that series without re-copying.
func (s *Selector) AssignExistingCovers(seriesNames []string) error {
	entries, err := os.ReadDir(s.cfg.Storage.CoversPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("listing covers directory: %w", err)
	}

	for _, name := range seriesNames {
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			token, _, found := strings.Cut(entry.Name(), "_")
			if !found || token != name {
				continue
			}
			series, err := s.st.ReadByName(name)
			if err != nil {
				log.Printf("Skipping cover assignment for %q: %v", name, err)
				break
			}
			series.CoverImage = filepath.Join(s.cfg.Storage.CoversPath, entry.Name())
			if err := s.st.Write(series); err != nil {
				return err
			}
			break
		}
	}
	return nil
}

// dimensions reads just the image header.
func dimensions(imagePath string) (int, int, error) {
	f, err := os.Open(imagePath)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, err
	}
	return cfg.Width, cfg.Height, nil
}
