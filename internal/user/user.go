// Package user implements reader-facing mutations of series documents:
// ratings, favorites, read progress, status and comments. Every operation
// reads the document, applies one change and writes it back, so optimistic
// concurrency is enforced per mutation.
package user

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmarreira/tankobon/internal/models"
	"github.com/dmarreira/tankobon/internal/store"
)

// ErrInvalidInput is returned when a mutation references a chapter the
// series does not have or an unknown status value.
var ErrInvalidInput = errors.New("invalid input")

// Service wraps the document store with user operations.
type Service struct {
	st *store.Store
}

func New(st *store.Store) *Service {
	return &Service{st: st}
}

// RateSeries sets the series rating, clamped to [0, 5].
func (s *Service) RateSeries(name string, rating float64) (*models.Series, error) {
	series, err := s.st.ReadByName(name)
	if err != nil {
		return nil, err
	}
	if rating < 0 {
		rating = 0
	} else if rating > 5 {
		rating = 5
	}
	series.Metadata.Rating = &rating
	if err := s.st.Write(series); err != nil {
		return nil, err
	}
	return series, nil
}

// ToggleFavorite flips the favorite flag and returns the updated document.
func (s *Service) ToggleFavorite(name string) (*models.Series, error) {
	series, err := s.st.ReadByName(name)
	if err != nil {
		return nil, err
	}
	series.Metadata.IsFavorite = !series.Metadata.IsFavorite
	if err := s.st.Write(series); err != nil {
		return nil, err
	}
	return series, nil
}

// SetStatus updates the series reading status. Only the known status values
// are accepted.
func (s *Service) SetStatus(name, status string) (*models.Series, error) {
	switch status {
	case models.StatusInProgress, models.StatusCompleted, models.StatusPaused:
	default:
		return nil, fmt.Errorf("unknown status %q: %w", status, ErrInvalidInput)
	}
	series, err := s.st.ReadByName(name)
	if err != nil {
		return nil, err
	}
	series.Metadata.Status = status
	if err := s.st.Write(series); err != nil {
		return nil, err
	}
	return series, nil
}

// AddComment appends a free-form comment to the series document.
func (s *Service) AddComment(name, comment string) (*models.Series, error) {
	series, err := s.st.ReadByName(name)
	if err != nil {
		return nil, err
	}
	series.Comments = append(series.Comments, comment)
	if err := s.st.Write(series); err != nil {
		return nil, err
	}
	return series, nil
}

// MarkChapterRead marks a chapter as read at the given page and refreshes
// the series-level reading state. Marking an already-read chapter only
// updates the page and timestamps.
func (s *Service) MarkChapterRead(name string, chapterID int64, page int) (*models.Series, error) {
	series, err := s.st.ReadByName(name)
	if err != nil {
		return nil, err
	}
	chapter := findChapter(series, chapterID)
	if chapter == nil {
		return nil, fmt.Errorf("series %q has no chapter %d: %w", name, chapterID, ErrInvalidInput)
	}

	if !chapter.IsRead {
		chapter.IsRead = true
		series.ChaptersRead++
	}
	if page > chapter.LastPageRead {
		chapter.LastPageRead = page
	}
	series.ReadingData = models.ReadingData{
		LastChapterID: chapterID,
		LastReadAt:    time.Now().UTC().Format(time.RFC3339),
	}
	if err := s.st.Write(series); err != nil {
		return nil, err
	}
	return series, nil
}

// ReturnPage builds the reader URL for resuming a series: the last chapter
// the reader touched, or the first chapter when nothing was read yet.
func (s *Service) ReturnPage(name string) (string, error) {
	series, err := s.st.ReadByName(name)
	if err != nil {
		return "", err
	}
	chapterID := int64(0)
	if series.ReadingData.LastReadAt != "" {
		chapterID = series.ReadingData.LastChapterID
	}
	return fmt.Sprintf("/series/%s/%d", series.Name, chapterID), nil
}

func findChapter(series *models.Series, chapterID int64) *models.Chapter {
	for _, c := range series.Chapters {
		if c.ID == chapterID {
			return c
		}
	}
	return nil
}
