// This file defines the persisted document shapes for the library.
// One Series document is written per series as pretty-printed JSON.

package models

// Series is the full per-series metadata document. Everything the
// application knows about a series lives here, including the embedded
// chapter list whose order is the canonical chapter order.
type Series struct {
	ID            int64          `json:"id"`
	Name          string         `json:"name"`
	SanitizedName string         `json:"sanitized_name"`
	ArchivesPath  string         `json:"archives_path"`
	ChaptersPath  string         `json:"chapters_path"`
	CoverImage    string         `json:"cover_image"`
	DataPath      string         `json:"data_path"`
	TotalChapters int            `json:"total_chapters"`
	CreatedAt     string         `json:"created_at"`
	ChaptersRead  int            `json:"chapters_read"`
	ReadingData   ReadingData    `json:"reading_data"`
	Chapters      []*Chapter     `json:"chapters"`
	Metadata      SeriesMetadata `json:"metadata"`
	Comments      []string       `json:"comments"`
	Version       int64          `json:"version"`
}

// ReadingData tracks where the reader left off across the whole series.
type ReadingData struct {
	LastChapterID int64  `json:"last_chapter_id"`
	LastReadAt    string `json:"last_read_at"`
}

// SeriesMetadata holds user-facing state and the download resume pointer.
// LastDownload counts the contiguous prefix of downloaded chapters, so it
// is also the index of the next chapter to extract.
type SeriesMetadata struct {
	Status        string   `json:"status"`
	IsFavorite    bool     `json:"is_favorite"`
	RecommendedBy string   `json:"recommended_by,omitempty"`
	OriginalOwner string   `json:"original_owner,omitempty"`
	LastDownload  int      `json:"last_download"`
	Rating        *float64 `json:"rating,omitempty"`
}

// Series status values.
const (
	StatusInProgress = "in-progress"
	StatusCompleted  = "completed"
	StatusPaused     = "paused"
)

// Chapter is one entry in a Series' chapter list. It is embedded in the
// series document and never persisted on its own.
type Chapter struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	SanitizedName string `json:"sanitized_name"`
	ArchivePath   string `json:"archive_path"`
	ChapterPath   string `json:"chapter_path"`
	CreateDate    string `json:"create_date"`
	IsRead        bool   `json:"is_read"`
	IsDownloaded  bool   `json:"is_downloaded"`
	LastPageRead  int    `json:"last_page_read"`
}
