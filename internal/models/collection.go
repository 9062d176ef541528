package models

// Collection groups series under a user-chosen name. It is persisted as its
// own JSON document, independent of the series documents it references.
type Collection struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Series      []*SeriesSummary `json:"series"`
	Comments    []string         `json:"comments"`
	Version     int64            `json:"version"`
}

// SeriesSummary is the lightweight view of a series carried inside a
// collection document.
type SeriesSummary struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	CoverImage    string `json:"cover_image"`
	SeriesPath    string `json:"series_path"`
	TotalChapters int    `json:"total_chapters"`
	Status        string `json:"status"`
	RecommendedBy string `json:"recommended_by,omitempty"`
	OriginalOwner string `json:"original_owner,omitempty"`
}
