package library

import "errors"

var (
	// ErrInvalidChapterName is returned when an archive filename carries no
	// parseable chapter number.
	ErrInvalidChapterName = errors.New("archive filename has no chapter number")
	// ErrArchiveUnreadable is returned when a source file is not a valid
	// archive.
	ErrArchiveUnreadable = errors.New("archive unreadable")
	// ErrDestinationUnwritable is returned when the extraction target
	// directory cannot be created.
	ErrDestinationUnwritable = errors.New("extraction destination unwritable")
	// ErrExtractionFailed wraps I/O errors during extraction.
	ErrExtractionFailed = errors.New("chapter extraction failed")
)
