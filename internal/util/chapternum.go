package util

import (
	"fmt"
	"regexp"
	"strconv"
)

// Matches the first integer or decimal number in a string, e.g. "10" in
// "Chapter 10.cbz" or "10.5" in "Ch. 10.5 (final)".
var chapterNumberRe = regexp.MustCompile(`([0-9]+(?:\.[0-9]+)?)`)

// ChapterNumber extracts the numeric chapter token from an archive
// basename. Filenames without a number are an error, not a zero: a silently
// skipped file would desynchronize the archive order from the chapter list
// built against it.
func ChapterNumber(basename string) (float64, error) {
	match := chapterNumberRe.FindString(basename)
	if match == "" {
		return 0, fmt.Errorf("no chapter number in %q", basename)
	}
	n, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0, fmt.Errorf("unparseable chapter number %q in %q: %w", match, basename, err)
	}
	return n, nil
}
