package util

import (
	"regexp"
	"strings"
)

var (
	controlChars = regexp.MustCompile(`[\x00-\x1f\x7f]`)
	invalidChars = regexp.MustCompile(`[\\/:*?"<>|]`)
	dashRuns     = regexp.MustCompile(`-+`)
)

// SanitizeName produces a filesystem-safe form of a series or chapter name.
// Invalid characters become dashes; runs of dashes collapse; leading and
// trailing dots, spaces and dashes are trimmed.
func SanitizeName(name string) string {
	safe := controlChars.ReplaceAllString(name, "")
	safe = invalidChars.ReplaceAllString(safe, "-")
	safe = strings.Trim(safe, " .")
	safe = dashRuns.ReplaceAllString(safe, "-")
	safe = strings.Trim(safe, "-")
	if safe == "" {
		safe = "untitled"
	}
	return safe
}
