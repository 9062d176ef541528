package util

import (
	"regexp"
	"strconv"
	"strings"
)

var segmenter = regexp.MustCompile(`(\d+|\D+)`)

type naturalSegment struct {
	text  string
	value int
	isNum bool
}

func segment(s string) []naturalSegment {
	parts := segmenter.FindAllString(s, -1)
	segs := make([]naturalSegment, len(parts))
	for i, p := range parts {
		if n, err := strconv.Atoi(p); err == nil {
			segs[i] = naturalSegment{value: n, isNum: true}
		} else {
			segs[i] = naturalSegment{text: strings.ToLower(p)}
		}
	}
	return segs
}

// NaturalCompare compares two strings in natural order, so "page 2" sorts
// before "page 10". Returns -1, 0 or 1.
func NaturalCompare(s1, s2 string) int {
	a := segment(s1)
	b := segment(s2)

	for i := 0; i < len(a) && i < len(b); i++ {
		// A numeric segment sorts before a textual one at the same position.
		if a[i].isNum != b[i].isNum {
			if a[i].isNum {
				return -1
			}
			return 1
		}
		if a[i].isNum {
			if a[i].value != b[i].value {
				if a[i].value < b[i].value {
					return -1
				}
				return 1
			}
			continue
		}
		if a[i].text != b[i].text {
			return strings.Compare(a[i].text, b[i].text)
		}
	}

	// All shared segments equal; the shorter string comes first.
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	default:
		return 0
	}
}

// NaturalSortLess reports whether s1 sorts before s2 in natural order.
func NaturalSortLess(s1, s2 string) bool {
	return NaturalCompare(s1, s2) < 0
}
