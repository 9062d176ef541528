package util

import "testing"

func TestNaturalSortLess(t *testing.T) {
	testCases := []struct {
		s1, s2   string
		expected bool
	}{
		{"ch 2", "ch 10", true},
		{"chapter 10", "chapter 2", false},
		{"page1.jpg", "page10.jpg", true},
		{"page10.jpg", "page2.jpg", false},
		{"v1.2", "v1.10", true},
		{"a", "b", true},
		{"b", "a", false},
		{"file", "file1", true},
		{"file1", "file", false},
	}
	for _, tc := range testCases {
		if result := NaturalSortLess(tc.s1, tc.s2); result != tc.expected {
			t.Errorf("NaturalSortLess(%q, %q) = %v; want %v", tc.s1, tc.s2, result, tc.expected)
		}
	}
}

func TestNaturalCompareEqual(t *testing.T) {
	for _, s := range []string{"chapter 1", "page1.jpg", "v1.0"} {
		if result := NaturalCompare(s, s); result != 0 {
			t.Errorf("NaturalCompare(%q, %q) = %d; want 0", s, s, result)
		}
	}
}

func TestNaturalCompareCaseInsensitive(t *testing.T) {
	if NaturalCompare("Chapter 2", "chapter 10") >= 0 {
		t.Error("expected 'Chapter 2' to sort before 'chapter 10'")
	}
}
