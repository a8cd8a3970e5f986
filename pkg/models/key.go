package models

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// FoldKey normalizes a human-entered name for case-insensitive comparison
// and storage in *_key columns: trimmed, NFKC, Unicode case folded.
func FoldKey(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	return cases.Fold().String(norm.NFKC.String(s))
}

// SameKey reports whether a and b name the same thing.
func SameKey(a, b string) bool {
	return FoldKey(a) == FoldKey(b)
}
