package service

import (
	"regexp"
	"strings"
)

var (
	reSpaces  = regexp.MustCompile(`\s+`)
	reNotWord = regexp.MustCompile(`[^A-Z0-9_]`)
)

// Normalize: uppercase, trim, whitespace runs → "_", drop everything outside [A-Z0-9_].
// Used for header cells and for every matcher comparison.
func Normalize(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return ""
	}
	s = reSpaces.ReplaceAllString(s, "_")
	return reNotWord.ReplaceAllString(s, "")
}
