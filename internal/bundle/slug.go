package bundle

import (
	"path/filepath"
	"regexp"
	"strings"
)

const maxSlugLen = 48

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

// Slug derives a scenario id from a file name: lowercase, extension
// stripped, runs of non-alphanumeric characters collapsed to a single
// hyphen, trimmed, and capped at 48 characters. Falls back to "item" when
// nothing remains.
func Slug(name string) string {
	s := strings.ToLower(name)
	s = strings.TrimSuffix(s, filepath.Ext(s))
	s = nonAlphanumeric.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if len(s) > maxSlugLen {
		s = strings.Trim(s[:maxSlugLen], "-")
	}
	if s == "" {
		return "item"
	}
	return s
}
