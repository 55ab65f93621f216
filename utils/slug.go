package utils

import (
	"regexp"
	"strings"
)

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify turns a display name into its URL slug: lowercase, runs of
// anything outside [a-z0-9] collapse to a single hyphen, edges trimmed.
// Deterministic, so regenerating from the same name is a no-op.
func Slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = nonSlug.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
