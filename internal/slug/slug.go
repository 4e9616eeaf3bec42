// Package slug derives URL-safe identifiers from article titles.
package slug

import (
	"regexp"
	"strings"
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Make converts a title into its slug: lowercase, every run of
// characters outside [a-z0-9] collapsed to a single hyphen, and
// leading/trailing hyphens removed. The result is the article's
// primary key on the file backend, so the transform must stay stable.
func Make(title string) string {
	s := strings.ToLower(title)
	s = nonAlnum.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
