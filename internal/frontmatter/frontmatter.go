// Package frontmatter encodes and decodes the delimited key/value
// header format used by the markdown article files.
package frontmatter

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidFormat is returned when a document lacks the front-matter
// header block or the block is not properly terminated.
var ErrInvalidFormat = errors.New("invalid front-matter format")

const delimiter = "---"

// FrontMatter holds the header fields of an article file.
type FrontMatter struct {
	Title    string
	Excerpt  string
	Date     string
	Category string
}

// Encode renders the front-matter header followed by the body:
//
//	---
//	title: <v>
//	excerpt: <v>
//	date: <v>
//	category: <v>
//	---
//
//	<body>
func Encode(fm FrontMatter, body string) string {
	var b strings.Builder
	b.WriteString(delimiter + "\n")
	fmt.Fprintf(&b, "title: %s\n", fm.Title)
	fmt.Fprintf(&b, "excerpt: %s\n", fm.Excerpt)
	fmt.Fprintf(&b, "date: %s\n", fm.Date)
	fmt.Fprintf(&b, "category: %s\n", fm.Category)
	b.WriteString(delimiter + "\n\n")
	b.WriteString(body)
	b.WriteString("\n")
	return b.String()
}

// Decode splits a document into its front-matter fields and body.
// Header lines are split on the first ": " occurrence; the value keeps
// any further colons. The body is the text after the closing delimiter,
// trimmed of surrounding whitespace. A document without the header
// block fails with ErrInvalidFormat on every path; there is no
// empty-field fallback.
func Decode(raw string) (FrontMatter, string, error) {
	var fm FrontMatter

	if !strings.HasPrefix(raw, delimiter+"\n") {
		return fm, "", ErrInvalidFormat
	}
	rest := raw[len(delimiter)+1:]

	end := strings.Index(rest, "\n"+delimiter)
	if end < 0 {
		return fm, "", ErrInvalidFormat
	}

	header := rest[:end]
	body := rest[end+len(delimiter)+1:]

	for _, line := range strings.Split(header, "\n") {
		if line == "" {
			continue
		}
		key, value, _ := strings.Cut(line, ": ")
		switch strings.TrimSpace(key) {
		case "title":
			fm.Title = strings.TrimSpace(value)
		case "excerpt":
			fm.Excerpt = strings.TrimSpace(value)
		case "date":
			fm.Date = strings.TrimSpace(value)
		case "category":
			fm.Category = strings.TrimSpace(value)
		}
	}

	return fm, strings.TrimSpace(body), nil
}
