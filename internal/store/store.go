// Package store provides the persistence abstraction for article
// records, with interchangeable file, SQLite, and hosted-table
// backends.
package store

import (
	"context"
	"errors"

	"github.com/boardroles/boardsite/internal/frontmatter"
)

// Sentinel errors shared by all backends.
var (
	// ErrNotFound is returned when no article has the requested slug.
	ErrNotFound = errors.New("article not found")

	// ErrInvalidFormat is returned when a stored record cannot be
	// decoded. The file backend aliases the front-matter codec's error
	// so callers can check either sentinel.
	ErrInvalidFormat = frontmatter.ErrInvalidFormat
)

// Article is a full article record.
type Article struct {
	Slug     string `json:"slug"`
	Title    string `json:"title"`
	Excerpt  string `json:"excerpt"`
	Category string `json:"category"`
	Date     string `json:"date"`
	Content  string `json:"content"`
}

// Summary is the listing shape of an article, without its body.
type Summary struct {
	Slug     string `json:"slug"`
	Title    string `json:"title"`
	Excerpt  string `json:"excerpt"`
	Category string `json:"category"`
	Date     string `json:"date"`
}

// Fields holds the mutable fields of an article for partial updates.
// An empty string means "leave the stored value unchanged"; the date
// is never touched by an update.
type Fields struct {
	Title    string
	Content  string
	Category string
	Excerpt  string
}

// SiteConfigFields holds the recognized site configuration fields for
// partial updates. Empty strings leave the stored value unchanged.
type SiteConfigFields struct {
	SiteName        string
	SiteDescription string
	HeroTitle       string
	HeroDescription string
}

// ArticleStore defines the interface for article persistence.
type ArticleStore interface {
	// List returns article summaries ordered by date descending.
	// Articles sharing a date carry no order guarantee. An empty store
	// yields an empty slice, not an error.
	List(ctx context.Context) ([]Summary, error)

	// Get returns the full article with the given slug, or ErrNotFound.
	Get(ctx context.Context, slug string) (*Article, error)

	// Create assigns a slug and today's date, persists the article, and
	// returns the stored record.
	Create(ctx context.Context, title, content, category, excerpt string) (*Article, error)

	// Update overwrites only the supplied fields of an existing article
	// and returns the result, or ErrNotFound for an unknown slug.
	Update(ctx context.Context, slug string, fields Fields) (*Article, error)

	// Delete removes the article with the given slug, or returns
	// ErrNotFound.
	Delete(ctx context.Context, slug string) error

	// Close releases any resources held by the store.
	Close() error
}

// SiteConfigStore is implemented by backends that hold the site
// configuration document.
type SiteConfigStore interface {
	// GetSiteConfig returns the configuration document wholesale.
	GetSiteConfig(ctx context.Context) (map[string]any, error)

	// UpdateSiteConfig merges the supplied fields into the document,
	// writes it back wholesale, and returns the result. Unknown keys in
	// the stored document survive the update.
	UpdateSiteConfig(ctx context.Context, fields SiteConfigFields) (map[string]any, error)
}

// ThemeStore is implemented by backends that can patch the site's
// stylesheet colors.
type ThemeStore interface {
	// UpdateTheme replaces the --primary and/or --accent custom
	// property values in the stylesheet. Empty arguments leave the
	// corresponding color unchanged.
	UpdateTheme(ctx context.Context, primary, accent string) error
}

// Publisher is implemented by backends that can publish pending
// changes. This is a privileged escape hatch: callers are assumed to
// be authorized operators, and it must not be exposed over a public,
// unauthenticated boundary.
type Publisher interface {
	// Publish stages all working-tree changes, commits them with the
	// given message, and pushes to the configured remote.
	Publish(ctx context.Context, message string) error
}
