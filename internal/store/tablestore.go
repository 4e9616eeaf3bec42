package store

import (
	"context"
	"fmt"
	"time"

	"github.com/supabase-community/postgrest-go"

	"github.com/boardroles/boardsite/internal/slug"
)

// TableStore is an ArticleStore backed by a hosted PostgREST table
// (Supabase). Concurrency control is deferred entirely to the store's
// own transaction semantics; the gateway performs no compare-and-swap.
type TableStore struct {
	client *postgrest.Client
	table  string
}

// NewTableStore creates a TableStore for the given PostgREST endpoint.
// The service key is sent both as the apikey header and as a bearer
// token, matching the Supabase convention.
func NewTableStore(rawURL, serviceKey, table string) (*TableStore, error) {
	headers := map[string]string{
		"apikey":        serviceKey,
		"Authorization": "Bearer " + serviceKey,
	}

	client := postgrest.NewClient(rawURL, "public", headers)
	if client.ClientError != nil {
		return nil, fmt.Errorf("failed to create PostgREST client: %w", client.ClientError)
	}

	return &TableStore{client: client, table: table}, nil
}

// List returns article summaries ordered by date descending.
func (s *TableStore) List(ctx context.Context) ([]Summary, error) {
	summaries := []Summary{}
	_, err := s.client.From(s.table).
		Select("slug, title, excerpt, category, date", "", false).
		Order("date", &postgrest.OrderOpts{Ascending: false}).
		ExecuteTo(&summaries)
	if err != nil {
		return nil, fmt.Errorf("failed to list articles: %w", err)
	}
	return summaries, nil
}

// Get returns the full article with the given slug. The lookup asks
// for a row set rather than a single object so an empty result maps to
// ErrNotFound while transport faults stay store failures.
func (s *TableStore) Get(ctx context.Context, articleSlug string) (*Article, error) {
	rows := []Article{}
	_, err := s.client.From(s.table).
		Select("*", "", false).
		Eq("slug", articleSlug).
		ExecuteTo(&rows)
	if err != nil {
		return nil, fmt.Errorf("failed to get article %s: %w", articleSlug, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, articleSlug)
	}
	return &rows[0], nil
}

// Create inserts a new row. A duplicate slug surfaces the table's
// unique-key violation verbatim.
func (s *TableStore) Create(ctx context.Context, title, content, category, excerpt string) (*Article, error) {
	row := Article{
		Slug:     slug.Make(title),
		Title:    title,
		Excerpt:  excerpt,
		Category: category,
		Date:     time.Now().UTC().Format(dateLayout),
		Content:  content,
	}

	var created Article
	_, err := s.client.From(s.table).
		Insert(row, false, "", "representation", "").
		Single().
		ExecuteTo(&created)
	if err != nil {
		return nil, fmt.Errorf("failed to create article: %w", err)
	}
	return &created, nil
}

// Update sends only the supplied fields; the table leaves the rest of
// the row, including the date, untouched. The row is fetched first so
// an unknown slug reports ErrNotFound, and an all-empty patch returns
// the unchanged record (PostgREST rejects an empty PATCH body).
func (s *TableStore) Update(ctx context.Context, articleSlug string, fields Fields) (*Article, error) {
	current, err := s.Get(ctx, articleSlug)
	if err != nil {
		return nil, err
	}

	patch := map[string]any{}
	if fields.Title != "" {
		patch["title"] = fields.Title
	}
	if fields.Content != "" {
		patch["content"] = fields.Content
	}
	if fields.Category != "" {
		patch["category"] = fields.Category
	}
	if fields.Excerpt != "" {
		patch["excerpt"] = fields.Excerpt
	}
	if len(patch) == 0 {
		return current, nil
	}

	var updated Article
	_, err = s.client.From(s.table).
		Update(patch, "representation", "").
		Eq("slug", articleSlug).
		Single().
		ExecuteTo(&updated)
	if err != nil {
		return nil, fmt.Errorf("failed to update article %s: %w", articleSlug, err)
	}
	return &updated, nil
}

// Delete removes the row with the given slug. PostgREST deletes of a
// missing row succeed silently, so existence is checked first.
func (s *TableStore) Delete(ctx context.Context, articleSlug string) error {
	if _, err := s.Get(ctx, articleSlug); err != nil {
		return err
	}

	deleted := []Article{}
	_, err := s.client.From(s.table).
		Delete("representation", "").
		Eq("slug", articleSlug).
		ExecuteTo(&deleted)
	if err != nil {
		return fmt.Errorf("failed to delete article %s: %w", articleSlug, err)
	}
	return nil
}

// Close is a no-op for the table backend.
func (s *TableStore) Close() error {
	return nil
}
