package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()

	s := NewSQLiteStore()
	dbPath := filepath.Join(t.TempDir(), "articles.db")
	if err := s.Initialize(dbPath); err != nil {
		t.Fatalf("Failed to initialize store: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("Failed to close store: %v", err)
		}
	})
	return s
}

func TestSQLiteStoreCRUD(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	created, err := s.Create(ctx, "Board Basics", "# Basics", "Governance", "The basics")
	if err != nil {
		t.Fatalf("Failed to create article: %v", err)
	}
	if created.Slug != "board-basics" {
		t.Errorf("Expected slug 'board-basics', got '%s'", created.Slug)
	}

	fetched, err := s.Get(ctx, "board-basics")
	if err != nil {
		t.Fatalf("Failed to get article: %v", err)
	}
	if fetched.Title != "Board Basics" || fetched.Content != "# Basics" {
		t.Errorf("Fetched article does not match: %+v", fetched)
	}

	updated, err := s.Update(ctx, "board-basics", Fields{Excerpt: "New excerpt"})
	if err != nil {
		t.Fatalf("Failed to update article: %v", err)
	}
	if updated.Excerpt != "New excerpt" {
		t.Errorf("Expected updated excerpt, got '%s'", updated.Excerpt)
	}
	if updated.Title != "Board Basics" {
		t.Errorf("Title should be unchanged, got '%s'", updated.Title)
	}
	if updated.Date != created.Date {
		t.Errorf("Date should be unchanged, got '%s'", updated.Date)
	}

	if err := s.Delete(ctx, "board-basics"); err != nil {
		t.Fatalf("Failed to delete article: %v", err)
	}

	if _, err := s.Get(ctx, "board-basics"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}
}

func TestSQLiteStoreListOrder(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	// Insert directly so the dates differ.
	insert := func(slug, date string) {
		stmt, err := s.conn.Prepare(`INSERT INTO articles (slug, title, excerpt, category, date, content) VALUES (?, ?, ?, ?, ?, ?);`)
		if err != nil {
			t.Fatalf("Failed to prepare insert: %v", err)
		}
		defer stmt.Reset()
		stmt.BindText(1, slug)
		stmt.BindText(2, slug)
		stmt.BindText(3, "e")
		stmt.BindText(4, "c")
		stmt.BindText(5, date)
		stmt.BindText(6, "body")
		if _, err := stmt.Step(); err != nil {
			t.Fatalf("Failed to insert row: %v", err)
		}
	}
	insert("oldest", "2024-03-01")
	insert("newest", "2026-07-15")
	insert("middle", "2025-11-30")

	summaries, err := s.List(ctx)
	if err != nil {
		t.Fatalf("Failed to list articles: %v", err)
	}
	if len(summaries) != 3 {
		t.Fatalf("Expected 3 summaries, got %d", len(summaries))
	}
	if summaries[0].Slug != "newest" || summaries[2].Slug != "oldest" {
		t.Errorf("Expected date-descending order, got %+v", summaries)
	}
}

func TestSQLiteStoreListEmpty(t *testing.T) {
	s := newTestSQLiteStore(t)

	summaries, err := s.List(context.Background())
	if err != nil {
		t.Fatalf("Failed to list articles: %v", err)
	}
	if len(summaries) != 0 {
		t.Errorf("Expected empty listing, got %d summaries", len(summaries))
	}
}

func TestSQLiteStoreDeleteNotFound(t *testing.T) {
	s := newTestSQLiteStore(t)

	if err := s.Delete(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestSQLiteStoreDuplicateSlug(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	if _, err := s.Create(ctx, "Same Title", "a", "c", "e"); err != nil {
		t.Fatalf("Failed to create article: %v", err)
	}
	if _, err := s.Create(ctx, "Same Title", "b", "c", "e"); err == nil {
		t.Error("Expected constraint error for duplicate slug")
	}
}
