package store

import (
	"context"
	"fmt"
	"time"

	"crawshaw.io/sqlite"

	"github.com/boardroles/boardsite/internal/slug"
)

// SQLiteStore is an ArticleStore backed by a local SQLite database.
// It carries the same record shape as the hosted table backend and is
// useful for offline or preview deployments.
type SQLiteStore struct {
	conn   *sqlite.Conn
	dbPath string
}

// NewSQLiteStore creates a new, uninitialized SQLiteStore.
func NewSQLiteStore() *SQLiteStore {
	return &SQLiteStore{}
}

// Initialize opens the database and creates the articles table if it
// doesn't exist.
func (s *SQLiteStore) Initialize(dbPath string) error {
	s.dbPath = dbPath

	conn, err := sqlite.OpenConn(dbPath, sqlite.SQLITE_OPEN_CREATE|sqlite.SQLITE_OPEN_READWRITE)
	if err != nil {
		return fmt.Errorf("failed to open SQLite database: %w", err)
	}
	s.conn = conn

	if err := s.createTable(); err != nil {
		s.conn.Close()
		return fmt.Errorf("failed to create table: %w", err)
	}

	return nil
}

func (s *SQLiteStore) createTable() error {
	createTableSQL := `
	CREATE TABLE IF NOT EXISTS articles (
		slug TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		excerpt TEXT NOT NULL,
		category TEXT NOT NULL,
		date TEXT NOT NULL,
		content TEXT NOT NULL
	);`

	stmt, err := s.conn.Prepare(createTableSQL)
	if err != nil {
		return fmt.Errorf("failed to prepare create table statement: %w", err)
	}
	defer stmt.Reset()

	if _, err := stmt.Step(); err != nil {
		return fmt.Errorf("failed to execute create table statement: %w", err)
	}

	return nil
}

// Close closes the store and releases any resources.
func (s *SQLiteStore) Close() error {
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}

// List returns article summaries ordered by date descending. The
// ordering of equal dates is whatever SQLite yields.
func (s *SQLiteStore) List(ctx context.Context) ([]Summary, error) {
	selectSQL := `
	SELECT slug, title, excerpt, category, date FROM articles
	ORDER BY date DESC;`

	stmt, err := s.conn.Prepare(selectSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare select statement: %w", err)
	}
	defer stmt.Reset()

	summaries := []Summary{}
	for {
		hasRow, err := stmt.Step()
		if err != nil {
			return nil, fmt.Errorf("failed to execute select statement: %w", err)
		}
		if !hasRow {
			break
		}

		summaries = append(summaries, Summary{
			Slug:     stmt.ColumnText(0),
			Title:    stmt.ColumnText(1),
			Excerpt:  stmt.ColumnText(2),
			Category: stmt.ColumnText(3),
			Date:     stmt.ColumnText(4),
		})
	}

	return summaries, nil
}

// Get returns the full article with the given slug.
func (s *SQLiteStore) Get(ctx context.Context, articleSlug string) (*Article, error) {
	selectSQL := `
	SELECT title, excerpt, category, date, content FROM articles
	WHERE slug = ?;`

	stmt, err := s.conn.Prepare(selectSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare select statement: %w", err)
	}
	defer stmt.Reset()

	stmt.BindText(1, articleSlug)

	hasRow, err := stmt.Step()
	if err != nil {
		return nil, fmt.Errorf("failed to execute select statement: %w", err)
	}
	if !hasRow {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, articleSlug)
	}

	return &Article{
		Slug:     articleSlug,
		Title:    stmt.ColumnText(0),
		Excerpt:  stmt.ColumnText(1),
		Category: stmt.ColumnText(2),
		Date:     stmt.ColumnText(3),
		Content:  stmt.ColumnText(4),
	}, nil
}

// Create inserts a new article row. A duplicate slug surfaces the
// SQLite primary-key constraint error.
func (s *SQLiteStore) Create(ctx context.Context, title, content, category, excerpt string) (*Article, error) {
	article := &Article{
		Slug:     slug.Make(title),
		Title:    title,
		Excerpt:  excerpt,
		Category: category,
		Date:     time.Now().UTC().Format(dateLayout),
		Content:  content,
	}

	insertSQL := `
	INSERT INTO articles (slug, title, excerpt, category, date, content)
	VALUES (?, ?, ?, ?, ?, ?);`

	stmt, err := s.conn.Prepare(insertSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare insert statement: %w", err)
	}
	defer stmt.Reset()

	stmt.BindText(1, article.Slug)
	stmt.BindText(2, article.Title)
	stmt.BindText(3, article.Excerpt)
	stmt.BindText(4, article.Category)
	stmt.BindText(5, article.Date)
	stmt.BindText(6, article.Content)

	if _, err := stmt.Step(); err != nil {
		return nil, fmt.Errorf("failed to insert article: %w", err)
	}

	return article, nil
}

// Update reads the existing row, overlays the supplied fields, and
// writes the result back. The date column is never modified.
func (s *SQLiteStore) Update(ctx context.Context, articleSlug string, fields Fields) (*Article, error) {
	article, err := s.Get(ctx, articleSlug)
	if err != nil {
		return nil, err
	}

	if fields.Title != "" {
		article.Title = fields.Title
	}
	if fields.Content != "" {
		article.Content = fields.Content
	}
	if fields.Category != "" {
		article.Category = fields.Category
	}
	if fields.Excerpt != "" {
		article.Excerpt = fields.Excerpt
	}

	updateSQL := `
	UPDATE articles SET title = ?, excerpt = ?, category = ?, content = ?
	WHERE slug = ?;`

	stmt, err := s.conn.Prepare(updateSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare update statement: %w", err)
	}
	defer stmt.Reset()

	stmt.BindText(1, article.Title)
	stmt.BindText(2, article.Excerpt)
	stmt.BindText(3, article.Category)
	stmt.BindText(4, article.Content)
	stmt.BindText(5, articleSlug)

	if _, err := stmt.Step(); err != nil {
		return nil, fmt.Errorf("failed to update article: %w", err)
	}

	return article, nil
}

// Delete removes the article row with the given slug.
func (s *SQLiteStore) Delete(ctx context.Context, articleSlug string) error {
	if _, err := s.Get(ctx, articleSlug); err != nil {
		return err
	}

	deleteSQL := `DELETE FROM articles WHERE slug = ?;`

	stmt, err := s.conn.Prepare(deleteSQL)
	if err != nil {
		return fmt.Errorf("failed to prepare delete statement: %w", err)
	}
	defer stmt.Reset()

	stmt.BindText(1, articleSlug)

	if _, err := stmt.Step(); err != nil {
		return fmt.Errorf("failed to delete article: %w", err)
	}

	return nil
}
