package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/boardroles/boardsite/internal/frontmatter"
	"github.com/boardroles/boardsite/internal/slug"
)

const dateLayout = "2006-01-02"

var (
	primaryPattern = regexp.MustCompile(`(--primary:\s*)#[0-9a-fA-F]{6}`)
	accentPattern  = regexp.MustCompile(`(--accent:\s*)#[0-9a-fA-F]{6}`)
	hexColor       = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)
)

// FileStoreConfig holds the paths of the site checkout the store
// operates on. Relative paths are resolved against Root.
type FileStoreConfig struct {
	Root        string
	ArticlesDir string
	ConfigFile  string
	ThemeFile   string
}

// FileStore persists articles as front-matter markdown files in a
// directory, alongside a JSON site configuration document and a
// stylesheet. It has no locking discipline: concurrent external
// modification is last-write-wins.
type FileStore struct {
	root        string
	articlesDir string
	configFile  string
	themeFile   string
}

// NewFileStore creates a FileStore for the given site checkout.
func NewFileStore(cfg FileStoreConfig) *FileStore {
	resolve := func(path string) string {
		if path == "" || filepath.IsAbs(path) {
			return path
		}
		return filepath.Join(cfg.Root, path)
	}
	return &FileStore{
		root:        cfg.Root,
		articlesDir: resolve(cfg.ArticlesDir),
		configFile:  resolve(cfg.ConfigFile),
		themeFile:   resolve(cfg.ThemeFile),
	}
}

func (s *FileStore) articlePath(articleSlug string) string {
	return filepath.Join(s.articlesDir, articleSlug+".md")
}

func (s *FileStore) ensureDir() error {
	return os.MkdirAll(s.articlesDir, 0o755)
}

// List returns summaries for every .md file in the articles directory,
// ordered by date descending. Equal dates carry no order guarantee.
// A malformed file fails the whole listing rather than being skipped.
func (s *FileStore) List(ctx context.Context) ([]Summary, error) {
	if err := s.ensureDir(); err != nil {
		return nil, fmt.Errorf("failed to create articles directory: %w", err)
	}

	entries, err := os.ReadDir(s.articlesDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read articles directory: %w", err)
	}

	summaries := make([]Summary, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".md") {
			continue
		}

		raw, err := os.ReadFile(filepath.Join(s.articlesDir, name))
		if err != nil {
			return nil, fmt.Errorf("failed to read article %s: %w", name, err)
		}

		fm, _, err := frontmatter.Decode(string(raw))
		if err != nil {
			return nil, fmt.Errorf("failed to decode article %s: %w", name, err)
		}

		summaries = append(summaries, Summary{
			Slug:     strings.TrimSuffix(name, ".md"),
			Title:    fm.Title,
			Excerpt:  fm.Excerpt,
			Category: fm.Category,
			Date:     fm.Date,
		})
	}

	// ISO dates sort lexicographically; sort.Slice is not stable, so
	// ties keep no particular order.
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Date > summaries[j].Date
	})

	return summaries, nil
}

// Get returns the full article with the given slug.
func (s *FileStore) Get(ctx context.Context, articleSlug string) (*Article, error) {
	raw, err := os.ReadFile(s.articlePath(articleSlug))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, articleSlug)
		}
		return nil, fmt.Errorf("failed to read article %s: %w", articleSlug, err)
	}

	fm, body, err := frontmatter.Decode(string(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to decode article %s: %w", articleSlug, err)
	}

	return &Article{
		Slug:     articleSlug,
		Title:    fm.Title,
		Excerpt:  fm.Excerpt,
		Category: fm.Category,
		Date:     fm.Date,
		Content:  body,
	}, nil
}

// Create writes a new article file named after the derived slug. Two
// titles normalizing to the same slug silently overwrite each other
// (last write wins).
func (s *FileStore) Create(ctx context.Context, title, content, category, excerpt string) (*Article, error) {
	if err := s.ensureDir(); err != nil {
		return nil, fmt.Errorf("failed to create articles directory: %w", err)
	}

	article := &Article{
		Slug:     slug.Make(title),
		Title:    title,
		Excerpt:  excerpt,
		Category: category,
		Date:     time.Now().UTC().Format(dateLayout),
		Content:  content,
	}

	if err := s.write(article); err != nil {
		return nil, err
	}

	slog.Debug("Created article file", "slug", article.Slug)
	return article, nil
}

// Update overwrites only the supplied fields of an existing article.
// The date is preserved unconditionally.
func (s *FileStore) Update(ctx context.Context, articleSlug string, fields Fields) (*Article, error) {
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

	if err := s.write(article); err != nil {
		return nil, err
	}

	slog.Debug("Updated article file", "slug", articleSlug)
	return article, nil
}

// Delete removes the article file.
func (s *FileStore) Delete(ctx context.Context, articleSlug string) error {
	path := s.articlePath(articleSlug)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrNotFound, articleSlug)
		}
		return fmt.Errorf("failed to stat article %s: %w", articleSlug, err)
	}

	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to delete article %s: %w", articleSlug, err)
	}

	slog.Debug("Deleted article file", "slug", articleSlug)
	return nil
}

// Close is a no-op for the file backend.
func (s *FileStore) Close() error {
	return nil
}

func (s *FileStore) write(article *Article) error {
	fm := frontmatter.FrontMatter{
		Title:    article.Title,
		Excerpt:  article.Excerpt,
		Date:     article.Date,
		Category: article.Category,
	}
	text := frontmatter.Encode(fm, article.Content)

	if err := os.WriteFile(s.articlePath(article.Slug), []byte(text), 0o644); err != nil {
		return fmt.Errorf("failed to write article %s: %w", article.Slug, err)
	}
	return nil
}

// GetSiteConfig reads the site configuration document. A missing file
// yields an empty document.
func (s *FileStore) GetSiteConfig(ctx context.Context) (map[string]any, error) {
	raw, err := os.ReadFile(s.configFile)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]any{}, nil
		}
		return nil, fmt.Errorf("failed to read site config: %w", err)
	}

	config := map[string]any{}
	if err := json.Unmarshal(raw, &config); err != nil {
		return nil, fmt.Errorf("failed to parse site config: %w", err)
	}
	return config, nil
}

// UpdateSiteConfig merges the supplied fields into the document and
// writes it back wholesale. Keys the tool layer does not know about
// are preserved; the homepage block is created if absent.
func (s *FileStore) UpdateSiteConfig(ctx context.Context, fields SiteConfigFields) (map[string]any, error) {
	config, err := s.GetSiteConfig(ctx)
	if err != nil {
		return nil, err
	}

	if fields.SiteName != "" {
		config["siteName"] = fields.SiteName
	}
	if fields.SiteDescription != "" {
		config["siteDescription"] = fields.SiteDescription
	}
	if fields.HeroTitle != "" || fields.HeroDescription != "" {
		homepage, _ := config["homepage"].(map[string]any)
		if homepage == nil {
			homepage = map[string]any{}
		}
		if fields.HeroTitle != "" {
			homepage["heroTitle"] = fields.HeroTitle
		}
		if fields.HeroDescription != "" {
			homepage["heroDescription"] = fields.HeroDescription
		}
		config["homepage"] = homepage
	}

	raw, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal site config: %w", err)
	}
	if err := os.WriteFile(s.configFile, raw, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write site config: %w", err)
	}

	slog.Debug("Updated site config", "path", s.configFile)
	return config, nil
}

// UpdateTheme substitutes the --primary and/or --accent custom
// property values in the stylesheet. Colors must be #RRGGBB; the value
// is spliced into a regexp replacement, so it is validated first.
func (s *FileStore) UpdateTheme(ctx context.Context, primary, accent string) error {
	for _, color := range []string{primary, accent} {
		if color != "" && !hexColor.MatchString(color) {
			return fmt.Errorf("invalid color %q: expected #RRGGBB", color)
		}
	}

	raw, err := os.ReadFile(s.themeFile)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("theme file not found: %s", s.themeFile)
		}
		return fmt.Errorf("failed to read theme file: %w", err)
	}

	css := string(raw)
	if primary != "" {
		css = primaryPattern.ReplaceAllString(css, "${1}"+primary)
	}
	if accent != "" {
		css = accentPattern.ReplaceAllString(css, "${1}"+accent)
	}

	if err := os.WriteFile(s.themeFile, []byte(css), 0o644); err != nil {
		return fmt.Errorf("failed to write theme file: %w", err)
	}

	slog.Debug("Updated theme colors", "primary", primary, "accent", accent)
	return nil
}

// Publish stages everything in the site checkout, commits with the
// given message, and pushes. This shells out to the git binary and is
// only intended for operator-controlled transports.
func (s *FileStore) Publish(ctx context.Context, message string) error {
	commands := [][]string{
		{"add", "."},
		{"commit", "-m", message},
		{"push"},
	}

	for _, args := range commands {
		cmd := exec.CommandContext(ctx, "git", args...)
		cmd.Dir = s.root
		if out, err := cmd.CombinedOutput(); err != nil {
			return fmt.Errorf("git %s failed: %v: %s", args[0], err, strings.TrimSpace(string(out)))
		}
	}

	slog.Info("Published site changes", "message", message)
	return nil
}
