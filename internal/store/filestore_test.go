package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFileStore(t *testing.T) *FileStore {
	t.Helper()
	return NewFileStore(FileStoreConfig{
		Root:        t.TempDir(),
		ArticlesDir: "content/articles",
		ConfigFile:  "content/site-config.json",
		ThemeFile:   "src/app/globals.css",
	})
}

func TestFileStoreCreateAndGet(t *testing.T) {
	s := newTestFileStore(t)
	ctx := context.Background()

	created, err := s.Create(ctx, "Hello, World!", "# Hi\n\nBody.", "Governance", "An excerpt")
	require.NoError(t, err)
	assert.Equal(t, "hello-world", created.Slug)
	assert.Equal(t, time.Now().UTC().Format("2006-01-02"), created.Date)

	fetched, err := s.Get(ctx, "hello-world")
	require.NoError(t, err)
	assert.Equal(t, created.Title, fetched.Title)
	assert.Equal(t, created.Excerpt, fetched.Excerpt)
	assert.Equal(t, created.Category, fetched.Category)
	assert.Equal(t, created.Date, fetched.Date)
	assert.Equal(t, "# Hi\n\nBody.", fetched.Content)
}

func TestFileStoreGetNotFound(t *testing.T) {
	s := newTestFileStore(t)

	_, err := s.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileStoreUpdatePartial(t *testing.T) {
	s := newTestFileStore(t)
	ctx := context.Background()

	created, err := s.Create(ctx, "My First Post", "Body", "Governance", "Excerpt")
	require.NoError(t, err)

	updated, err := s.Update(ctx, created.Slug, Fields{Category: "Compliance"})
	require.NoError(t, err)
	assert.Equal(t, "Compliance", updated.Category)
	assert.Equal(t, "My First Post", updated.Title)
	assert.Equal(t, "Body", updated.Content)
	assert.Equal(t, created.Date, updated.Date)

	fetched, err := s.Get(ctx, created.Slug)
	require.NoError(t, err)
	assert.Equal(t, "Compliance", fetched.Category)
	assert.Equal(t, created.Date, fetched.Date)
}

func TestFileStoreUpdateNotFound(t *testing.T) {
	s := newTestFileStore(t)

	_, err := s.Update(context.Background(), "missing", Fields{Title: "New"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileStoreDelete(t *testing.T) {
	s := newTestFileStore(t)
	ctx := context.Background()

	created, err := s.Create(ctx, "Short Lived", "Body", "News", "E")
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, created.Slug))

	_, err = s.Get(ctx, created.Slug)
	assert.ErrorIs(t, err, ErrNotFound)

	err = s.Delete(ctx, created.Slug)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileStoreListOrder(t *testing.T) {
	s := newTestFileStore(t)
	ctx := context.Background()

	// Write files directly so the dates differ.
	require.NoError(t, s.ensureDir())
	write := func(slug, date string) {
		raw := "---\ntitle: " + slug + "\nexcerpt: e\ndate: " + date + "\ncategory: c\n---\n\nbody\n"
		require.NoError(t, os.WriteFile(s.articlePath(slug), []byte(raw), 0o644))
	}
	write("oldest", "2024-03-01")
	write("newest", "2026-07-15")
	write("middle", "2025-11-30")

	summaries, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 3)
	assert.Equal(t, "newest", summaries[0].Slug)
	assert.Equal(t, "middle", summaries[1].Slug)
	assert.Equal(t, "oldest", summaries[2].Slug)
}

func TestFileStoreListEmpty(t *testing.T) {
	s := newTestFileStore(t)

	summaries, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, summaries)
}

func TestFileStoreMalformedArticle(t *testing.T) {
	s := newTestFileStore(t)
	ctx := context.Background()

	require.NoError(t, s.ensureDir())
	require.NoError(t, os.WriteFile(s.articlePath("broken"), []byte("no front matter here"), 0o644))

	_, err := s.Get(ctx, "broken")
	assert.ErrorIs(t, err, ErrInvalidFormat)

	_, err = s.List(ctx)
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestFileStoreSiteConfigMissingFile(t *testing.T) {
	s := newTestFileStore(t)

	config, err := s.GetSiteConfig(context.Background())
	require.NoError(t, err)
	assert.Empty(t, config)
}

func TestFileStoreSiteConfigMerge(t *testing.T) {
	s := newTestFileStore(t)
	ctx := context.Background()

	require.NoError(t, os.MkdirAll(filepath.Dir(s.configFile), 0o755))
	seed := `{"siteName":"Board Roles","footer":{"copyright":"2026"}}`
	require.NoError(t, os.WriteFile(s.configFile, []byte(seed), 0o644))

	config, err := s.UpdateSiteConfig(ctx, SiteConfigFields{
		SiteDescription: "Articles on board governance",
		HeroTitle:       "Welcome",
	})
	require.NoError(t, err)

	assert.Equal(t, "Board Roles", config["siteName"])
	assert.Equal(t, "Articles on board governance", config["siteDescription"])

	homepage, ok := config["homepage"].(map[string]any)
	require.True(t, ok, "homepage block should be created")
	assert.Equal(t, "Welcome", homepage["heroTitle"])

	// Unknown keys survive the round trip on disk too.
	raw, err := os.ReadFile(s.configFile)
	require.NoError(t, err)
	var onDisk map[string]any
	require.NoError(t, json.Unmarshal(raw, &onDisk))
	assert.Contains(t, onDisk, "footer")
}

func TestFileStoreUpdateTheme(t *testing.T) {
	s := newTestFileStore(t)
	ctx := context.Background()

	css := ":root {\n  --primary: #1e40af;\n  --accent: #0891b2;\n}\n"
	require.NoError(t, os.MkdirAll(filepath.Dir(s.themeFile), 0o755))
	require.NoError(t, os.WriteFile(s.themeFile, []byte(css), 0o644))

	require.NoError(t, s.UpdateTheme(ctx, "#112233", ""))

	raw, err := os.ReadFile(s.themeFile)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "--primary: #112233")
	assert.Contains(t, string(raw), "--accent: #0891b2")
}

func TestFileStoreUpdateThemeInvalidColor(t *testing.T) {
	s := newTestFileStore(t)

	err := s.UpdateTheme(context.Background(), "blue", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid color")

	err = s.UpdateTheme(context.Background(), "#12345", "")
	require.Error(t, err)
}

func TestFileStoreUpdateThemeMissingFile(t *testing.T) {
	s := newTestFileStore(t)

	err := s.UpdateTheme(context.Background(), "#112233", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "theme file not found")
}

func TestFileStoreCreateSameSlugOverwrites(t *testing.T) {
	s := newTestFileStore(t)
	ctx := context.Background()

	_, err := s.Create(ctx, "Board Duties", "First", "A", "E1")
	require.NoError(t, err)
	_, err = s.Create(ctx, "Board, Duties!", "Second", "B", "E2")
	require.NoError(t, err)

	fetched, err := s.Get(ctx, "board-duties")
	require.NoError(t, err)
	assert.Equal(t, "Second", fetched.Content)

	summaries, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, summaries, 1)
}
