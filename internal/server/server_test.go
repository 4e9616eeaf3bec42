package server

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/boardroles/boardsite/internal/store"
	"github.com/boardroles/boardsite/internal/telemetry"
	"github.com/boardroles/boardsite/internal/tools"
)

var testError = errors.New("test error")

// MockStore implements the store.ArticleStore interface for testing
type MockStore struct {
	Articles    map[string]*store.Article
	CreatedSlug string
	DeletedSlug string
	ReturnError bool
}

func NewMockStore() *MockStore {
	return &MockStore{Articles: map[string]*store.Article{}}
}

func (m *MockStore) List(ctx context.Context) ([]store.Summary, error) {
	if m.ReturnError {
		return nil, testError
	}
	summaries := []store.Summary{}
	for _, a := range m.Articles {
		summaries = append(summaries, store.Summary{
			Slug:     a.Slug,
			Title:    a.Title,
			Excerpt:  a.Excerpt,
			Category: a.Category,
			Date:     a.Date,
		})
	}
	return summaries, nil
}

func (m *MockStore) Get(ctx context.Context, slug string) (*store.Article, error) {
	if m.ReturnError {
		return nil, testError
	}
	article, exists := m.Articles[slug]
	if !exists {
		return nil, fmt.Errorf("%w: %s", store.ErrNotFound, slug)
	}
	return article, nil
}

func (m *MockStore) Create(ctx context.Context, title, content, category, excerpt string) (*store.Article, error) {
	if m.ReturnError {
		return nil, testError
	}
	slug := strings.ToLower(strings.ReplaceAll(title, " ", "-"))
	article := &store.Article{
		Slug:     slug,
		Title:    title,
		Excerpt:  excerpt,
		Category: category,
		Date:     "2026-09-01",
		Content:  content,
	}
	m.Articles[slug] = article
	m.CreatedSlug = slug
	return article, nil
}

func (m *MockStore) Update(ctx context.Context, slug string, fields store.Fields) (*store.Article, error) {
	if m.ReturnError {
		return nil, testError
	}
	article, exists := m.Articles[slug]
	if !exists {
		return nil, fmt.Errorf("%w: %s", store.ErrNotFound, slug)
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
	return article, nil
}

func (m *MockStore) Delete(ctx context.Context, slug string) error {
	if m.ReturnError {
		return testError
	}
	if _, exists := m.Articles[slug]; !exists {
		return fmt.Errorf("%w: %s", store.ErrNotFound, slug)
	}
	delete(m.Articles, slug)
	m.DeletedSlug = slug
	return nil
}

func (m *MockStore) Close() error {
	if m.ReturnError {
		return testError
	}
	return nil
}

// MockSiteStore extends MockStore with the file-backend capabilities
type MockSiteStore struct {
	MockStore
	SiteConfig     map[string]any
	ThemePrimary   string
	ThemeAccent    string
	PublishMessage string
}

func NewMockSiteStore() *MockSiteStore {
	return &MockSiteStore{
		MockStore:  MockStore{Articles: map[string]*store.Article{}},
		SiteConfig: map[string]any{"siteName": "Board Roles"},
	}
}

func (m *MockSiteStore) GetSiteConfig(ctx context.Context) (map[string]any, error) {
	if m.ReturnError {
		return nil, testError
	}
	return m.SiteConfig, nil
}

func (m *MockSiteStore) UpdateSiteConfig(ctx context.Context, fields store.SiteConfigFields) (map[string]any, error) {
	if m.ReturnError {
		return nil, testError
	}
	if fields.SiteName != "" {
		m.SiteConfig["siteName"] = fields.SiteName
	}
	if fields.SiteDescription != "" {
		m.SiteConfig["siteDescription"] = fields.SiteDescription
	}
	return m.SiteConfig, nil
}

func (m *MockSiteStore) UpdateTheme(ctx context.Context, primary, accent string) error {
	if m.ReturnError {
		return testError
	}
	m.ThemePrimary = primary
	m.ThemeAccent = accent
	return nil
}

func (m *MockSiteStore) Publish(ctx context.Context, message string) error {
	if m.ReturnError {
		return testError
	}
	m.PublishMessage = message
	return nil
}

func newTestServer(t *testing.T, st store.ArticleStore) *MCPArticleToolServer {
	t.Helper()
	server := NewArticleToolServer(st, telemetry.NewMetricsCollector())
	if err := server.Initialize(); err != nil {
		t.Fatalf("Failed to initialize server: %v", err)
	}
	return server
}

// TestCreateArticle tests the create_article tool handler
func TestCreateArticle(t *testing.T) {
	mockStore := NewMockStore()
	server := newTestServer(t, mockStore)

	req := tools.CreateArticleRequest{
		Title:    "My First Post",
		Content:  "# Hello\n\nBody text.",
		Category: "Governance",
		Excerpt:  "A short excerpt",
	}

	response, err := server.handleCreateArticle(nil, req)
	if err != nil {
		t.Fatalf("Handler returned error: %v", err)
	}

	if response.Status != "success" {
		t.Errorf("Expected status 'success', got '%s'", response.Status)
	}
	if response.Article == nil {
		t.Fatal("Expected article in response")
	}
	if response.Article.Slug != "my-first-post" {
		t.Errorf("Expected slug 'my-first-post', got '%s'", response.Article.Slug)
	}
	if mockStore.CreatedSlug != "my-first-post" {
		t.Errorf("Expected store create for 'my-first-post', got '%s'", mockStore.CreatedSlug)
	}
}

// TestCreateArticleMissingFields tests validation of create_article
func TestCreateArticleMissingFields(t *testing.T) {
	mockStore := NewMockStore()
	server := newTestServer(t, mockStore)

	req := tools.CreateArticleRequest{
		Title: "Only a title",
	}

	response, err := server.handleCreateArticle(nil, req)
	if err != nil {
		t.Fatalf("Handler returned error: %v", err)
	}

	if response.Status != "error" {
		t.Errorf("Expected status 'error', got '%s'", response.Status)
	}
	if response.Error == "" {
		t.Error("Expected error message in response")
	}
	if mockStore.CreatedSlug != "" {
		t.Error("Store should not have been called")
	}
}

// TestGetArticle tests the get_article tool handler
func TestGetArticle(t *testing.T) {
	mockStore := NewMockStore()
	mockStore.Articles["welcome"] = &store.Article{
		Slug:  "welcome",
		Title: "Welcome",
		Date:  "2026-01-15",
	}
	server := newTestServer(t, mockStore)

	response, err := server.handleGetArticle(nil, tools.GetArticleRequest{Slug: "welcome"})
	if err != nil {
		t.Fatalf("Handler returned error: %v", err)
	}

	if response.Status != "success" {
		t.Errorf("Expected status 'success', got '%s'", response.Status)
	}
	if response.Article == nil || response.Article.Title != "Welcome" {
		t.Errorf("Expected article 'Welcome', got %+v", response.Article)
	}
}

// TestGetArticleNotFound tests the not-found path of get_article
func TestGetArticleNotFound(t *testing.T) {
	server := newTestServer(t, NewMockStore())

	response, err := server.handleGetArticle(nil, tools.GetArticleRequest{Slug: "missing"})
	if err != nil {
		t.Fatalf("Handler returned error: %v", err)
	}

	if response.Status != "error" {
		t.Errorf("Expected status 'error', got '%s'", response.Status)
	}
	if !strings.Contains(response.Error, "not found") {
		t.Errorf("Expected not-found error, got '%s'", response.Error)
	}
}

// TestGetArticleEmptySlug tests validation of get_article
func TestGetArticleEmptySlug(t *testing.T) {
	server := newTestServer(t, NewMockStore())

	response, err := server.handleGetArticle(nil, tools.GetArticleRequest{})
	if err != nil {
		t.Fatalf("Handler returned error: %v", err)
	}

	if response.Status != "error" {
		t.Errorf("Expected status 'error', got '%s'", response.Status)
	}
}

// TestEditArticlePartialUpdate tests that edit_article leaves omitted
// fields untouched
func TestEditArticlePartialUpdate(t *testing.T) {
	mockStore := NewMockStore()
	mockStore.Articles["my-first-post"] = &store.Article{
		Slug:     "my-first-post",
		Title:    "My First Post",
		Excerpt:  "A short excerpt",
		Category: "Governance",
		Date:     "2026-01-15",
		Content:  "Body",
	}
	server := newTestServer(t, mockStore)

	req := tools.EditArticleRequest{
		Slug:     "my-first-post",
		Category: "Compliance",
	}

	response, err := server.handleEditArticle(nil, req)
	if err != nil {
		t.Fatalf("Handler returned error: %v", err)
	}

	if response.Status != "success" {
		t.Errorf("Expected status 'success', got '%s'", response.Status)
	}
	if response.Article.Category != "Compliance" {
		t.Errorf("Expected category 'Compliance', got '%s'", response.Article.Category)
	}
	if response.Article.Title != "My First Post" {
		t.Errorf("Title should be unchanged, got '%s'", response.Article.Title)
	}
	if response.Article.Date != "2026-01-15" {
		t.Errorf("Date should be unchanged, got '%s'", response.Article.Date)
	}
}

// TestDeleteArticle tests the delete_article tool handler
func TestDeleteArticle(t *testing.T) {
	mockStore := NewMockStore()
	mockStore.Articles["old-post"] = &store.Article{Slug: "old-post"}
	server := newTestServer(t, mockStore)

	response, err := server.handleDeleteArticle(nil, tools.DeleteArticleRequest{Slug: "old-post"})
	if err != nil {
		t.Fatalf("Handler returned error: %v", err)
	}

	if response.Status != "success" {
		t.Errorf("Expected status 'success', got '%s'", response.Status)
	}
	if response.Deleted != "old-post" {
		t.Errorf("Expected deleted slug 'old-post', got '%s'", response.Deleted)
	}
	if mockStore.DeletedSlug != "old-post" {
		t.Errorf("Expected store delete for 'old-post', got '%s'", mockStore.DeletedSlug)
	}
}

// TestDeleteArticleNotFound tests the not-found path of delete_article
func TestDeleteArticleNotFound(t *testing.T) {
	server := newTestServer(t, NewMockStore())

	response, err := server.handleDeleteArticle(nil, tools.DeleteArticleRequest{Slug: "missing"})
	if err != nil {
		t.Fatalf("Handler returned error: %v", err)
	}

	if response.Status != "error" {
		t.Errorf("Expected status 'error', got '%s'", response.Status)
	}
}

// TestListArticlesStoreFailure tests the error envelope on store failure
func TestListArticlesStoreFailure(t *testing.T) {
	mockStore := NewMockStore()
	mockStore.ReturnError = true
	server := newTestServer(t, mockStore)

	response, err := server.handleListArticles(nil, tools.ListArticlesRequest{})
	if err != nil {
		t.Fatalf("Handler returned error: %v", err)
	}

	if response.Status != "error" {
		t.Errorf("Expected status 'error', got '%s'", response.Status)
	}
	if response.Error == "" {
		t.Error("Expected error message in response")
	}
}

// TestUpdateTheme tests the update_theme tool handler
func TestUpdateTheme(t *testing.T) {
	mockStore := NewMockSiteStore()
	server := newTestServer(t, mockStore)

	req := tools.UpdateThemeRequest{Primary: "#1e40af", Accent: "#0891b2"}

	response, err := server.handleUpdateTheme(nil, req)
	if err != nil {
		t.Fatalf("Handler returned error: %v", err)
	}

	if response.Status != "success" {
		t.Errorf("Expected status 'success', got '%s'", response.Status)
	}
	if !response.Updated {
		t.Error("Expected updated=true")
	}
	if mockStore.ThemePrimary != "#1e40af" || mockStore.ThemeAccent != "#0891b2" {
		t.Errorf("Store did not receive theme colors: %s / %s",
			mockStore.ThemePrimary, mockStore.ThemeAccent)
	}
}

// TestUpdateSiteConfigMerge tests that update_site_config merges fields
func TestUpdateSiteConfigMerge(t *testing.T) {
	mockStore := NewMockSiteStore()
	server := newTestServer(t, mockStore)

	req := tools.UpdateSiteConfigRequest{SiteDescription: "Articles on board governance"}

	response, err := server.handleUpdateSiteConfig(nil, req)
	if err != nil {
		t.Fatalf("Handler returned error: %v", err)
	}

	if response.Status != "success" {
		t.Errorf("Expected status 'success', got '%s'", response.Status)
	}
	if response.Config["siteName"] != "Board Roles" {
		t.Errorf("Existing keys should survive, got %+v", response.Config)
	}
	if response.Config["siteDescription"] != "Articles on board governance" {
		t.Errorf("Expected merged description, got %+v", response.Config)
	}
}

// TestPublishChanges tests the publish_changes tool handler
func TestPublishChanges(t *testing.T) {
	mockStore := NewMockSiteStore()
	server := newTestServer(t, mockStore)

	response, err := server.handlePublishChanges(nil, tools.PublishChangesRequest{Message: "Add new article"})
	if err != nil {
		t.Fatalf("Handler returned error: %v", err)
	}

	if response.Status != "success" {
		t.Errorf("Expected status 'success', got '%s'", response.Status)
	}
	if mockStore.PublishMessage != "Add new article" {
		t.Errorf("Expected commit message to reach store, got '%s'", mockStore.PublishMessage)
	}
}

// TestPublishChangesEmptyMessage tests validation of publish_changes
func TestPublishChangesEmptyMessage(t *testing.T) {
	mockStore := NewMockSiteStore()
	server := newTestServer(t, mockStore)

	response, err := server.handlePublishChanges(nil, tools.PublishChangesRequest{})
	if err != nil {
		t.Fatalf("Handler returned error: %v", err)
	}

	if response.Status != "error" {
		t.Errorf("Expected status 'error', got '%s'", response.Status)
	}
	if mockStore.PublishMessage != "" {
		t.Error("Store should not have been called")
	}
}

// TestInitializeMissingDependencies tests the nil-dependency guard
func TestInitializeMissingDependencies(t *testing.T) {
	server := NewArticleToolServer(nil, nil)
	if err := server.Initialize(); err == nil {
		t.Error("Expected error for missing dependencies")
	}
}
