// Package tools defines the operation names, typed request/response
// schemas, and the advertised descriptor catalog for the boardsite
// tool gateway.
package tools

import (
	"github.com/boardroles/boardsite/internal/store"
)

const (
	// ToolListArticles is the name of the list_articles tool
	ToolListArticles = "list_articles"

	// ToolGetArticle is the name of the get_article tool
	ToolGetArticle = "get_article"

	// ToolCreateArticle is the name of the create_article tool
	ToolCreateArticle = "create_article"

	// ToolEditArticle is the name of the edit_article tool
	ToolEditArticle = "edit_article"

	// ToolDeleteArticle is the name of the delete_article tool
	ToolDeleteArticle = "delete_article"

	// ToolUpdateTheme is the name of the update_theme tool
	ToolUpdateTheme = "update_theme"

	// ToolGetSiteConfig is the name of the get_site_config tool
	ToolGetSiteConfig = "get_site_config"

	// ToolUpdateSiteConfig is the name of the update_site_config tool
	ToolUpdateSiteConfig = "update_site_config"

	// ToolPublishChanges is the name of the publish_changes tool
	ToolPublishChanges = "publish_changes"
)

// ListArticlesRequest defines the input schema for list_articles
type ListArticlesRequest struct{}

// ListArticlesResponse defines the output schema for list_articles
type ListArticlesResponse struct {
	// Status indicates the result of the operation ("success" or "error")
	Status string `json:"status"`

	// Articles contains the article summaries, newest first
	Articles []store.Summary `json:"articles"`

	// Error contains an error message if Status is "error"
	Error string `json:"error,omitempty"`
}

// GetArticleRequest defines the input schema for get_article
type GetArticleRequest struct {
	// Slug identifies the article to fetch
	Slug string `json:"slug"`
}

// GetArticleResponse defines the output schema for get_article
type GetArticleResponse struct {
	Status  string         `json:"status"`
	Article *store.Article `json:"article,omitempty"`
	Error   string         `json:"error,omitempty"`
}

// CreateArticleRequest defines the input schema for create_article
type CreateArticleRequest struct {
	// Title is the article title; the slug is derived from it
	Title string `json:"title"`

	// Content is the article body in markdown
	Content string `json:"content"`

	// Category is the article category
	Category string `json:"category"`

	// Excerpt is a short summary of the article
	Excerpt string `json:"excerpt"`
}

// CreateArticleResponse defines the output schema for create_article
type CreateArticleResponse struct {
	Status  string         `json:"status"`
	Article *store.Article `json:"article,omitempty"`
	Error   string         `json:"error,omitempty"`
}

// EditArticleRequest defines the input schema for edit_article.
// All fields other than Slug are optional; empty fields leave the
// stored value unchanged.
type EditArticleRequest struct {
	Slug     string `json:"slug"`
	Title    string `json:"title,omitempty"`
	Content  string `json:"content,omitempty"`
	Category string `json:"category,omitempty"`
	Excerpt  string `json:"excerpt,omitempty"`
}

// EditArticleResponse defines the output schema for edit_article
type EditArticleResponse struct {
	Status  string         `json:"status"`
	Article *store.Article `json:"article,omitempty"`
	Error   string         `json:"error,omitempty"`
}

// DeleteArticleRequest defines the input schema for delete_article
type DeleteArticleRequest struct {
	Slug string `json:"slug"`
}

// DeleteArticleResponse defines the output schema for delete_article
type DeleteArticleResponse struct {
	Status string `json:"status"`

	// Deleted echoes the slug that ceased to resolve
	Deleted string `json:"deleted,omitempty"`

	Error string `json:"error,omitempty"`
}

// UpdateThemeRequest defines the input schema for update_theme
type UpdateThemeRequest struct {
	// Primary is the primary color hex code (e.g. #1e40af)
	Primary string `json:"primary,omitempty"`

	// Accent is the accent color hex code (e.g. #0891b2)
	Accent string `json:"accent,omitempty"`
}

// UpdateThemeResponse defines the output schema for update_theme
type UpdateThemeResponse struct {
	Status  string            `json:"status"`
	Updated bool              `json:"updated"`
	Colors  map[string]string `json:"colors,omitempty"`
	Error   string            `json:"error,omitempty"`
}

// GetSiteConfigRequest defines the input schema for get_site_config
type GetSiteConfigRequest struct{}

// GetSiteConfigResponse defines the output schema for get_site_config
type GetSiteConfigResponse struct {
	Status string         `json:"status"`
	Config map[string]any `json:"config,omitempty"`
	Error  string         `json:"error,omitempty"`
}

// UpdateSiteConfigRequest defines the input schema for update_site_config
type UpdateSiteConfigRequest struct {
	SiteName        string `json:"siteName,omitempty"`
	SiteDescription string `json:"siteDescription,omitempty"`
	HeroTitle       string `json:"heroTitle,omitempty"`
	HeroDescription string `json:"heroDescription,omitempty"`
}

// UpdateSiteConfigResponse defines the output schema for update_site_config
type UpdateSiteConfigResponse struct {
	Status string         `json:"status"`
	Config map[string]any `json:"config,omitempty"`
	Error  string         `json:"error,omitempty"`
}

// PublishChangesRequest defines the input schema for publish_changes
type PublishChangesRequest struct {
	// Message is the commit message describing the changes
	Message string `json:"message"`
}

// PublishChangesResponse defines the output schema for publish_changes
type PublishChangesResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}
