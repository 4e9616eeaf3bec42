package server

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/localrivet/gomcp/server"

	"github.com/boardroles/boardsite/internal/errortypes"
	"github.com/boardroles/boardsite/internal/store"
	"github.com/boardroles/boardsite/internal/telemetry"
	"github.com/boardroles/boardsite/internal/tools"
)

// Common server error types
var (
	ErrServerNotInitialized = errors.New("server not initialized")
	ErrMissingDependencies  = errors.New("one or more required dependencies are nil")
)

// MCPArticleToolServer implements the ArticleToolServer interface for
// handling MCP tool calls against an injected article store.
type MCPArticleToolServer struct {
	store     store.ArticleStore
	metrics   *telemetry.MetricsCollector
	mcpServer server.Server
}

// NewArticleToolServer creates a new MCPArticleToolServer instance.
func NewArticleToolServer(st store.ArticleStore, metrics *telemetry.MetricsCollector) *MCPArticleToolServer {
	return &MCPArticleToolServer{
		store:   st,
		metrics: metrics,
	}
}

// Initialize registers the tool handlers. The file-only tools are
// registered only when the configured backend provides the matching
// capability, so a table-backed deployment never advertises them.
func (s *MCPArticleToolServer) Initialize() error {
	slog.Info("Initializing boardsite MCP tool server")

	if s.store == nil || s.metrics == nil {
		return errortypes.ConfigError(ErrMissingDependencies, "server initialization failed")
	}

	srv := server.NewServer("boardsite")

	srv = srv.Tool(tools.ToolListArticles, "List all articles on the website",
		s.handleListArticles)

	srv = srv.Tool(tools.ToolGetArticle, "Get the full content of a specific article",
		s.handleGetArticle)

	srv = srv.Tool(tools.ToolCreateArticle, "Create a new article on the website",
		s.handleCreateArticle)

	srv = srv.Tool(tools.ToolEditArticle, "Edit an existing article",
		s.handleEditArticle)

	srv = srv.Tool(tools.ToolDeleteArticle, "Delete an article from the website",
		s.handleDeleteArticle)

	toolCount := 5

	if _, ok := s.store.(store.ThemeStore); ok {
		srv = srv.Tool(tools.ToolUpdateTheme, "Update the website theme colors",
			s.handleUpdateTheme)
		toolCount++
	}

	if _, ok := s.store.(store.SiteConfigStore); ok {
		srv = srv.Tool(tools.ToolGetSiteConfig, "Get the current site configuration",
			s.handleGetSiteConfig)
		srv = srv.Tool(tools.ToolUpdateSiteConfig, "Update site configuration (name, description, etc.)",
			s.handleUpdateSiteConfig)
		toolCount += 2
	}

	if _, ok := s.store.(store.Publisher); ok {
		srv = srv.Tool(tools.ToolPublishChanges, "Commit and push all changes to deploy the website",
			s.handlePublishChanges)
		toolCount++
	}

	s.mcpServer = srv
	slog.Info("Boardsite MCP tool server initialized successfully", "tool_count", toolCount)
	return nil
}

// Start starts the MCP server on the stdio transport.
func (s *MCPArticleToolServer) Start() error {
	if s.mcpServer == nil {
		return errortypes.ConfigError(ErrServerNotInitialized, "cannot start server")
	}

	slog.Info("Starting boardsite MCP tool server")

	stdioServer := s.mcpServer.AsStdio()
	return stdioServer.Run()
}

// Stop gracefully shuts down the MCP server.
func (s *MCPArticleToolServer) Stop() error {
	slog.Info("Stopping boardsite MCP tool server")
	// The server will exit when stdin is closed
	return nil
}

// recordCall updates the shared call metrics for one tool invocation.
func (s *MCPArticleToolServer) recordCall(tool string) {
	s.metrics.IncrementCounter(telemetry.MetricToolCalls, 1)
	s.metrics.IncrementCounter(telemetry.MetricForTool(tool), 1)
	s.metrics.RecordTimestamp(telemetry.MetricLastCall)
}

// wrapStoreError classifies a store error into the matching typed error.
func wrapStoreError(err error, message string) *errortypes.AppError {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return errortypes.NotFoundError(err, message)
	case errors.Is(err, store.ErrInvalidFormat):
		return errortypes.FormatError(err, message)
	default:
		return errortypes.DatabaseError(err, message)
	}
}

// handleListArticles handles the list_articles MCP tool call.
func (s *MCPArticleToolServer) handleListArticles(ctx *server.Context, req tools.ListArticlesRequest) (tools.ListArticlesResponse, error) {
	slog.Info("Processing list_articles request")
	s.recordCall(tools.ToolListArticles)

	response := tools.ListArticlesResponse{
		Status: "success",
	}

	started := time.Now()
	summaries, err := s.store.List(context.Background())
	s.metrics.RecordTimer(telemetry.MetricStoreLatency, time.Since(started))
	if err != nil {
		appErr := wrapStoreError(err, "failed to list articles")
		errortypes.LogError(nil, appErr)
		s.metrics.IncrementCounter(telemetry.MetricToolErrors, 1)

		response.Status = "error"
		response.Error = appErr.Error()
		return response, nil
	}

	response.Articles = summaries
	slog.Info("Successfully listed articles", "count", len(summaries))
	return response, nil
}

// handleGetArticle handles the get_article MCP tool call.
func (s *MCPArticleToolServer) handleGetArticle(ctx *server.Context, req tools.GetArticleRequest) (tools.GetArticleResponse, error) {
	slog.Info("Processing get_article request", "slug", req.Slug)
	s.recordCall(tools.ToolGetArticle)

	response := tools.GetArticleResponse{
		Status: "success",
	}

	if req.Slug == "" {
		appErr := errortypes.ValidationError(errors.New("slug cannot be empty"), "invalid get_article request")
		errortypes.LogError(nil, appErr)
		s.metrics.IncrementCounter(telemetry.MetricToolErrors, 1)

		response.Status = "error"
		response.Error = appErr.Error()
		return response, nil
	}

	started := time.Now()
	article, err := s.store.Get(context.Background(), req.Slug)
	s.metrics.RecordTimer(telemetry.MetricStoreLatency, time.Since(started))
	if err != nil {
		appErr := wrapStoreError(err, "failed to get article").
			WithField("slug", req.Slug)
		errortypes.LogError(nil, appErr)
		s.metrics.IncrementCounter(telemetry.MetricToolErrors, 1)

		response.Status = "error"
		response.Error = appErr.Error()
		return response, nil
	}

	response.Article = article
	return response, nil
}

// handleCreateArticle handles the create_article MCP tool call.
func (s *MCPArticleToolServer) handleCreateArticle(ctx *server.Context, req tools.CreateArticleRequest) (tools.CreateArticleResponse, error) {
	slog.Info("Processing create_article request", "title", req.Title)
	s.recordCall(tools.ToolCreateArticle)

	response := tools.CreateArticleResponse{
		Status: "success",
	}

	if req.Title == "" || req.Content == "" || req.Category == "" || req.Excerpt == "" {
		appErr := errortypes.ValidationError(errors.New("title, content, category, and excerpt are required"), "invalid create_article request")
		errortypes.LogError(nil, appErr)
		s.metrics.IncrementCounter(telemetry.MetricToolErrors, 1)

		response.Status = "error"
		response.Error = appErr.Error()
		return response, nil
	}

	started := time.Now()
	article, err := s.store.Create(context.Background(), req.Title, req.Content, req.Category, req.Excerpt)
	s.metrics.RecordTimer(telemetry.MetricStoreLatency, time.Since(started))
	if err != nil {
		appErr := wrapStoreError(err, "failed to create article").
			WithField("title", req.Title)
		errortypes.LogError(nil, appErr)
		s.metrics.IncrementCounter(telemetry.MetricToolErrors, 1)

		response.Status = "error"
		response.Error = appErr.Error()
		return response, nil
	}

	response.Article = article
	slog.Info("Successfully created article", "slug", article.Slug)
	return response, nil
}

// handleEditArticle handles the edit_article MCP tool call. Only
// supplied fields overwrite the stored record.
func (s *MCPArticleToolServer) handleEditArticle(ctx *server.Context, req tools.EditArticleRequest) (tools.EditArticleResponse, error) {
	slog.Info("Processing edit_article request", "slug", req.Slug)
	s.recordCall(tools.ToolEditArticle)

	response := tools.EditArticleResponse{
		Status: "success",
	}

	if req.Slug == "" {
		appErr := errortypes.ValidationError(errors.New("slug cannot be empty"), "invalid edit_article request")
		errortypes.LogError(nil, appErr)
		s.metrics.IncrementCounter(telemetry.MetricToolErrors, 1)

		response.Status = "error"
		response.Error = appErr.Error()
		return response, nil
	}

	fields := store.Fields{
		Title:    req.Title,
		Content:  req.Content,
		Category: req.Category,
		Excerpt:  req.Excerpt,
	}

	started := time.Now()
	article, err := s.store.Update(context.Background(), req.Slug, fields)
	s.metrics.RecordTimer(telemetry.MetricStoreLatency, time.Since(started))
	if err != nil {
		appErr := wrapStoreError(err, "failed to update article").
			WithField("slug", req.Slug)
		errortypes.LogError(nil, appErr)
		s.metrics.IncrementCounter(telemetry.MetricToolErrors, 1)

		response.Status = "error"
		response.Error = appErr.Error()
		return response, nil
	}

	response.Article = article
	slog.Info("Successfully updated article", "slug", req.Slug)
	return response, nil
}

// handleDeleteArticle handles the delete_article MCP tool call.
func (s *MCPArticleToolServer) handleDeleteArticle(ctx *server.Context, req tools.DeleteArticleRequest) (tools.DeleteArticleResponse, error) {
	slog.Info("Processing delete_article request", "slug", req.Slug)
	s.recordCall(tools.ToolDeleteArticle)

	response := tools.DeleteArticleResponse{
		Status: "success",
	}

	if req.Slug == "" {
		appErr := errortypes.ValidationError(errors.New("slug cannot be empty"), "invalid delete_article request")
		errortypes.LogError(nil, appErr)
		s.metrics.IncrementCounter(telemetry.MetricToolErrors, 1)

		response.Status = "error"
		response.Error = appErr.Error()
		return response, nil
	}

	started := time.Now()
	err := s.store.Delete(context.Background(), req.Slug)
	s.metrics.RecordTimer(telemetry.MetricStoreLatency, time.Since(started))
	if err != nil {
		appErr := wrapStoreError(err, "failed to delete article").
			WithField("slug", req.Slug)
		errortypes.LogError(nil, appErr)
		s.metrics.IncrementCounter(telemetry.MetricToolErrors, 1)

		response.Status = "error"
		response.Error = appErr.Error()
		return response, nil
	}

	response.Deleted = req.Slug
	slog.Info("Successfully deleted article", "slug", req.Slug)
	return response, nil
}

// handleUpdateTheme handles the update_theme MCP tool call.
func (s *MCPArticleToolServer) handleUpdateTheme(ctx *server.Context, req tools.UpdateThemeRequest) (tools.UpdateThemeResponse, error) {
	slog.Info("Processing update_theme request", "primary", req.Primary, "accent", req.Accent)
	s.recordCall(tools.ToolUpdateTheme)

	response := tools.UpdateThemeResponse{
		Status: "success",
	}

	themeStore, ok := s.store.(store.ThemeStore)
	if !ok {
		appErr := errortypes.ConfigError(errors.New("backend does not support theme updates"), "update_theme unavailable")
		errortypes.LogError(nil, appErr)
		s.metrics.IncrementCounter(telemetry.MetricToolErrors, 1)

		response.Status = "error"
		response.Error = appErr.Error()
		return response, nil
	}

	if err := themeStore.UpdateTheme(context.Background(), req.Primary, req.Accent); err != nil {
		appErr := errortypes.ValidationError(err, "failed to update theme")
		errortypes.LogError(nil, appErr)
		s.metrics.IncrementCounter(telemetry.MetricToolErrors, 1)

		response.Status = "error"
		response.Error = appErr.Error()
		return response, nil
	}

	response.Updated = true
	response.Colors = themeColors(req.Primary, req.Accent)
	slog.Info("Successfully updated theme colors")
	return response, nil
}

func themeColors(primary, accent string) map[string]string {
	colors := map[string]string{}
	if primary != "" {
		colors["primary"] = primary
	}
	if accent != "" {
		colors["accent"] = accent
	}
	return colors
}

// handleGetSiteConfig handles the get_site_config MCP tool call.
func (s *MCPArticleToolServer) handleGetSiteConfig(ctx *server.Context, req tools.GetSiteConfigRequest) (tools.GetSiteConfigResponse, error) {
	slog.Info("Processing get_site_config request")
	s.recordCall(tools.ToolGetSiteConfig)

	response := tools.GetSiteConfigResponse{
		Status: "success",
	}

	configStore, ok := s.store.(store.SiteConfigStore)
	if !ok {
		appErr := errortypes.ConfigError(errors.New("backend does not hold site configuration"), "get_site_config unavailable")
		errortypes.LogError(nil, appErr)
		s.metrics.IncrementCounter(telemetry.MetricToolErrors, 1)

		response.Status = "error"
		response.Error = appErr.Error()
		return response, nil
	}

	siteConfig, err := configStore.GetSiteConfig(context.Background())
	if err != nil {
		appErr := errortypes.DatabaseError(err, "failed to read site config")
		errortypes.LogError(nil, appErr)
		s.metrics.IncrementCounter(telemetry.MetricToolErrors, 1)

		response.Status = "error"
		response.Error = appErr.Error()
		return response, nil
	}

	response.Config = siteConfig
	return response, nil
}

// handleUpdateSiteConfig handles the update_site_config MCP tool call.
func (s *MCPArticleToolServer) handleUpdateSiteConfig(ctx *server.Context, req tools.UpdateSiteConfigRequest) (tools.UpdateSiteConfigResponse, error) {
	slog.Info("Processing update_site_config request")
	s.recordCall(tools.ToolUpdateSiteConfig)

	response := tools.UpdateSiteConfigResponse{
		Status: "success",
	}

	configStore, ok := s.store.(store.SiteConfigStore)
	if !ok {
		appErr := errortypes.ConfigError(errors.New("backend does not hold site configuration"), "update_site_config unavailable")
		errortypes.LogError(nil, appErr)
		s.metrics.IncrementCounter(telemetry.MetricToolErrors, 1)

		response.Status = "error"
		response.Error = appErr.Error()
		return response, nil
	}

	fields := store.SiteConfigFields{
		SiteName:        req.SiteName,
		SiteDescription: req.SiteDescription,
		HeroTitle:       req.HeroTitle,
		HeroDescription: req.HeroDescription,
	}

	siteConfig, err := configStore.UpdateSiteConfig(context.Background(), fields)
	if err != nil {
		appErr := errortypes.DatabaseError(err, "failed to update site config")
		errortypes.LogError(nil, appErr)
		s.metrics.IncrementCounter(telemetry.MetricToolErrors, 1)

		response.Status = "error"
		response.Error = appErr.Error()
		return response, nil
	}

	response.Config = siteConfig
	slog.Info("Successfully updated site config")
	return response, nil
}

// handlePublishChanges handles the publish_changes MCP tool call.
// This shells out to git in the site checkout; it is only registered
// for backends that implement Publisher and is meant for
// operator-controlled transports.
func (s *MCPArticleToolServer) handlePublishChanges(ctx *server.Context, req tools.PublishChangesRequest) (tools.PublishChangesResponse, error) {
	slog.Info("Processing publish_changes request")
	s.recordCall(tools.ToolPublishChanges)

	response := tools.PublishChangesResponse{
		Status: "success",
	}

	if req.Message == "" {
		appErr := errortypes.ValidationError(errors.New("commit message cannot be empty"), "invalid publish_changes request")
		errortypes.LogError(nil, appErr)
		s.metrics.IncrementCounter(telemetry.MetricToolErrors, 1)

		response.Status = "error"
		response.Error = appErr.Error()
		return response, nil
	}

	publisher, ok := s.store.(store.Publisher)
	if !ok {
		appErr := errortypes.ConfigError(errors.New("backend does not support publishing"), "publish_changes unavailable")
		errortypes.LogError(nil, appErr)
		s.metrics.IncrementCounter(telemetry.MetricToolErrors, 1)

		response.Status = "error"
		response.Error = appErr.Error()
		return response, nil
	}

	if err := publisher.Publish(context.Background(), req.Message); err != nil {
		appErr := errortypes.ExternalError(err, "failed to publish changes")
		errortypes.LogError(nil, appErr)
		s.metrics.IncrementCounter(telemetry.MetricToolErrors, 1)

		response.Status = "error"
		response.Error = appErr.Error()
		return response, nil
	}

	response.Message = "Changes published successfully"
	slog.Info("Successfully published changes")
	return response, nil
}
