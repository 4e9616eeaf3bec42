// Package boardsite exposes the tool-dispatch gateway for the board
// governance articles site as an embeddable library: a configured
// article store, the MCP tool server, and the HTTP transport.
package boardsite

import (
	"context"
	"errors"
	"log/slog"

	"github.com/boardroles/boardsite/internal/config"
	"github.com/boardroles/boardsite/internal/errortypes"
	"github.com/boardroles/boardsite/internal/server"
	"github.com/boardroles/boardsite/internal/store"
	"github.com/boardroles/boardsite/internal/telemetry"
)

// Config represents the configuration for the boardsite gateway.
type Config = config.Config

// Transport names accepted by ServerOptions.Transport.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// Server represents the boardsite gateway service.
type Server struct {
	config     *config.Config
	store      store.ArticleStore
	toolServer server.ArticleToolServer
	httpServer *server.HTTPServer
	metrics    *telemetry.MetricsCollector
	transport  string
	logger     *slog.Logger
}

// ServerOptions defines the options for creating a new Server.
type ServerOptions struct {
	Config     *Config      // Pre-filled config. If nil, ConfigPath is used.
	ConfigPath string       // Path to config file. Used if Config is nil. If both are empty, DefaultConfig() is used.
	Logger     *slog.Logger // External logger. If nil, slog.Default() is used.
	Transport  string       // "stdio" (default) or "http".
	HTTPAddr   string       // Overrides the configured HTTP listen address.
}

// NewServer creates a new boardsite gateway Server with the given options.
// If opts.Config is provided, it is used directly; otherwise ConfigPath
// is loaded, falling back to DefaultConfig().
func NewServer(opts ServerOptions) (*Server, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var cfg *Config
	var err error

	if opts.Config != nil {
		cfg = opts.Config
		logger.Info("Using provided Config object for server initialization")
	} else if opts.ConfigPath != "" {
		logger.Info("Loading configuration for server initialization", "path", opts.ConfigPath)
		cfg, err = config.LoadConfigWithPath(opts.ConfigPath)
		if err != nil {
			logger.Error("Failed to load configuration from path", "path", opts.ConfigPath, "error", err)
			return nil, errortypes.ConfigError(err, "Failed to load configuration from path: "+opts.ConfigPath)
		}
	} else {
		cfg, err = config.LoadConfig()
		if err != nil {
			logger.Error("Failed to load configuration", "error", err)
			return nil, errortypes.ConfigError(err, "Failed to load configuration")
		}
	}

	transport := opts.Transport
	if transport == "" {
		transport = TransportStdio
	}
	if transport != TransportStdio && transport != TransportHTTP {
		return nil, errortypes.ConfigError(errors.New("unknown transport: "+transport), "Invalid server options")
	}

	if opts.HTTPAddr != "" {
		cfg.HTTP.Addr = opts.HTTPAddr
	}

	articleStore, err := CreateStore(cfg, logger)
	if err != nil {
		logger.Error("Failed to create article store during server initialization", "error", err)
		return nil, err
	}

	metrics := telemetry.NewMetricsCollector()

	srv := &Server{
		config:    cfg,
		store:     articleStore,
		metrics:   metrics,
		transport: transport,
		logger:    logger,
	}

	switch transport {
	case TransportStdio:
		logger.Info("Initializing MCP tool server component")
		toolServer := server.NewArticleToolServer(articleStore, metrics)
		if err := toolServer.Initialize(); err != nil {
			logger.Error("Failed to initialize MCP tool server component", "error", err)
			return nil, errortypes.ConfigError(err, "Failed to initialize MCP tool server component")
		}
		srv.toolServer = toolServer

	case TransportHTTP:
		logger.Info("Initializing HTTP transport component", "addr", cfg.HTTP.Addr)
		dispatcher := server.NewDispatcher(articleStore, metrics)
		srv.httpServer = server.NewHTTPServer(dispatcher, cfg.HTTP.Addr)
	}

	logger.Info("Boardsite gateway successfully initialized", "backend", cfg.Store.Backend, "transport", transport)
	return srv, nil
}

// DefaultConfig returns the default configuration for the boardsite gateway.
func DefaultConfig() *Config {
	return config.NewConfig()
}

// CreateStore creates and initializes the article store selected by the
// configuration. This is useful for tooling that needs direct access to
// the store without a server instance.
func CreateStore(cfg *Config, logger *slog.Logger) (store.ArticleStore, error) {
	if logger == nil {
		logger = slog.Default()
	}

	switch cfg.Store.Backend {
	case "file", "":
		logger.Info("Initializing file store", "root", cfg.Site.Root, "articles", cfg.Site.ArticlesDir)
		return store.NewFileStore(store.FileStoreConfig{
			Root:        cfg.Site.Root,
			ArticlesDir: cfg.Site.ArticlesDir,
			ConfigFile:  cfg.Site.ConfigFile,
			ThemeFile:   cfg.Site.ThemeFile,
		}), nil

	case "sqlite":
		logger.Info("Initializing SQLite store", "path", cfg.Store.SQLitePath)
		sqliteStore := store.NewSQLiteStore()
		if err := sqliteStore.Initialize(cfg.Store.SQLitePath); err != nil {
			logger.Error("Failed to initialize SQLite store", "path", cfg.Store.SQLitePath, "error", err)
			return nil, errortypes.DatabaseError(err, "Failed to initialize SQLite store")
		}
		return sqliteStore, nil

	case "table":
		if cfg.Supabase.URL == "" || cfg.Supabase.ServiceKey == "" {
			err := errors.New("table backend requires Supabase URL and service key")
			logger.Error("Incomplete table backend configuration")
			return nil, errortypes.ConfigError(err, "Failed to initialize table store")
		}
		logger.Info("Initializing table store", "url", cfg.Supabase.URL, "table", cfg.Supabase.Table)
		tableStore, err := store.NewTableStore(cfg.Supabase.URL, cfg.Supabase.ServiceKey, cfg.Supabase.Table)
		if err != nil {
			logger.Error("Failed to initialize table store", "error", err)
			return nil, errortypes.DatabaseError(err, "Failed to initialize table store")
		}
		return tableStore, nil

	default:
		err := errors.New("unknown store backend: " + cfg.Store.Backend)
		logger.Error("Unknown store backend", "backend", cfg.Store.Backend)
		return nil, errortypes.ConfigError(err, "Failed to create article store")
	}
}

// Start starts the boardsite gateway on its configured transport and
// blocks until the transport shuts down.
func (s *Server) Start() error {
	s.logger.Info("Starting boardsite gateway", "transport", s.transport)
	if s.transport == TransportHTTP {
		return s.httpServer.Start()
	}
	return s.toolServer.Start()
}

// Stop stops the boardsite gateway.
func (s *Server) Stop() error {
	s.logger.Info("Stopping boardsite gateway")

	if s.httpServer != nil {
		if err := s.httpServer.Stop(context.Background()); err != nil {
			s.logger.Error("Error stopping HTTP transport", "error", err)
			return err
		}
	}
	if s.toolServer != nil {
		if err := s.toolServer.Stop(); err != nil {
			s.logger.Error("Error stopping tool server", "error", err)
			return err
		}
	}

	s.logger.Info("Closing store")
	if err := s.store.Close(); err != nil {
		s.logger.Error("Failed to close store", "error", err)
		return err
	}

	s.logger.Info("Boardsite gateway stopped")
	return nil
}

// ListArticles returns summaries of all stored articles, newest first.
func (s *Server) ListArticles(ctx context.Context) ([]store.Summary, error) {
	s.logger.Debug("Listing articles")
	summaries, err := s.store.List(ctx)
	if err != nil {
		s.logger.Error("Failed to list articles", "error", err)
		return nil, err
	}
	s.logger.Info("Listed articles", "count", len(summaries))
	return summaries, nil
}

// GetArticle returns the full article with the given slug.
func (s *Server) GetArticle(ctx context.Context, slug string) (*store.Article, error) {
	s.logger.Debug("Getting article", "slug", slug)
	return s.store.Get(ctx, slug)
}

// CreateArticle creates a new article and returns the stored record.
func (s *Server) CreateArticle(ctx context.Context, title, content, category, excerpt string) (*store.Article, error) {
	s.logger.Debug("Creating article", "title", title)
	article, err := s.store.Create(ctx, title, content, category, excerpt)
	if err != nil {
		s.logger.Error("Failed to create article", "title", title, "error", err)
		return nil, err
	}
	s.logger.Info("Created article", "slug", article.Slug)
	return article, nil
}

// EditArticle overwrites only the supplied fields of an existing article.
func (s *Server) EditArticle(ctx context.Context, slug string, fields store.Fields) (*store.Article, error) {
	s.logger.Debug("Editing article", "slug", slug)
	return s.store.Update(ctx, slug, fields)
}

// DeleteArticle removes the article with the given slug.
func (s *Server) DeleteArticle(ctx context.Context, slug string) error {
	s.logger.Debug("Deleting article", "slug", slug)
	return s.store.Delete(ctx, slug)
}

// GetStore returns the article store instance used by the server.
func (s *Server) GetStore() store.ArticleStore {
	return s.store
}

// Metrics returns the metrics collector shared by the transports.
func (s *Server) Metrics() *telemetry.MetricsCollector {
	return s.metrics
}
