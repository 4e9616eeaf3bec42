package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/localrivet/configurator"
)

// Config represents the boardsite gateway configuration. It is
// constructed explicitly at startup and passed down; there is no
// package-level instance.
type Config struct {
	// Site contains the paths of the website checkout the file backend
	// operates on. Relative paths are resolved against Root.
	Site struct {
		// Root is the website checkout root; git publish runs here.
		Root string `json:"root" env:"SITE_ROOT"`

		// ArticlesDir is the markdown articles directory.
		ArticlesDir string `json:"articles_dir" env:"ARTICLES_DIR"`

		// ConfigFile is the site configuration JSON document.
		ConfigFile string `json:"config_file" env:"CONFIG_FILE"`

		// ThemeFile is the stylesheet carrying the theme colors.
		ThemeFile string `json:"theme_file" env:"THEME_FILE"`
	} `json:"site"`

	// Store selects and configures the article backend.
	Store struct {
		// Backend is one of "file", "sqlite", or "table".
		Backend string `json:"backend" env:"STORE_BACKEND" validate:"required"`

		// SQLitePath is the database file for the sqlite backend.
		SQLitePath string `json:"sqlite_path" env:"SQLITE_PATH"`
	} `json:"store"`

	// Supabase configures the hosted table backend.
	Supabase struct {
		// URL is the PostgREST endpoint.
		URL string `json:"url" env:"SUPABASE_URL"`

		// ServiceKey is the service-role key.
		ServiceKey string `json:"service_key" env:"SUPABASE_SERVICE_ROLE_KEY"`

		// Table is the articles table name.
		Table string `json:"table" env:"SUPABASE_TABLE"`
	} `json:"supabase"`

	// HTTP configures the HTTP transport.
	HTTP struct {
		// Addr is the listen address for the HTTP transport.
		Addr string `json:"addr" env:"HTTP_ADDR"`
	} `json:"http"`

	// Logging contains logging-related configuration.
	Logging struct {
		// Level is the minimum log level ("debug", "info", "warn", "error").
		Level string `json:"level" env:"LOG_LEVEL" validate:"required"`

		// Format is the log format ("text", "json").
		Format string `json:"format" env:"LOG_FORMAT"`
	} `json:"logging"`

	// Internal state (not saved to config file)
	configPath     string    `json:"-"`
	lastModifiedAt time.Time `json:"-"`
}

// Default configuration values
const (
	DefaultConfigFilename = ".boardsiteconfig"
	DefaultBackend        = "file"
	DefaultArticlesDir    = "content/articles"
	DefaultConfigFile     = "content/site-config.json"
	DefaultThemeFile      = "src/app/globals.css"
	DefaultSQLitePath     = ".boardsite.db"
	DefaultTable          = "articles"
	DefaultHTTPAddr       = ":8787"
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "text"
)

// NewConfig creates a new Config instance with default values
func NewConfig() *Config {
	config := &Config{}
	config.Site.Root = "."
	config.Site.ArticlesDir = DefaultArticlesDir
	config.Site.ConfigFile = DefaultConfigFile
	config.Site.ThemeFile = DefaultThemeFile
	config.Store.Backend = DefaultBackend
	config.Store.SQLitePath = DefaultSQLitePath
	config.Supabase.Table = DefaultTable
	config.HTTP.Addr = DefaultHTTPAddr
	config.Logging.Level = DefaultLogLevel
	config.Logging.Format = DefaultLogFormat
	return config
}

// LoadConfig loads the configuration from the default path
func LoadConfig() (*Config, error) {
	return LoadConfigWithPath(DefaultConfigFilename)
}

// LoadConfigWithPath loads the configuration from a specific path,
// layering defaults, the config file, and BOARDSITE_* environment
// variables.
func LoadConfigWithPath(configPath string) (*Config, error) {
	stdLogger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	cfg := NewConfig()

	// Try to find config file if path is default
	if configPath == DefaultConfigFilename {
		foundPath, err := configurator.FindConfigFile(configPath)
		if err == nil {
			configPath = foundPath
			stdLogger.Debug("Found config file at " + foundPath)
		}
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		stdLogger.Info("Config file not found, using default configuration", "path", configPath)
		cfg.configPath = configPath
		cfg.lastModifiedAt = time.Now()
		return cfg, nil
	}

	stdLogger.Info("Loading configuration", "path", configPath)

	config := configurator.New(stdLogger).
		WithProvider(configurator.NewDefaultProvider()).
		WithProvider(configurator.NewFileProvider(configPath)).
		WithProvider(configurator.NewEnvProvider("BOARDSITE")).
		WithValidator(configurator.NewDefaultValidator())

	ctx := context.Background()
	if err := config.Load(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	cfg.configPath = configPath
	cfg.lastModifiedAt = time.Now()

	return cfg, nil
}

// SaveToFile saves the configuration to the specified file
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := configurator.SaveToFile(c, path, configurator.FormatJSON); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	c.configPath = path
	c.lastModifiedAt = time.Now()

	return nil
}

// GetConfigPath returns the path of the currently loaded configuration file
func (c *Config) GetConfigPath() string {
	return c.configPath
}
