package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/boardroles/boardsite"
	"github.com/boardroles/boardsite/internal/config"
	"github.com/boardroles/boardsite/internal/errortypes"
	"github.com/boardroles/boardsite/internal/logger"
)

// Version information - set during build
var (
	version = "dev"
	commit  = "none"
)

var (
	flagConfig    string
	flagTransport string
	flagAddr      string
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "boardsite",
		Short:   "MCP tool gateway for the board governance articles site",
		Long:    "boardsite serves the article and site-configuration tools over the MCP stdio transport or a small HTTP endpoint.",
		Version: version + " (" + commit + ")",
		RunE:    run,
	}

	rootCmd.Flags().StringVarP(&flagConfig, "config", "c", config.DefaultConfigFilename, "path to the configuration file")
	rootCmd.Flags().StringVarP(&flagTransport, "transport", "t", boardsite.TransportStdio, "transport to serve on (stdio or http)")
	rootCmd.Flags().StringVarP(&flagAddr, "addr", "a", "", "HTTP listen address (overrides config)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	// Load .env before anything reads the environment. A missing file
	// is fine.
	_ = godotenv.Load()

	appLogger := setupLogging()
	appLogger.Info("Boardsite MCP gateway - Starting...")

	cfg, err := config.LoadConfigWithPath(flagConfig)
	if err != nil {
		errortypes.LogError(nil, err)
		appLogger.Fatal("Failed to load configuration")
	}

	if cfg.Logging.Level != "" {
		appLogger.SetLevel(logger.ParseLevel(cfg.Logging.Level))
	}
	if cfg.Logging.Format == "json" {
		appLogger.SetFormat(logger.JSON)
	}

	srv, err := boardsite.NewServer(boardsite.ServerOptions{
		Config:    cfg,
		Transport: flagTransport,
		HTTPAddr:  flagAddr,
	})
	if err != nil {
		errortypes.LogError(nil, err)
		appLogger.Fatal("Failed to initialize gateway")
	}

	setupSignalHandler(srv, appLogger)

	appLogger.Info("Starting gateway on %s transport", flagTransport)
	if err := srv.Start(); err != nil {
		errortypes.LogError(nil, err)
		appLogger.Fatal("Gateway failed")
	}
	return nil
}

// setupLogging configures and returns the application logger
func setupLogging() *logger.Logger {
	cfg := logger.DefaultConfig()

	if levelStr := os.Getenv("LOG_LEVEL"); levelStr != "" {
		cfg.Level = logger.ParseLevel(levelStr)
	}
	if formatStr := os.Getenv("LOG_FORMAT"); formatStr != "" {
		cfg.Format = logger.ParseFormat(formatStr)
	}

	appLogger := logger.New(cfg)
	logger.SetDefaultLogger(appLogger)

	return appLogger
}

// setupSignalHandler sets up a signal handler for graceful shutdown.
func setupSignalHandler(srv *boardsite.Server, log *logger.Logger) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Info("Received shutdown signal, terminating gracefully...")

		if err := srv.Stop(); err != nil {
			errortypes.LogError(nil, err)
		}

		log.Info("Shutdown complete")
		os.Exit(0)
	}()
}
