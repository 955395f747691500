package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jobitter/jobitter-backend/internal/config"
	"github.com/jobitter/jobitter-backend/internal/logger"
	"github.com/jobitter/jobitter-backend/internal/server"
)

const defaultPort = 8080

var (
	servePort       int
	serveConfigPath string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes resume parsing, profile enrichment, job search and alert management endpoints.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, fmt.Sprintf("Port to listen on (default %d)", defaultPort))
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "", "Path to JSON config file")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	var fileCfg *config.Config
	if serveConfigPath != "" {
		var err error
		fileCfg, err = config.LoadConfig(serveConfigPath)
		if err != nil {
			return err
		}
	}

	cfg := mergeServeConfig(servePort, config.Config{
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		SearchAPIKey: os.Getenv("SEARCH_API_KEY"),
	}, fileCfg)

	if err := cfg.Validate(); err != nil {
		return err
	}

	if cfg.LogLevel != "" || cfg.LogPretty {
		logger.Init(logger.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty})
	}

	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}
	if cfg.GeminiAPIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}
	if cfg.SearchAPIKey == "" {
		return fmt.Errorf("SEARCH_API_KEY environment variable is required")
	}

	srv, err := server.New(context.Background(), server.Config{
		Port:          cfg.Port,
		DatabaseURL:   cfg.DatabaseURL,
		GeminiAPIKey:  cfg.GeminiAPIKey,
		SearchAPIKey:  cfg.SearchAPIKey,
		AlertSchedule: cfg.AlertSchedule,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}

// mergeServeConfig layers the port flag, environment values and the optional
// config file. The flag wins when set; the file fills whatever is still
// empty; the port falls back to defaultPort.
func mergeServeConfig(flagPort int, envCfg config.Config, fileCfg *config.Config) config.Config {
	cfg := envCfg
	cfg.Port = flagPort
	if fileCfg != nil {
		cfg = cfg.MergeWithDefaults(*fileCfg)
		cfg.LogPretty = fileCfg.LogPretty
	}
	if cfg.Port == 0 {
		cfg.Port = defaultPort
	}
	return cfg
}
