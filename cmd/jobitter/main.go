// Package main provides the entry point for the jobitter HTTP API server
// and CLI tools.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jobitter/jobitter-backend/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "jobitter",
	Short: "Job search backend",
	Long:  "Jobitter parses resumes into candidate profiles, finds live job postings that match them, and delivers recurring job alerts to webhooks.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	logger.Init(logger.Config{
		Level:  os.Getenv("LOG_LEVEL"),
		Pretty: os.Getenv("LOG_PRETTY") == "true",
	})

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// requireEnv returns the value of an environment variable or an error
// naming it.
func requireEnv(key string) (string, error) {
	value := os.Getenv(key)
	if value == "" {
		return "", fmt.Errorf("%s environment variable is required", key)
	}
	return value, nil
}
