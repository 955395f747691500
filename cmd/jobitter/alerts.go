package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jobitter/jobitter-backend/internal/alerts"
	"github.com/jobitter/jobitter-backend/internal/db"
	"github.com/jobitter/jobitter-backend/internal/llm"
	"github.com/jobitter/jobitter-backend/internal/search"
)

var alertSchedule string

var alertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "Run the job alert batch",
	Long:  `Process every active alert profile: search for fresh postings and deliver digests to the profiles' webhooks. Runs once by default; with --schedule it keeps running on the given cron schedule.`,
	RunE:  runAlerts,
}

func init() {
	alertsCmd.Flags().StringVar(&alertSchedule, "schedule", "", "Cron schedule (e.g. \"@hourly\"); empty runs one batch and exits")
	rootCmd.AddCommand(alertsCmd)
}

func runAlerts(cmd *cobra.Command, _ []string) error {
	databaseURL, err := requireEnv("DATABASE_URL")
	if err != nil {
		return err
	}
	geminiKey, err := requireEnv("GEMINI_API_KEY")
	if err != nil {
		return err
	}
	searchKey, err := requireEnv("SEARCH_API_KEY")
	if err != nil {
		return err
	}

	ctx := context.Background()

	database, err := db.Connect(ctx, databaseURL)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := database.EnsureSchema(ctx); err != nil {
		return err
	}

	client, err := llm.NewClient(ctx, llm.ConfigFromEnv(), geminiKey)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	provider, err := search.NewSerperProvider(searchKey)
	if err != nil {
		return err
	}

	aggregator := search.NewAggregator(provider, client).WithEnrichment(nil)
	scheduler := alerts.NewScheduler(database, aggregator, alerts.NewWebhookClient())

	if alertSchedule != "" {
		return scheduler.Start(ctx, alertSchedule)
	}

	processed, err := scheduler.RunOnce(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Processed %d alert profiles\n", processed)
	return nil
}
