package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jobitter/jobitter-backend/internal/llm"
	"github.com/jobitter/jobitter-backend/internal/search"
	"github.com/jobitter/jobitter-backend/internal/types"
)

var (
	searchPositions []string
	searchSkills    []string
	searchCountry   string
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search for matching job postings",
	Long:  `Run an interactive job search for the given positions and print the scored postings as JSON.`,
	RunE:  runSearch,
}

func init() {
	searchCmd.Flags().StringSliceVar(&searchPositions, "position", nil, "Position to search for (repeatable)")
	searchCmd.Flags().StringSliceVar(&searchSkills, "skill", nil, "Candidate skill used for match scoring (repeatable)")
	searchCmd.Flags().StringVar(&searchCountry, "country", "", "Restrict results to a country")
	_ = searchCmd.MarkFlagRequired("position")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, _ []string) error {
	geminiKey, err := requireEnv("GEMINI_API_KEY")
	if err != nil {
		return err
	}
	searchKey, err := requireEnv("SEARCH_API_KEY")
	if err != nil {
		return err
	}

	ctx := context.Background()
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
	jobs, err := aggregator.Search(ctx, types.CandidateProfile{Skills: searchSkills}, searchPositions, searchCountry)
	if err != nil {
		return err
	}

	encoded, err := json.MarshalIndent(jobs, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(encoded))
	return nil
}
