package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jobitter/jobitter-backend/internal/llm"
	"github.com/jobitter/jobitter-backend/internal/profile"
	"github.com/jobitter/jobitter-backend/internal/textextract"
)

var parseEnhance bool

var parseCmd = &cobra.Command{
	Use:   "parse <resume-file>",
	Short: "Parse a resume file into a candidate profile",
	Long:  `Extract text from a resume file (.pdf, .docx or .txt) and parse it into a structured candidate profile, printed as JSON.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func init() {
	parseCmd.Flags().BoolVar(&parseEnhance, "enhance", false, "Also polish the parsed profile")
	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	apiKey, err := requireEnv("GEMINI_API_KEY")
	if err != nil {
		return err
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read resume file: %w", err)
	}

	text, err := textextract.Extract(data, filepath.Base(args[0]))
	if err != nil {
		return err
	}

	ctx := context.Background()
	client, err := llm.NewClient(ctx, llm.ConfigFromEnv(), apiKey)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	extractor := profile.NewExtractor(client)
	parsed, err := extractor.Parse(ctx, text, filepath.Base(args[0]))
	if err != nil {
		return err
	}

	if parseEnhance {
		parsed, err = extractor.Enhance(ctx, parsed)
		if err != nil {
			return err
		}
	}

	encoded, err := json.MarshalIndent(parsed, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(encoded))
	return nil
}
