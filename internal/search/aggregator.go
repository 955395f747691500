package search

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/jobitter/jobitter-backend/internal/fetch"
	"github.com/jobitter/jobitter-backend/internal/llm"
	"github.com/jobitter/jobitter-backend/internal/logger"
	"github.com/jobitter/jobitter-backend/internal/prompts"
	"github.com/jobitter/jobitter-backend/internal/schemas"
	"github.com/jobitter/jobitter-backend/internal/types"
)

// MaxPositions caps how many of a candidate's desired positions are searched
// per run. Positions beyond the cap are ignored.
const MaxPositions = 3

const (
	interactiveResultLimit = 5
	alertResultLimit       = 3
	interactiveSnippetLen  = 500
	alertSnippetLen        = 400
)

const jobsPromptFile = "jobs.json"

// NoPositionsError indicates a search was requested for a profile that has
// no usable positions. No provider or model call is made in that case.
type NoPositionsError struct{}

func (e *NoPositionsError) Error() string {
	return "no positions to search for"
}

type mode struct {
	limit      int
	window     Window
	snippetLen int
	promptKey  string
}

var (
	interactiveMode = mode{
		limit:      interactiveResultLimit,
		window:     WindowWeek,
		snippetLen: interactiveSnippetLen,
		promptKey:  "distill-interactive",
	}
	alertMode = mode{
		limit:      alertResultLimit,
		window:     WindowHour,
		snippetLen: alertSnippetLen,
		promptKey:  "distill-alert",
	}
)

// Aggregator runs concurrent provider searches and distills the merged hits
// into scored job postings.
type Aggregator struct {
	provider Provider
	client   llm.Client
	enrich   bool
	fetchOpt *fetch.Options
}

// NewAggregator creates an Aggregator over the given provider and LLM client.
func NewAggregator(provider Provider, client llm.Client) *Aggregator {
	return &Aggregator{provider: provider, client: client}
}

// WithEnrichment enables fetching posting pages to backfill descriptions for
// hits whose search snippet is empty.
func (a *Aggregator) WithEnrichment(opts *fetch.Options) *Aggregator {
	clone := *a
	clone.enrich = true
	clone.fetchOpt = opts
	return &clone
}

// Search finds postings from the last week for an interactive request.
func (a *Aggregator) Search(ctx context.Context, profile types.CandidateProfile, positions []string, country string) ([]types.JobPosting, error) {
	return a.run(ctx, profile, positions, country, interactiveMode)
}

// SearchForAlert finds postings from the last hour for the alert scheduler.
// The distillation step only keeps strong matches.
func (a *Aggregator) SearchForAlert(ctx context.Context, profile types.CandidateProfile, positions []string, country string) ([]types.JobPosting, error) {
	return a.run(ctx, profile, positions, country, alertMode)
}

func (a *Aggregator) run(ctx context.Context, profile types.CandidateProfile, positions []string, country string, m mode) ([]types.JobPosting, error) {
	queries := buildQueries(positions, country)
	if len(queries) == 0 {
		return nil, &NoPositionsError{}
	}

	merged := a.collect(ctx, queries, m)
	if len(merged) == 0 {
		return []types.JobPosting{}, nil
	}

	if a.enrich {
		a.backfillDescriptions(ctx, merged, m.snippetLen)
	}

	encoded, err := json.Marshal(profile)
	if err != nil {
		return nil, fmt.Errorf("failed to encode profile: %w", err)
	}

	system := prompts.MustGet(jobsPromptFile, "distill-system")
	user := prompts.Format(prompts.MustGet(jobsPromptFile, m.promptKey), map[string]string{
		"Profile":       string(encoded),
		"Results":       renderResults(merged, m.snippetLen),
		"CountryFilter": countryFilter(country),
	})

	payload, err := a.client.Request(ctx, system, user, schemas.JobPostings())
	if err != nil {
		return nil, err
	}

	var decoded struct {
		Jobs []types.JobPosting `json:"jobs"`
	}
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return nil, fmt.Errorf("failed to decode job postings payload: %w", err)
	}

	// The model orders by matchScore; its ordering is kept verbatim.
	jobs := decoded.Jobs
	if jobs == nil {
		jobs = []types.JobPosting{}
	}
	for i := range jobs {
		normalizePosting(&jobs[i])
	}
	return jobs, nil
}

// countryFilter renders the scoping instruction injected into the distill
// prompt when a country was supplied.
func countryFilter(country string) string {
	c := strings.TrimSpace(country)
	if c == "" {
		return ""
	}
	return fmt.Sprintf("IMPORTANT: Only include jobs located in %s. Exclude any jobs from other countries.\n\n", c)
}

// collect fans the queries out to the provider. A failed query degrades to
// zero results for that query; the remaining queries still count.
func (a *Aggregator) collect(ctx context.Context, queries []string, m mode) []Result {
	perQuery := make([][]Result, len(queries))

	g, gctx := errgroup.WithContext(ctx)
	for i, query := range queries {
		g.Go(func() error {
			results, err := a.provider.Search(gctx, query, m.limit, m.window)
			if err != nil {
				logger.Warn().Err(err).Str("query", query).Msg("search query failed, continuing without its results")
				return nil
			}
			perQuery[i] = results
			return nil
		})
	}
	_ = g.Wait()

	merged := make([]Result, 0, len(queries)*m.limit)
	seen := make(map[string]struct{})
	for _, results := range perQuery {
		for _, r := range results {
			if _, dup := seen[r.URL]; dup {
				continue
			}
			seen[r.URL] = struct{}{}
			merged = append(merged, r)
		}
	}
	return merged
}

// backfillDescriptions fetches posting pages for hits with empty snippets.
// Fetch failures leave the description empty.
func (a *Aggregator) backfillDescriptions(ctx context.Context, results []Result, maxLen int) {
	for i := range results {
		if results[i].Description != "" {
			continue
		}
		text, err := fetch.PostingText(ctx, results[i].URL, a.fetchOpt)
		if err != nil {
			logger.Debug().Err(err).Str("url", results[i].URL).Msg("could not fetch posting page")
			continue
		}
		results[i].Description = truncate(text, maxLen)
	}
}

// buildQueries renders provider queries for up to MaxPositions positions.
// Blank positions are skipped.
func buildQueries(positions []string, country string) []string {
	queries := make([]string, 0, MaxPositions)
	for _, position := range positions {
		position = strings.TrimSpace(position)
		if position == "" {
			continue
		}
		query := fmt.Sprintf("%s jobs hiring now", position)
		if c := strings.TrimSpace(country); c != "" {
			query += " in " + c
		}
		queries = append(queries, query)
		if len(queries) == MaxPositions {
			break
		}
	}
	return queries
}

// renderResults formats merged hits as a numbered block for the distillation
// prompt. Descriptions are truncated to keep the prompt bounded.
func renderResults(results []Result, maxDesc int) string {
	var sb strings.Builder
	for i, r := range results {
		fmt.Fprintf(&sb, "%d. %s\nURL: %s\n", i+1, r.Title, r.URL)
		if desc := truncate(r.Description, maxDesc); desc != "" {
			sb.WriteString(desc)
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}
	return strings.TrimSpace(sb.String())
}

func normalizePosting(job *types.JobPosting) {
	if job.SalaryRange == "" {
		job.SalaryRange = types.SalaryNotDisclosed
	}
	if job.PostedAgo == "" {
		job.PostedAgo = types.PostedRecent
	}
	if job.WorkMode == "" {
		job.WorkMode = types.WorkModeOnsite
	}
	if job.MatchedSkills == nil {
		job.MatchedSkills = []string{}
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
