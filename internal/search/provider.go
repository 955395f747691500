// Package search finds live job postings for a candidate. It fans queries
// out to a web search provider, merges and de-duplicates the raw hits, and
// distills them into scored postings with a structured LLM call.
package search

import "context"

// Window selects the recency filter applied to provider queries.
type Window string

const (
	// WindowWeek covers postings from the last week, used for interactive
	// searches.
	WindowWeek Window = "qdr:w"
	// WindowHour covers postings from the last hour, used by the alert
	// scheduler so digests only carry fresh postings.
	WindowHour Window = "qdr:h"
)

// Result is one raw hit returned by a search provider.
type Result struct {
	Title       string
	URL         string
	Description string
}

// Provider runs a single web search query.
type Provider interface {
	Search(ctx context.Context, query string, limit int, window Window) ([]Result, error)
}
