package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultEndpoint is the Serper web search API endpoint.
const DefaultEndpoint = "https://google.serper.dev/search"

const defaultHTTPTimeout = 20 * time.Second

// SerperProvider implements Provider on top of the Serper search API.
type SerperProvider struct {
	apiKey   string
	endpoint string
	client   *http.Client
}

// NewSerperProvider creates a provider using the given API key.
func NewSerperProvider(apiKey string) (*SerperProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("search API key is required")
	}
	return &SerperProvider{
		apiKey:   apiKey,
		endpoint: DefaultEndpoint,
		client:   &http.Client{Timeout: defaultHTTPTimeout},
	}, nil
}

// WithEndpoint overrides the API endpoint. Used by tests.
func (p *SerperProvider) WithEndpoint(endpoint string) *SerperProvider {
	clone := *p
	clone.endpoint = endpoint
	return &clone
}

type serperRequest struct {
	Query string `json:"q"`
	Num   int    `json:"num"`
	TBS   string `json:"tbs,omitempty"`
}

type serperResponse struct {
	Organic []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
	} `json:"organic"`
}

// Search runs one query against the provider.
func (p *SerperProvider) Search(ctx context.Context, query string, limit int, window Window) ([]Result, error) {
	body, err := json.Marshal(serperRequest{
		Query: query,
		Num:   limit,
		TBS:   string(window),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create search request: %w", err)
	}
	req.Header.Set("X-API-KEY", p.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read search response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search provider returned status %d", resp.StatusCode)
	}

	var decoded serperResponse
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	results := make([]Result, 0, len(decoded.Organic))
	for _, hit := range decoded.Organic {
		if hit.Link == "" {
			continue
		}
		results = append(results, Result{
			Title:       hit.Title,
			URL:         hit.Link,
			Description: hit.Snippet,
		})
	}

	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}
