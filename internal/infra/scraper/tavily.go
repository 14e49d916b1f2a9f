package scraper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"model-tracker/internal/resilience/circuitbreaker"
)

// SearchResult is one Tavily search hit.
type SearchResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Content string `json:"content"`
}

type tavilyRequest struct {
	APIKey            string `json:"api_key"`
	Query             string `json:"query"`
	MaxResults        int    `json:"max_results"`
	IncludeRawContent bool   `json:"include_raw_content"`
	SearchDepth       string `json:"search_depth"`
}

type tavilyResponse struct {
	Results []SearchResult `json:"results"`
}

// Tavily runs web searches through the Tavily API.
type Tavily struct {
	http     *guardedClient
	apiKey   string
	endpoint string
}

// NewTavily creates a Tavily client.
func NewTavily(cfg Config, breakers *circuitbreaker.Registry) *Tavily {
	return &Tavily{
		http:     newGuardedClient("tavily", newHTTPClient(cfg), cfg, breakers),
		apiKey:   cfg.TavilyAPIKey,
		endpoint: strings.TrimRight(cfg.TavilyBaseURL, "/") + "/search",
	}
}

// Search returns up to maxResults results for query using advanced depth.
func (t *Tavily) Search(ctx context.Context, query string, maxResults int) ([]SearchResult, error) {
	if t.apiKey == "" {
		return nil, fmt.Errorf("tavily: %w", ErrNotConfigured)
	}
	payload, err := json.Marshal(tavilyRequest{
		APIKey:            t.apiKey,
		Query:             query,
		MaxResults:        maxResults,
		IncludeRawContent: true,
		SearchDepth:       "advanced",
	})
	if err != nil {
		return nil, fmt.Errorf("tavily: encode request: %w", err)
	}

	resp, err := t.http.do(ctx, "search", func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	})
	if err != nil {
		return nil, fmt.Errorf("tavily search: %w", err)
	}

	var out tavilyResponse
	if err := json.Unmarshal(resp.body, &out); err != nil {
		return nil, fmt.Errorf("tavily: decode response: %w", err)
	}
	if out.Results == nil {
		out.Results = []SearchResult{}
	}
	return out.Results, nil
}
