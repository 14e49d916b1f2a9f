package scraper

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"model-tracker/internal/resilience/circuitbreaker"
)

// ScrapedContent is a page rendered to markdown by Jina Reader.
type ScrapedContent struct {
	Title   string
	Content string
	URL     string
}

// Jina reads pages through the Jina Reader API.
type Jina struct {
	http    *guardedClient
	apiKey  string
	baseURL string
}

// NewJina creates a Jina Reader client.
func NewJina(cfg Config, breakers *circuitbreaker.Registry) *Jina {
	base := cfg.JinaBaseURL
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return &Jina{
		http:    newGuardedClient("jina", newHTTPClient(cfg), cfg, breakers),
		apiKey:  cfg.JinaAPIKey,
		baseURL: base,
	}
}

// Read fetches pageURL as markdown. The title is the last path segment of
// the URL.
func (j *Jina) Read(ctx context.Context, pageURL string) (*ScrapedContent, error) {
	if j.apiKey == "" {
		return nil, fmt.Errorf("jina: %w", ErrNotConfigured)
	}
	if err := validateURL(pageURL, false); err != nil {
		return nil, err
	}

	resp, err := j.http.do(ctx, "read", func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, j.baseURL+pageURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+j.apiKey)
		req.Header.Set("X-Return-Format", "markdown")
		return req, nil
	})
	if err != nil {
		return nil, fmt.Errorf("jina read: %w", err)
	}
	return &ScrapedContent{
		Title:   titleFromURL(pageURL),
		Content: string(resp.body),
		URL:     pageURL,
	}, nil
}

func titleFromURL(pageURL string) string {
	trimmed := strings.TrimRight(pageURL, "/")
	if i := strings.LastIndexByte(trimmed, '/'); i >= 0 && i < len(trimmed)-1 {
		return trimmed[i+1:]
	}
	return "Unknown"
}
