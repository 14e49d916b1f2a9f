package scraper

import (
	"context"
	"errors"
	"fmt"

	"model-tracker/internal/domain/entity"
	"model-tracker/internal/resilience/circuitbreaker"
	"model-tracker/internal/utils/text"
)

// Scraper bundles the page fetcher, Jina Reader and Tavily search used by
// research.
type Scraper struct {
	pages      *PageFetcher
	jina       *Jina
	tavily     *Tavily
	maxExcerpt int
}

// New creates a Scraper. Jina and Tavily calls fail with ErrNotConfigured
// when their API key is missing.
func New(cfg Config, breakers *circuitbreaker.Registry) *Scraper {
	return &Scraper{
		pages:      NewPageFetcher(cfg, breakers),
		jina:       NewJina(cfg, breakers),
		tavily:     NewTavily(cfg, breakers),
		maxExcerpt: cfg.MaxExcerptChars,
	}
}

// Announcement returns the preview image and a text excerpt of an
// announcement page. When the page cannot be parsed directly the excerpt
// comes from Jina Reader, without an image.
func (s *Scraper) Announcement(ctx context.Context, pageURL string) (imageURL, excerpt string, err error) {
	page, err := s.pages.Fetch(ctx, pageURL)
	if err == nil {
		return page.ImageURL, firstNonEmpty(page.Text, page.Description), nil
	}
	if s.jina.apiKey == "" || ctx.Err() != nil {
		return "", "", err
	}
	c, jerr := s.jina.Read(ctx, pageURL)
	if jerr != nil {
		return "", "", errors.Join(err, jerr)
	}
	return "", text.Truncate(text.CollapseWhitespace(c.Content), s.maxExcerpt), nil
}

// Benchmarks mines benchmark scores from three search results.
func (s *Scraper) Benchmarks(ctx context.Context, name, provider string) (entity.Benchmarks, error) {
	query := fmt.Sprintf("%s %s benchmark results MMLU HumanEval GPQA", name, provider)
	results, err := s.tavily.Search(ctx, query, 3)
	if err != nil {
		return nil, err
	}
	return ExtractBenchmarks(results), nil
}

// Comparisons mines competitor comparisons from three search results.
func (s *Scraper) Comparisons(ctx context.Context, name, _ string) ([]entity.Comparison, error) {
	query := fmt.Sprintf("%s vs comparison GPT Claude Gemini benchmark", name)
	results, err := s.tavily.Search(ctx, query, 3)
	if err != nil {
		return nil, err
	}
	return ExtractComparisons(results, name), nil
}
