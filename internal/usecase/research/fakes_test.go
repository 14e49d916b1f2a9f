package research

import (
	"context"
	"sync"
	"time"

	"model-tracker/internal/domain/entity"
)

type fakeDiscoverer struct {
	mu      sync.Mutex
	latest  []entity.DiscoveredModel
	windows map[string][]entity.DiscoveredModel
	failing map[string]error
	err     error
	seen    []string
}

func (f *fakeDiscoverer) Name() string { return "perplexity" }

func (f *fakeDiscoverer) DiscoverLatest(_ context.Context, _ time.Time) ([]entity.DiscoveredModel, error) {
	return f.latest, f.err
}

func (f *fakeDiscoverer) DiscoverWindow(_ context.Context, w entity.DateWindow) ([]entity.DiscoveredModel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seen = append(f.seen, w.String())
	if err := f.failing[w.String()]; err != nil {
		return nil, err
	}
	return f.windows[w.String()], nil
}

type fakeDetails struct {
	name    string
	details *entity.ModelDetails
	err     error

	mu    sync.Mutex
	calls int
}

func (f *fakeDetails) Name() string { return f.name }

func (f *fakeDetails) Details(_ context.Context, _, _ string) (*entity.ModelDetails, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if f.details == nil {
		return nil, nil
	}
	d := *f.details
	return &d, nil
}

type fakeSocial struct {
	name  string
	posts []entity.SocialPost
	err   error
}

func (f *fakeSocial) Name() string { return f.name }

func (f *fakeSocial) SocialPosts(_ context.Context, _, _ string) ([]entity.SocialPost, error) {
	return f.posts, f.err
}

type fakeContent struct {
	name    string
	content string
	err     error

	mu        sync.Mutex
	reference string
	details   *entity.ModelDetails
}

func (f *fakeContent) Name() string { return f.name }

func (f *fakeContent) GenerateContent(_ context.Context, _, _ string, details *entity.ModelDetails, reference string) (string, error) {
	f.mu.Lock()
	f.reference = reference
	f.details = details
	f.mu.Unlock()
	return f.content, f.err
}

type fakeScraper struct {
	imageURL    string
	excerpt     string
	pageErr     error
	benchmarks  entity.Benchmarks
	comparisons []entity.Comparison

	mu    sync.Mutex
	pages []string
}

func (f *fakeScraper) Announcement(_ context.Context, pageURL string) (string, string, error) {
	f.mu.Lock()
	f.pages = append(f.pages, pageURL)
	f.mu.Unlock()
	return f.imageURL, f.excerpt, f.pageErr
}

func (f *fakeScraper) Benchmarks(_ context.Context, _, _ string) (entity.Benchmarks, error) {
	return f.benchmarks, nil
}

func (f *fakeScraper) Comparisons(_ context.Context, _, _ string) ([]entity.Comparison, error) {
	return f.comparisons, nil
}

var fixedNow = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

func testConfig() Config {
	return Config{Now: func() time.Time { return fixedNow }}
}
