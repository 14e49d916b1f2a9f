package research

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"model-tracker/internal/domain/entity"
	"model-tracker/internal/observability/metrics"
)

func TestResearchModel_DetailsFallback(t *testing.T) {
	grok := &fakeDetails{name: "grok", err: errors.New("grok: 503")}
	claude := &fakeDetails{name: "claude", details: &entity.ModelDetails{
		Description:   "Fast multimodal model",
		ModelType:     entity.ModelTypeMultimodal,
		ContextWindow: 1_000_000,
		Benchmarks:    entity.Benchmarks{"mmlu": 88.1},
		PricingInfo:   &entity.Pricing{Input: 0.1, Output: 0.4},
		Highlights:    []string{"Native tool use"},
	}}
	content := &fakeContent{name: "claude", content: "# Gemini 2.0 Flash"}

	before := testutil.ToFloat64(metrics.ProviderFallbacksTotal.WithLabelValues("details", "grok"))

	svc := NewService(Providers{
		Details: []DetailsProvider{grok, claude},
		Content: []ContentGenerator{content},
	}, nil, testConfig())

	m, err := svc.ResearchModel(context.Background(), entity.DiscoveredModel{
		Name:        "Gemini 2.0 Flash",
		Provider:    "Google",
		ReleaseDate: "2024-12-11",
		SourceURL:   "https://blog.google/technology/google-deepmind/google-gemini-ai-update-december-2024/",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, grok.calls)
	assert.Equal(t, 1, claude.calls)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.ProviderFallbacksTotal.WithLabelValues("details", "grok")))

	assert.Equal(t, "gemini-2-0-flash", m.Slug)
	assert.Equal(t, "Fast multimodal model", m.Description)
	assert.Equal(t, entity.ModelTypeMultimodal, m.ModelType)
	assert.Equal(t, 1_000_000, m.ContextWindow)
	assert.Equal(t, time.Date(2024, 12, 11, 0, 0, 0, 0, time.UTC), m.ReleaseDate)
	assert.Equal(t, []string{"multimodal", "google"}, m.Tags)
	assert.Equal(t, "# Gemini 2.0 Flash", m.FullContent)
	assert.Equal(t, "https://blog.google/technology/google-deepmind/google-gemini-ai-update-december-2024/", m.AnnouncementURL)
	assert.True(t, m.IsAvailable)
	require.NotNil(t, m.FetchedAt)
	assert.Equal(t, fixedNow, *m.FetchedAt)
}

func TestResearchModel_Defaults(t *testing.T) {
	svc := NewService(Providers{
		Details: []DetailsProvider{&fakeDetails{name: "grok"}},
		Social:  []SocialProvider{&fakeSocial{name: "perplexity", err: errors.New("down")}},
		Content: []ContentGenerator{&fakeContent{name: "claude", err: errors.New("down")}},
	}, nil, testConfig())

	m, err := svc.ResearchModel(context.Background(), entity.DiscoveredModel{
		Name:        "  Mystery-1 ",
		ReleaseDate: "sometime soon",
		SourceURL:   "not a url",
	})
	require.NoError(t, err)

	want := &entity.Model{
		Name:             "Mystery-1",
		Slug:             "mystery-1",
		Provider:         entity.UnknownProvider,
		ReleaseDate:      fixedNow,
		AnnouncementDate: &fixedNow,
		Description:      "Mystery-1 by Unknown",
		ModelType:        entity.ModelTypeLLM,
		IsAvailable:      true,
		Benchmarks:       entity.Benchmarks{},
		SocialPosts:      []entity.SocialPost{},
		Comparisons:      []entity.Comparison{},
		Tags:             []string{"llm", "unknown"},
		Highlights:       []string{},
		FetchedAt:        &fixedNow,
	}
	if diff := cmp.Diff(want, m); diff != "" {
		t.Errorf("model mismatch (-want +got):\n%s", diff)
	}
}

func TestResearchModel_EmptyName(t *testing.T) {
	svc := NewService(Providers{}, nil, testConfig())
	_, err := svc.ResearchModel(context.Background(), entity.DiscoveredModel{Name: "   ", Provider: "OpenAI"})
	assert.ErrorIs(t, err, ErrInvalidCandidate)
}

func TestResearchModel_ScraperSupplements(t *testing.T) {
	details := &fakeDetails{name: "grok", details: &entity.ModelDetails{
		Description: "Reasoning model",
		Benchmarks:  entity.Benchmarks{"mmlu": 90.8},
	}}
	content := &fakeContent{name: "claude", content: "article"}
	scr := &fakeScraper{
		imageURL:   "https://openai.com/o1.png",
		excerpt:    "We are introducing o1.",
		benchmarks: entity.Benchmarks{"mmlu": 85.0, "gpqa": 78.0},
		comparisons: []entity.Comparison{
			{Model: "GPT-4o", Comparison: "a"}, {Model: "Claude", Comparison: "b"},
			{Model: "Gemini", Comparison: "c"}, {Model: "Llama", Comparison: "d"},
		},
	}
	cfg := testConfig()
	cfg.MaxComparisons = 3
	svc := NewService(Providers{
		Details: []DetailsProvider{details},
		Social:  []SocialProvider{&fakeSocial{name: "perplexity", posts: []entity.SocialPost{{Platform: "x", URL: "https://x.com/openai/status/1", Content: "o1 is here"}}}},
		Content: []ContentGenerator{content},
	}, scr, cfg)

	m, err := svc.ResearchModel(context.Background(), entity.DiscoveredModel{
		Name: "o1", Provider: "OpenAI", ReleaseDate: "2024-09-12T17:00:00Z", SourceURL: "https://openai.com/index/introducing-openai-o1-preview/",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"https://openai.com/index/introducing-openai-o1-preview/"}, scr.pages)
	assert.Equal(t, "https://openai.com/o1.png", m.ImageURL)
	assert.Equal(t, "We are introducing o1.", content.reference)
	assert.Equal(t, entity.Benchmarks{"mmlu": 90.8, "gpqa": 78.0}, m.Benchmarks)
	assert.Len(t, m.Comparisons, 3)
	assert.Len(t, m.SocialPosts, 1)
	assert.Equal(t, time.Date(2024, 9, 12, 17, 0, 0, 0, time.UTC), m.ReleaseDate)
}

func TestResearchModel_KeepsProviderComparisons(t *testing.T) {
	details := &fakeDetails{name: "grok", details: &entity.ModelDetails{
		Comparisons: []entity.Comparison{{Model: "GPT-4", Comparison: "beats it"}},
	}}
	scr := &fakeScraper{comparisons: []entity.Comparison{{Model: "Llama", Comparison: "x"}}}
	svc := NewService(Providers{Details: []DetailsProvider{details}}, scr, testConfig())

	m, err := svc.ResearchModel(context.Background(), entity.DiscoveredModel{Name: "Grok 3", Provider: "xAI"})
	require.NoError(t, err)
	assert.Equal(t, []entity.Comparison{{Model: "GPT-4", Comparison: "beats it"}}, m.Comparisons)
	assert.Empty(t, scr.pages)
}

func TestFetchNewModels(t *testing.T) {
	disc := &fakeDiscoverer{latest: []entity.DiscoveredModel{
		{Name: "Claude 3.7 Sonnet", Provider: "Anthropic", ReleaseDate: "2025-03-14"},
		{Name: "", Provider: "Nobody"},
		{Name: "Gemma 3", Provider: "Google", ReleaseDate: "2025-03-13"},
	}}
	svc := NewService(Providers{Discoverer: disc}, nil, testConfig())

	models, err := svc.FetchNewModels(context.Background())
	require.NoError(t, err)
	require.Len(t, models, 2)
	assert.Equal(t, "claude-3-7-sonnet", models[0].Slug)
	assert.Equal(t, "gemma-3", models[1].Slug)
}

func TestFetchNewModels_Errors(t *testing.T) {
	svc := NewService(Providers{}, nil, testConfig())
	_, err := svc.FetchNewModels(context.Background())
	assert.ErrorIs(t, err, ErrNoDiscoveryProvider)
}

func TestFetchNewModels_DiscoveryFailureYieldsNoModels(t *testing.T) {
	failures := metrics.DiscoveryFailuresTotal.WithLabelValues(entity.CronJobFetchModels)
	before := testutil.ToFloat64(failures)

	svc := NewService(Providers{Discoverer: &fakeDiscoverer{err: errors.New("perplexity discover: HTTP 400: bad request")}}, nil, testConfig())
	models, err := svc.FetchNewModels(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, models)
	assert.Empty(t, models)
	assert.Equal(t, before+1, testutil.ToFloat64(failures))
}

func TestFetchNewModels_CancelledDuringDiscovery(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc := NewService(Providers{Discoverer: &fakeDiscoverer{err: context.Canceled}}, nil, testConfig())
	_, err := svc.FetchNewModels(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunChain(t *testing.T) {
	a := &fakeDetails{name: "a"}
	b := &fakeDetails{name: "b", err: errors.New("b failed")}
	isEmpty := func(v *entity.ModelDetails) bool { return v.IsEmpty() }
	call := func(ctx context.Context, p DetailsProvider) (*entity.ModelDetails, error) {
		return p.Details(ctx, "m", "p")
	}

	_, err := runChain(context.Background(), "details", []DetailsProvider{a, b}, call, isEmpty)
	assert.EqualError(t, err, "b failed")

	_, err = runChain(context.Background(), "details", []DetailsProvider{a}, call, isEmpty)
	assert.ErrorIs(t, err, errEmptyResult)

	_, err = runChain(context.Background(), "details", nil, call, isEmpty)
	assert.ErrorIs(t, err, errNoProvider)

	calls := a.calls
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = runChain(ctx, "details", []DetailsProvider{b, a}, call, isEmpty)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, calls, a.calls, "chain stops once the context is done")
}

func TestParseReleaseDate(t *testing.T) {
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2024-12-11", time.Date(2024, 12, 11, 0, 0, 0, 0, time.UTC)},
		{"2024-12-11T10:00:00+02:00", time.Date(2024, 12, 11, 8, 0, 0, 0, time.UTC)},
		{"2024-12-11 (announced)", time.Date(2024, 12, 11, 0, 0, 0, 0, time.UTC)},
		{"December 2024", now},
		{"", now},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseReleaseDate(tt.in, now))
		})
	}
}

func TestConfigFromProfile(t *testing.T) {
	cfg := ConfigFromProfile(nil)
	assert.Equal(t, 2*time.Second, cfg.WindowDelay)
	assert.Equal(t, time.Second, cfg.ItemDelay)
	assert.Equal(t, 5, cfg.MaxComparisons)
}
