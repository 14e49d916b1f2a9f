package ingest_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"model-tracker/internal/domain/entity"
	"model-tracker/internal/repository"
	"model-tracker/internal/usecase/ingest"
	"model-tracker/internal/usecase/notify"
	"model-tracker/internal/usecase/research"
)

/*────────────────────  in-memory stubs  ────────────────────*/

type stubModels struct {
	mu        sync.Mutex
	data      map[string]*entity.Model
	existsErr error
	createErr map[string]error
}

func newStubModels(slugs ...string) *stubModels {
	s := &stubModels{data: map[string]*entity.Model{}, createErr: map[string]error{}}
	for _, slug := range slugs {
		s.data[slug] = &entity.Model{Slug: slug}
	}
	return s
}

func (s *stubModels) ExistsBySlug(_ context.Context, slug string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.data[slug]
	return ok, s.existsErr
}

func (s *stubModels) GetBySlug(_ context.Context, slug string) (*entity.Model, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data[slug], nil
}

func (s *stubModels) Create(_ context.Context, m *entity.Model) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.createErr[m.Slug]; err != nil {
		return err
	}
	m.ID = "id-" + m.Slug
	s.data[m.Slug] = m
	return nil
}

func (s *stubModels) List(context.Context, repository.ModelFilter) ([]*entity.Model, error) {
	return nil, nil
}

func (s *stubModels) Count(context.Context, repository.ModelFilter) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.data)), nil
}

type stubNews struct{ entries []*entity.NewsEntry }

func (s *stubNews) Create(_ context.Context, e *entity.NewsEntry) error {
	s.entries = append(s.entries, e)
	return nil
}

func (s *stubNews) ListRecent(context.Context, int) ([]*entity.NewsEntry, error) {
	return s.entries, nil
}

type stubCronLogs struct{ logs []*entity.CronLog }

func (s *stubCronLogs) Create(_ context.Context, l *entity.CronLog) error {
	s.logs = append(s.logs, l)
	return nil
}

func (s *stubCronLogs) ListRecent(context.Context, int) ([]*entity.CronLog, error) {
	return s.logs, nil
}

type stubCache struct {
	repository.ModelCache
	invalidations int
	lastFetch     time.Time
}

func (c *stubCache) Invalidate(context.Context) { c.invalidations++ }

func (c *stubCache) SetLastFetchTime(_ context.Context, t time.Time) { c.lastFetch = t }

type stubResearch struct {
	models   []*entity.Model
	err      error
	messages []string

	gotYear, gotMonth int
	gotStart, gotEnd  string
}

func (r *stubResearch) FetchNewModels(context.Context) ([]*entity.Model, error) {
	return r.models, r.err
}

func (r *stubResearch) BackfillMonth(_ context.Context, year, month int, progress research.Progress) ([]*entity.Model, error) {
	r.gotYear, r.gotMonth = year, month
	for _, m := range r.messages {
		progress(m)
	}
	return r.models, r.err
}

func (r *stubResearch) BackfillDateRange(_ context.Context, start, end string, progress research.Progress) ([]*entity.Model, error) {
	r.gotStart, r.gotEnd = start, end
	for _, m := range r.messages {
		progress(m)
	}
	return r.models, r.err
}

type stubNotify struct {
	notify.Service
	notified []string
}

func (n *stubNotify) NotifyNewModel(_ context.Context, m *entity.Model) {
	n.notified = append(n.notified, m.Slug)
}

type fixture struct {
	svc      *ingest.Service
	models   *stubModels
	news     *stubNews
	cronLogs *stubCronLogs
	cache    *stubCache
	research *stubResearch
	notify   *stubNotify
}

var now = time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

func newFixture(existing ...string) *fixture {
	f := &fixture{
		models:   newStubModels(existing...),
		news:     &stubNews{},
		cronLogs: &stubCronLogs{},
		cache:    &stubCache{},
		research: &stubResearch{},
		notify:   &stubNotify{},
	}
	f.svc = ingest.NewService(f.models, f.news, f.cronLogs, f.cache, f.research, f.notify)
	f.svc.Now = func() time.Time { return now }
	return f
}

func model(name, provider string) *entity.Model {
	return &entity.Model{
		Name:            name,
		Slug:            entity.Slugify(name),
		Provider:        provider,
		Description:     name + " by " + provider,
		AnnouncementURL: "https://example.com/" + entity.Slugify(name),
		ReleaseDate:     time.Date(2025, 3, 13, 0, 0, 0, 0, time.UTC),
	}
}

/*────────────────────  test cases  ────────────────────*/

func TestPersist(t *testing.T) {
	f := newFixture("gpt-4o")
	failing := model("Broken", "Acme")
	f.models.createErr["broken"] = errors.New("connection reset")

	var logs []string
	summary := f.svc.Persist(context.Background(), []*entity.Model{
		model("Claude 3.7 Sonnet", "Anthropic"),
		model("GPT-4o", "OpenAI"),
		{Name: "No slug"},
		failing,
		{Name: "Orphan", Slug: "orphan"},
	}, func(msg string) { logs = append(logs, msg) })

	assert.Equal(t, ingest.Summary{Discovered: 5, Inserted: 2, Skipped: 3}, summary)
	assert.Equal(t, 1, f.cache.invalidations)
	assert.Empty(t, f.notify.notified, "backfilled models are not announced")

	orphan := f.models.data["orphan"]
	require.NotNil(t, orphan)
	assert.Equal(t, entity.UnknownProvider, orphan.Provider)
	assert.Equal(t, now, orphan.ReleaseDate)
	assert.NotNil(t, orphan.Benchmarks)
	assert.NotNil(t, orphan.Tags)

	assert.Empty(t, f.news.entries, "backfilled models get no news entry")

	joined := strings.Join(logs, "\n")
	assert.Contains(t, joined, "Inserted Claude 3.7 Sonnet (Anthropic)")
	assert.Contains(t, joined, "Skipped GPT-4o (already exists)")
	assert.Contains(t, joined, "Failed to insert Broken: connection reset")
}

func TestPersist_DuplicateOnInsert(t *testing.T) {
	f := newFixture()
	f.models.createErr["o3"] = fmt.Errorf("Create: %w", entity.ErrDuplicateSlug)

	summary := f.svc.Persist(context.Background(), []*entity.Model{model("o3", "OpenAI")}, nil)
	assert.Equal(t, ingest.Summary{Discovered: 1, Skipped: 1}, summary)
	assert.Empty(t, f.news.entries)
}

func TestPersist_LookupError(t *testing.T) {
	f := newFixture()
	f.models.existsErr = errors.New("db down")

	summary := f.svc.Persist(context.Background(), []*entity.Model{model("o3", "OpenAI")}, nil)
	assert.Equal(t, ingest.Summary{Discovered: 1, Skipped: 1}, summary)
}

func TestRunFetchJob(t *testing.T) {
	f := newFixture("gemma-3")
	f.research.models = []*entity.Model{
		model("Gemma 3", "Google"),
		model("Mistral Small 3.1", "Mistral"),
	}

	result, err := f.svc.RunFetchJob(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, result.ModelsFound)
	assert.Equal(t, 1, result.ModelsAdded)
	assert.Equal(t, []string{"mistral-small-3-1"}, f.notify.notified)
	assert.Equal(t, now, f.cache.lastFetch)

	require.Len(t, f.news.entries, 1)
	entry := f.news.entries[0]
	assert.Equal(t, "New Model Release: Mistral Small 3.1", entry.Title)
	assert.Equal(t, "id-mistral-small-3-1", entry.ModelID)
	assert.Equal(t, "Mistral Small 3.1 by Mistral", entry.Summary)
	assert.Equal(t, "https://example.com/mistral-small-3-1", entry.SourceURL)
	assert.Equal(t, "Mistral", entry.SourceName)
	assert.Equal(t, entity.NewsTypeRelease, entry.NewsType)

	require.Len(t, f.cronLogs.logs, 1)
	log := f.cronLogs.logs[0]
	assert.Equal(t, entity.CronJobFetchModels, log.JobType)
	assert.Equal(t, entity.CronStatusSuccess, log.Status)
	assert.Equal(t, 2, log.ModelsFound)
	assert.Equal(t, 1, log.ModelsAdded)
}

func TestRunFetchJob_NothingDiscovered(t *testing.T) {
	f := newFixture()
	f.research.models = []*entity.Model{}

	result, err := f.svc.RunFetchJob(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, result.ModelsFound)
	assert.Equal(t, now, f.cache.lastFetch)

	require.Len(t, f.cronLogs.logs, 1)
	assert.Equal(t, entity.CronStatusSuccess, f.cronLogs.logs[0].Status)
	assert.Zero(t, f.cronLogs.logs[0].ModelsFound)
}

func TestRunFetchJob_NoDiscoveryProvider(t *testing.T) {
	f := newFixture()
	f.research.err = research.ErrNoDiscoveryProvider

	_, err := f.svc.RunFetchJob(context.Background())
	assert.ErrorIs(t, err, research.ErrNoDiscoveryProvider)

	require.Len(t, f.cronLogs.logs, 1)
	assert.Equal(t, entity.CronStatusError, f.cronLogs.logs[0].Status)
	assert.Equal(t, "no discovery provider configured", f.cronLogs.logs[0].ErrorMessage)
	assert.True(t, f.cache.lastFetch.IsZero())
}

func TestRunFetchJob_InterruptedKeepsResearchedModels(t *testing.T) {
	f := newFixture()
	f.research.models = []*entity.Model{model("Gemma 3", "Google")}
	f.research.err = context.Canceled

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	result, err := f.svc.RunFetchJob(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, result.ModelsFound)
	assert.Equal(t, 1, result.ModelsAdded)
	assert.Contains(t, f.models.data, "gemma-3")

	require.Len(t, f.cronLogs.logs, 1)
	log := f.cronLogs.logs[0]
	assert.Equal(t, entity.CronStatusPartial, log.Status)
	assert.Equal(t, 1, log.ModelsAdded)
	assert.Equal(t, "context canceled", log.ErrorMessage)
}

func TestRunBackfill(t *testing.T) {
	t.Run("month", func(t *testing.T) {
		f := newFixture()
		f.research.models = []*entity.Model{model("DeepSeek-V3", "DeepSeek")}
		f.research.messages = []string{"Searching 2024-12-01 to 2024-12-07 (window 1/5)"}

		res, err := f.svc.RunBackfill(context.Background(), ingest.BackfillRequest{Year: 2024, Month: 12})
		require.NoError(t, err)

		assert.Equal(t, 2024, f.research.gotYear)
		assert.Equal(t, 12, f.research.gotMonth)
		assert.Equal(t, ingest.Summary{Discovered: 1, Inserted: 1}, res.Summary)
		assert.Equal(t, []string{
			"[2025-03-14T12:00:00.000Z] Starting backfill for 2024-12",
			"[2025-03-14T12:00:00.000Z] Searching 2024-12-01 to 2024-12-07 (window 1/5)",
			"[2025-03-14T12:00:00.000Z] Inserted DeepSeek-V3 (DeepSeek)",
			"[2025-03-14T12:00:00.000Z] Backfill complete: 1 inserted, 0 skipped",
		}, res.Logs)
		assert.Empty(t, f.notify.notified)

		require.Len(t, f.cronLogs.logs, 1)
		assert.Equal(t, entity.CronJobBackfill, f.cronLogs.logs[0].JobType)
	})

	t.Run("range", func(t *testing.T) {
		f := newFixture()
		_, err := f.svc.RunBackfill(context.Background(), ingest.BackfillRequest{StartDate: "2024-11-01", EndDate: "2024-11-15"})
		require.NoError(t, err)
		assert.Equal(t, "2024-11-01", f.research.gotStart)
		assert.Equal(t, "2024-11-15", f.research.gotEnd)
	})

	t.Run("neither shape", func(t *testing.T) {
		f := newFixture()
		for _, req := range []ingest.BackfillRequest{{}, {StartDate: "2024-11-01"}, {EndDate: "2024-11-30"}} {
			_, err := f.svc.RunBackfill(context.Background(), req)
			assert.ErrorIs(t, err, ingest.ErrInvalidBackfillRequest)
		}
		assert.Empty(t, f.cronLogs.logs)
	})

	t.Run("year without month is a month backfill", func(t *testing.T) {
		f := newFixture()
		f.research.err = fmt.Errorf("%w: month must be between 1 and 12, got 0", research.ErrInvalidBackfill)
		_, err := f.svc.RunBackfill(context.Background(), ingest.BackfillRequest{Year: 2024})
		assert.ErrorIs(t, err, research.ErrInvalidBackfill)
		assert.Equal(t, 2024, f.research.gotYear)
		assert.Equal(t, 0, f.research.gotMonth)
	})

	t.Run("interrupted keeps researched models", func(t *testing.T) {
		f := newFixture()
		f.research.models = []*entity.Model{model("DeepSeek-V3", "DeepSeek")}
		f.research.err = context.DeadlineExceeded
		res, err := f.svc.RunBackfill(context.Background(), ingest.BackfillRequest{Year: 2024, Month: 12})
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		require.NotNil(t, res)
		assert.Equal(t, ingest.Summary{Discovered: 1, Inserted: 1}, res.Summary)
		assert.Contains(t, f.models.data, "deepseek-v3")
		require.Len(t, f.cronLogs.logs, 1)
		assert.Equal(t, entity.CronStatusPartial, f.cronLogs.logs[0].Status)
	})

	t.Run("invalid range is not logged as a run", func(t *testing.T) {
		f := newFixture()
		f.research.err = fmt.Errorf("%w: month must be between 1 and 12, got 13", research.ErrInvalidBackfill)
		_, err := f.svc.RunBackfill(context.Background(), ingest.BackfillRequest{Year: 2024, Month: 13})
		assert.ErrorIs(t, err, research.ErrInvalidBackfill)
		assert.Empty(t, f.cronLogs.logs)
	})

	t.Run("discovery failure", func(t *testing.T) {
		f := newFixture()
		f.research.err = research.ErrNoDiscoveryProvider
		_, err := f.svc.RunBackfill(context.Background(), ingest.BackfillRequest{Year: 2024, Month: 1})
		assert.ErrorIs(t, err, research.ErrNoDiscoveryProvider)
		require.Len(t, f.cronLogs.logs, 1)
		assert.Equal(t, entity.CronStatusError, f.cronLogs.logs[0].Status)
	})
}

func TestBackfillRequest_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    ingest.BackfillRequest
		wantErr bool
	}{
		{"numbers", `{"year":2024,"month":12}`, ingest.BackfillRequest{Year: 2024, Month: 12}, false},
		{"numeric strings", `{"year":"2024","month":" 12 "}`, ingest.BackfillRequest{Year: 2024, Month: 12}, false},
		{"range", `{"startDate":"2024-12-01","endDate":"2024-12-31"}`, ingest.BackfillRequest{StartDate: "2024-12-01", EndDate: "2024-12-31"}, false},
		{"null and empty", `{"year":null,"month":""}`, ingest.BackfillRequest{}, false},
		{"word", `{"year":"last","month":12}`, ingest.BackfillRequest{}, true},
		{"fraction", `{"year":2024,"month":1.5}`, ingest.BackfillRequest{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got ingest.BackfillRequest
			err := json.Unmarshal([]byte(tt.body), &got)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
