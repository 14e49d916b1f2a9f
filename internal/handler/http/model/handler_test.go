package model_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"model-tracker/internal/common/pagination"
	"model-tracker/internal/domain/entity"
	modelHandler "model-tracker/internal/handler/http/model"
	"model-tracker/internal/infra/cache"
	"model-tracker/internal/repository"
	modelUC "model-tracker/internal/usecase/model"
)

/* ───────── stubs ───────── */

type stubRepo struct {
	models  []*entity.Model
	err     error
	filters []repository.ModelFilter
}

func (s *stubRepo) ExistsBySlug(context.Context, string) (bool, error) { return false, nil }

func (s *stubRepo) GetBySlug(_ context.Context, slug string) (*entity.Model, error) {
	if s.err != nil {
		return nil, s.err
	}
	for _, m := range s.models {
		if m.Slug == slug {
			return m, nil
		}
	}
	return nil, nil
}

func (s *stubRepo) Create(context.Context, *entity.Model) error { return nil }

func (s *stubRepo) List(_ context.Context, f repository.ModelFilter) ([]*entity.Model, error) {
	s.filters = append(s.filters, f)
	return s.models, s.err
}

func (s *stubRepo) Count(context.Context, repository.ModelFilter) (int64, error) {
	return int64(len(s.models)), nil
}

func sampleModels() []*entity.Model {
	return []*entity.Model{
		{
			ID: "b7e5", Name: "Claude 3.7 Sonnet", Slug: "claude-3-7-sonnet", Provider: "Anthropic",
			ModelType: "LLM", ReleaseDate: time.Date(2025, 2, 24, 0, 0, 0, 0, time.UTC),
			Benchmarks: entity.Benchmarks{"swe_bench": 62.3},
		},
		{
			ID: "0c1d", Name: "Gemini 2.0 Flash", Slug: "gemini-2-0-flash", Provider: "Google",
			ModelType: "Multimodal", ReleaseDate: time.Date(2025, 2, 5, 0, 0, 0, 0, time.UTC),
		},
	}
}

func newMux(t *testing.T, repo *stubRepo) (*http.ServeMux, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := cache.NewRedis(redis.NewClient(&redis.Options{Addr: mr.Addr()}), time.Second)
	svc := modelUC.NewService(repo, c, pagination.DefaultConfig())

	mux := http.NewServeMux()
	modelHandler.Register(mux, svc, pagination.DefaultConfig(), nil)
	return mux, mr
}

func do(mux http.Handler, target string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, target, nil))
	return rr
}

/* ───────── list ───────── */

func TestListHandler(t *testing.T) {
	repo := &stubRepo{models: sampleModels()}
	mux, _ := newMux(t, repo)

	rr := do(mux, "/api/models")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var body modelHandler.ListResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.False(t, body.Cached)
	require.Len(t, body.Models, 2)
	assert.Equal(t, "claude-3-7-sonnet", body.Models[0].Slug)
	assert.Equal(t, 62.3, body.Models[0].Benchmarks["swe_bench"])

	rr = do(mux, "/api/models")
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.True(t, body.Cached)
	assert.Len(t, repo.filters, 1)
}

func TestListHandler_Filters(t *testing.T) {
	repo := &stubRepo{models: sampleModels()[:1]}
	mux, _ := newMux(t, repo)

	rr := do(mux, "/api/models?provider=anthropic&type=llm&limit=10&offset=20")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, []repository.ModelFilter{{Provider: "anthropic", Type: "llm", Limit: 10, Offset: 20}}, repo.filters)
	assert.JSONEq(t, `false`, string(mustField(t, rr.Body.Bytes(), "cached")))
}

func TestListHandler_BadParams(t *testing.T) {
	mux, _ := newMux(t, &stubRepo{})

	rr := do(mux, "/api/models?limit=abc")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "limit must be between 1 and 100")
}

func TestListHandler_RepoError(t *testing.T) {
	mux, _ := newMux(t, &stubRepo{err: errors.New("pq: password=hunter2 rejected")})

	rr := do(mux, "/api/models")
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"error":"Failed to fetch models"}`, rr.Body.String())
}

/* ───────── get ───────── */

func TestGetHandler(t *testing.T) {
	mux, mr := newMux(t, &stubRepo{models: sampleModels()})

	rr := do(mux, "/api/models/gemini-2-0-flash")
	require.Equal(t, http.StatusOK, rr.Code)

	var body modelHandler.GetResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.False(t, body.Cached)
	assert.Equal(t, "Gemini 2.0 Flash", body.Model.Name)
	assert.True(t, mr.Exists(cache.ModelKey("gemini-2-0-flash")))

	rr = do(mux, "/api/models/gemini-2-0-flash")
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.True(t, body.Cached)
}

func TestGetHandler_NotFound(t *testing.T) {
	mux, _ := newMux(t, &stubRepo{models: sampleModels()})

	for _, path := range []string{"/api/models/gpt-5", "/api/models/GPT%205"} {
		rr := do(mux, path)
		assert.Equal(t, http.StatusNotFound, rr.Code, path)
		assert.JSONEq(t, `{"error":"Model not found"}`, rr.Body.String())
	}
}

/* ───────── timeline ───────── */

func TestTimelineHandler(t *testing.T) {
	repo := &stubRepo{models: sampleModels()}
	mr := miniredis.RunT(t)
	c := cache.NewRedis(redis.NewClient(&redis.Options{Addr: mr.Addr()}), time.Second)
	svc := modelUC.NewService(repo, c, pagination.DefaultConfig())

	fetched := time.Date(2025, 2, 24, 8, 0, 0, 0, time.UTC)
	c.SetLastFetchTime(context.Background(), fetched)

	h := modelHandler.TimelineHandler{Svc: svc, Now: func() time.Time {
		return time.Date(2025, 2, 24, 12, 0, 0, 0, time.UTC)
	}}

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/timeline?provider=Google,Anthropic&type=LLM", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var body modelHandler.TimelineResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Total)
	require.Len(t, body.Groups, 1)
	assert.Equal(t, "Today", body.Groups[0].Label)
	assert.Equal(t, "claude-3-7-sonnet", body.Groups[0].Models[0].Slug)
	assert.Equal(t, 2, body.Stats.TotalModels)
	assert.Equal(t, 1, body.Stats.TodayReleases)
	require.NotNil(t, body.LastFetch)
	assert.True(t, fetched.Equal(*body.LastFetch))
	assert.True(t, mr.Exists(cache.KeyTimeline))
}

func TestTimelineHandler_NoLastFetch(t *testing.T) {
	mux, _ := newMux(t, &stubRepo{})

	rr := do(mux, "/api/timeline?q=nothing")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `null`, string(mustField(t, rr.Body.Bytes(), "lastFetch")))
	assert.JSONEq(t, `[]`, string(mustField(t, rr.Body.Bytes(), "groups")))
}

func mustField(t *testing.T, body []byte, field string) json.RawMessage {
	t.Helper()
	var m map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(body, &m))
	v, ok := m[field]
	require.True(t, ok, "missing field %q in %s", field, body)
	return v
}
