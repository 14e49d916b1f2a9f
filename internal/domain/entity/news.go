package entity

import "time"

// News entry types.
const (
	NewsTypeRelease      = "release"
	NewsTypeUpdate       = "update"
	NewsTypeAnnouncement = "announcement"
	NewsTypeBenchmark    = "benchmark"
	NewsTypeComparison   = "comparison"
)

// NewsEntry is an item of the daily news feed, usually tied to a model.
type NewsEntry struct {
	ID          int64     `json:"id"`
	ModelID     string    `json:"modelId,omitempty"`
	Title       string    `json:"title"`
	Summary     string    `json:"summary,omitempty"`
	Content     string    `json:"content,omitempty"`
	SourceURL   string    `json:"sourceUrl,omitempty"`
	SourceName  string    `json:"sourceName,omitempty"`
	PublishedAt time.Time `json:"publishedAt"`
	NewsType    string    `json:"newsType"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Cron job statuses.
const (
	CronStatusSuccess = "success"
	CronStatusError   = "error"
	CronStatusPartial = "partial"
)

// CronJobFetchModels is the job type recorded for the scheduled discovery pass.
const CronJobFetchModels = "fetch_models"

// CronJobBackfill is the job type recorded for historical backfills.
const CronJobBackfill = "backfill"

// CronLog records one execution of a scheduled job.
type CronLog struct {
	ID              int64     `json:"id"`
	JobType         string    `json:"jobType"`
	Status          string    `json:"status"`
	ModelsFound     int       `json:"modelsFound"`
	ModelsAdded     int       `json:"modelsAdded"`
	ErrorMessage    string    `json:"errorMessage,omitempty"`
	ExecutionTimeMs int64     `json:"executionTimeMs"`
	CreatedAt       time.Time `json:"createdAt"`
}
