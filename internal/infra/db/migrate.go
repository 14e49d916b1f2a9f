package db

import (
	"context"
	"database/sql"
	"fmt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS models (
    id                UUID PRIMARY KEY,
    name              TEXT NOT NULL,
    slug              TEXT NOT NULL UNIQUE,
    provider          TEXT NOT NULL,
    release_date      TIMESTAMPTZ NOT NULL,
    announcement_date TIMESTAMPTZ,
    description       TEXT,
    model_type        TEXT,
    parameters        TEXT,
    context_window    INTEGER,
    is_available      BOOLEAN DEFAULT FALSE,
    api_endpoint      TEXT,
    pricing_info      JSONB,
    documentation_url TEXT,
    announcement_url  TEXT,
    paper_url         TEXT,
    huggingface_url   TEXT,
    github_url        TEXT,
    benchmarks        JSONB,
    social_posts      JSONB,
    comparisons       JSONB,
    full_content      TEXT,
    image_url         TEXT,
    tags              JSONB,
    highlights        JSONB,
    created_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
    fetched_at        TIMESTAMPTZ DEFAULT now()
)`,
	`CREATE TABLE IF NOT EXISTS news_entries (
    id           SERIAL PRIMARY KEY,
    model_id     UUID REFERENCES models(id),
    title        TEXT NOT NULL,
    summary      TEXT,
    content      TEXT,
    source_url   TEXT,
    source_name  TEXT,
    published_at TIMESTAMPTZ NOT NULL,
    news_type    TEXT,
    created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
)`,
	`CREATE TABLE IF NOT EXISTS cron_logs (
    id                SERIAL PRIMARY KEY,
    job_type          TEXT NOT NULL,
    status            TEXT NOT NULL,
    models_found      INTEGER DEFAULT 0,
    models_added      INTEGER DEFAULT 0,
    error_message     TEXT,
    execution_time_ms INTEGER,
    created_at        TIMESTAMPTZ NOT NULL DEFAULT now()
)`,
	`CREATE INDEX IF NOT EXISTS idx_models_release_date ON models(release_date DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_news_entries_published_at ON news_entries(published_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_cron_logs_created_at ON cron_logs(created_at DESC)`,
}

// MigrateUp creates the tables and indexes when they are missing.
func MigrateUp(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate step %d: %w", i+1, err)
		}
	}
	return nil
}

// MigrateDown drops the tables in reverse dependency order.
// All stored models, news entries and cron logs are lost.
func MigrateDown(ctx context.Context, db *sql.DB) error {
	for _, table := range []string{"news_entries", "cron_logs", "models"} {
		if _, err := db.ExecContext(ctx, "DROP TABLE IF EXISTS "+table+" CASCADE"); err != nil {
			return fmt.Errorf("drop %s: %w", table, err)
		}
	}
	return nil
}
