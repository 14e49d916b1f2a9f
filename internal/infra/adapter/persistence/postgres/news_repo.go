package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"model-tracker/internal/domain/entity"
	"model-tracker/internal/repository"
)

type NewsRepo struct{ db *sql.DB }

func NewNewsRepo(db *sql.DB) repository.NewsRepository {
	return &NewsRepo{db: db}
}

func (repo *NewsRepo) Create(ctx context.Context, e *entity.NewsEntry) error {
	const query = `
INSERT INTO news_entries
  (model_id, title, summary, content, source_url, source_name, published_at, news_type, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING id`
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	err := repo.db.QueryRowContext(ctx, query,
		nullString(e.ModelID), e.Title, nullString(e.Summary), nullString(e.Content),
		nullString(e.SourceURL), nullString(e.SourceName), e.PublishedAt, nullString(e.NewsType),
		e.CreatedAt,
	).Scan(&e.ID)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (repo *NewsRepo) ListRecent(ctx context.Context, limit int) ([]*entity.NewsEntry, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	const query = `
SELECT id, model_id, title, summary, content, source_url, source_name, published_at, news_type, created_at
FROM news_entries
ORDER BY published_at DESC
LIMIT $1`
	rows, err := repo.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("ListRecent: %w", err)
	}
	defer func() { _ = rows.Close() }()

	entries := make([]*entity.NewsEntry, 0, limit)
	for rows.Next() {
		var (
			e                                                entity.NewsEntry
			modelID, summary, content, srcURL, srcName, kind sql.NullString
		)
		if err := rows.Scan(&e.ID, &modelID, &e.Title, &summary, &content, &srcURL, &srcName,
			&e.PublishedAt, &kind, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("ListRecent: %w", err)
		}
		e.ModelID = modelID.String
		e.Summary = summary.String
		e.Content = content.String
		e.SourceURL = srcURL.String
		e.SourceName = srcName.String
		e.NewsType = kind.String
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}
