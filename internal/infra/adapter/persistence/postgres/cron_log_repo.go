package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"model-tracker/internal/domain/entity"
	"model-tracker/internal/repository"
)

type CronLogRepo struct{ db *sql.DB }

func NewCronLogRepo(db *sql.DB) repository.CronLogRepository {
	return &CronLogRepo{db: db}
}

func (repo *CronLogRepo) Create(ctx context.Context, l *entity.CronLog) error {
	const query = `
INSERT INTO cron_logs
  (job_type, status, models_found, models_added, error_message, execution_time_ms, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id`
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now().UTC()
	}
	err := repo.db.QueryRowContext(ctx, query,
		l.JobType, l.Status, l.ModelsFound, l.ModelsAdded,
		nullString(l.ErrorMessage), l.ExecutionTimeMs, l.CreatedAt,
	).Scan(&l.ID)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (repo *CronLogRepo) ListRecent(ctx context.Context, limit int) ([]*entity.CronLog, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	const query = `
SELECT id, job_type, status, models_found, models_added, error_message, execution_time_ms, created_at
FROM cron_logs
ORDER BY created_at DESC
LIMIT $1`
	rows, err := repo.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("ListRecent: %w", err)
	}
	defer func() { _ = rows.Close() }()

	logs := make([]*entity.CronLog, 0, limit)
	for rows.Next() {
		var (
			l                  entity.CronLog
			found, added, took sql.NullInt64
			errMsg             sql.NullString
		)
		if err := rows.Scan(&l.ID, &l.JobType, &l.Status, &found, &added, &errMsg, &took, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("ListRecent: %w", err)
		}
		l.ModelsFound = int(found.Int64)
		l.ModelsAdded = int(added.Int64)
		l.ErrorMessage = errMsg.String
		l.ExecutionTimeMs = took.Int64
		logs = append(logs, &l)
	}
	return logs, rows.Err()
}
