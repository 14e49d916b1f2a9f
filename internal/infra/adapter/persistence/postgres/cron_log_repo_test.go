package postgres_test

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"model-tracker/internal/domain/entity"
	"model-tracker/internal/infra/adapter/persistence/postgres"
)

/* ──────────────────────────────── 1. Create ──────────────────────────────── */

func TestCronLogRepo_Create(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO cron_logs`)).
		WithArgs("fetch_models", "success", 4, 2, sqlmock.AnyArg(), int64(1534), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(11)))

	l := &entity.CronLog{
		JobType: entity.CronJobFetchModels, Status: entity.CronStatusSuccess,
		ModelsFound: 4, ModelsAdded: 2, ExecutionTimeMs: 1534,
	}
	repo := postgres.NewCronLogRepo(db)
	if err := repo.Create(context.Background(), l); err != nil {
		t.Fatalf("Create err=%v", err)
	}
	if l.ID != 11 || l.CreatedAt.IsZero() {
		t.Fatalf("unexpected log after create: %+v", l)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestCronLogRepo_Create_Error(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(`INSERT INTO cron_logs`).WillReturnError(sql.ErrConnDone)

	repo := postgres.NewCronLogRepo(db)
	err := repo.Create(context.Background(), &entity.CronLog{JobType: "fetch_models", Status: "error"})
	if !errors.Is(err, sql.ErrConnDone) {
		t.Fatalf("want ErrConnDone, got %v", err)
	}
}

/* ──────────────────────────────── 2. ListRecent ──────────────────────────────── */

func TestCronLogRepo_ListRecent(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`FROM cron_logs`)).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "job_type", "status", "models_found", "models_added",
			"error_message", "execution_time_ms", "created_at",
		}).
			AddRow(int64(2), "fetch_models", "error", int64(0), int64(0), "perplexity unavailable", int64(40), now).
			AddRow(int64(1), "fetch_models", "success", int64(3), int64(1), nil, nil, now.Add(-time.Hour)))

	repo := postgres.NewCronLogRepo(db)
	got, err := repo.ListRecent(context.Background(), 5)
	if err != nil || len(got) != 2 {
		t.Fatalf("ListRecent err=%v len=%d", err, len(got))
	}
	if got[0].ErrorMessage != "perplexity unavailable" || got[1].ModelsAdded != 1 || got[1].ExecutionTimeMs != 0 {
		t.Fatalf("unexpected logs %+v %+v", got[0], got[1])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}
