package postgres_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"model-tracker/internal/domain/entity"
	"model-tracker/internal/infra/adapter/persistence/postgres"
)

/* ──────────────────────────────── 1. Create ──────────────────────────────── */

func TestNewsRepo_Create(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	published := time.Date(2025, 2, 17, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO news_entries`)).
		WithArgs(sqlmock.AnyArg(), "New Model Release: Grok 3", sqlmock.AnyArg(), sqlmock.AnyArg(),
			sqlmock.AnyArg(), sqlmock.AnyArg(), published, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))

	e := &entity.NewsEntry{
		ModelID:     "0d1c9f8e-0000-4000-8000-000000000001",
		Title:       "New Model Release: Grok 3",
		PublishedAt: published,
		NewsType:    entity.NewsTypeRelease,
	}
	repo := postgres.NewNewsRepo(db)
	if err := repo.Create(context.Background(), e); err != nil {
		t.Fatalf("Create err=%v", err)
	}
	if e.ID != 7 {
		t.Fatalf("ID=%d, want 7", e.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

/* ──────────────────────────────── 2. ListRecent ──────────────────────────────── */

func TestNewsRepo_ListRecent(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`ORDER BY published_at DESC`)).
		WithArgs(20).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "model_id", "title", "summary", "content", "source_url", "source_name",
			"published_at", "news_type", "created_at",
		}).AddRow(int64(1), "m-1", "New Model Release: Grok 3", "summary", nil, nil, "xAI",
			now, "release", now))

	repo := postgres.NewNewsRepo(db)
	got, err := repo.ListRecent(context.Background(), 0)
	if err != nil || len(got) != 1 {
		t.Fatalf("ListRecent err=%v len=%d", err, len(got))
	}
	if got[0].SourceName != "xAI" || got[0].Content != "" || got[0].NewsType != "release" {
		t.Fatalf("unexpected entry %+v", got[0])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}
