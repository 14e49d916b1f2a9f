// Package postgres provides PostgreSQL implementations of repository interfaces.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"model-tracker/internal/domain/entity"
	"model-tracker/internal/repository"
)

const uniqueViolation = "23505"

const modelColumns = `id, name, slug, provider, release_date, announcement_date,
description, model_type, parameters, context_window, is_available, api_endpoint,
pricing_info, documentation_url, announcement_url, paper_url, huggingface_url, github_url,
benchmarks, social_posts, comparisons, full_content, image_url, tags, highlights,
created_at, updated_at, fetched_at`

type ModelRepo struct {
	db *sql.DB
	qb *ModelQueryBuilder
}

func NewModelRepo(db *sql.DB) repository.ModelRepository {
	return &ModelRepo{db: db, qb: NewModelQueryBuilder()}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanModel(s rowScanner) (*entity.Model, error) {
	var (
		m                                            entity.Model
		announcementDate, fetchedAt                  sql.NullTime
		description, modelType, parameters, endpoint sql.NullString
		docURL, annURL, paperURL, hfURL, ghURL       sql.NullString
		fullContent, imageURL                        sql.NullString
		contextWindow                                sql.NullInt64
		isAvailable                                  sql.NullBool
		pricing, benchmarks, social, comparisons     []byte
		tags, highlights                             []byte
	)
	if err := s.Scan(
		&m.ID, &m.Name, &m.Slug, &m.Provider, &m.ReleaseDate, &announcementDate,
		&description, &modelType, &parameters, &contextWindow, &isAvailable, &endpoint,
		&pricing, &docURL, &annURL, &paperURL, &hfURL, &ghURL,
		&benchmarks, &social, &comparisons, &fullContent, &imageURL, &tags, &highlights,
		&m.CreatedAt, &m.UpdatedAt, &fetchedAt,
	); err != nil {
		return nil, err
	}

	if announcementDate.Valid {
		m.AnnouncementDate = &announcementDate.Time
	}
	if fetchedAt.Valid {
		m.FetchedAt = &fetchedAt.Time
	}
	m.Description = description.String
	m.ModelType = modelType.String
	m.Parameters = parameters.String
	m.ContextWindow = int(contextWindow.Int64)
	m.IsAvailable = isAvailable.Bool
	m.APIEndpoint = endpoint.String
	m.DocumentationURL = docURL.String
	m.AnnouncementURL = annURL.String
	m.PaperURL = paperURL.String
	m.HuggingFaceURL = hfURL.String
	m.GitHubURL = ghURL.String
	m.FullContent = fullContent.String
	m.ImageURL = imageURL.String

	if err := unmarshalJSONB(pricing, &m.PricingInfo); err != nil {
		return nil, fmt.Errorf("unmarshal pricing_info: %w", err)
	}
	if err := unmarshalJSONB(benchmarks, &m.Benchmarks); err != nil {
		return nil, fmt.Errorf("unmarshal benchmarks: %w", err)
	}
	if err := unmarshalJSONB(social, &m.SocialPosts); err != nil {
		return nil, fmt.Errorf("unmarshal social_posts: %w", err)
	}
	if err := unmarshalJSONB(comparisons, &m.Comparisons); err != nil {
		return nil, fmt.Errorf("unmarshal comparisons: %w", err)
	}
	if err := unmarshalJSONB(tags, &m.Tags); err != nil {
		return nil, fmt.Errorf("unmarshal tags: %w", err)
	}
	if err := unmarshalJSONB(highlights, &m.Highlights); err != nil {
		return nil, fmt.Errorf("unmarshal highlights: %w", err)
	}

	return &m, nil
}

func (repo *ModelRepo) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM models WHERE slug = $1)`
	var exists bool
	if err := repo.db.QueryRowContext(ctx, query, slug).Scan(&exists); err != nil {
		return false, fmt.Errorf("ExistsBySlug: %w", err)
	}
	return exists, nil
}

func (repo *ModelRepo) GetBySlug(ctx context.Context, slug string) (*entity.Model, error) {
	query := `SELECT ` + modelColumns + `
FROM models
WHERE slug = $1
LIMIT 1`
	m, err := scanModel(repo.db.QueryRowContext(ctx, query, slug))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("GetBySlug: %w", err)
	}
	return m, nil
}

func (repo *ModelRepo) Create(ctx context.Context, m *entity.Model) error {
	const query = `
INSERT INTO models (` + modelColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
        $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28)`

	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	if m.UpdatedAt.IsZero() {
		m.UpdatedAt = now
	}

	var jsonErr error
	jsonb := func(v any) []byte {
		b, err := marshalJSONB(v)
		if err != nil && jsonErr == nil {
			jsonErr = err
		}
		return b
	}
	args := []any{
		m.ID, m.Name, m.Slug, m.Provider, m.ReleaseDate, nullTime(m.AnnouncementDate),
		nullString(m.Description), nullString(m.ModelType), nullString(m.Parameters),
		nullInt(m.ContextWindow), m.IsAvailable, nullString(m.APIEndpoint),
		jsonb(m.PricingInfo), nullString(m.DocumentationURL), nullString(m.AnnouncementURL),
		nullString(m.PaperURL), nullString(m.HuggingFaceURL), nullString(m.GitHubURL),
		jsonb(m.Benchmarks), jsonb(m.SocialPosts), jsonb(m.Comparisons),
		nullString(m.FullContent), nullString(m.ImageURL), jsonb(m.Tags), jsonb(m.Highlights),
		m.CreatedAt, m.UpdatedAt, nullTime(m.FetchedAt),
	}
	if jsonErr != nil {
		return fmt.Errorf("Create: marshal jsonb: %w", jsonErr)
	}

	if _, err := repo.db.ExecContext(ctx, query, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("Create: %w", entity.ErrDuplicateSlug)
		}
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (repo *ModelRepo) List(ctx context.Context, filter repository.ModelFilter) ([]*entity.Model, error) {
	where, args := repo.qb.BuildWhereClause(filter)
	query := `SELECT ` + modelColumns + `
FROM models` + where + `
ORDER BY release_date DESC` + repo.qb.BuildPagination(filter, len(args)+1)
	args = append(args, repo.qb.PaginationArgs(filter)...)

	rows, err := repo.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	defer func() { _ = rows.Close() }()

	capacity := filter.Limit
	if capacity <= 0 || capacity > 200 {
		capacity = 50
	}
	models := make([]*entity.Model, 0, capacity)
	for rows.Next() {
		m, err := scanModel(rows)
		if err != nil {
			return nil, fmt.Errorf("List: %w", err)
		}
		models = append(models, m)
	}
	return models, rows.Err()
}

func (repo *ModelRepo) Count(ctx context.Context, filter repository.ModelFilter) (int64, error) {
	where, args := repo.qb.BuildWhereClause(filter)
	var n int64
	if err := repo.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM models`+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("Count: %w", err)
	}
	return n, nil
}
