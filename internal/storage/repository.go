package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/fleveque/image-haven/internal/model"
)

// ErrNotFound is returned when a record doesn't exist in the database.
// Callers check with errors.Is(err, ErrNotFound).
var ErrNotFound = errors.New("record not found")

// SearchStats summarizes the search log.
type SearchStats struct {
	Total     int64 `db:"total" json:"total"`
	CacheHits int64 `db:"cache_hits" json:"cache_hits"`
	Distinct  int64 `db:"distinct_queries" json:"distinct_queries"`
}

// QueryCount is one row of the most-searched list.
type QueryCount struct {
	Query string `db:"query" json:"query"`
	Count int64  `db:"count" json:"count"`
}

// SearchRepository defines persistence for served searches.
// Go interfaces are implicit: a test fake only needs these methods.
type SearchRepository interface {
	Create(ctx context.Context, rec *model.SearchRecord) error
	GetByID(ctx context.Context, id int64) (*model.SearchRecord, error)
	Stats(ctx context.Context) (*SearchStats, error)
	TopQueries(ctx context.Context, limit int) ([]QueryCount, error)
}

// sqliteSearchRepository is the SQLite implementation of SearchRepository.
// The struct is unexported; only the interface is public.
type sqliteSearchRepository struct {
	db *sqlx.DB
}

// NewSearchRepository creates a new SQLite-backed SearchRepository.
func NewSearchRepository(db *sqlx.DB) SearchRepository {
	return &sqliteSearchRepository{db: db}
}

func (r *sqliteSearchRepository) Create(ctx context.Context, rec *model.SearchRecord) error {
	result, err := r.db.NamedExecContext(ctx, `
		INSERT INTO searches (query, page, results, cache_hit)
		VALUES (:query, :page, :results, :cache_hit)
	`, rec)
	if err != nil {
		return fmt.Errorf("creating search record: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("getting last insert id: %w", err)
	}
	rec.ID = id
	return nil
}

func (r *sqliteSearchRepository) GetByID(ctx context.Context, id int64) (*model.SearchRecord, error) {
	var rec model.SearchRecord
	err := r.db.GetContext(ctx, &rec, "SELECT * FROM searches WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting search %d: %w", id, err)
	}
	return &rec, nil
}

func (r *sqliteSearchRepository) Stats(ctx context.Context) (*SearchStats, error) {
	var stats SearchStats
	// COALESCE: SUM over zero rows is NULL.
	err := r.db.GetContext(ctx, &stats, `
		SELECT COUNT(*) AS total,
		       COALESCE(SUM(cache_hit), 0) AS cache_hits,
		       COUNT(DISTINCT query) AS distinct_queries
		FROM searches
	`)
	if err != nil {
		return nil, fmt.Errorf("computing search stats: %w", err)
	}
	return &stats, nil
}

func (r *sqliteSearchRepository) TopQueries(ctx context.Context, limit int) ([]QueryCount, error) {
	var rows []QueryCount
	err := r.db.SelectContext(ctx, &rows, `
		SELECT query, COUNT(*) AS count
		FROM searches
		GROUP BY query
		ORDER BY count DESC, query ASC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing top queries: %w", err)
	}
	return rows, nil
}

// RecommendationCallRepository handles persistence of text-generation call tracking.
type RecommendationCallRepository interface {
	Create(ctx context.Context, call *model.RecommendationCall) error
	Count(ctx context.Context) (int64, error)
	CountByProvider(ctx context.Context, provider string, success bool) (int64, error)
}

type sqliteRecommendationCallRepository struct {
	db *sqlx.DB
}

// NewRecommendationCallRepository creates a new SQLite-backed RecommendationCallRepository.
func NewRecommendationCallRepository(db *sqlx.DB) RecommendationCallRepository {
	return &sqliteRecommendationCallRepository{db: db}
}

func (r *sqliteRecommendationCallRepository) Create(ctx context.Context, call *model.RecommendationCall) error {
	result, err := r.db.NamedExecContext(ctx, `
		INSERT INTO recommendation_calls (seed, provider, model, success, duration_ms)
		VALUES (:seed, :provider, :model, :success, :duration_ms)
	`, call)
	if err != nil {
		return fmt.Errorf("creating recommendation call record: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("getting last insert id: %w", err)
	}
	call.ID = id
	return nil
}

func (r *sqliteRecommendationCallRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM recommendation_calls")
	return count, err
}

func (r *sqliteRecommendationCallRepository) CountByProvider(ctx context.Context, provider string, success bool) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count,
		"SELECT COUNT(*) FROM recommendation_calls WHERE provider = ? AND success = ?",
		provider, success)
	return count, err
}
