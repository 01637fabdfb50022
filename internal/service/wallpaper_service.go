package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/fleveque/image-haven/internal/cache"
	"github.com/fleveque/image-haven/internal/metrics"
	"github.com/fleveque/image-haven/internal/model"
	"github.com/fleveque/image-haven/internal/storage"
)

// DefaultQuery is searched when the caller gives a blank term.
const DefaultQuery = "random"

// WallpaperService is the entry point for wallpaper searches.
// It follows the "try cache first, then acquire" pattern: the response cache
// is the fast path, and the aggregator's upstream fan-out runs only on a miss.
type WallpaperService struct {
	aggregator *Aggregator
	cache      cache.Store
	searchRepo storage.SearchRepository // nil disables the search log
	logger     *zap.Logger
}

// NewWallpaperService wires the aggregator behind the cache.
// searchRepo can be nil.
func NewWallpaperService(
	aggregator *Aggregator,
	store cache.Store,
	searchRepo storage.SearchRepository,
	logger *zap.Logger,
) *WallpaperService {
	return &WallpaperService{
		aggregator: aggregator,
		cache:      store,
		searchRepo: searchRepo,
		logger:     logger,
	}
}

// Search returns one page of wallpapers for query.
// A blank query becomes DefaultQuery and a page below 1 becomes 1, so every
// caller shares one cache key per search.
// The error is ErrNoWallpapers when no provider produced anything.
func (s *WallpaperService) Search(ctx context.Context, query string, page int) ([]model.Wallpaper, error) {
	query, page = Normalize(query, page)
	key := cache.Key(query, page)

	if cached, ok := s.cache.Get(key); ok {
		metrics.RecordCacheLookup(true)
		s.record(ctx, query, page, len(cached), true)
		return cached, nil
	}
	metrics.RecordCacheLookup(false)

	s.logger.Debug("cache miss, querying providers",
		zap.String("query", query),
		zap.Int("page", page),
	)

	wallpapers, err := s.aggregator.Search(ctx, query, page)
	if err != nil {
		return nil, fmt.Errorf("searching %q page %d: %w", query, page, err)
	}

	// Only non-empty results reach this point, so an all-fail search is
	// never cached and the next request tries the providers again.
	s.cache.Set(key, wallpapers)
	s.record(ctx, query, page, len(wallpapers), false)

	return wallpapers, nil
}

// record writes a search log row. Failures are logged, never returned.
func (s *WallpaperService) record(ctx context.Context, query string, page, results int, cacheHit bool) {
	if s.searchRepo == nil {
		return
	}
	rec := &model.SearchRecord{
		Query:    query,
		Page:     page,
		Results:  results,
		CacheHit: cacheHit,
	}
	if err := s.searchRepo.Create(ctx, rec); err != nil {
		s.logger.Error("recording search", zap.String("query", query), zap.Error(err))
	}
}

// Normalize applies the search defaults: DefaultQuery for a blank term and
// page 1 for anything below 1.
func Normalize(query string, page int) (string, int) {
	if strings.TrimSpace(query) == "" {
		query = DefaultQuery
	}
	if page < 1 {
		page = 1
	}
	return query, page
}
