// Package service contains the core business logic of the wallpaper backend.
//
//	Aggregator        fans a search out to every provider and merges the results
//	WallpaperService  puts the response cache in front of the aggregator
//	RecommendService  asks text-generation backends for a new theme word
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/fleveque/image-haven/internal/metrics"
	"github.com/fleveque/image-haven/internal/model"
	"github.com/fleveque/image-haven/internal/provider"
)

// ErrNoWallpapers is returned when every provider failed or came back empty.
var ErrNoWallpapers = errors.New("no wallpapers found from any source")

// Aggregator queries all providers concurrently and concatenates their
// results in provider order. A provider that errors or panics contributes
// zero results; it never aborts the search.
type Aggregator struct {
	providers []provider.WallpaperProvider
	logger    *zap.Logger
}

// NewAggregator creates an aggregator over the given providers.
// The slice order is the order results appear in the merged list.
func NewAggregator(providers []provider.WallpaperProvider, logger *zap.Logger) *Aggregator {
	return &Aggregator{providers: providers, logger: logger}
}

// Providers returns the names of the configured providers, in order.
func (a *Aggregator) Providers() []string {
	names := make([]string, len(a.providers))
	for i, p := range a.providers {
		names[i] = p.Name()
	}
	return names
}

// Search runs one search per provider and waits for all of them to settle.
func (a *Aggregator) Search(ctx context.Context, query string, page int) ([]model.Wallpaper, error) {
	// One slot per provider; each goroutine writes only its own index, so
	// the merge below preserves provider order without any locking.
	slots := make([][]model.Wallpaper, len(a.providers))

	// A plain Group rather than WithContext: one provider failing must not
	// cancel the others.
	var g errgroup.Group
	for i, p := range a.providers {
		g.Go(func() error {
			slots[i] = a.searchOne(ctx, p, query, page)
			return nil
		})
	}

	done := make(chan struct{})
	go func() {
		_ = g.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		return nil, fmt.Errorf("waiting for providers: %w", ctx.Err())
	}

	var merged []model.Wallpaper
	for _, s := range slots {
		merged = append(merged, s...)
	}
	if len(merged) == 0 {
		return nil, ErrNoWallpapers
	}
	return merged, nil
}

// searchOne is the per-provider failure boundary.
func (a *Aggregator) searchOne(ctx context.Context, p provider.WallpaperProvider, query string, page int) (results []model.Wallpaper) {
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("provider panic: %v", r)
			metrics.RecordProviderCall(p.Name(), 0, time.Since(start), err)
			a.logger.Warn("provider failed",
				zap.String("provider", p.Name()),
				zap.Error(err),
			)
			results = nil
		}
	}()

	results, err := p.Search(ctx, query, page)
	metrics.RecordProviderCall(p.Name(), len(results), time.Since(start), err)
	if err != nil {
		a.logger.Warn("provider failed",
			zap.String("provider", p.Name()),
			zap.String("query", query),
			zap.Int("page", page),
			zap.Error(err),
		)
		return nil
	}

	a.logger.Debug("provider returned results",
		zap.String("provider", p.Name()),
		zap.Int("count", len(results)),
	)
	return results
}
