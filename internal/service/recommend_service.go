package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/fleveque/image-haven/internal/llm"
	"github.com/fleveque/image-haven/internal/metrics"
	"github.com/fleveque/image-haven/internal/model"
	"github.com/fleveque/image-haven/internal/storage"
)

// ErrNoRecommender is returned when no text-generation backend is configured.
var ErrNoRecommender = errors.New("no recommendation backend configured")

// RecommendService asks text-generation backends for a new wallpaper theme.
// Backends are tried in configured order: first success wins, failures fall
// through to the next one. A single backend is called exactly once.
type RecommendService struct {
	clients  []llm.Client // Ordered list: first is primary, rest are fallbacks
	limiter  *rate.Limiter
	callRepo storage.RecommendationCallRepository // nil disables call tracking
	logger   *zap.Logger
}

// NewRecommendService creates a service over an ordered list of backends.
// ratePerMinute <= 0 disables pacing.
func NewRecommendService(
	clients []llm.Client,
	ratePerMinute int,
	callRepo storage.RecommendationCallRepository,
	logger *zap.Logger,
) *RecommendService {
	s := &RecommendService{
		clients:  clients,
		callRepo: callRepo,
		logger:   logger,
	}
	if ratePerMinute > 0 {
		// rate.Every returns a rate.Limit from a time interval between events.
		s.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(ratePerMinute)), 1)
	}
	return s
}

// Recommend returns the raw response body of the first backend that succeeds.
func (s *RecommendService) Recommend(ctx context.Context, seed string) (json.RawMessage, error) {
	if len(s.clients) == 0 {
		return nil, ErrNoRecommender
	}

	var lastErr error
	for i, client := range s.clients {
		if s.limiter != nil {
			// Blocks until a token is available or the context is cancelled.
			if err := s.limiter.Wait(ctx); err != nil {
				return nil, fmt.Errorf("rate limit wait: %w", err)
			}
		}

		raw, err := s.tryClient(ctx, client, seed)
		if err == nil {
			return raw, nil
		}
		lastErr = err

		if i < len(s.clients)-1 {
			s.logger.Warn("recommendation backend failed, trying next",
				zap.String("provider", client.ProviderName()),
				zap.Error(err),
			)
		}
	}

	return nil, fmt.Errorf("all recommendation backends failed: %w", lastErr)
}

func (s *RecommendService) tryClient(ctx context.Context, client llm.Client, seed string) (json.RawMessage, error) {
	start := time.Now()
	raw, err := client.Recommend(ctx, seed)
	duration := time.Since(start).Milliseconds()

	metrics.RecordRecommendation(client.ProviderName(), err == nil)
	s.recordCall(ctx, client, seed, err, duration)

	return raw, err
}

func (s *RecommendService) recordCall(ctx context.Context, client llm.Client, seed string, callErr error, durationMs int64) {
	if s.callRepo == nil {
		return
	}
	call := &model.RecommendationCall{
		Seed:       seed,
		Provider:   client.ProviderName(),
		Model:      client.ModelName(),
		Success:    callErr == nil,
		DurationMs: &durationMs,
	}
	if err := s.callRepo.Create(ctx, call); err != nil {
		s.logger.Error("recording recommendation call", zap.Error(err))
	}
}
