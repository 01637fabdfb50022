package server

import (
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/fleveque/image-haven/internal/cache"
	"github.com/fleveque/image-haven/internal/config"
	"github.com/fleveque/image-haven/internal/llm"
	"github.com/fleveque/image-haven/internal/provider"
	"github.com/fleveque/image-haven/internal/service"
	"github.com/fleveque/image-haven/internal/storage"
)

// Deps holds everything the HTTP layer needs. main builds it once with
// NewDeps; tests can assemble one by hand with fakes.
type Deps struct {
	DB               *sqlx.DB
	SearchRepo       storage.SearchRepository
	CallRepo         storage.RecommendationCallRepository
	Aggregator       *service.Aggregator
	WallpaperService *service.WallpaperService
	RecommendService *service.RecommendService
}

// Close releases the database.
func (d *Deps) Close() error {
	if d.DB == nil {
		return nil
	}
	return d.DB.Close()
}

// NewDeps opens storage and builds providers, cache and services from cfg.
func NewDeps(cfg *config.Config, logger *zap.Logger) (*Deps, error) {
	db, err := storage.NewDatabase(cfg.Storage.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	searchRepo := storage.NewSearchRepository(db)
	callRepo := storage.NewRecommendationCallRepository(db)

	store, err := NewCacheStore(cfg.Cache)
	if err != nil {
		db.Close()
		return nil, err
	}

	clients, err := NewRecommendClients(cfg.Recommend)
	if err != nil {
		db.Close()
		return nil, err
	}

	aggregator := service.NewAggregator(NewProviders(cfg.Providers), logger)

	return &Deps{
		DB:               db,
		SearchRepo:       searchRepo,
		CallRepo:         callRepo,
		Aggregator:       aggregator,
		WallpaperService: service.NewWallpaperService(aggregator, store, searchRepo, logger),
		RecommendService: service.NewRecommendService(clients, cfg.Recommend.RatePerMinute, callRepo, logger),
	}, nil
}

// NewProviders builds the enabled wallpaper providers in aggregation order:
// Pexels, then Unsplash, then NASA. A nil *http.Client means no timeout;
// each search is bounded by its request context.
func NewProviders(cfg config.ProvidersConfig) []provider.WallpaperProvider {
	var providers []provider.WallpaperProvider
	if cfg.Pexels.Enabled {
		providers = append(providers, provider.NewPexelsProvider(cfg.Pexels.APIKey, cfg.Pexels.BaseURL, cfg.Pexels.PerPage, nil))
	}
	if cfg.Unsplash.Enabled {
		providers = append(providers, provider.NewUnsplashProvider(cfg.Unsplash.APIKey, cfg.Unsplash.BaseURL, cfg.Unsplash.PerPage, nil))
	}
	if cfg.NASA.Enabled {
		providers = append(providers, provider.NewNASAProvider(cfg.NASA.APIKey, cfg.NASA.BaseURL, cfg.NASA.PerPage, nil))
	}
	return providers
}

// NewCacheStore selects the response cache backend.
func NewCacheStore(cfg config.CacheConfig) (cache.Store, error) {
	switch strings.ToLower(cfg.Backend) {
	case "", "memory":
		return cache.NewMemoryStore(cfg.TTL, nil), nil
	case "lru":
		return cache.NewLRUStore(cfg.MaxEntries, cfg.TTL), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}

// NewRecommendClients builds the text-generation backends in configured order.
// The order is set by recommend.provider_order, so swapping the primary
// backend is a config change, not a code change.
func NewRecommendClients(cfg config.RecommendConfig) ([]llm.Client, error) {
	clients := make([]llm.Client, 0, len(cfg.ProviderOrder))
	for _, name := range cfg.ProviderOrder {
		switch strings.ToLower(name) {
		case "huggingface":
			clients = append(clients, llm.NewHuggingFaceClient(cfg.HuggingFace.APIKey, cfg.HuggingFace.BaseURL, cfg.HuggingFace.Model, nil))
		case "openai":
			clients = append(clients, llm.NewOpenAIClient(cfg.OpenAI.APIKey, cfg.OpenAI.BaseURL, cfg.OpenAI.Model))
		case "anthropic":
			clients = append(clients, llm.NewAnthropicClient(cfg.Anthropic.APIKey, cfg.Anthropic.BaseURL, cfg.Anthropic.Model))
		default:
			return nil, fmt.Errorf("unknown recommendation provider %q", name)
		}
	}
	return clients, nil
}
