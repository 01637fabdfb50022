package cache

import (
	"time"

	apicache "github.com/apibillme/cache"

	"github.com/fleveque/image-haven/internal/model"
)

// LRUStore is a bounded alternative to MemoryStore. Once maxEntries is
// reached the entry closest to expiry is evicted, and every entry expires ttl
// after it was written. Expiry follows the wall clock.
type LRUStore struct {
	lru apicache.Cache
}

// NewLRUStore creates an LRU-backed Store.
func NewLRUStore(maxEntries int, ttl time.Duration) *LRUStore {
	if maxEntries <= 0 {
		maxEntries = 1024
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	// WithoutReset keeps reads from pushing expiry back; only Set restarts it.
	return &LRUStore{lru: apicache.New(maxEntries, apicache.WithTTL(ttl), apicache.WithoutReset())}
}

func (s *LRUStore) Get(key string) ([]model.Wallpaper, bool) {
	v, ok := s.lru.Get(key)
	if !ok {
		return nil, false
	}
	wallpapers, ok := v.([]model.Wallpaper)
	if !ok {
		return nil, false
	}
	return clone(wallpapers), true
}

func (s *LRUStore) Set(key string, value []model.Wallpaper) {
	s.lru.Set(key, clone(value))
}

func (s *LRUStore) Has(key string) bool {
	_, ok := s.Get(key)
	return ok
}
