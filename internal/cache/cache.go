// Package cache memoizes aggregated wallpaper results for a fixed time-to-live.
//
// Callers depend on the Store interface; MemoryStore is the default backend and
// takes a Clock so tests can move time forward without sleeping.
package cache

import (
	"fmt"
	"sync"
	"time"

	"github.com/fleveque/image-haven/internal/model"
)

// DefaultTTL is how long an aggregated page stays cached.
const DefaultTTL = time.Hour

// Store is a time-expiring key/value store for wallpaper result pages.
type Store interface {
	Get(key string) ([]model.Wallpaper, bool)
	Set(key string, value []model.Wallpaper)
	Has(key string) bool
}

// Key builds the cache key for one (query, page) pair.
func Key(query string, page int) string {
	return fmt.Sprintf("wallpapers_%s_%d", query, page)
}

// Clock abstracts time.Now.
type Clock interface {
	Now() time.Time
}

// RealClock reads the wall clock.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

type entry struct {
	value     []model.Wallpaper
	expiresAt time.Time
}

// MemoryStore keeps entries in a map and expires them lazily on read.
// It is unbounded: at one entry per (query, page) this stays small.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	clock   Clock
}

// NewMemoryStore creates a store whose entries live for ttl after each Set.
// A nil clock means the wall clock.
func NewMemoryStore(ttl time.Duration, clock Clock) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if clock == nil {
		clock = RealClock{}
	}
	return &MemoryStore{
		entries: make(map[string]entry),
		ttl:     ttl,
		clock:   clock,
	}
}

// Get returns a copy of the cached slice so callers can't mutate the entry.
func (s *MemoryStore) Get(key string) ([]model.Wallpaper, bool) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if !s.clock.Now().Before(e.expiresAt) {
		s.mu.Lock()
		// Re-check: a concurrent Set may have refreshed the entry.
		if cur, ok := s.entries[key]; ok && !s.clock.Now().Before(cur.expiresAt) {
			delete(s.entries, key)
		}
		s.mu.Unlock()
		return nil, false
	}

	return clone(e.value), true
}

// Set overwrites the entry for key; the TTL starts now.
func (s *MemoryStore) Set(key string, value []model.Wallpaper) {
	s.mu.Lock()
	s.entries[key] = entry{
		value:     clone(value),
		expiresAt: s.clock.Now().Add(s.ttl),
	}
	s.mu.Unlock()
}

func (s *MemoryStore) Has(key string) bool {
	_, ok := s.Get(key)
	return ok
}

// Purge drops every expired entry and returns how many were removed.
func (s *MemoryStore) Purge() int {
	now := s.clock.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for k, e := range s.entries {
		if !now.Before(e.expiresAt) {
			delete(s.entries, k)
			removed++
		}
	}
	return removed
}

// Len reports the number of stored entries, expired ones included.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func clone(in []model.Wallpaper) []model.Wallpaper {
	if in == nil {
		return nil
	}
	out := make([]model.Wallpaper, len(in))
	copy(out, in)
	return out
}
