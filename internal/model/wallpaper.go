// Package model defines the core data types for the wallpaper service.
// Struct tags (`json:"..."` and `db:"..."`) tell serialization libraries how
// to map fields; the JSON shape of Wallpaper is the public API contract.
package model

import (
	"strings"
	"time"
)

// Source names the upstream that produced a wallpaper.
// Go doesn't have enums, so we use a typed string with explicit constants.
type Source string

const (
	SourcePexels   Source = "Pexels"
	SourceUnsplash Source = "Unsplash"
	SourceNASA     Source = "NASA"
)

// Wallpaper is the normalized record every provider adapter produces.
// ID is only unique within one provider's result set: two providers may
// return the same ID, and both records are kept.
type Wallpaper struct {
	ID           string `json:"id"`
	URL          string `json:"url"`
	Photographer string `json:"photographer"`
	Source       Source `json:"source"`
}

// FullURL returns the image URL without its query string. Providers append
// sizing parameters to preview URLs; dropping them yields the original image.
func (w Wallpaper) FullURL() string {
	if i := strings.IndexByte(w.URL, '?'); i >= 0 {
		return w.URL[:i]
	}
	return w.URL
}

// SearchRecord logs one served wallpaper search.
type SearchRecord struct {
	ID        int64     `db:"id" json:"id"`
	Query     string    `db:"query" json:"query"`
	Page      int       `db:"page" json:"page"`
	Results   int       `db:"results" json:"results"`
	CacheHit  bool      `db:"cache_hit" json:"cache_hit"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// RecommendationCall tracks each call to a text-generation backend.
type RecommendationCall struct {
	ID         int64     `db:"id" json:"id"`
	Seed       string    `db:"seed" json:"seed"`
	Provider   string    `db:"provider" json:"provider"`
	Model      string    `db:"model" json:"model"`
	Success    bool      `db:"success" json:"success"`
	DurationMs *int64    `db:"duration_ms" json:"duration_ms,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
