// Package provider defines the interface for wallpaper sources.
// Each provider (Pexels, Unsplash, NASA) implements this interface and is the
// single place where that upstream's loosely-shaped JSON becomes model.Wallpaper.
package provider

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	json "github.com/goccy/go-json"

	"github.com/fleveque/image-haven/internal/model"
)

// ErrMalformed is returned when an upstream payload is missing a required field.
// Callers check with errors.Is(err, ErrMalformed).
var ErrMalformed = errors.New("malformed provider response")

// WallpaperProvider is the interface for wallpaper sources.
// Search does not retry and does not cache. Both concerns live above it.
type WallpaperProvider interface {
	// Search returns one page of normalized wallpapers for query.
	Search(ctx context.Context, query string, page int) ([]model.Wallpaper, error)

	// Name returns a human-readable name for the provider.
	Name() string
}

// HTTPStatusError means the upstream answered with a non-2xx status.
type HTTPStatusError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *HTTPStatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s returned HTTP %d", e.Provider, e.StatusCode)
	}
	return fmt.Sprintf("%s returned HTTP %d: %s", e.Provider, e.StatusCode, e.Body)
}

// getJSON performs req and decodes a 2xx JSON body into out.
func getJSON(client *http.Client, req *http.Request, provider string, out any) error {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "image-haven/1.0")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("fetching %s: %w", provider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Only a short prefix of the body, enough to see the upstream's error message.
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &HTTPStatusError{Provider: provider, StatusCode: resp.StatusCode, Body: string(body)}
	}

	// Limit read to 10MB to prevent memory issues from unexpectedly large bodies.
	if err := json.NewDecoder(io.LimitReader(resp.Body, 10<<20)).Decode(out); err != nil {
		return fmt.Errorf("decoding %s response: %w", provider, err)
	}
	return nil
}

func malformed(provider, format string, args ...any) error {
	return fmt.Errorf("%s: %w: %s", provider, ErrMalformed, fmt.Sprintf(format, args...))
}
