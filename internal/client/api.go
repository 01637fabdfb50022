// Package client drives the wallpaper backend from the user's side: an HTTP
// API wrapper plus the Controller that owns search, pagination, suggestion,
// favorites and modal state for a single browsing session.
package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/fleveque/image-haven/internal/model"
)

// StatusError is a non-2xx answer from the backend.
type StatusError struct {
	StatusCode int
	Message    string // the backend's {"error": ...} text, if any
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("backend returned HTTP %d: %s", e.StatusCode, e.Message)
}

// API talks to the backend's /api endpoints.
type API struct {
	baseURL string
	http    *http.Client
}

// NewAPI creates a backend client. httpClient may be nil.
func NewAPI(baseURL string, httpClient *http.Client) *API {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &API{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

// Wallpapers fetches one page of aggregated results.
func (a *API) Wallpapers(ctx context.Context, query string, page int) ([]model.Wallpaper, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("page", strconv.Itoa(page))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/api/wallpapers?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	body, err := a.do(req)
	if err != nil {
		return nil, err
	}

	var wallpapers []model.Wallpaper
	if err := json.Unmarshal(body, &wallpapers); err != nil {
		return nil, fmt.Errorf("decoding wallpapers: %w", err)
	}
	return wallpapers, nil
}

// Recommend posts seed to /api/recommend and returns the raw response body.
func (a *API) Recommend(ctx context.Context, seed string) (json.RawMessage, error) {
	payload, err := json.Marshal(map[string]string{"userQuery": seed})
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/api/recommend", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return a.do(req)
}

func (a *API) do(req *http.Request) ([]byte, error) {
	req.Header.Set("Accept", "application/json")

	resp, err := a.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling backend: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.Unmarshal(body, &e)
		return nil, &StatusError{StatusCode: resp.StatusCode, Message: e.Error}
	}
	return body, nil
}
