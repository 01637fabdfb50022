package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/fleveque/image-haven/internal/model"
)

// NASAProvider pulls random entries from the Astronomy Picture of the Day API.
// APOD has no search: the query and page are ignored and every call returns
// `count` random days.
type NASAProvider struct {
	apiKey  string
	baseURL string
	count   int
	client  *http.Client
}

// NewNASAProvider creates an APOD adapter. client may be nil.
func NewNASAProvider(apiKey, baseURL string, count int, client *http.Client) *NASAProvider {
	if client == nil {
		client = &http.Client{}
	}
	return &NASAProvider{apiKey: apiKey, baseURL: baseURL, count: count, client: client}
}

func (n *NASAProvider) Name() string { return "nasa" }

type apodEntry struct {
	Date      string `json:"date"`
	Title     string `json:"title"`
	URL       string `json:"url"`
	MediaType string `json:"media_type"`
}

func (n *NASAProvider) Search(ctx context.Context, _ string, _ int) ([]model.Wallpaper, error) {
	params := url.Values{}
	params.Set("api_key", n.apiKey)
	params.Set("count", strconv.Itoa(n.count))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	// With count set the API answers with a bare JSON array.
	var entries []apodEntry
	if err := getJSON(n.client, req, n.Name(), &entries); err != nil {
		return nil, err
	}
	return normalizeAPOD(entries)
}

func normalizeAPOD(entries []apodEntry) ([]model.Wallpaper, error) {
	if entries == nil {
		return nil, malformed("nasa", "expected an array of entries")
	}

	out := make([]model.Wallpaper, 0, len(entries))
	for i, e := range entries {
		if e.Date == "" || e.URL == "" {
			return nil, malformed("nasa", "entry %d lacks date or url", i)
		}
		out = append(out, model.Wallpaper{
			ID:           e.Date,
			URL:          e.URL,
			Photographer: "NASA",
			Source:       model.SourceNASA,
		})
	}
	return out, nil
}
