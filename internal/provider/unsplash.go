package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/fleveque/image-haven/internal/model"
)

// UnsplashProvider searches the Unsplash photo API.
// The access key is sent as the client_id query parameter.
type UnsplashProvider struct {
	accessKey string
	baseURL   string
	perPage   int
	client    *http.Client
}

// NewUnsplashProvider creates an Unsplash adapter. client may be nil.
func NewUnsplashProvider(accessKey, baseURL string, perPage int, client *http.Client) *UnsplashProvider {
	if client == nil {
		client = &http.Client{}
	}
	return &UnsplashProvider{accessKey: accessKey, baseURL: baseURL, perPage: perPage, client: client}
}

func (u *UnsplashProvider) Name() string { return "unsplash" }

type unsplashPhoto struct {
	ID   string `json:"id"`
	URLs struct {
		Small string `json:"small"`
	} `json:"urls"`
	User struct {
		Name string `json:"name"`
	} `json:"user"`
}

type unsplashSearchResponse struct {
	Total      int             `json:"total"`
	TotalPages int             `json:"total_pages"`
	Results    []unsplashPhoto `json:"results"`
}

func (u *UnsplashProvider) Search(ctx context.Context, query string, page int) ([]model.Wallpaper, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("per_page", strconv.Itoa(u.perPage))
	params.Set("page", strconv.Itoa(page))
	params.Set("client_id", u.accessKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept-Version", "v1")

	var data unsplashSearchResponse
	if err := getJSON(u.client, req, u.Name(), &data); err != nil {
		return nil, err
	}
	return normalizeUnsplash(data)
}

func normalizeUnsplash(data unsplashSearchResponse) ([]model.Wallpaper, error) {
	if data.Results == nil {
		return nil, malformed("unsplash", "missing results array")
	}

	out := make([]model.Wallpaper, 0, len(data.Results))
	for i, photo := range data.Results {
		if photo.ID == "" || photo.URLs.Small == "" {
			return nil, malformed("unsplash", "result %d lacks id or urls.small", i)
		}
		out = append(out, model.Wallpaper{
			ID:           photo.ID,
			URL:          photo.URLs.Small,
			Photographer: photo.User.Name,
			Source:       model.SourceUnsplash,
		})
	}
	return out, nil
}
