package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/fleveque/image-haven/internal/model"
)

// PexelsProvider searches the Pexels photo API.
// The API key goes in the Authorization header (no "Bearer" prefix).
type PexelsProvider struct {
	apiKey  string
	baseURL string
	perPage int
	client  *http.Client
}

// NewPexelsProvider creates a Pexels adapter. client may be nil.
// The default client has no timeout: a hung upstream is bounded by the request context.
func NewPexelsProvider(apiKey, baseURL string, perPage int, client *http.Client) *PexelsProvider {
	if client == nil {
		client = &http.Client{}
	}
	return &PexelsProvider{apiKey: apiKey, baseURL: baseURL, perPage: perPage, client: client}
}

func (p *PexelsProvider) Name() string { return "pexels" }

type pexelsPhoto struct {
	ID           int64  `json:"id"`
	Photographer string `json:"photographer"`
	Src          struct {
		Medium string `json:"medium"`
	} `json:"src"`
}

type pexelsSearchResponse struct {
	Page    int           `json:"page"`
	PerPage int           `json:"per_page"`
	Photos  []pexelsPhoto `json:"photos"`
}

func (p *PexelsProvider) Search(ctx context.Context, query string, page int) ([]model.Wallpaper, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("per_page", strconv.Itoa(p.perPage))
	params.Set("page", strconv.Itoa(page))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", p.apiKey)

	var data pexelsSearchResponse
	if err := getJSON(p.client, req, p.Name(), &data); err != nil {
		return nil, err
	}
	return normalizePexels(data)
}

func normalizePexels(data pexelsSearchResponse) ([]model.Wallpaper, error) {
	if data.Photos == nil {
		return nil, malformed("pexels", "missing photos array")
	}

	out := make([]model.Wallpaper, 0, len(data.Photos))
	for i, photo := range data.Photos {
		if photo.ID == 0 || photo.Src.Medium == "" {
			return nil, malformed("pexels", "photo %d lacks id or src.medium", i)
		}
		out = append(out, model.Wallpaper{
			ID:           strconv.FormatInt(photo.ID, 10),
			URL:          photo.Src.Medium,
			Photographer: photo.Photographer,
			Source:       model.SourcePexels,
		})
	}
	return out, nil
}
