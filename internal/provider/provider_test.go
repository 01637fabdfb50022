package provider

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleveque/image-haven/internal/model"
)

// upstream starts a test server that records the last request and replies
// with the given status and body.
func upstream(t *testing.T, status int, body string) (*httptest.Server, *http.Request) {
	t.Helper()
	var last http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		last = *r.Clone(context.Background())
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &last
}

func TestPexelsProvider_Search(t *testing.T) {
	srv, last := upstream(t, http.StatusOK, `{
		"page": 2, "per_page": 10,
		"photos": [
			{"id": 1001, "photographer": "Ana", "src": {"medium": "https://images.pexels.com/1001.jpeg?h=350"}},
			{"id": 1002, "photographer": "Ben", "src": {"medium": "https://images.pexels.com/1002.jpeg?h=350"}}
		]
	}`)

	p := NewPexelsProvider("pexels-key", srv.URL, 10, nil)
	got, err := p.Search(context.Background(), "mountains", 2)
	require.NoError(t, err)

	assert.Equal(t, []model.Wallpaper{
		{ID: "1001", URL: "https://images.pexels.com/1001.jpeg?h=350", Photographer: "Ana", Source: model.SourcePexels},
		{ID: "1002", URL: "https://images.pexels.com/1002.jpeg?h=350", Photographer: "Ben", Source: model.SourcePexels},
	}, got)

	assert.Equal(t, "pexels-key", last.Header.Get("Authorization"))
	q := last.URL.Query()
	assert.Equal(t, "mountains", q.Get("query"))
	assert.Equal(t, "10", q.Get("per_page"))
	assert.Equal(t, "2", q.Get("page"))
}

func TestPexelsProvider_MalformedPayloads(t *testing.T) {
	bodies := map[string]string{
		"no photos":   `{"page": 1}`,
		"missing url": `{"photos": [{"id": 1, "photographer": "Ana", "src": {}}]}`,
		"missing id":  `{"photos": [{"photographer": "Ana", "src": {"medium": "https://x"}}]}`,
	}
	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			srv, _ := upstream(t, http.StatusOK, body)
			_, err := NewPexelsProvider("k", srv.URL, 10, nil).Search(context.Background(), "q", 1)
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}
}

func TestPexelsProvider_EmptyResult(t *testing.T) {
	srv, _ := upstream(t, http.StatusOK, `{"photos": []}`)
	got, err := NewPexelsProvider("k", srv.URL, 10, nil).Search(context.Background(), "q", 1)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestUnsplashProvider_Search(t *testing.T) {
	srv, last := upstream(t, http.StatusOK, `{
		"total": 1, "total_pages": 1,
		"results": [{"id": "xYz", "urls": {"small": "https://images.unsplash.com/xYz?w=400"}, "user": {"name": "Cleo"}}]
	}`)

	got, err := NewUnsplashProvider("unsplash-key", srv.URL, 10, nil).Search(context.Background(), "ocean", 3)
	require.NoError(t, err)
	assert.Equal(t, []model.Wallpaper{
		{ID: "xYz", URL: "https://images.unsplash.com/xYz?w=400", Photographer: "Cleo", Source: model.SourceUnsplash},
	}, got)

	q := last.URL.Query()
	assert.Equal(t, "ocean", q.Get("query"))
	assert.Equal(t, "3", q.Get("page"))
	assert.Equal(t, "10", q.Get("per_page"))
	assert.Equal(t, "unsplash-key", q.Get("client_id"))
}

func TestUnsplashProvider_HTTPError(t *testing.T) {
	srv, _ := upstream(t, http.StatusUnauthorized, `{"errors":["OAuth error: The access token is invalid"]}`)

	_, err := NewUnsplashProvider("bad", srv.URL, 10, nil).Search(context.Background(), "ocean", 1)
	var statusErr *HTTPStatusError
	require.True(t, errors.As(err, &statusErr), "expected HTTPStatusError, got %v", err)
	assert.Equal(t, http.StatusUnauthorized, statusErr.StatusCode)
	assert.Equal(t, "unsplash", statusErr.Provider)
}

func TestNASAProvider_IgnoresQuery(t *testing.T) {
	srv, last := upstream(t, http.StatusOK, `[
		{"date": "2021-03-04", "title": "M31", "url": "https://apod.nasa.gov/m31.jpg", "media_type": "image"},
		{"date": "2019-07-20", "title": "Moon", "url": "https://apod.nasa.gov/moon.jpg", "media_type": "image"}
	]`)

	got, err := NewNASAProvider("nasa-key", srv.URL, 5, nil).Search(context.Background(), "mountains", 4)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, model.Wallpaper{ID: "2021-03-04", URL: "https://apod.nasa.gov/m31.jpg", Photographer: "NASA", Source: model.SourceNASA}, got[0])

	q := last.URL.Query()
	assert.Equal(t, "nasa-key", q.Get("api_key"))
	assert.Equal(t, "5", q.Get("count"))
	assert.Empty(t, q.Get("query"))
	assert.Empty(t, q.Get("page"))
}

func TestNASAProvider_ObjectInsteadOfArray(t *testing.T) {
	srv, _ := upstream(t, http.StatusOK, `{"code": 400, "msg": "count must be positive"}`)
	_, err := NewNASAProvider("k", srv.URL, 5, nil).Search(context.Background(), "", 1)
	assert.Error(t, err)
}

func TestProvider_NetworkError(t *testing.T) {
	srv, _ := upstream(t, http.StatusOK, `{}`)
	srv.Close()

	_, err := NewPexelsProvider("k", srv.URL, 10, nil).Search(context.Background(), "q", 1)
	assert.Error(t, err)
}

func TestProvider_ContextCancelled(t *testing.T) {
	srv, _ := upstream(t, http.StatusOK, `{"photos": []}`)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewPexelsProvider("k", srv.URL, 10, nil).Search(ctx, "q", 1)
	assert.ErrorIs(t, err, context.Canceled)
}
