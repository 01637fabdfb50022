package middleware

import (
	"bytes"
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/andybalholm/brotli"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/fleveque/image-haven/internal/metrics"
)

const payload = `[{"id":"1","url":"https://images.example/1.jpg","photographer":"Ansel","source":"Pexels"}]`

func newCompressedRouter() *gin.Engine {
	router := gin.New()
	router.Use(Compression())
	router.GET("/test", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json", []byte(payload))
	})
	router.GET("/empty", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return router
}

func TestCompression_Brotli(t *testing.T) {
	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Accept-Encoding", "gzip, br")
	w := httptest.NewRecorder()
	newCompressedRouter().ServeHTTP(w, req)

	if got := w.Header().Get("Content-Encoding"); got != "br" {
		t.Fatalf("expected br encoding, got %q", got)
	}
	body, err := io.ReadAll(brotli.NewReader(w.Body))
	if err != nil {
		t.Fatalf("decoding brotli: %v", err)
	}
	if string(body) != payload {
		t.Errorf("unexpected body %s", body)
	}
	if !strings.Contains(w.Header().Get("Vary"), "Accept-Encoding") {
		t.Errorf("expected Vary: Accept-Encoding, got %q", w.Header().Get("Vary"))
	}
}

func TestCompression_Gzip(t *testing.T) {
	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	w := httptest.NewRecorder()
	newCompressedRouter().ServeHTTP(w, req)

	if got := w.Header().Get("Content-Encoding"); got != "gzip" {
		t.Fatalf("expected gzip encoding, got %q", got)
	}
	zr, err := gzip.NewReader(w.Body)
	if err != nil {
		t.Fatalf("opening gzip: %v", err)
	}
	body, _ := io.ReadAll(zr)
	if string(body) != payload {
		t.Errorf("unexpected body %s", body)
	}
}

func TestCompression_Identity(t *testing.T) {
	req := httptest.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()
	newCompressedRouter().ServeHTTP(w, req)

	if got := w.Header().Get("Content-Encoding"); got != "" {
		t.Errorf("expected no encoding, got %q", got)
	}
	if w.Body.String() != payload {
		t.Errorf("unexpected body %s", w.Body.String())
	}
}

func TestCompression_NoBody(t *testing.T) {
	req := httptest.NewRequest("GET", "/empty", nil)
	req.Header.Set("Accept-Encoding", "br")
	w := httptest.NewRecorder()
	newCompressedRouter().ServeHTTP(w, req)

	if w.Header().Get("Content-Encoding") != "" || w.Body.Len() != 0 {
		t.Errorf("expected an unencoded empty body, got %q / %d bytes",
			w.Header().Get("Content-Encoding"), w.Body.Len())
	}
}

func TestCompression_PassesThroughEncodedResponses(t *testing.T) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, _ = zw.Write([]byte(payload))
	_ = zw.Close()

	router := gin.New()
	router.Use(Compression())
	router.GET("/pre", func(c *gin.Context) {
		c.Header("Content-Encoding", "gzip")
		c.Data(http.StatusOK, "text/plain", buf.Bytes())
	})

	req := httptest.NewRequest("GET", "/pre", nil)
	req.Header.Set("Accept-Encoding", "br")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if got := w.Header().Get("Content-Encoding"); got != "gzip" {
		t.Fatalf("expected the handler's gzip encoding to survive, got %q", got)
	}
	if !bytes.Equal(w.Body.Bytes(), buf.Bytes()) {
		t.Error("expected body to pass through unchanged")
	}
}

func TestRequestID_Generated(t *testing.T) {
	var seen string
	router := gin.New()
	router.Use(RequestID())
	router.GET("/test", func(c *gin.Context) {
		seen = GetRequestID(c)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/test", nil))

	if seen == "" {
		t.Fatal("expected a request ID in the context")
	}
	if got := w.Header().Get(RequestIDHeader); got != seen {
		t.Errorf("expected response header %q, got %q", seen, got)
	}
}

func TestRequestID_Propagated(t *testing.T) {
	router := gin.New()
	router.Use(RequestID())
	router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set(RequestIDHeader, "upstream-123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if got := w.Header().Get(RequestIDHeader); got != "upstream-123" {
		t.Errorf("expected incoming ID to be reused, got %q", got)
	}
}

func TestLogger_TagsRequestID(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)

	router := gin.New()
	router.Use(RequestID(), Logger(zap.New(core)))
	router.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	req := httptest.NewRequest("GET", "/missing", nil)
	req.Header.Set(RequestIDHeader, "req-1")
	router.ServeHTTP(httptest.NewRecorder(), req)

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected one log line, got %d", len(entries))
	}
	if entries[0].Level != zap.WarnLevel {
		t.Errorf("expected warn level for 404, got %s", entries[0].Level)
	}
	if got := entries[0].ContextMap()["request_id"]; got != "req-1" {
		t.Errorf("expected request_id req-1, got %v", got)
	}
}

func TestMetrics_CountsByRoute(t *testing.T) {
	router := gin.New()
	router.Use(Metrics())
	router.GET("/api/things/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	counter := metrics.APIRequestsTotal.WithLabelValues("GET", "/api/things/:id", "200")
	before := testutil.ToFloat64(counter)

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/api/things/1", nil))
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/api/things/2", nil))

	if got := testutil.ToFloat64(counter) - before; got != 2 {
		t.Errorf("expected 2 requests on the route template, got %v", got)
	}
}
