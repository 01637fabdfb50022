// Package metrics exposes Prometheus collectors for the wallpaper backend.
// Collectors are registered on the default registry at init via promauto,
// so /metrics (promhttp.Handler) picks them up without further wiring.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP API
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "image_haven_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "image_haven_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "image_haven_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Response cache
	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "image_haven_cache_hits_total",
			Help: "Total number of wallpaper cache hits",
		},
	)

	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "image_haven_cache_misses_total",
			Help: "Total number of wallpaper cache misses",
		},
	)

	// Upstream providers
	ProviderRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "image_haven_provider_request_duration_seconds",
			Help:    "Duration of upstream wallpaper provider calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"provider"},
	)

	ProviderFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "image_haven_provider_failures_total",
			Help: "Total number of upstream provider calls that contributed no results due to an error",
		},
		[]string{"provider"},
	)

	ProviderResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "image_haven_provider_results_total",
			Help: "Total number of wallpapers returned by each provider",
		},
		[]string{"provider"},
	)

	// Recommendations
	RecommendationRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "image_haven_recommendation_requests_total",
			Help: "Total number of text-generation calls by backend and outcome",
		},
		[]string{"provider", "success"},
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint string, statusCode int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordCacheLookup counts a hit or a miss.
func RecordCacheLookup(hit bool) {
	if hit {
		CacheHits.Inc()
		return
	}
	CacheMisses.Inc()
}

// RecordProviderCall records one upstream search, successful or not.
func RecordProviderCall(provider string, results int, duration time.Duration, err error) {
	ProviderRequestDuration.WithLabelValues(provider).Observe(duration.Seconds())
	if err != nil {
		ProviderFailures.WithLabelValues(provider).Inc()
		return
	}
	ProviderResults.WithLabelValues(provider).Add(float64(results))
}

// RecordRecommendation records a text-generation call outcome.
func RecordRecommendation(provider string, success bool) {
	RecommendationRequests.WithLabelValues(provider, strconv.FormatBool(success)).Inc()
}
