package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fleveque/image-haven/internal/metrics"
)

// Metrics records request count and latency per route.
// The route template (c.FullPath) is the endpoint label, so /api/wallpapers
// with any query string is one series; unmatched paths share "unmatched".
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		metrics.RecordAPIRequest(c.Request.Method, endpoint, c.Writer.Status(), time.Since(start))
	}
}
