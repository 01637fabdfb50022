// Package middleware contains Gin middleware functions.
// Middleware in Gin is a handler that runs before (or after) your route handler.
// It calls c.Next() to proceed or c.Abort() to stop the chain.
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// AdminKeyAuth returns middleware that validates admin API keys.
// The key is read from the X-API-Key header.
//
// Go closures: this function returns a function. The outer function captures
// `keySet` in its closure, so the returned handler has access to it.
func AdminKeyAuth(adminKeys []string) gin.HandlerFunc {
	// Build a set for O(1) lookups. Go doesn't have a built-in Set type,
	// so we use map[string]struct{}; struct{} takes zero bytes of memory.
	keySet := make(map[string]struct{}, len(adminKeys))
	for _, k := range adminKeys {
		if k != "" {
			keySet[k] = struct{}{}
		}
	}

	return func(c *gin.Context) {
		key := c.GetHeader("X-API-Key")

		if key == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "missing admin API key",
			})
			return
		}

		if _, ok := keySet[key]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "invalid admin API key",
			})
			return
		}

		c.Next()
	}
}
