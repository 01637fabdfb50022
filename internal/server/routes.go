// Package server configures the HTTP server and routes.
package server

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/fleveque/image-haven/internal/config"
	"github.com/fleveque/image-haven/internal/handler"
	"github.com/fleveque/image-haven/internal/middleware"
)

// RegisterRoutes sets up all HTTP routes on the Gin engine.
// In Go, we pass dependencies explicitly: no DI container, no magic.
// Each handler gets exactly the dependencies it needs.
func RegisterRoutes(r *gin.Engine, cfg *config.Config, deps *Deps, logger *zap.Logger) {
	healthHandler := handler.NewHealthHandler()
	wallpaperHandler := handler.NewWallpaperHandler(deps.WallpaperService, logger)
	recommendHandler := handler.NewRecommendHandler(deps.RecommendService, logger)
	adminHandler := handler.NewAdminHandler(deps.SearchRepo, deps.CallRepo, deps.Aggregator.Providers(), logger)

	// CORS goes on the engine, not the API group: gin runs group middleware
	// only for matched routes, and a preflight OPTIONS matches none. Engine
	// middleware also runs on the NoRoute chain, where CORS answers it with 204.
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	// Public endpoints (no rate limit)
	r.GET("/healthz", healthHandler.Healthz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Per-IP rate limiting applies to the whole API group.
	api := r.Group("/api")
	api.Use(middleware.RateLimit(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst))
	{
		api.GET("/wallpapers", wallpaperHandler.List)
		api.POST("/recommend", recommendHandler.Recommend)
	}

	// Admin endpoints (admin keys)
	admin := api.Group("/admin")
	admin.Use(middleware.AdminKeyAuth(cfg.Auth.AdminKeys))
	{
		admin.GET("/stats", adminHandler.Stats)
	}
}
