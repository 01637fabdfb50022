package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fleveque/image-haven/internal/storage"
)

// topQueriesLimit caps the most-searched list in Stats.
const topQueriesLimit = 10

// AdminHandler handles administrative endpoints.
type AdminHandler struct {
	searchRepo storage.SearchRepository
	callRepo   storage.RecommendationCallRepository
	providers  []string
	logger     *zap.Logger
}

// NewAdminHandler creates a new AdminHandler.
// providers lists the enabled wallpaper sources, in aggregation order.
func NewAdminHandler(
	searchRepo storage.SearchRepository,
	callRepo storage.RecommendationCallRepository,
	providers []string,
	logger *zap.Logger,
) *AdminHandler {
	return &AdminHandler{
		searchRepo: searchRepo,
		callRepo:   callRepo,
		providers:  providers,
		logger:     logger,
	}
}

// Stats returns search, cache and recommendation counters.
// Route: GET /api/admin/stats
func (h *AdminHandler) Stats(c *gin.Context) {
	ctx := c.Request.Context()

	searches, err := h.searchRepo.Stats(ctx)
	if err != nil {
		h.logger.Error("computing search stats", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	top, err := h.searchRepo.TopQueries(ctx, topQueriesLimit)
	if err != nil {
		h.logger.Error("listing top queries", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	recommendations, err := h.callRepo.Count(ctx)
	if err != nil {
		h.logger.Error("counting recommendation calls", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	if top == nil {
		top = []storage.QueryCount{}
	}

	c.JSON(http.StatusOK, gin.H{
		"providers":       h.providers,
		"searches":        searches,
		"top_queries":     top,
		"recommendations": recommendations,
	})
}
