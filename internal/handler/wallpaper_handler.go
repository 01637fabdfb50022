package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fleveque/image-haven/internal/middleware"
	"github.com/fleveque/image-haven/internal/model"
	"github.com/fleveque/image-haven/internal/service"
)

// DefaultQuery is searched when the request carries no query.
const DefaultQuery = service.DefaultQuery

// WallpaperSearcher is what the handler needs from the wallpaper service.
type WallpaperSearcher interface {
	Search(ctx context.Context, query string, page int) ([]model.Wallpaper, error)
}

// WallpaperHandler serves aggregated wallpaper searches.
type WallpaperHandler struct {
	searcher WallpaperSearcher
	logger   *zap.Logger
}

// NewWallpaperHandler creates a new WallpaperHandler.
func NewWallpaperHandler(searcher WallpaperSearcher, logger *zap.Logger) *WallpaperHandler {
	return &WallpaperHandler{
		searcher: searcher,
		logger:   logger,
	}
}

// List returns one page of wallpapers merged from every provider.
// Route: GET /api/wallpapers?query=mountains&page=2
func (h *WallpaperHandler) List(c *gin.Context) {
	query := ParseQuery(c.Query("query"))
	page := ParsePage(c.Query("page"))

	wallpapers, err := h.searcher.Search(c.Request.Context(), query, page)
	if errors.Is(err, service.ErrNoWallpapers) {
		c.JSON(http.StatusNotFound, gin.H{"error": "No wallpapers found from any source"})
		return
	}
	if err != nil {
		h.logger.Error("fetching wallpapers",
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.String("query", query),
			zap.Int("page", page),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch wallpapers"})
		return
	}

	c.JSON(http.StatusOK, wallpapers)
}

// ParseQuery falls back to DefaultQuery for a missing or blank term.
func ParseQuery(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return DefaultQuery
	}
	return raw
}

// ParsePage falls back to 1 for a missing, non-numeric or non-positive page.
func ParsePage(raw string) int {
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 1
	}
	return page
}
