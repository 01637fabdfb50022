package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/fleveque/image-haven/internal/middleware"
)

// Recommender is what the handler needs from the recommendation service.
type Recommender interface {
	Recommend(ctx context.Context, seed string) (json.RawMessage, error)
}

// RecommendHandler proxies theme suggestions to the text-generation backends.
type RecommendHandler struct {
	recommender Recommender
	logger      *zap.Logger
}

// NewRecommendHandler creates a new RecommendHandler.
func NewRecommendHandler(recommender Recommender, logger *zap.Logger) *RecommendHandler {
	return &RecommendHandler{
		recommender: recommender,
		logger:      logger,
	}
}

// recommendRequest is the POST body. UserQuery is a pointer so a missing
// field can be told apart from an empty one; an empty seed is forwarded.
type recommendRequest struct {
	UserQuery *string `json:"userQuery"`
}

// Recommend returns the backend's response body unchanged.
// Route: POST /api/recommend {"userQuery": "mountains, ocean"}
func (h *RecommendHandler) Recommend(c *gin.Context) {
	var req recommendRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.UserQuery == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userQuery is required"})
		return
	}

	raw, err := h.recommender.Recommend(c.Request.Context(), *req.UserQuery)
	if err != nil {
		h.logger.Error("getting recommendation",
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get recommendation"})
		return
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", raw)
}
