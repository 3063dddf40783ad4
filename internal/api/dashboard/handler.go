// Package dashboard provides REST API handlers for the public learning
// dashboard: the skill catalog, the achievement catalog, and the leaderboard.
package dashboard

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/prompty-labs/prompty-backend/internal/catalog"
	"github.com/prompty-labs/prompty-backend/internal/service/leaderboard"
	"github.com/prompty-labs/prompty-backend/pkg/logger"
)

// LeaderboardService interface for leaderboard operations.
type LeaderboardService interface {
	GetLeaderboard(ctx context.Context, metric string, limit int) ([]leaderboard.Entry, error)
}

// Handler handles dashboard API requests.
type Handler struct {
	catalog            *catalog.Catalog
	leaderboardService LeaderboardService
	log                *logger.Logger
}

// NewHandler creates a new dashboard handler.
func NewHandler(cat *catalog.Catalog, leaderboardService *leaderboard.Service, log *logger.Logger) *Handler {
	return NewHandlerWithInterfaces(cat, leaderboardService, log)
}

// NewHandlerWithInterfaces creates a new dashboard handler with interface dependencies (useful for testing).
func NewHandlerWithInterfaces(cat *catalog.Catalog, leaderboardService LeaderboardService, log *logger.Logger) *Handler {
	return &Handler{
		catalog:            cat,
		leaderboardService: leaderboardService,
		log:                log,
	}
}

// GetPaths returns the skill paths in the static catalog.
// GET /api/catalog/paths.
func (h *Handler) GetPaths(c *gin.Context) {
	paths := h.catalog.Paths()
	c.JSON(http.StatusOK, gin.H{
		"paths": paths,
		"total": len(paths),
	})
}

// GetAchievementCatalog returns all achievement definitions.
// GET /api/catalog/achievements.
func (h *Handler) GetAchievementCatalog(c *gin.Context) {
	achievements := h.catalog.Achievements()
	c.JSON(http.StatusOK, gin.H{
		"achievements": achievements,
		"total":        len(achievements),
	})
}

// GetLeaderboard returns learners ranked by the requested metric.
// GET /api/leaderboard?metric=xp&limit=10.
func (h *Handler) GetLeaderboard(c *gin.Context) {
	metric := c.DefaultQuery("metric", "xp")
	limit, err := h.parseLimit(c, 10)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	entries, err := h.leaderboardService.GetLeaderboard(c.Request.Context(), metric, limit)
	if err != nil {
		h.log.Error().Err(err).Str("metric", metric).Msg("Failed to get leaderboard")
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"leaderboard":   entries,
		"metric":        metric,
		"total_entries": len(entries),
		"generated_at":  time.Now().UTC(),
	})
}

// parseLimit extracts and validates the limit query parameter.
func (h *Handler) parseLimit(c *gin.Context, defaultLimit int) (int, error) {
	limitStr := c.Query("limit")
	if limitStr == "" {
		return defaultLimit, nil
	}

	limit, err := strconv.Atoi(limitStr)
	if err != nil {
		return 0, fmt.Errorf("invalid limit parameter: %s", limitStr)
	}
	if limit < 1 {
		return 0, fmt.Errorf("limit must be greater than 0")
	}
	if limit > 100 {
		return 0, fmt.Errorf("limit cannot exceed 100")
	}

	return limit, nil
}

// errorResponse sends a standardized error response.
func (h *Handler) errorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{
		"error":     message,
		"timestamp": time.Now().UTC(),
	})
}
