// Package progress provides REST API handlers for skill progress and
// achievements.
package progress

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	progressservice "github.com/prompty-labs/prompty-backend/internal/service/progress"

	"github.com/prompty-labs/prompty-backend/internal/api/middleware"
	"github.com/prompty-labs/prompty-backend/internal/models"
	"github.com/prompty-labs/prompty-backend/pkg/logger"
)

// ProgressService interface for progress operations.
type ProgressService interface {
	RecordCompletion(ctx context.Context, userID uint, skillPath, skillNode string, completed bool) (*progressservice.Result, error)
	Progress(ctx context.Context, userID uint) ([]models.SkillProgress, error)
	Achievements(ctx context.Context, userID uint) ([]progressservice.UnlockedAchievement, error)
}

// Handler handles progress API requests.
type Handler struct {
	progressService ProgressService
	log             *logger.Logger
}

// UpdateRequest is the payload for POST /api/user/progress. Completed is a
// pointer so an explicit false passes required validation.
type UpdateRequest struct {
	SkillPath string `json:"skill_path" binding:"required"`
	SkillNode string `json:"skill_node" binding:"required"`
	Completed *bool  `json:"completed" binding:"required"`
}

// NewHandler creates a new progress handler.
func NewHandler(progressService *progressservice.Service, log *logger.Logger) *Handler {
	return NewHandlerWithInterfaces(progressService, log)
}

// NewHandlerWithInterfaces creates a new progress handler with interface dependencies (useful for testing).
func NewHandlerWithInterfaces(progressService ProgressService, log *logger.Logger) *Handler {
	return &Handler{
		progressService: progressService,
		log:             log,
	}
}

// GetProgress returns all skill progress records for the caller.
// GET /api/user/progress.
func (h *Handler) GetProgress(c *gin.Context) {
	userID := middleware.UserID(c)

	records, err := h.progressService.Progress(c.Request.Context(), userID)
	if err != nil {
		h.log.Error().Err(err).Uint("user_id", userID).Msg("Failed to get progress")
		h.errorResponse(c, http.StatusInternalServerError, "Failed to retrieve progress")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"progress": records,
		"total":    len(records),
	})
}

// UpdateProgress records a skill completion report for the caller. The user,
// earned_xp and new_achievements fields appear only when XP was granted.
// POST /api/user/progress.
func (h *Handler) UpdateProgress(c *gin.Context) {
	userID := middleware.UserID(c)

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "Invalid progress payload")
		return
	}

	result, err := h.progressService.RecordCompletion(c.Request.Context(), userID, req.SkillPath, req.SkillNode, *req.Completed)
	if errors.Is(err, progressservice.ErrInvalidInput) {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		h.log.Error().Err(err).Uint("user_id", userID).Msg("Failed to update progress")
		h.errorResponse(c, http.StatusInternalServerError, "Failed to update progress")
		return
	}

	response := gin.H{"progress": result.Progress}
	if result.EarnedXP > 0 {
		response["user"] = result.User
		response["earned_xp"] = result.EarnedXP
		response["new_achievements"] = result.NewAchievements
	}

	c.JSON(http.StatusOK, response)
}

// GetAchievements returns the caller's unlocked achievements enriched with
// catalog titles and descriptions.
// GET /api/user/achievements.
func (h *Handler) GetAchievements(c *gin.Context) {
	userID := middleware.UserID(c)

	unlocked, err := h.progressService.Achievements(c.Request.Context(), userID)
	if err != nil {
		h.log.Error().Err(err).Uint("user_id", userID).Msg("Failed to get achievements")
		h.errorResponse(c, http.StatusInternalServerError, "Failed to retrieve achievements")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"achievements": unlocked,
		"total":        len(unlocked),
	})
}

// errorResponse sends a standardized error response.
func (h *Handler) errorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{
		"error":     message,
		"timestamp": time.Now().UTC(),
	})
}
