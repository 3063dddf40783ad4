// Package auth provides REST API handlers for registration, login, logout,
// and the current-user endpoint.
package auth

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	authservice "github.com/prompty-labs/prompty-backend/internal/service/auth"

	"github.com/prompty-labs/prompty-backend/internal/api/middleware"
	"github.com/prompty-labs/prompty-backend/internal/config"
	"github.com/prompty-labs/prompty-backend/internal/models"
	"github.com/prompty-labs/prompty-backend/internal/session"
	"github.com/prompty-labs/prompty-backend/pkg/logger"
)

// AuthService interface for account operations.
type AuthService interface {
	Register(ctx context.Context, name, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.User, error)
	GetUser(ctx context.Context, id uint) (*models.User, error)
}

// Handler handles authentication API requests.
type Handler struct {
	authService AuthService
	sessions    session.Store
	cookie      config.SessionConfig
	log         *logger.Logger
}

// RegisterRequest is the payload for POST /api/auth/register.
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// LoginRequest is the payload for POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// NewHandler creates a new auth handler.
func NewHandler(authService *authservice.Service, sessions session.Store, cookie config.SessionConfig, log *logger.Logger) *Handler {
	return NewHandlerWithInterfaces(authService, sessions, cookie, log)
}

// NewHandlerWithInterfaces creates a new auth handler with interface dependencies (useful for testing).
func NewHandlerWithInterfaces(authService AuthService, sessions session.Store, cookie config.SessionConfig, log *logger.Logger) *Handler {
	return &Handler{
		authService: authService,
		sessions:    sessions,
		cookie:      cookie,
		log:         log,
	}
}

// Register creates a new account and opens a session for it.
// POST /api/auth/register.
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "Invalid registration payload")
		return
	}

	user, err := h.authService.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if errors.Is(err, authservice.ErrEmailTaken) {
		h.errorResponse(c, http.StatusBadRequest, "Email already registered")
		return
	}
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to register user")
		h.errorResponse(c, http.StatusInternalServerError, "Failed to register")
		return
	}

	if err := h.openSession(c, user.ID); err != nil {
		h.log.Error().Err(err).Uint("user_id", user.ID).Msg("Failed to open session")
		h.errorResponse(c, http.StatusInternalServerError, "Failed to open session")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": user})
}

// Login verifies credentials and opens a session.
// POST /api/auth/login.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "Invalid login payload")
		return
	}

	user, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if errors.Is(err, authservice.ErrInvalidCredentials) {
		h.errorResponse(c, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to log in user")
		h.errorResponse(c, http.StatusInternalServerError, "Failed to log in")
		return
	}

	if err := h.openSession(c, user.ID); err != nil {
		h.log.Error().Err(err).Uint("user_id", user.ID).Msg("Failed to open session")
		h.errorResponse(c, http.StatusInternalServerError, "Failed to open session")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// Logout destroys the caller's session and clears the cookie.
// POST /api/auth/logout.
func (h *Handler) Logout(c *gin.Context) {
	token, err := c.Cookie(h.cookie.CookieName)
	if err == nil && token != "" {
		if err := h.sessions.Destroy(c.Request.Context(), token); err != nil {
			h.log.Error().Err(err).Msg("Failed to destroy session")
			h.errorResponse(c, http.StatusInternalServerError, "Failed to log out")
			return
		}
	}

	c.SetCookie(h.cookie.CookieName, "", -1, "/", "", h.cookie.Secure, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// Me returns the authenticated user.
// GET /api/auth/me.
func (h *Handler) Me(c *gin.Context) {
	userID := middleware.UserID(c)

	user, err := h.authService.GetUser(c.Request.Context(), userID)
	if errors.Is(err, authservice.ErrUserNotFound) {
		h.errorResponse(c, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		h.log.Error().Err(err).Uint("user_id", userID).Msg("Failed to get user")
		h.errorResponse(c, http.StatusInternalServerError, "Failed to retrieve user")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// openSession creates a session token and sets the session cookie.
func (h *Handler) openSession(c *gin.Context, userID uint) error {
	token, err := h.sessions.Create(c.Request.Context(), userID)
	if err != nil {
		return err
	}

	maxAge := int(time.Duration(h.cookie.TTLHours) * time.Hour / time.Second)
	c.SetCookie(h.cookie.CookieName, token, maxAge, "/", "", h.cookie.Secure, true)
	return nil
}

// errorResponse sends a standardized error response.
func (h *Handler) errorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{
		"error":     message,
		"timestamp": time.Now().UTC(),
	})
}
