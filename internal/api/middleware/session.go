// Package middleware provides gin middleware shared across API handlers.
package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/prompty-labs/prompty-backend/internal/session"
	"github.com/prompty-labs/prompty-backend/pkg/logger"
)

// UserIDKey is the gin context key holding the authenticated user's ID.
const UserIDKey = "user_id"

// RequireSession resolves the session cookie to a user ID and aborts with 401
// when the cookie is missing, expired, or unknown.
func RequireSession(store session.Store, cookieName string, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(cookieName)
		if err != nil || token == "" {
			unauthorized(c)
			return
		}

		userID, err := store.Get(c.Request.Context(), token)
		if errors.Is(err, session.ErrNotFound) {
			unauthorized(c)
			return
		}
		if err != nil {
			log.Error().Err(err).Msg("Session lookup failed")
			unauthorized(c)
			return
		}

		c.Set(UserIDKey, userID)
		c.Next()
	}
}

// UserID returns the authenticated user ID set by RequireSession.
func UserID(c *gin.Context) uint {
	return c.GetUint(UserIDKey)
}

func unauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error":     "Authentication required",
		"timestamp": time.Now().UTC(),
	})
}
