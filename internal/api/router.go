// Package api wires HTTP routes to their handlers.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	authapi "github.com/prompty-labs/prompty-backend/internal/api/auth"
	"github.com/prompty-labs/prompty-backend/internal/api/dashboard"
	progressapi "github.com/prompty-labs/prompty-backend/internal/api/progress"

	"github.com/prompty-labs/prompty-backend/internal/api/middleware"
	"github.com/prompty-labs/prompty-backend/internal/config"
	"github.com/prompty-labs/prompty-backend/internal/session"
	"github.com/prompty-labs/prompty-backend/pkg/logger"
)

// Deps holds everything the router needs.
type Deps struct {
	AuthHandler      *authapi.Handler
	ProgressHandler  *progressapi.Handler
	DashboardHandler *dashboard.Handler
	Sessions         session.Store
	Session          config.SessionConfig
	Log              *logger.Logger
}

// NewRouter builds the gin engine with all application routes.
func NewRouter(d Deps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	requireSession := middleware.RequireSession(d.Sessions, d.Session.CookieName, d.Log)

	auth := router.Group("/api/auth")
	{
		auth.POST("/register", d.AuthHandler.Register)
		auth.POST("/login", d.AuthHandler.Login)
		auth.POST("/logout", requireSession, d.AuthHandler.Logout)
		auth.GET("/me", requireSession, d.AuthHandler.Me)
	}

	user := router.Group("/api/user")
	user.Use(requireSession)
	{
		user.GET("/progress", d.ProgressHandler.GetProgress)
		user.POST("/progress", d.ProgressHandler.UpdateProgress)
		user.GET("/achievements", d.ProgressHandler.GetAchievements)
	}

	router.GET("/api/catalog/paths", d.DashboardHandler.GetPaths)
	router.GET("/api/catalog/achievements", d.DashboardHandler.GetAchievementCatalog)
	router.GET("/api/leaderboard", d.DashboardHandler.GetLeaderboard)

	return router
}
