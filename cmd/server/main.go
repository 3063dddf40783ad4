package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	authapi "github.com/prompty-labs/prompty-backend/internal/api/auth"
	"github.com/prompty-labs/prompty-backend/internal/api/dashboard"
	progressapi "github.com/prompty-labs/prompty-backend/internal/api/progress"
	authservice "github.com/prompty-labs/prompty-backend/internal/service/auth"
	"github.com/prompty-labs/prompty-backend/internal/service/leaderboard"
	progressservice "github.com/prompty-labs/prompty-backend/internal/service/progress"

	"github.com/prompty-labs/prompty-backend/internal/api"
	"github.com/prompty-labs/prompty-backend/internal/catalog"
	"github.com/prompty-labs/prompty-backend/internal/config"
	"github.com/prompty-labs/prompty-backend/internal/repository"
	"github.com/prompty-labs/prompty-backend/internal/session"
	"github.com/prompty-labs/prompty-backend/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := repository.NewDB(&cfg.Database.Postgres, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	sessions, err := session.NewRedisStore(&cfg.Database.Redis, cfg.Session.SessionTTL())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to redis")
	}
	defer sessions.Close()

	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load skill catalog")
	}
	log.Info().
		Int("paths", len(cat.Paths())).
		Int("achievements", len(cat.Achievements())).
		Msg("Skill catalog loaded")

	userRepo := repository.NewUserRepository(db)
	progressRepo := repository.NewProgressRepository(db)
	achievementRepo := repository.NewAchievementRepository(db)

	authSvc := authservice.NewService(userRepo, log)
	progressSvc := progressservice.NewService(progressRepo, achievementRepo, userRepo, cat, log)
	leaderboardSvc := leaderboard.NewService(userRepo, progressRepo, achievementRepo, log)

	router := api.NewRouter(api.Deps{
		AuthHandler:      authapi.NewHandler(authSvc, sessions, cfg.Session, log),
		ProgressHandler:  progressapi.NewHandler(progressSvc, log),
		DashboardHandler: dashboard.NewHandler(cat, leaderboardSvc, log),
		Sessions:         sessions,
		Session:          cfg.Session,
		Log:              log,
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	var metricsServer *http.Server
	if cfg.Metrics.Prometheus.Enabled {
		mux := http.NewServeMux()
		mux.Handle(cfg.Metrics.Prometheus.Path, promhttp.Handler())
		metricsServer = &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Metrics.Prometheus.Port),
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			log.Info().Int("port", cfg.Metrics.Prometheus.Port).Msg("Metrics server listening")
			if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Error().Err(err).Msg("Metrics server failed")
			}
		}()
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("API server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	log.Info().Msg("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server shutdown failed")
	}
	if metricsServer != nil {
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Metrics server shutdown failed")
		}
	}
}
