package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/traini8/traini8/internal/config"
	"github.com/traini8/traini8/internal/database"
	"github.com/traini8/traini8/internal/handler"
	"github.com/traini8/traini8/internal/logger"
	"github.com/traini8/traini8/internal/middleware"
	"github.com/traini8/traini8/internal/repository"
	"github.com/traini8/traini8/internal/router"
	"github.com/traini8/traini8/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	log.Info().Str("version", handler.Version).Msg("starting Traini8 server")

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()
	log.Info().Msg("connected to PostgreSQL")

	deps := map[string]handler.HealthChecker{"postgres": db}

	var rdb *database.Redis
	if cfg.Redis.Enabled {
		rdb, err = database.NewRedis(cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to Redis")
		}
		defer rdb.Close()
		deps["redis"] = rdb
		log.Info().Msg("connected to Redis")
	}

	// Repositories
	centerRepo := repository.NewTrainingCenterRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	// Services
	centerSvc := service.NewTrainingCenterService(centerRepo, auditRepo, log)

	h := handler.New(log, centerSvc, deps)
	mw := middleware.New(rdb, log, cfg)
	r := router.New(h, mw, cfg.Server.BasePath, cfg.CORS.AllowedOrigins)

	addr := cfg.Server.Addr()
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info().
			Str("addr", addr).
			Str("base_path", cfg.Server.BasePath).
			Str("rate_limit_backend", cfg.RateLimiting.Backend).
			Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		return
	}

	log.Info().Msg("server stopped")
}
