package handler

import (
	"context"

	"github.com/traini8/traini8/internal/logger"
	"github.com/traini8/traini8/internal/service"
)

// HealthChecker is a dependency that can report its own health
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Handler holds all HTTP handlers
type Handler struct {
	log       *logger.Logger
	centerSvc *service.TrainingCenterService
	deps      map[string]HealthChecker
}

// New creates a new Handler instance. deps maps a dependency name
// ("postgres", "redis") to its health check.
func New(log *logger.Logger, centerSvc *service.TrainingCenterService, deps map[string]HealthChecker) *Handler {
	return &Handler{
		log:       log.WithComponent("handler"),
		centerSvc: centerSvc,
		deps:      deps,
	}
}
