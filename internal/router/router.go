package router

import (
	"net/http"
	"strings"

	"github.com/traini8/traini8/internal/handler"
	"github.com/traini8/traini8/internal/middleware"
)

// New creates and configures the HTTP router. basePath prefixes the
// training center routes, e.g. "/api/training-centers".
func New(h *handler.Handler, mw *middleware.Middleware, basePath string, allowedOrigins []string) http.Handler {
	mux := http.NewServeMux()
	base := strings.TrimSuffix(basePath, "/")

	// Health check endpoints
	mux.HandleFunc("GET /health", h.Health)
	mux.HandleFunc("GET /ready", h.Ready)

	// Training center routes; only writes are rate limited
	writeLimit := mw.RateLimit(middleware.IPKey)
	mux.Handle("POST "+base+"/add", writeLimit(http.HandlerFunc(h.CreateTrainingCenter)))
	mux.HandleFunc("GET "+base+"/get", h.ListTrainingCenters)

	// Apply middleware stack
	var handler http.Handler = mux

	handler = mw.CORS(allowedOrigins)(handler)
	handler = mw.SecurityHeaders(handler)
	handler = mw.Logger(handler)
	handler = mw.Timing(handler)
	handler = mw.ClientIP(handler)
	handler = mw.RequestID(handler)

	// Panic recovery (outermost)
	handler = mw.Recover(handler)

	return handler
}
