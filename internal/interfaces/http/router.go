// Package http exposes the screening screens as a JSON API for the web
// front end.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/aushadhiai/screening-console/internal/infrastructure/monitoring/logging"
	"github.com/aushadhiai/screening-console/internal/infrastructure/monitoring/prometheus"
	"github.com/aushadhiai/screening-console/internal/interfaces/http/handlers"
	"github.com/aushadhiai/screening-console/internal/interfaces/http/middleware"
)

// RouterConfig aggregates the handler and middleware dependencies of the
// route tree.  Nil members are skipped.
type RouterConfig struct {
	ScreenHandler *handlers.ScreenHandler
	HealthHandler *handlers.HealthHandler

	CORS    *middleware.CORSConfig
	Logging middleware.LoggingConfig

	Logger           logging.Logger
	MetricsCollector prometheus.MetricsCollector
	Metrics          *prometheus.AppMetrics
}

// NewRouter builds the complete route tree.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// --- Global middleware ---
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	if cfg.Logger != nil {
		r.Use(middleware.RequestLogging(cfg.Logger, cfg.Logging))
	}
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}
	r.Use(chimw.Recoverer)
	if cfg.CORS != nil {
		r.Use(middleware.CORS(*cfg.CORS))
	}

	// --- Probes ---
	if cfg.HealthHandler != nil {
		r.Get("/healthz", cfg.HealthHandler.Liveness)
		r.Get("/readyz", cfg.HealthHandler.Readiness)
	}
	if cfg.MetricsCollector != nil {
		r.Handle("/metrics", cfg.MetricsCollector.Handler())
	}

	// --- API v1 ---
	r.Route("/api/v1", func(api chi.Router) {
		registerScreenRoutes(api, cfg.ScreenHandler)
	})

	return r
}

// registerScreenRoutes mounts the four screens.
func registerScreenRoutes(r chi.Router, h *handlers.ScreenHandler) {
	if h == nil {
		return
	}
	r.Get("/targets", h.Targets)
	r.Get("/hits", h.Hits)
	r.Get("/alternates", h.Alternates)
	r.Get("/evaluations", h.Evaluations)
}
