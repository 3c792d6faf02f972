// Package api provides the HTTP tool service for the NTPC open-data client.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/ntpc-opendata/ntpc-opendata/internal/api/handler"
	"github.com/ntpc-opendata/ntpc-opendata/internal/api/middleware"
	"github.com/ntpc-opendata/ntpc-opendata/internal/api/models"
	"github.com/ntpc-opendata/ntpc-opendata/internal/api/response"
	"github.com/ntpc-opendata/ntpc-opendata/internal/provider/resilience"
	"github.com/ntpc-opendata/ntpc-opendata/internal/tools"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version   string
	BuildTime string
	Logger    zerolog.Logger
	Metrics   *middleware.Metrics

	// Tools is the registry served under /v1/tools.
	Tools *tools.Registry

	// Health reports upstream circuit state for the ops endpoints (optional).
	Health *resilience.Registry

	// RequireTLS rejects plain-HTTP requests.
	RequireTLS bool
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware - order matters
	r.Use(middleware.RequestID)
	r.Use(middleware.Tracing())
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware())
	}
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.RequireTLS(cfg.RequireTLS))
	r.Use(middleware.ContentTypeJSON)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, r, "no route for "+r.URL.Path)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, r, models.NewMethodNotAllowed("", r.Method+" is not supported on "+r.URL.Path))
	})

	opsHandler := handler.NewOpsHandler(cfg.Version, cfg.BuildTime, cfg.Health)
	toolsHandler := handler.NewToolsHandler(cfg.Tools, cfg.Logger)

	standardRateLimit := middleware.RateLimitByIP(middleware.StandardRateLimit) // 100 req/min
	toolRateLimit := middleware.RateLimitByTool(middleware.ToolRateLimit)       // 60 req/min per tool

	r.Route("/v1", func(r chi.Router) {
		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
			r.Get("/status", opsHandler.SystemStatus)
		})

		r.Route("/tools", func(r chi.Router) {
			r.With(standardRateLimit).Get("/", toolsHandler.ListTools)
			r.With(middleware.RequireJSON, toolRateLimit).Post("/{name}", toolsHandler.InvokeTool)
		})
	})

	return r
}
