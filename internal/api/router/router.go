package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/agendalivre/agenda/internal/engine"
	httpmiddleware "github.com/agendalivre/agenda/internal/http/middleware"
	"github.com/agendalivre/agenda/internal/staticsite"
	"github.com/agendalivre/agenda/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	Sessions           *engine.Handler
	Static             *staticsite.Handler
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/healthz", staticsite.Healthz)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}
	if cfg.Sessions != nil {
		r.Mount("/api/sessions", cfg.Sessions.Routes())
	}

	// Everything else is a static asset.
	if cfg.Static != nil {
		r.NotFound(cfg.Static.ServeHTTP)
	}

	return r
}
