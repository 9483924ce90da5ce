// internal/server/server.go

// Package server exposes the analysis pipeline over HTTP.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"edna/internal/config"
	"edna/internal/matcher"
	"edna/internal/pipeline"
)

// Handler serves the analysis API.
type Handler struct {
	client matcher.Client
	base   pipeline.Options
}

// New builds a handler from daemon config. client may be nil; analysis
// then runs without taxonomy assignment.
func New(cfg config.Config, client matcher.Client) *Handler {
	base := pipeline.DefaultOptions()
	if cfg.Pipeline.MinLength > 0 {
		base.Quality.MinLength = cfg.Pipeline.MinLength
	}
	if cfg.Pipeline.MinQuality > 0 {
		base.Quality.MinAvgQuality = cfg.Pipeline.MinQuality
	}
	if cfg.Pipeline.MaxAmbiguous > 0 {
		base.Quality.MaxAmbiguousFraction = cfg.Pipeline.MaxAmbiguous
	}
	if cfg.Pipeline.Identity > 0 {
		base.Clustering.IdentityThreshold = cfg.Pipeline.Identity
	}
	if cfg.Pipeline.MinClusterSize > 0 {
		base.Clustering.MinClusterSize = cfg.Pipeline.MinClusterSize
	}
	if cfg.Pipeline.Environment != "" {
		base.Contamination.Environment = cfg.Pipeline.Environment
	}
	if cfg.Pipeline.Workers > 0 {
		base.Taxonomy.Workers = cfg.Pipeline.Workers
	}
	if cfg.Matcher.Database != "" {
		base.Taxonomy.Database = cfg.Matcher.Database
	}
	base.Taxonomy.Timeout = cfg.MatcherTimeout()
	base.Seed = cfg.Pipeline.Seed
	return &Handler{client: client, base: base}
}

// Router assembles the chi router with the usual middleware stack.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", h.Healthz)
	r.Post("/api/v1/analyze", h.Analyze)
	r.Post("/api/v1/analyze/batch", h.AnalyzeBatch)
	return r
}
