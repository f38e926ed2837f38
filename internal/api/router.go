// Package api serves the writer backend over HTTP.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rcliao/vibe-writer/internal/config"
	"github.com/rcliao/vibe-writer/internal/service"
)

// NewRouter creates the chi router with all routes and middleware. A nil
// gatherer disables /metrics.
func NewRouter(svc *service.Service, cfg *config.Config, gatherer prometheus.Gatherer, logger *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(CORS)
	r.Use(RequestID)
	r.Use(Logger(logger))
	r.Use(Recovery(logger))

	healthH := NewHealthHandler(cfg)
	contentH := NewContentHandler(svc)
	historyH := NewHistoryHandler(svc)
	memoryH := NewMemoryHandler(svc)
	aiH := NewAIHandler(svc)
	projectH := NewProjectHandler(svc)

	r.Get("/", healthH.Root)
	r.Get("/health", healthH.Health)
	r.Get("/config", healthH.Config)
	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/content", func(r chi.Router) {
		r.Post("/save", contentH.Save)
		r.Get("/{project}", contentH.Get)
	})

	r.Route("/history", func(r chi.Router) {
		r.Post("/restore", historyH.Restore)
		r.Get("/edits/{project}", historyH.Edits)
		r.Post("/edits/{project}", historyH.RecordEdit)
		r.Get("/deletions/{project}", historyH.Deletions)
		r.Post("/deletions/{project}", historyH.RecordDeletion)
		r.Get("/related/{project}", historyH.Related)
		r.Post("/context/{project}", historyH.Context)
	})

	r.Route("/memories/{project}", func(r chi.Router) {
		r.Get("/", memoryH.List)
		r.Post("/", memoryH.Add)
		r.Patch("/{id}", memoryH.Update)
		r.Delete("/{id}", memoryH.Delete)
	})

	r.Route("/ai", func(r chi.Router) {
		r.Post("/complete", aiH.Complete)
		r.Post("/suggestions", aiH.Suggestions)
		r.Post("/analyze", aiH.Analyze)
	})

	r.Route("/projects/{project}", func(r chi.Router) {
		r.Get("/stats", projectH.Stats)
		r.Get("/export", projectH.Export)
		r.Post("/import", projectH.Import)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})

	return r
}
