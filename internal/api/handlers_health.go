package api

import (
	"net/http"

	"github.com/rcliao/vibe-writer/internal/config"
)

type HealthHandler struct {
	cfg *config.Config
}

func NewHealthHandler(cfg *config.Config) *HealthHandler {
	return &HealthHandler{cfg: cfg}
}

// Root handles GET /
func (h *HealthHandler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Welcome to Vibe Writer API"})
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Config handles GET /config with secrets removed.
func (h *HealthHandler) Config(w http.ResponseWriter, r *http.Request) {
	if h.cfg == nil {
		writeJSON(w, http.StatusOK, config.NewDefaultConfig().Redacted())
		return
	}
	writeJSON(w, http.StatusOK, h.cfg.Redacted())
}
