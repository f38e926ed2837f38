package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rcliao/vibe-writer/internal/service"
)

type ProjectHandler struct {
	svc *service.Service
}

func NewProjectHandler(svc *service.Service) *ProjectHandler {
	return &ProjectHandler{svc: svc}
}

// Stats handles GET /projects/{project}/stats
func (h *ProjectHandler) Stats(w http.ResponseWriter, r *http.Request) {
	st, err := h.svc.Stats(r.Context(), chi.URLParam(r, "project"))
	if err != nil {
		writeServiceError(w, err, "", nil)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// Export handles GET /projects/{project}/export
func (h *ProjectHandler) Export(w http.ResponseWriter, r *http.Request) {
	b, err := h.svc.Export(r.Context(), chi.URLParam(r, "project"))
	if err != nil {
		writeServiceError(w, err, "", nil)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// Import handles POST /projects/{project}/import
func (h *ProjectHandler) Import(w http.ResponseWriter, r *http.Request) {
	var b service.Bundle
	if err := decodeJSON(r, &b); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if b.Version != service.BundleVersion {
		writeError(w, http.StatusBadRequest, "unsupported bundle version")
		return
	}

	res, err := h.svc.Import(r.Context(), chi.URLParam(r, "project"), b)
	if err != nil {
		writeServiceError(w, err, "", nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "imported": res})
}
