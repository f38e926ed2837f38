package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rcliao/vibe-writer/internal/service"
)

type MemoryHandler struct {
	svc *service.Service
}

func NewMemoryHandler(svc *service.Service) *MemoryHandler {
	return &MemoryHandler{svc: svc}
}

type addMemoryRequest struct {
	Text     string `json:"text"`
	Position int    `json:"position"`
}

type updateMemoryRequest struct {
	Text string `json:"text"`
}

// List handles GET /memories/{project}
func (h *MemoryHandler) List(w http.ResponseWriter, r *http.Request) {
	mems, err := h.svc.Memories(r.Context(), chi.URLParam(r, "project"))
	if err != nil {
		writeServiceError(w, err, "", nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "memories": mems})
}

// Add handles POST /memories/{project}
func (h *MemoryHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req addMemoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	mem, err := h.svc.AddMemory(r.Context(), chi.URLParam(r, "project"), req.Text, req.Position)
	if err != nil {
		var applied any
		if mem.ID != "" {
			applied = mem
		}
		writeServiceError(w, err, "memory", applied)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "memory": mem})
}

// Update handles PATCH /memories/{project}/{id}
func (h *MemoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateMemoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	id := chi.URLParam(r, "id")
	mem, found, err := h.svc.EditMemory(r.Context(), chi.URLParam(r, "project"), id, req.Text)
	if err != nil {
		var applied any
		if found {
			applied = mem
		}
		writeServiceError(w, err, "memory", applied)
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "memory not found: "+id)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "memory": mem})
}

// Delete handles DELETE /memories/{project}/{id}
func (h *MemoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	found, err := h.svc.DeleteMemory(r.Context(), chi.URLParam(r, "project"), id)
	if err != nil {
		writeServiceError(w, err, "", nil)
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "memory not found: "+id)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "id": id})
}
