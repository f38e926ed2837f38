package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rcliao/vibe-writer/internal/service"
)

type ContentHandler struct {
	svc *service.Service
}

func NewContentHandler(svc *service.Service) *ContentHandler {
	return &ContentHandler{svc: svc}
}

type saveContentRequest struct {
	ProjectName    string `json:"project_name"`
	Content        string `json:"content"`
	CursorPosition *int   `json:"cursor_position"`
}

// Save handles POST /content/save
func (h *ContentHandler) Save(w http.ResponseWriter, r *http.Request) {
	var req saveContentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	doc, err := h.svc.SaveContent(r.Context(), req.ProjectName, req.Content, req.CursorPosition)
	if err != nil {
		var applied any
		if !doc.LastUpdated.IsZero() {
			applied = doc.Content
		}
		writeServiceError(w, err, "content", applied)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Content saved successfully",
		"content": doc.Content,
	})
}

// Get handles GET /content/{project}
func (h *ContentHandler) Get(w http.ResponseWriter, r *http.Request) {
	project := chi.URLParam(r, "project")

	doc, err := h.svc.Content(r.Context(), project)
	if err != nil {
		writeServiceError(w, err, "", nil)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"content":      doc.Content,
		"last_updated": doc.LastUpdated,
	})
}
