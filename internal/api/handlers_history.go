package api

import (
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"

	"github.com/rcliao/vibe-writer/internal/model"
	"github.com/rcliao/vibe-writer/internal/service"
)

const (
	defaultCount   = 10
	defaultRelated = 5
)

type HistoryHandler struct {
	svc *service.Service
}

func NewHistoryHandler(svc *service.Service) *HistoryHandler {
	return &HistoryHandler{svc: svc}
}

type recordEditRequest struct {
	OldText  string         `json:"old_text"`
	NewText  string         `json:"new_text"`
	Location model.Location `json:"location"`
	EditType string         `json:"edit_type"`
}

type recordDeletionRequest struct {
	DeletedText string         `json:"deleted_text"`
	Location    model.Location `json:"location"`
}

type restoreRequest struct {
	ProjectName string `json:"project_name"`
	DeletedText string `json:"deleted_text"`
}

type contextRequest struct {
	CurrentText    string `json:"current_text"`
	CursorPosition *int   `json:"cursor_position"`
}

// Edits handles GET /history/edits/{project}?count=
func (h *HistoryHandler) Edits(w http.ResponseWriter, r *http.Request) {
	count, err := queryInt(r, "count", defaultCount)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	edits, err := h.svc.RecentEdits(r.Context(), chi.URLParam(r, "project"), count)
	if err != nil {
		writeServiceError(w, err, "", nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "edits": edits})
}

// Deletions handles GET /history/deletions/{project}?count=
func (h *HistoryHandler) Deletions(w http.ResponseWriter, r *http.Request) {
	count, err := queryInt(r, "count", defaultCount)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	deletions, err := h.svc.RecentDeletions(r.Context(), chi.URLParam(r, "project"), count)
	if err != nil {
		writeServiceError(w, err, "", nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "deletions": deletions})
}

// RecordEdit handles POST /history/edits/{project}
func (h *HistoryHandler) RecordEdit(w http.ResponseWriter, r *http.Request) {
	var req recordEditRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.EditType != "" && !model.ValidEditTypes[req.EditType] {
		writeError(w, http.StatusBadRequest, "invalid edit_type "+req.EditType)
		return
	}

	rec, err := h.svc.RecordEdit(r.Context(), chi.URLParam(r, "project"), req.OldText, req.NewText, req.Location, req.EditType)
	if err != nil {
		writeServiceError(w, err, "edit", appliedEdit(rec))
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "edit": rec})
}

// RecordDeletion handles POST /history/deletions/{project}
func (h *HistoryHandler) RecordDeletion(w http.ResponseWriter, r *http.Request) {
	var req recordDeletionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.DeletedText == "" {
		writeError(w, http.StatusBadRequest, "deleted_text is required")
		return
	}

	rec, err := h.svc.RecordDeletion(r.Context(), chi.URLParam(r, "project"), req.DeletedText, req.Location)
	if err != nil {
		var applied any
		if !rec.Timestamp.IsZero() {
			applied = rec
		}
		writeServiceError(w, err, "deletion", applied)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "deletion": rec})
}

// Related handles GET /history/related/{project}?q=&max=
func (h *HistoryHandler) Related(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if strings.TrimSpace(q) == "" {
		writeError(w, http.StatusBadRequest, "q is required")
		return
	}
	maxResults, err := queryInt(r, "max", defaultRelated)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	related, err := h.svc.RelatedDeletions(r.Context(), chi.URLParam(r, "project"), q, maxResults)
	if err != nil {
		writeServiceError(w, err, "", nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "deletions": related})
}

// Restore handles POST /history/restore
func (h *HistoryHandler) Restore(w http.ResponseWriter, r *http.Request) {
	var req restoreRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	doc, err := h.svc.RestoreDeletion(r.Context(), req.ProjectName, req.DeletedText)
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
		"message": "Deleted text restored successfully",
		"content": doc.Content,
	})
}

// Context handles POST /history/context/{project}. A missing cursor selects
// the end of the text.
func (h *HistoryHandler) Context(w http.ResponseWriter, r *http.Request) {
	var req contextRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	cc, err := h.svc.CompletionContext(r.Context(), chi.URLParam(r, "project"), req.CurrentText, cursorOrEnd(req.CursorPosition, req.CurrentText))
	if err != nil {
		writeServiceError(w, err, "", nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "context": cc})
}

func appliedEdit(rec model.EditRecord) any {
	if rec.Timestamp.IsZero() {
		return nil
	}
	return rec
}

func cursorOrEnd(cursor *int, text string) int {
	if cursor != nil {
		return *cursor
	}
	return utf8.RuneCountInString(text)
}
