package api

import (
	"net/http"

	"github.com/rcliao/vibe-writer/internal/service"
)

type AIHandler struct {
	svc *service.Service
}

func NewAIHandler(svc *service.Service) *AIHandler {
	return &AIHandler{svc: svc}
}

type completeRequest struct {
	ProjectName    string   `json:"project_name"`
	Text           string   `json:"text"`
	CursorPosition *int     `json:"cursor_position"`
	MaxTokens      int      `json:"max_tokens"`
	Temperature    *float64 `json:"temperature"`
	Model          string   `json:"model"`
}

type suggestionsRequest struct {
	ProjectName string   `json:"project_name"`
	Text        string   `json:"text"`
	Count       int      `json:"count"`
	Temperature *float64 `json:"temperature"`
}

type analyzeRequest struct {
	Text string `json:"text"`
}

// Complete handles POST /ai/complete
func (h *AIHandler) Complete(w http.ResponseWriter, r *http.Request) {
	var req completeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	text, err := h.svc.Complete(r.Context(), req.ProjectName, req.Text, cursorOrEnd(req.CursorPosition, req.Text), service.GenerateParams{
		Model:       req.Model,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	})
	if err != nil {
		writeServiceError(w, err, "", nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "completion": text})
}

// Suggestions handles POST /ai/suggestions
func (h *AIHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	var req suggestionsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Count < 0 || req.Count > service.MaxSuggestions {
		writeError(w, http.StatusBadRequest, "count must be between 0 and 5")
		return
	}

	out, err := h.svc.Suggest(r.Context(), req.ProjectName, req.Text, req.Count, service.GenerateParams{Temperature: req.Temperature})
	if err != nil {
		writeServiceError(w, err, "", nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "suggestions": out})
}

// Analyze handles POST /ai/analyze
func (h *AIHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	analysis, err := h.svc.AnalyzeStyle(r.Context(), req.Text)
	if err != nil {
		writeServiceError(w, err, "", nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "analysis": analysis})
}
