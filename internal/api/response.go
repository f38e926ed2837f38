package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/rcliao/vibe-writer/internal/generate"
	"github.com/rcliao/vibe-writer/internal/service"
	"github.com/rcliao/vibe-writer/internal/store"
)

const maxBody = 10 << 20

type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Success: false, Message: msg})
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBody))
	return dec.Decode(v)
}

// statusFor maps service errors onto HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrInvalidProject),
		errors.Is(err, generate.ErrTemperature),
		errors.Is(err, service.ErrTextTooShort):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrFeatureDisabled):
		return http.StatusForbidden
	case errors.Is(err, service.ErrNoGenerator):
		return http.StatusServiceUnavailable
	case service.IsUpstream(err):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// writeServiceError reports err. When a mutation was applied but could not
// be saved, the resulting record is returned under key with persisted=false.
func writeServiceError(w http.ResponseWriter, err error, key string, applied any) {
	var se *store.Error
	if applied != nil && errors.As(err, &se) && se.Op == "save" {
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"success":   false,
			"persisted": false,
			"message":   err.Error(),
			key:         applied,
		})
		return
	}
	writeError(w, statusFor(err), err.Error())
}

// queryInt reads a non-negative integer query parameter.
func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s must be a non-negative integer", name)
	}
	return n, nil
}
