package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"trustguard/internal/domain/models"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError maps domain sentinel errors onto HTTP statuses;
// anything unrecognized is a 500 with an opaque body.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrEntityNotFound):
		respondError(w, http.StatusNotFound, "entity not found")
	case errors.Is(err, models.ErrReportNotFound):
		respondError(w, http.StatusNotFound, "report not found")
	case errors.Is(err, models.ErrMessageNotFound):
		respondError(w, http.StatusNotFound, "message not found")
	case errors.Is(err, models.ErrAlreadyVerified):
		respondError(w, http.StatusConflict, "report already verified")
	case errors.Is(err, models.ErrAlreadySpam):
		respondError(w, http.StatusConflict, "report already marked as spam")
	default:
		respondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// pagination parses limit/offset query parameters with sane bounds
func pagination(r *http.Request) (limit, offset int) {
	limit = defaultPageSize
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = min(n, maxPageSize)
		}
	}
	if raw := r.URL.Query().Get("offset"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			offset = n
		}
	}
	return limit, offset
}
