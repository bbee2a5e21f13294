package handlers

import (
	"encoding/json"
	"net/http"
	"unicode/utf8"

	"trustguard/internal/domain/models"
	"trustguard/internal/domain/services"
	"trustguard/internal/infrastructure/cache"
	"trustguard/pkg/logger"
)

// ReportsHandler handles report submission
type ReportsHandler struct {
	ledger *services.Ledger
	cache  *cache.RedisCache
	logger *logger.Logger
}

// NewReportsHandler creates a new ReportsHandler
func NewReportsHandler(l *services.Ledger, c *cache.RedisCache, log *logger.Logger) *ReportsHandler {
	return &ReportsHandler{
		ledger: l,
		cache:  c,
		logger: log.WithComponent("reports"),
	}
}

// Create handles POST /api/v1/reports
func (h *ReportsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if !models.ValidEntityType(req.EntityType) {
		respondError(w, http.StatusBadRequest, "invalid entity type")
		return
	}
	if models.NormalizeIdentifier(req.EntityIdentifier) == "" {
		respondError(w, http.StatusBadRequest, "entity_identifier is required")
		return
	}
	if req.ScamType == "" {
		respondError(w, http.StatusBadRequest, "scam_type is required")
		return
	}
	if n := utf8.RuneCountInString(req.Description); n < 10 || n > 2000 {
		respondError(w, http.StatusBadRequest, "description must be between 10 and 2000 characters")
		return
	}

	report, err := h.ledger.Submit(r.Context(), req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	// The cached check result is stale now
	if h.cache != nil {
		identifier := models.NormalizeIdentifier(req.EntityIdentifier)
		if err := h.cache.InvalidateEntityCheck(r.Context(), string(req.EntityType), identifier); err != nil {
			h.logger.Warn().Err(err).Msg("failed to invalidate entity check cache")
		}
	}

	respondJSON(w, http.StatusCreated, report)
}
