package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"trustguard/internal/domain/models"
	"trustguard/internal/domain/services"
	"trustguard/pkg/logger"
)

// EntitiesHandler handles entity directory endpoints
type EntitiesHandler struct {
	directory *services.Directory
	ledger    *services.Ledger
	logger    *logger.Logger
}

// NewEntitiesHandler creates a new EntitiesHandler
func NewEntitiesHandler(d *services.Directory, l *services.Ledger, log *logger.Logger) *EntitiesHandler {
	return &EntitiesHandler{
		directory: d,
		ledger:    l,
		logger:    log.WithComponent("entities"),
	}
}

// Check handles GET /api/v1/entities/check?type=&identifier=
func (h *EntitiesHandler) Check(w http.ResponseWriter, r *http.Request) {
	entityType := models.EntityType(r.URL.Query().Get("type"))
	identifier := r.URL.Query().Get("identifier")

	if !models.ValidEntityType(entityType) {
		respondError(w, http.StatusBadRequest, "invalid entity type")
		return
	}
	if models.NormalizeIdentifier(identifier) == "" {
		respondError(w, http.StatusBadRequest, "identifier is required")
		return
	}

	resp, err := h.directory.Check(r.Context(), entityType, identifier)
	if err != nil {
		h.logger.Error().Err(err).Str("type", string(entityType)).Msg("entity check failed")
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, resp)
}

// Get handles GET /api/v1/entities/{id}
func (h *EntitiesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid entity id")
		return
	}

	entity, err := h.directory.Get(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, entity)
}

// Reports handles GET /api/v1/entities/{id}/reports
func (h *EntitiesHandler) Reports(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid entity id")
		return
	}

	limit, offset := pagination(r)
	reports, err := h.directory.Reports(r.Context(), id, limit, offset)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if reports == nil {
		reports = []*models.Report{}
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"data":   reports,
		"limit":  limit,
		"offset": offset,
	})
}

// Related handles GET /api/v1/entities/{id}/related
func (h *EntitiesHandler) Related(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid entity id")
		return
	}

	related, networkRisk, err := h.ledger.RelatedEntities(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if related == nil {
		related = []models.RelatedEntity{}
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"data":         related,
		"network_risk": networkRisk,
	})
}
