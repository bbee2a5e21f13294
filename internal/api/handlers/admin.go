package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"trustguard/internal/domain/models"
	"trustguard/internal/domain/services"
	"trustguard/internal/infrastructure/cache"
	"trustguard/internal/infrastructure/database/repository"
	"trustguard/pkg/logger"
)

// AdminHandler handles report moderation and admin stats
type AdminHandler struct {
	ledger   *services.Ledger
	reports  *repository.ReportRepository
	entities *repository.EntityRepository
	cache    *cache.RedisCache
	logger   *logger.Logger
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(l *services.Ledger, rep *repository.ReportRepository, e *repository.EntityRepository, c *cache.RedisCache, log *logger.Logger) *AdminHandler {
	return &AdminHandler{
		ledger:   l,
		reports:  rep,
		entities: e,
		cache:    c,
		logger:   log.WithComponent("admin"),
	}
}

// Stats handles GET /api/v1/admin/stats. Always computed fresh: moderators
// need to see the effect of their own actions immediately.
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats := make(map[string]any)

	totalReports, err := h.reports.CountAll(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	stats["total_reports"] = totalReports

	for _, status := range []models.ReportStatus{
		models.ReportStatusPending,
		models.ReportStatusVerified,
		models.ReportStatusSpam,
		models.ReportStatusAppealed,
	} {
		n, err := h.reports.CountByStatus(r.Context(), status)
		if err != nil {
			respondServiceError(w, err)
			return
		}
		stats[string(status)+"_reports"] = n
	}

	totalEntities, err := h.entities.CountAll(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	stats["total_entities"] = totalEntities

	highRisk, err := h.entities.CountHighRisk(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	stats["high_risk_entities"] = highRisk
	stats["generated_at"] = time.Now().UTC().Format(time.RFC3339)

	respondJSON(w, http.StatusOK, stats)
}

// ListReports handles GET /api/v1/admin/reports?status=
func (h *AdminHandler) ListReports(w http.ResponseWriter, r *http.Request) {
	status := models.ReportStatus(r.URL.Query().Get("status"))
	if status == "" {
		status = models.ReportStatusPending
	}
	switch status {
	case models.ReportStatusPending, models.ReportStatusVerified,
		models.ReportStatusSpam, models.ReportStatusAppealed:
	default:
		respondError(w, http.StatusBadRequest, "invalid status")
		return
	}

	limit, offset := pagination(r)
	reports, err := h.reports.ListByStatus(r.Context(), status, limit, offset)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if reports == nil {
		reports = []*models.Report{}
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"data":   reports,
		"status": status,
		"limit":  limit,
		"offset": offset,
	})
}

// VerifyReport handles POST /api/v1/admin/reports/{id}/verify
func (h *AdminHandler) VerifyReport(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid report id")
		return
	}

	report, err := h.ledger.Verify(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	h.invalidateEntity(r, report.EntityID)
	respondJSON(w, http.StatusOK, report)
}

// SpamReport handles POST /api/v1/admin/reports/{id}/spam
func (h *AdminHandler) SpamReport(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid report id")
		return
	}

	report, err := h.ledger.MarkSpam(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	h.invalidateEntity(r, report.EntityID)
	respondJSON(w, http.StatusOK, report)
}

// invalidateEntity drops the cached check result for the entity a moderated
// report points at. Best effort.
func (h *AdminHandler) invalidateEntity(r *http.Request, entityID uuid.UUID) {
	if h.cache == nil {
		return
	}
	entity, err := h.entities.GetByID(r.Context(), entityID)
	if err != nil {
		return
	}
	if err := h.cache.InvalidateEntityCheck(r.Context(), string(entity.Type), entity.Identifier); err != nil {
		h.logger.Warn().Err(err).Str("entity_id", entityID.String()).Msg("failed to invalidate entity check cache")
	}
}
