package handlers

import (
	"context"
	"net/http"
	"time"

	"trustguard/internal/domain/models"
	"trustguard/internal/infrastructure/cache"
	"trustguard/internal/infrastructure/database/repository"
	"trustguard/pkg/logger"
)

// StatsHandler serves the public platform counters
type StatsHandler struct {
	entities *repository.EntityRepository
	reports  *repository.ReportRepository
	cache    *cache.RedisCache
	logger   *logger.Logger
}

// NewStatsHandler creates a new StatsHandler
func NewStatsHandler(e *repository.EntityRepository, rep *repository.ReportRepository, c *cache.RedisCache, log *logger.Logger) *StatsHandler {
	return &StatsHandler{
		entities: e,
		reports:  rep,
		cache:    c,
		logger:   log.WithComponent("stats"),
	}
}

// Get handles GET /api/v1/stats
func (h *StatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h.cache != nil {
		var cached models.PlatformStats
		if err := h.cache.GetJSON(r.Context(), cache.KeyStats, &cached); err == nil {
			respondJSON(w, http.StatusOK, cached)
			return
		}
	}

	stats, err := h.collect(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to collect platform stats")
		respondServiceError(w, err)
		return
	}

	if h.cache != nil {
		if err := h.cache.SetJSON(r.Context(), cache.KeyStats, stats, cache.StatsTTL); err != nil {
			h.logger.Warn().Err(err).Msg("failed to cache platform stats")
		}
	}

	respondJSON(w, http.StatusOK, stats)
}

func (h *StatsHandler) collect(ctx context.Context) (*models.PlatformStats, error) {
	totalReports, err := h.reports.CountAll(ctx)
	if err != nil {
		return nil, err
	}
	totalEntities, err := h.entities.CountAll(ctx)
	if err != nil {
		return nil, err
	}
	highRisk, err := h.entities.CountHighRisk(ctx)
	if err != nil {
		return nil, err
	}
	verified, err := h.reports.CountByStatus(ctx, models.ReportStatusVerified)
	if err != nil {
		return nil, err
	}

	return &models.PlatformStats{
		TotalReports:     totalReports,
		TotalEntities:    totalEntities,
		HighRiskEntities: highRisk,
		VerifiedReports:  verified,
		GeneratedAt:      time.Now().UTC(),
	}, nil
}
