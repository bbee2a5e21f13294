package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"trustguard/internal/domain/models"
	"trustguard/internal/domain/services/trust"
	"trustguard/pkg/logger"
)

// EntityCache caches entity-check responses. Implemented by the Redis
// wrapper; nil-able for cache-less setups.
type EntityCache interface {
	GetCachedEntityCheck(ctx context.Context, entityType, identifier string, dest any) error
	CacheEntityCheck(ctx context.Context, entityType, identifier string, data any) error
	InvalidateEntityCheck(ctx context.Context, entityType, identifier string) error
}

// Directory serves entity lookups. Unknown entities are lazily created with
// zero counters; known entities get their trust verdict recomputed before
// being returned, so a stale stored status can never be served.
type Directory struct {
	store  Store
	cache  EntityCache
	logger *logger.Logger
}

// NewDirectory creates an entity directory. cache may be nil.
func NewDirectory(store Store, cache EntityCache, log *logger.Logger) *Directory {
	return &Directory{
		store:  store,
		cache:  cache,
		logger: log.WithComponent("entity-directory"),
	}
}

// Check looks up (or lazily creates) an entity and returns its current trust
// verdict plus the network risk bonus.
func (d *Directory) Check(ctx context.Context, entityType models.EntityType, identifier string) (*models.EntityCheckResponse, error) {
	identifier = models.NormalizeIdentifier(identifier)

	if d.cache != nil {
		var cached models.EntityCheckResponse
		if err := d.cache.GetCachedEntityCheck(ctx, string(entityType), identifier, &cached); err == nil {
			return &cached, nil
		}
	}

	entity, err := d.store.GetOrCreateEntity(ctx, entityType, identifier)
	if err != nil {
		return nil, err
	}

	entity, err = d.refreshTrust(ctx, entity)
	if err != nil {
		return nil, err
	}

	// Stamping last-checked is best effort
	if err := d.store.TouchLastChecked(ctx, entity.ID); err != nil {
		d.logger.Warn().Err(err).Str("entity_id", entity.ID.String()).Msg("failed to stamp last-checked")
	} else {
		now := time.Now()
		entity.LastCheckedAt = &now
	}

	related, err := d.store.FindRelated(ctx, entity.ID)
	if err != nil {
		return nil, err
	}

	resp := &models.EntityCheckResponse{
		Entity:      *entity,
		NetworkRisk: networkRisk(related),
	}

	if d.cache != nil {
		if err := d.cache.CacheEntityCheck(ctx, string(entityType), identifier, resp); err != nil {
			d.logger.Warn().Err(err).Msg("failed to cache entity check")
		}
	}

	return resp, nil
}

// Get returns an entity by ID with a fresh trust verdict
func (d *Directory) Get(ctx context.Context, id uuid.UUID) (*models.Entity, error) {
	entity, err := d.store.GetEntity(ctx, id)
	if err != nil {
		return nil, err
	}
	return d.refreshTrust(ctx, entity)
}

// Reports returns an entity's reports, newest first
func (d *Directory) Reports(ctx context.Context, id uuid.UUID, limit, offset int) ([]*models.Report, error) {
	if _, err := d.store.GetEntity(ctx, id); err != nil {
		return nil, err
	}
	return d.store.ListEntityReports(ctx, id, limit, offset)
}

// refreshTrust recomputes the verdict from current counters and repairs the
// stored one if it drifted (e.g. the recent window moved on).
func (d *Directory) refreshTrust(ctx context.Context, e *models.Entity) (*models.Entity, error) {
	recent, err := d.store.CountRecentReports(ctx, e.ID, time.Now().Add(-recentWindow))
	if err != nil {
		return nil, err
	}

	score := trust.Recompute(e.ScamReports, e.VerifiedReports, e.TotalReports, recent)
	if score.RiskStatus != e.RiskStatus || score.ConfidenceLevel != e.ConfidenceLevel {
		if err := d.store.UpdateTrust(ctx, e.ID, score.RiskStatus, score.ConfidenceLevel); err != nil {
			return nil, err
		}
		e.RiskStatus = score.RiskStatus
		e.ConfidenceLevel = score.ConfidenceLevel
	}

	return e, nil
}
