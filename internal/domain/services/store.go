package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"trustguard/internal/domain/models"
)

// Store is the persistence surface of the report ledger and entity
// directory. The production implementation lives in the repository package;
// tests substitute an in-memory fake.
type Store interface {
	// InTx runs fn inside a single database transaction
	InTx(ctx context.Context, fn func(tx Tx) error) error

	GetEntity(ctx context.Context, id uuid.UUID) (*models.Entity, error)
	GetEntityByKey(ctx context.Context, entityType models.EntityType, identifier string) (*models.Entity, error)
	GetOrCreateEntity(ctx context.Context, entityType models.EntityType, identifier string) (*models.Entity, error)
	TouchLastChecked(ctx context.Context, id uuid.UUID) error
	UpdateTrust(ctx context.Context, id uuid.UUID, status models.RiskStatus, confidence models.ConfidenceLevel) error
	CountRecentReports(ctx context.Context, entityID uuid.UUID, since time.Time) (int, error)
	FindRelated(ctx context.Context, entityID uuid.UUID) ([]models.RelatedEntity, error)

	GetReport(ctx context.Context, id uuid.UUID) (*models.Report, error)
	ListEntityReports(ctx context.Context, entityID uuid.UUID, limit, offset int) ([]*models.Report, error)
}

// Tx is the transactional slice of the store. Counter updates are single
// atomic SQL increments; every mutation recomputes trust before commit.
type Tx interface {
	InsertReport(ctx context.Context, rep *models.Report) error
	InsertEvidence(ctx context.Context, ev *models.Evidence) error
	GetReportForUpdate(ctx context.Context, id uuid.UUID) (*models.Report, error)
	UpdateReportStatus(ctx context.Context, id uuid.UUID, status models.ReportStatus) error

	ApplySubmit(ctx context.Context, entityID uuid.UUID, at time.Time) (*models.Entity, error)
	ApplyVerify(ctx context.Context, entityID uuid.UUID) (*models.Entity, error)
	ApplySpam(ctx context.Context, entityID uuid.UUID, wasVerified bool) (*models.Entity, error)
	CountRecentReports(ctx context.Context, entityID uuid.UUID, since time.Time) (int, error)
	UpdateTrust(ctx context.Context, id uuid.UUID, status models.RiskStatus, confidence models.ConfidenceLevel) error
}

// MessageStore persists analyzed messages
type MessageStore interface {
	Create(ctx context.Context, m *models.Message) error
}
