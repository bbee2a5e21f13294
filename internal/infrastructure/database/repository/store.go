package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"trustguard/internal/domain/models"
	"trustguard/internal/domain/services"
	"trustguard/internal/infrastructure/database"
)

// Store implements services.Store on PostgreSQL, composing the entity and
// report repositories and running ledger mutations inside WithTx.
type Store struct {
	db       *database.PostgresDB
	entities *EntityRepository
	reports  *ReportRepository
}

// NewStore creates the persistence surface for the ledger and directory
func NewStore(db *database.PostgresDB) *Store {
	pool := db.Pool()
	return &Store{
		db:       db,
		entities: NewEntityRepository(pool),
		reports:  NewReportRepository(pool),
	}
}

// InTx runs fn inside a single database transaction
func (s *Store) InTx(ctx context.Context, fn func(tx services.Tx) error) error {
	return s.db.WithTx(ctx, func(tx pgx.Tx) error {
		return fn(&storeTx{store: s, tx: tx})
	})
}

func (s *Store) GetEntity(ctx context.Context, id uuid.UUID) (*models.Entity, error) {
	return s.entities.GetByID(ctx, id)
}

func (s *Store) GetEntityByKey(ctx context.Context, entityType models.EntityType, identifier string) (*models.Entity, error) {
	return s.entities.GetByTypeIdentifier(ctx, entityType, identifier)
}

func (s *Store) GetOrCreateEntity(ctx context.Context, entityType models.EntityType, identifier string) (*models.Entity, error) {
	return s.entities.GetOrCreate(ctx, entityType, identifier)
}

func (s *Store) TouchLastChecked(ctx context.Context, id uuid.UUID) error {
	return s.entities.TouchLastChecked(ctx, id)
}

func (s *Store) UpdateTrust(ctx context.Context, id uuid.UUID, status models.RiskStatus, confidence models.ConfidenceLevel) error {
	return s.entities.UpdateTrust(ctx, s.db.Pool(), id, status, confidence)
}

func (s *Store) CountRecentReports(ctx context.Context, entityID uuid.UUID, since time.Time) (int, error) {
	return s.reports.CountRecent(ctx, s.db.Pool(), entityID, since)
}

func (s *Store) FindRelated(ctx context.Context, entityID uuid.UUID) ([]models.RelatedEntity, error) {
	return s.entities.FindRelated(ctx, entityID)
}

func (s *Store) GetReport(ctx context.Context, id uuid.UUID) (*models.Report, error) {
	return s.reports.GetByID(ctx, id)
}

func (s *Store) ListEntityReports(ctx context.Context, entityID uuid.UUID, limit, offset int) ([]*models.Report, error) {
	return s.reports.ListByEntity(ctx, entityID, limit, offset)
}

// storeTx binds the repositories to an open transaction
type storeTx struct {
	store *Store
	tx    pgx.Tx
}

func (t *storeTx) InsertReport(ctx context.Context, rep *models.Report) error {
	return t.store.reports.Create(ctx, t.tx, rep)
}

func (t *storeTx) InsertEvidence(ctx context.Context, ev *models.Evidence) error {
	return t.store.reports.CreateEvidence(ctx, t.tx, ev)
}

func (t *storeTx) GetReportForUpdate(ctx context.Context, id uuid.UUID) (*models.Report, error) {
	return t.store.reports.GetForUpdate(ctx, t.tx, id)
}

func (t *storeTx) UpdateReportStatus(ctx context.Context, id uuid.UUID, status models.ReportStatus) error {
	return t.store.reports.UpdateStatus(ctx, t.tx, id, status)
}

func (t *storeTx) ApplySubmit(ctx context.Context, entityID uuid.UUID, at time.Time) (*models.Entity, error) {
	return t.store.entities.ApplySubmit(ctx, t.tx, entityID, at)
}

func (t *storeTx) ApplyVerify(ctx context.Context, entityID uuid.UUID) (*models.Entity, error) {
	return t.store.entities.ApplyVerify(ctx, t.tx, entityID)
}

func (t *storeTx) ApplySpam(ctx context.Context, entityID uuid.UUID, wasVerified bool) (*models.Entity, error) {
	return t.store.entities.ApplySpam(ctx, t.tx, entityID, wasVerified)
}

func (t *storeTx) CountRecentReports(ctx context.Context, entityID uuid.UUID, since time.Time) (int, error) {
	return t.store.reports.CountRecent(ctx, t.tx, entityID, since)
}

func (t *storeTx) UpdateTrust(ctx context.Context, id uuid.UUID, status models.RiskStatus, confidence models.ConfidenceLevel) error {
	return t.store.entities.UpdateTrust(ctx, t.tx, id, status, confidence)
}

var _ services.Store = (*Store)(nil)
