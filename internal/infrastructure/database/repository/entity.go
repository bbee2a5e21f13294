package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"trustguard/internal/domain/models"
	"trustguard/internal/infrastructure/database"
)

const entityColumns = `id, type, identifier, total_reports, scam_reports, verified_reports,
	risk_status, confidence_level, last_reported_at, last_checked_at, created_at`

// EntityRepository handles entity persistence
type EntityRepository struct {
	pool *pgxpool.Pool
}

// NewEntityRepository creates a new entity repository
func NewEntityRepository(pool *pgxpool.Pool) *EntityRepository {
	return &EntityRepository{pool: pool}
}

// GetByID retrieves an entity by ID
func (r *EntityRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Entity, error) {
	query := fmt.Sprintf(`SELECT %s FROM entities WHERE id = $1`, entityColumns)
	return r.scanEntity(r.pool.QueryRow(ctx, query, id))
}

// GetByTypeIdentifier retrieves an entity by its natural key
func (r *EntityRepository) GetByTypeIdentifier(ctx context.Context, entityType models.EntityType, identifier string) (*models.Entity, error) {
	query := fmt.Sprintf(`SELECT %s FROM entities WHERE type = $1 AND identifier = $2`, entityColumns)
	return r.scanEntity(r.pool.QueryRow(ctx, query, entityType, identifier))
}

// GetOrCreate returns the entity for (type, identifier), lazily creating it
// with zero counters. Concurrent creation of the same entity is resolved by
// the unique constraint on (type, identifier).
func (r *EntityRepository) GetOrCreate(ctx context.Context, entityType models.EntityType, identifier string) (*models.Entity, error) {
	e, err := r.GetByTypeIdentifier(ctx, entityType, identifier)
	if err == nil {
		return e, nil
	}
	if !errors.Is(err, models.ErrEntityNotFound) {
		return nil, err
	}

	insert := `
		INSERT INTO entities (id, type, identifier, risk_status, confidence_level, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (type, identifier) DO NOTHING`

	_, err = r.pool.Exec(ctx, insert,
		uuid.New(), entityType, identifier,
		models.RiskStatusInsufficientData, models.ConfidenceLow, time.Now(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create entity: %w", err)
	}

	return r.GetByTypeIdentifier(ctx, entityType, identifier)
}

// TouchLastChecked stamps the entity as just looked up
func (r *EntityRepository) TouchLastChecked(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `UPDATE entities SET last_checked_at = $2 WHERE id = $1`, id, time.Now())
	if err != nil {
		return fmt.Errorf("failed to touch entity: %w", err)
	}
	return nil
}

// ApplySubmit atomically bumps the total and scam counters for a new report
// and returns the updated entity. Runs on the caller's transaction.
func (r *EntityRepository) ApplySubmit(ctx context.Context, db database.DBTX, id uuid.UUID, at time.Time) (*models.Entity, error) {
	query := fmt.Sprintf(`
		UPDATE entities
		SET total_reports = total_reports + 1,
			scam_reports = scam_reports + 1,
			last_reported_at = $2
		WHERE id = $1
		RETURNING %s`, entityColumns)

	return r.scanEntity(db.QueryRow(ctx, query, id, at))
}

// ApplyVerify atomically bumps the verified counter
func (r *EntityRepository) ApplyVerify(ctx context.Context, db database.DBTX, id uuid.UUID) (*models.Entity, error) {
	query := fmt.Sprintf(`
		UPDATE entities
		SET verified_reports = verified_reports + 1
		WHERE id = $1
		RETURNING %s`, entityColumns)

	return r.scanEntity(db.QueryRow(ctx, query, id))
}

// ApplySpam atomically backs the counters out for a report marked as spam.
// Counters never go below zero.
func (r *EntityRepository) ApplySpam(ctx context.Context, db database.DBTX, id uuid.UUID, wasVerified bool) (*models.Entity, error) {
	verifiedDelta := 0
	if wasVerified {
		verifiedDelta = 1
	}

	query := fmt.Sprintf(`
		UPDATE entities
		SET total_reports = GREATEST(total_reports - 1, 0),
			scam_reports = GREATEST(scam_reports - 1, 0),
			verified_reports = GREATEST(verified_reports - $2, 0)
		WHERE id = $1
		RETURNING %s`, entityColumns)

	return r.scanEntity(db.QueryRow(ctx, query, id, verifiedDelta))
}

// UpdateTrust stores a freshly computed trust verdict
func (r *EntityRepository) UpdateTrust(ctx context.Context, db database.DBTX, id uuid.UUID, status models.RiskStatus, confidence models.ConfidenceLevel) error {
	_, err := db.Exec(ctx,
		`UPDATE entities SET risk_status = $2, confidence_level = $3 WHERE id = $1`,
		id, status, confidence,
	)
	if err != nil {
		return fmt.Errorf("failed to update trust verdict: %w", err)
	}
	return nil
}

// FindRelated returns entities that share at least one reporter with the
// given entity, most-shared first. Spam reports do not create links.
func (r *EntityRepository) FindRelated(ctx context.Context, id uuid.UUID) ([]models.RelatedEntity, error) {
	query := fmt.Sprintf(`
		SELECT %s, COUNT(DISTINCT r2.reporter_id) AS shared
		FROM reports r1
		JOIN reports r2 ON r2.reporter_id = r1.reporter_id AND r2.entity_id <> r1.entity_id
		JOIN entities e ON e.id = r2.entity_id
		WHERE r1.entity_id = $1
			AND r1.reporter_id IS NOT NULL
			AND r1.status <> 'spam'
			AND r2.status <> 'spam'
		GROUP BY e.id
		ORDER BY shared DESC, e.id
		LIMIT 20`, prefixColumns("e", entityColumns))

	rows, err := r.pool.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find related entities: %w", err)
	}
	defer rows.Close()

	var related []models.RelatedEntity
	for rows.Next() {
		var rel models.RelatedEntity
		e := &rel.Entity
		err := rows.Scan(
			&e.ID, &e.Type, &e.Identifier,
			&e.TotalReports, &e.ScamReports, &e.VerifiedReports,
			&e.RiskStatus, &e.ConfidenceLevel,
			&e.LastReportedAt, &e.LastCheckedAt, &e.CreatedAt,
			&rel.SharedReports,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan related entity: %w", err)
		}
		related = append(related, rel)
	}

	return related, rows.Err()
}

// CountAll returns the number of tracked entities
func (r *EntityRepository) CountAll(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM entities`).Scan(&n)
	return n, err
}

// CountHighRisk returns the number of entities currently rated High Risk
func (r *EntityRepository) CountHighRisk(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM entities WHERE risk_status = $1`,
		models.RiskStatusHigh,
	).Scan(&n)
	return n, err
}

func (r *EntityRepository) scanEntity(row pgx.Row) (*models.Entity, error) {
	var e models.Entity
	err := row.Scan(
		&e.ID, &e.Type, &e.Identifier,
		&e.TotalReports, &e.ScamReports, &e.VerifiedReports,
		&e.RiskStatus, &e.ConfidenceLevel,
		&e.LastReportedAt, &e.LastCheckedAt, &e.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrEntityNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan entity: %w", err)
	}
	return &e, nil
}
