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

const reportColumns = `id, entity_id, reporter_id, platform, scam_type, amount_lost,
	currency, description, status, created_at`

// ReportRepository handles report and evidence persistence
type ReportRepository struct {
	pool *pgxpool.Pool
}

// NewReportRepository creates a new report repository
func NewReportRepository(pool *pgxpool.Pool) *ReportRepository {
	return &ReportRepository{pool: pool}
}

// Create inserts a new report on the caller's transaction
func (r *ReportRepository) Create(ctx context.Context, db database.DBTX, rep *models.Report) error {
	if rep.ID == uuid.Nil {
		rep.ID = uuid.New()
	}
	if rep.CreatedAt.IsZero() {
		rep.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO reports (id, entity_id, reporter_id, platform, scam_type,
			amount_lost, currency, description, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := db.Exec(ctx, query,
		rep.ID, rep.EntityID, rep.ReporterID, rep.Platform, rep.ScamType,
		rep.AmountLost, rep.Currency, rep.Description, rep.Status, rep.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	return nil
}

// CreateEvidence attaches an evidence reference to a report
func (r *ReportRepository) CreateEvidence(ctx context.Context, db database.DBTX, ev *models.Evidence) error {
	if ev.ID == uuid.Nil {
		ev.ID = uuid.New()
	}
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO evidence (id, report_id, file_url, file_type, validation_status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := db.Exec(ctx, query,
		ev.ID, ev.ReportID, ev.FileURL, ev.FileType, ev.ValidationStatus, ev.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create evidence: %w", err)
	}
	return nil
}

// GetByID retrieves a report by ID
func (r *ReportRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Report, error) {
	query := fmt.Sprintf(`SELECT %s FROM reports WHERE id = $1`, reportColumns)
	return r.scanReport(r.pool.QueryRow(ctx, query, id))
}

// GetForUpdate retrieves a report with a row lock, for status transitions
func (r *ReportRepository) GetForUpdate(ctx context.Context, db database.DBTX, id uuid.UUID) (*models.Report, error) {
	query := fmt.Sprintf(`SELECT %s FROM reports WHERE id = $1 FOR UPDATE`, reportColumns)
	return r.scanReport(db.QueryRow(ctx, query, id))
}

// UpdateStatus transitions a report's status
func (r *ReportRepository) UpdateStatus(ctx context.Context, db database.DBTX, id uuid.UUID, status models.ReportStatus) error {
	_, err := db.Exec(ctx, `UPDATE reports SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("failed to update report status: %w", err)
	}
	return nil
}

// ListByEntity returns an entity's reports, newest first
func (r *ReportRepository) ListByEntity(ctx context.Context, entityID uuid.UUID, limit, offset int) ([]*models.Report, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM reports
		WHERE entity_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`, reportColumns)

	return r.listReports(ctx, query, entityID, limit, offset)
}

// ListByStatus returns reports in a given status, oldest first for review
func (r *ReportRepository) ListByStatus(ctx context.Context, status models.ReportStatus, limit, offset int) ([]*models.Report, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM reports
		WHERE status = $1
		ORDER BY created_at ASC
		LIMIT $2 OFFSET $3`, reportColumns)

	return r.listReports(ctx, query, status, limit, offset)
}

// CountRecent counts an entity's non-spam reports since the given time
func (r *ReportRepository) CountRecent(ctx context.Context, db database.DBTX, entityID uuid.UUID, since time.Time) (int, error) {
	var n int
	err := db.QueryRow(ctx,
		`SELECT COUNT(*) FROM reports WHERE entity_id = $1 AND status <> 'spam' AND created_at >= $2`,
		entityID, since,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count recent reports: %w", err)
	}
	return n, nil
}

// CountAll returns the number of non-spam reports
func (r *ReportRepository) CountAll(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM reports WHERE status <> 'spam'`).Scan(&n)
	return n, err
}

// CountByStatus returns the number of reports in a status
func (r *ReportRepository) CountByStatus(ctx context.Context, status models.ReportStatus) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM reports WHERE status = $1`, status).Scan(&n)
	return n, err
}

func (r *ReportRepository) listReports(ctx context.Context, query string, args ...any) ([]*models.Report, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	var reports []*models.Report
	for rows.Next() {
		rep, err := r.scanReport(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, rep)
	}

	return reports, rows.Err()
}

func (r *ReportRepository) scanReport(row pgx.Row) (*models.Report, error) {
	var rep models.Report
	err := row.Scan(
		&rep.ID, &rep.EntityID, &rep.ReporterID, &rep.Platform, &rep.ScamType,
		&rep.AmountLost, &rep.Currency, &rep.Description, &rep.Status, &rep.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrReportNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan report: %w", err)
	}
	return &rep, nil
}
