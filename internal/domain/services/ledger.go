package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"trustguard/internal/domain/models"
	"trustguard/internal/domain/services/trust"
	"trustguard/pkg/logger"
)

// RelatedLinkReason tags entities linked through shared reporters
const RelatedLinkReason = "Reported by same user(s)"

// recentWindow is the trailing window counted as "recent" by the trust
// calculator. Spam reports never count.
const recentWindow = 7 * 24 * time.Hour

// Network risk bonus: 10 points per high-risk linked entity, capped at 30
const (
	networkRiskPerLink = 10
	networkRiskCap     = 30
)

// Ledger owns the report lifecycle: submission, verification and spam
// marking. Every mutation keeps the entity counters and the stored trust
// verdict consistent inside one transaction.
type Ledger struct {
	store  Store
	logger *logger.Logger
}

// NewLedger creates a report ledger
func NewLedger(store Store, log *logger.Logger) *Ledger {
	return &Ledger{
		store:  store,
		logger: log.WithComponent("report-ledger"),
	}
}

// Submit records a new pending report against an existing entity. Returns
// models.ErrEntityNotFound when the entity is unknown. Persistence failure
// is fatal to the operation: no verdict-only fallback here.
func (l *Ledger) Submit(ctx context.Context, req models.CreateReportRequest) (*models.Report, error) {
	identifier := models.NormalizeIdentifier(req.EntityIdentifier)
	entity, err := l.store.GetEntityByKey(ctx, req.EntityType, identifier)
	if err != nil {
		return nil, err
	}

	rep := &models.Report{
		ID:          uuid.New(),
		EntityID:    entity.ID,
		ReporterID:  req.ReporterID,
		Platform:    req.Platform,
		ScamType:    req.ScamType,
		AmountLost:  req.AmountLost,
		Currency:    req.Currency,
		Description: req.Description,
		Status:      models.ReportStatusPending,
		CreatedAt:   time.Now(),
	}

	err = l.store.InTx(ctx, func(tx Tx) error {
		if err := tx.InsertReport(ctx, rep); err != nil {
			return err
		}
		for _, url := range req.EvidenceURLs {
			ev := &models.Evidence{
				ID:               uuid.New(),
				ReportID:         rep.ID,
				FileURL:          url,
				ValidationStatus: "pending",
			}
			if err := tx.InsertEvidence(ctx, ev); err != nil {
				return err
			}
		}

		e, err := tx.ApplySubmit(ctx, entity.ID, rep.CreatedAt)
		if err != nil {
			return err
		}
		return l.recomputeTrust(ctx, tx, e, rep.CreatedAt)
	})
	if err != nil {
		return nil, err
	}

	l.logger.Info().
		Str("report_id", rep.ID.String()).
		Str("entity_id", entity.ID.String()).
		Str("scam_type", rep.ScamType).
		Msg("report submitted")

	return rep, nil
}

// Verify transitions a pending or appealed report to verified and bumps the
// entity's verified counter.
func (l *Ledger) Verify(ctx context.Context, reportID uuid.UUID) (*models.Report, error) {
	var rep *models.Report
	err := l.store.InTx(ctx, func(tx Tx) error {
		var err error
		rep, err = tx.GetReportForUpdate(ctx, reportID)
		if err != nil {
			return err
		}
		switch rep.Status {
		case models.ReportStatusVerified:
			return models.ErrAlreadyVerified
		case models.ReportStatusSpam:
			return models.ErrAlreadySpam
		}

		if err := tx.UpdateReportStatus(ctx, reportID, models.ReportStatusVerified); err != nil {
			return err
		}
		rep.Status = models.ReportStatusVerified

		e, err := tx.ApplyVerify(ctx, rep.EntityID)
		if err != nil {
			return err
		}
		return l.recomputeTrust(ctx, tx, e, time.Now())
	})
	if err != nil {
		return nil, err
	}

	l.logger.Info().Str("report_id", reportID.String()).Msg("report verified")
	return rep, nil
}

// MarkSpam transitions a report to spam and backs its contribution out of
// the entity counters. A second call fails with models.ErrAlreadySpam and
// leaves the counters untouched.
func (l *Ledger) MarkSpam(ctx context.Context, reportID uuid.UUID) (*models.Report, error) {
	var rep *models.Report
	err := l.store.InTx(ctx, func(tx Tx) error {
		var err error
		rep, err = tx.GetReportForUpdate(ctx, reportID)
		if err != nil {
			return err
		}
		if rep.Status == models.ReportStatusSpam {
			return models.ErrAlreadySpam
		}
		wasVerified := rep.Status == models.ReportStatusVerified

		if err := tx.UpdateReportStatus(ctx, reportID, models.ReportStatusSpam); err != nil {
			return err
		}
		rep.Status = models.ReportStatusSpam

		e, err := tx.ApplySpam(ctx, rep.EntityID, wasVerified)
		if err != nil {
			return err
		}
		return l.recomputeTrust(ctx, tx, e, time.Now())
	})
	if err != nil {
		return nil, err
	}

	l.logger.Info().Str("report_id", reportID.String()).Msg("report marked as spam")
	return rep, nil
}

// RelatedEntities returns entities linked through shared reporters plus the
// network risk bonus earned from high-risk links.
func (l *Ledger) RelatedEntities(ctx context.Context, entityID uuid.UUID) ([]models.RelatedEntity, int, error) {
	if _, err := l.store.GetEntity(ctx, entityID); err != nil {
		return nil, 0, err
	}

	related, err := l.store.FindRelated(ctx, entityID)
	if err != nil {
		return nil, 0, err
	}
	for i := range related {
		related[i].LinkReason = RelatedLinkReason
	}

	return related, networkRisk(related), nil
}

// recomputeTrust recounts the recent window and stores the fresh verdict,
// still inside the mutation's transaction.
func (l *Ledger) recomputeTrust(ctx context.Context, tx Tx, e *models.Entity, now time.Time) error {
	recent, err := tx.CountRecentReports(ctx, e.ID, now.Add(-recentWindow))
	if err != nil {
		return err
	}
	score := trust.Recompute(e.ScamReports, e.VerifiedReports, e.TotalReports, recent)
	return tx.UpdateTrust(ctx, e.ID, score.RiskStatus, score.ConfidenceLevel)
}

func networkRisk(related []models.RelatedEntity) int {
	highRisk := 0
	for _, rel := range related {
		if rel.Entity.RiskStatus == models.RiskStatusHigh {
			highRisk++
		}
	}
	risk := highRisk * networkRiskPerLink
	if risk > networkRiskCap {
		risk = networkRiskCap
	}
	return risk
}
