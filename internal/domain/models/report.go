package models

import (
	"time"

	"github.com/google/uuid"
)

// ReportStatus represents the lifecycle state of a community report
type ReportStatus string

const (
	ReportStatusPending  ReportStatus = "pending"
	ReportStatusVerified ReportStatus = "verified"
	ReportStatusSpam     ReportStatus = "spam"
	ReportStatusAppealed ReportStatus = "appealed"
)

// Report represents a user-submitted scam report against an entity.
// Substantive content is immutable after creation; only Status transitions.
type Report struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	EntityID   uuid.UUID  `json:"entity_id" db:"entity_id"`
	ReporterID *uuid.UUID `json:"reporter_id,omitempty" db:"reporter_id"`

	Platform    string  `json:"platform" db:"platform"`
	ScamType    string  `json:"scam_type" db:"scam_type"`
	AmountLost  float64 `json:"amount_lost" db:"amount_lost"`
	Currency    string  `json:"currency" db:"currency"`
	Description string  `json:"description" db:"description"`

	Status    ReportStatus `json:"status" db:"status"`
	CreatedAt time.Time    `json:"created_at" db:"created_at"`
}

// Evidence represents an opaque attachment on a report. Upload handling
// lives outside this service; only the reference is stored.
type Evidence struct {
	ID               uuid.UUID `json:"id" db:"id"`
	ReportID         uuid.UUID `json:"report_id" db:"report_id"`
	FileURL          string    `json:"file_url" db:"file_url"`
	FileType         string    `json:"file_type" db:"file_type"`
	ValidationStatus string    `json:"validation_status" db:"validation_status"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
}

// CreateReportRequest is the body of POST /reports
type CreateReportRequest struct {
	EntityType       EntityType `json:"entity_type" validate:"required"`
	EntityIdentifier string     `json:"entity_identifier" validate:"required"`
	ReporterID       *uuid.UUID `json:"reporter_id,omitempty"`
	Platform         string     `json:"platform"`
	ScamType         string     `json:"scam_type" validate:"required"`
	AmountLost       float64    `json:"amount_lost"`
	Currency         string     `json:"currency"`
	Description      string     `json:"description" validate:"required,min=10,max=2000"`
	EvidenceURLs     []string   `json:"evidence_urls,omitempty"`
}

// PlatformStats represents aggregate counters for the public stats endpoint
type PlatformStats struct {
	TotalReports     int       `json:"total_reports"`
	TotalEntities    int       `json:"total_entities"`
	HighRiskEntities int       `json:"high_risk_entities"`
	VerifiedReports  int       `json:"verified_reports"`
	GeneratedAt      time.Time `json:"generated_at"`
}
