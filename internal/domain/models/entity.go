package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// EntityType represents the kind of reportable entity
type EntityType string

const (
	EntityTypePhone     EntityType = "phone"
	EntityTypeFBPage    EntityType = "fb_page"
	EntityTypeFBProfile EntityType = "fb_profile"
	EntityTypeWhatsApp  EntityType = "whatsapp"
	EntityTypeShop      EntityType = "shop"
	EntityTypeAgent     EntityType = "agent"
	EntityTypeBkash     EntityType = "bkash"
	EntityTypeNagad     EntityType = "nagad"
	EntityTypeRocket    EntityType = "rocket"
)

// ValidEntityType reports whether t is a known entity type
func ValidEntityType(t EntityType) bool {
	switch t {
	case EntityTypePhone, EntityTypeFBPage, EntityTypeFBProfile,
		EntityTypeWhatsApp, EntityTypeShop, EntityTypeAgent,
		EntityTypeBkash, EntityTypeNagad, EntityTypeRocket:
		return true
	}
	return false
}

// RiskStatus represents the trust verdict on an entity
type RiskStatus string

const (
	RiskStatusInsufficientData RiskStatus = "Insufficient Data"
	RiskStatusLow              RiskStatus = "Low Risk"
	RiskStatusMedium           RiskStatus = "Medium Risk"
	RiskStatusHigh             RiskStatus = "High Risk"
)

// ConfidenceLevel represents how much report volume backs a risk status
type ConfidenceLevel string

const (
	ConfidenceLow    ConfidenceLevel = "Low"
	ConfidenceMedium ConfidenceLevel = "Medium"
	ConfidenceHigh   ConfidenceLevel = "High"
)

// Entity represents a reportable entity (phone number, page, payment handle)
// with its community report counters and computed trust verdict.
type Entity struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	Type       EntityType `json:"type" db:"type"`
	Identifier string     `json:"identifier" db:"identifier"` // normalized

	// Counters exclude spam reports
	TotalReports    int `json:"total_reports" db:"total_reports"`
	ScamReports     int `json:"scam_reports" db:"scam_reports"`
	VerifiedReports int `json:"verified_reports" db:"verified_reports"`

	// Computed by the trust calculator, never written directly
	RiskStatus      RiskStatus      `json:"risk_status" db:"risk_status"`
	ConfidenceLevel ConfidenceLevel `json:"confidence_level" db:"confidence_level"`

	LastReportedAt *time.Time `json:"last_reported_at,omitempty" db:"last_reported_at"`
	LastCheckedAt  *time.Time `json:"last_checked_at,omitempty" db:"last_checked_at"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
}

// NormalizeIdentifier canonicalizes an entity identifier for lookup
func NormalizeIdentifier(identifier string) string {
	return strings.ToLower(strings.TrimSpace(identifier))
}

// RelatedEntity is an entity linked to another through shared reporters
type RelatedEntity struct {
	Entity        Entity `json:"entity"`
	SharedReports int    `json:"shared_reports"`
	LinkReason    string `json:"link_reason"`
}

// EntityCheckResponse is the response of GET /entities/check
type EntityCheckResponse struct {
	Entity      Entity `json:"entity"`
	NetworkRisk int    `json:"network_risk"` // bonus from high-risk linked entities, 0-30
}
