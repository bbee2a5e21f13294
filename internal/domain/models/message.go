package models

import (
	"time"

	"github.com/google/uuid"
)

// RiskLevel represents the verdict of the message classifier
type RiskLevel string

const (
	RiskLevelLow    RiskLevel = "Low"
	RiskLevelMedium RiskLevel = "Medium"
	RiskLevelHigh   RiskLevel = "High"
)

// Message represents an analyzed message and its stored verdict
type Message struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	UserID      *uuid.UUID `json:"user_id,omitempty" db:"user_id"`
	Fingerprint string     `json:"-" db:"fingerprint"` // sha256(ip|user-agent) for anonymous history
	MessageText string     `json:"message_text" db:"message_text"`

	// Verdict
	RiskLevel     RiskLevel `json:"risk_level" db:"risk_level"`
	Confidence    float64   `json:"confidence" db:"confidence"` // 0.0 - 1.0
	RedFlags      []string  `json:"red_flags" db:"red_flags"`
	Explanation   string    `json:"explanation" db:"explanation"`
	ExplanationBn string    `json:"explanation_bn" db:"explanation_bn"`
	RulesScore    int       `json:"rules_score" db:"rules_score"` // 0-100

	// Only mutable field after creation
	Feedback *string `json:"feedback,omitempty" db:"feedback"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// CheckMessageRequest is the body of POST /check/message
type CheckMessageRequest struct {
	Message string     `json:"message" validate:"required,min=10,max=5000"`
	UserID  *uuid.UUID `json:"user_id,omitempty"`
}

// CheckMessageResponse is the verdict returned to the client. MessageID is
// empty when the verdict could not be persisted.
type CheckMessageResponse struct {
	MessageID     string    `json:"message_id"`
	RiskLevel     RiskLevel `json:"risk_level"`
	Confidence    float64   `json:"confidence"`
	RedFlags      []string  `json:"red_flags"`
	Explanation   string    `json:"explanation"`
	ExplanationBn string    `json:"explanation_bn"`
	RulesScore    int       `json:"rules_score"`
	Provider      string    `json:"provider"` // explanation provider, "None" for the template fallback
}
