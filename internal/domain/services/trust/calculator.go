package trust

import "trustguard/internal/domain/models"

// Score is the computed trust verdict for an entity
type Score struct {
	Base            int // scam*3 + verified*5 + recent*2
	RiskStatus      models.RiskStatus
	ConfidenceLevel models.ConfidenceLevel
}

// Recompute derives the trust verdict from an entity's report counters.
// This is the single implementation; every path that mutates counters must
// call it so the stored status can never drift from the counters.
//
// scam, verified and total count non-spam reports; recent counts non-spam
// reports in the trailing 7-day window.
func Recompute(scam, verified, total, recent int) Score {
	base := scam*3 + verified*5 + recent*2

	var status models.RiskStatus
	switch {
	case base == 0:
		status = models.RiskStatusInsufficientData
	case base <= 4:
		status = models.RiskStatusLow
	case base <= 9:
		status = models.RiskStatusMedium
	default:
		status = models.RiskStatusHigh
	}

	var confidence models.ConfidenceLevel
	switch {
	case total <= 2:
		confidence = models.ConfidenceLow
	case total <= 7:
		confidence = models.ConfidenceMedium
	default:
		confidence = models.ConfidenceHigh
	}

	return Score{Base: base, RiskStatus: status, ConfidenceLevel: confidence}
}
