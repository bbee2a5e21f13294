package trust

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"trustguard/internal/domain/models"
)

func TestRecompute(t *testing.T) {
	tests := []struct {
		name           string
		scam           int
		verified       int
		total          int
		recent         int
		wantBase       int
		wantStatus     models.RiskStatus
		wantConfidence models.ConfidenceLevel
	}{
		{
			name:           "no reports",
			wantBase:       0,
			wantStatus:     models.RiskStatusInsufficientData,
			wantConfidence: models.ConfidenceLow,
		},
		{
			name:           "single scam report",
			scam:           1,
			total:          1,
			wantBase:       3,
			wantStatus:     models.RiskStatusLow,
			wantConfidence: models.ConfidenceLow,
		},
		{
			name:           "base four is still low",
			scam:           0,
			verified:       0,
			total:          2,
			recent:         2,
			wantBase:       4,
			wantStatus:     models.RiskStatusLow,
			wantConfidence: models.ConfidenceLow,
		},
		{
			name:           "base five is medium",
			verified:       1,
			total:          1,
			wantBase:       5,
			wantStatus:     models.RiskStatusMedium,
			wantConfidence: models.ConfidenceLow,
		},
		{
			name:           "base nine is medium",
			scam:           3,
			total:          3,
			wantBase:       9,
			wantStatus:     models.RiskStatusMedium,
			wantConfidence: models.ConfidenceMedium,
		},
		{
			name:           "base ten is high",
			scam:           2,
			verified:       0,
			total:          3,
			recent:         2,
			wantBase:       10,
			wantStatus:     models.RiskStatusHigh,
			wantConfidence: models.ConfidenceMedium,
		},
		{
			name:           "two scam one verified three total one recent",
			scam:           2,
			verified:       1,
			total:          3,
			recent:         1,
			wantBase:       13,
			wantStatus:     models.RiskStatusHigh,
			wantConfidence: models.ConfidenceMedium,
		},
		{
			name:           "high volume high confidence",
			scam:           10,
			verified:       4,
			total:          12,
			recent:         5,
			wantBase:       60,
			wantStatus:     models.RiskStatusHigh,
			wantConfidence: models.ConfidenceHigh,
		},
		{
			name:           "total eight is high confidence",
			total:          8,
			verified:       1,
			wantBase:       5,
			wantStatus:     models.RiskStatusMedium,
			wantConfidence: models.ConfidenceHigh,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Recompute(tt.scam, tt.verified, tt.total, tt.recent)
			assert.Equal(t, tt.wantBase, got.Base)
			assert.Equal(t, tt.wantStatus, got.RiskStatus)
			assert.Equal(t, tt.wantConfidence, got.ConfidenceLevel)
		})
	}
}
