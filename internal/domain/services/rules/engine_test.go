package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trustguard/internal/domain/models"
	"trustguard/pkg/logger"
)

func newTestEngine() *Engine {
	return New(logger.NewDefault())
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		wantScore int
		wantLevel models.RiskLevel
		wantFlags []string
	}{
		{
			name:      "benign message",
			text:      "Hello, see you at the meeting tomorrow.",
			wantScore: 0,
			wantLevel: models.RiskLevelLow,
			wantFlags: nil,
		},
		{
			name:      "benign delivery notice stays low",
			text:      "Your parcel arrives today.",
			wantScore: 25,
			wantLevel: models.RiskLevelLow,
			wantFlags: []string{"Uses pressure tactics or artificial urgency"},
		},
		{
			name:      "payment request alone is medium",
			text:      "Please complete the payment to proceed.",
			wantScore: 30,
			wantLevel: models.RiskLevelMedium,
			wantFlags: []string{"Requests advance or direct payment"},
		},
		{
			name:      "bkash pin request is high",
			text:      "Send your bKash PIN now to receive the money.",
			wantScore: 100,
			wantLevel: models.RiskLevelHigh,
			wantFlags: []string{
				"Uses pressure tactics or artificial urgency",
				"Requests advance or direct payment",
				"Requests sensitive personal information (PIN/OTP)",
			},
		},
		{
			name:      "banglish pressure and payment",
			text:      "taratari taka pathao bhai",
			wantScore: 55,
			wantLevel: models.RiskLevelMedium,
			wantFlags: []string{
				"Uses pressure tactics or artificial urgency",
				"Requests advance or direct payment",
			},
		},
		{
			name:      "bangla script pressure and payment",
			text:      "এখনই টাকা পাঠাও",
			wantScore: 55,
			wantLevel: models.RiskLevelMedium,
			wantFlags: []string{
				"Uses pressure tactics or artificial urgency",
				"Requests advance or direct payment",
			},
		},
		{
			name:      "job visa fee",
			text:      "Great opportunity abroad, just a visa processing fee required.",
			wantScore: 70,
			wantLevel: models.RiskLevelHigh,
			wantFlags: []string{
				"Requests advance or direct payment",
				"Charges fees for job or visa services",
			},
		},
		{
			name:      "low price premium item",
			text:      "Brand new iPhone only 12000 taka, grab it fast!",
			wantScore: 85,
			wantLevel: models.RiskLevelHigh,
			wantFlags: []string{
				"Uses pressure tactics or artificial urgency",
				"Requests advance or direct payment",
				"Suspiciously low price for premium items",
			},
		},
		{
			name:      "low price without premium item not flagged",
			text:      "T-shirt only 300 taka, buy today.",
			wantScore: 55,
			wantLevel: models.RiskLevelMedium,
			wantFlags: []string{
				"Uses pressure tactics or artificial urgency",
				"Requests advance or direct payment",
			},
		},
		{
			name:      "unrealistic returns",
			text:      "Invest here and receive 80% profit, guaranteed.",
			wantScore: 55,
			wantLevel: models.RiskLevelMedium,
			wantFlags: []string{
				"Makes unrealistic guarantees",
				"Promises unrealistic returns",
			},
		},
		{
			name:      "modest percentage not flagged",
			text:      "Seasonal sale, 20% off everything.",
			wantScore: 0,
			wantLevel: models.RiskLevelLow,
			wantFlags: nil,
		},
		{
			name:      "lottery with claim fee",
			text:      "Congratulations! You won the lottery, send the claim fee to collect.",
			wantScore: 80,
			wantLevel: models.RiskLevelHigh,
			wantFlags: []string{
				"Requests advance or direct payment",
				"Unsolicited prize claim requiring fees",
			},
		},
		{
			name:      "prize without fee demand not flagged",
			text:      "She won the school quiz prize yesterday.",
			wantScore: 0,
			wantLevel: models.RiskLevelLow,
			wantFlags: nil,
		},
	}

	e := newTestEngine()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Classify(tt.text)
			assert.Equal(t, tt.wantScore, got.Score)
			assert.Equal(t, tt.wantLevel, got.RiskLevel)
			assert.Equal(t, tt.wantFlags, got.RedFlags)
		})
	}
}

func TestClassifyDeterministic(t *testing.T) {
	e := newTestEngine()
	text := "Send your bKash PIN now, only 5000 taka registration fee, 100% guaranteed!"

	first := e.Classify(text)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, e.Classify(text))
	}
}

func TestClassifyScoreCap(t *testing.T) {
	e := newTestEngine()
	// Every category at once must still cap at 100
	got := e.Classify("Urgent! You won the lottery, pay the visa processing fee and send your PIN now, 100% guaranteed, iPhone only 9999 taka, 90% return!")
	require.Equal(t, 100, got.Score)
	assert.Equal(t, models.RiskLevelHigh, got.RiskLevel)
}

func TestRiskLevelBoundaries(t *testing.T) {
	tests := []struct {
		score int
		want  models.RiskLevel
	}{
		{0, models.RiskLevelLow},
		{29, models.RiskLevelLow},
		{30, models.RiskLevelMedium},
		{59, models.RiskLevelMedium},
		{60, models.RiskLevelHigh},
		{100, models.RiskLevelHigh},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, RiskLevelFor(tt.score), "score %d", tt.score)
	}
}

func TestExplain(t *testing.T) {
	flags := []string{"Requests advance or direct payment"}

	high := Explain(models.RiskLevelHigh, flags)
	assert.Contains(t, high, "High risk pattern detected")
	assert.Contains(t, high, flags[0])
	assert.Contains(t, high, "verify the sender's identity")

	low := Explain(models.RiskLevelLow, nil)
	assert.Contains(t, low, "Low risk")
	assert.NotContains(t, low, "Identified flags")

	bn := ExplainBn(models.RiskLevelHigh)
	assert.Contains(t, bn, "উচ্চ ঝুঁকি")
}
