package rules

import (
	"strconv"
	"strings"

	"trustguard/internal/domain/models"
	"trustguard/pkg/logger"
)

// Engine is the deterministic multilingual pattern classifier. It is pure:
// the same text always produces the same result, and Classify never fails.
type Engine struct {
	logger *logger.Logger
}

// Result is the classifier verdict for a single message
type Result struct {
	RedFlags  []string
	Score     int // 0-100
	RiskLevel models.RiskLevel
}

// New creates a rules engine
func New(log *logger.Logger) *Engine {
	return &Engine{logger: log.WithComponent("rules-engine")}
}

// Classify analyzes a message for suspicious patterns across English,
// Banglish and Bangla script. Each category contributes its weight at most
// once; the total is capped at 100.
func (e *Engine) Classify(text string) Result {
	var flags []string
	score := 0
	lower := strings.ToLower(text)

	for _, cat := range keywordCategories {
		if containsAny(lower, cat.english) || containsAny(lower, cat.banglish) || containsAny(lower, cat.bangla) {
			flags = append(flags, cat.flag)
			score += cat.weight
		}
	}

	if sensitiveInfoPattern.MatchString(text) {
		flags = append(flags, sensitiveInfoFlag)
		score += sensitiveInfoWeight
	}

	if jobFeePattern.MatchString(text) {
		flags = append(flags, jobFeeFlag)
		score += jobFeeWeight
	}

	if m := lowPricePattern.FindStringSubmatch(text); m != nil {
		if amount, err := strconv.Atoi(m[2]); err == nil {
			if amount < lowPriceThreshold && containsAny(lower, premiumItemKeywords) {
				flags = append(flags, lowPriceFlag)
				score += lowPriceWeight
			}
		}
	}

	if m := percentagePattern.FindStringSubmatch(text); m != nil {
		if pct, err := strconv.Atoi(m[1]); err == nil && pct > percentageThreshold {
			flags = append(flags, percentageFlag)
			score += percentageWeight
		}
	}

	if containsAny(lower, prizeKeywords) && containsAny(lower, prizeFeeKeywords) {
		flags = append(flags, lotteryFlag)
		score += lotteryWeight
	}

	if score > 100 {
		score = 100
	}

	return Result{
		RedFlags:  flags,
		Score:     score,
		RiskLevel: RiskLevelFor(score),
	}
}

// RiskLevelFor maps a score to a risk level: >=60 High, >=30 Medium, else Low
func RiskLevelFor(score int) models.RiskLevel {
	switch {
	case score >= 60:
		return models.RiskLevelHigh
	case score >= 30:
		return models.RiskLevelMedium
	default:
		return models.RiskLevelLow
	}
}

// Explain produces the deterministic English explanation for a verdict.
// Used directly as the fallback when no remote provider is available.
func Explain(level models.RiskLevel, redFlags []string) string {
	var b strings.Builder

	switch level {
	case models.RiskLevelHigh:
		b.WriteString("High risk pattern detected. This message matches multiple patterns often associated with suspicious activity. ")
	case models.RiskLevelMedium:
		b.WriteString("Potential risk. This message contains some suspicious elements. ")
	default:
		b.WriteString("Low risk. This message does not show obvious suspicious patterns. ")
	}

	if len(redFlags) > 0 {
		b.WriteString("Identified flags: ")
		b.WriteString(strings.Join(redFlags, ", "))
		b.WriteString(". ")
	}

	if level == models.RiskLevelHigh || level == models.RiskLevelMedium {
		b.WriteString("Always verify the sender's identity through official channels before sharing money or personal data.")
	}

	return strings.TrimSpace(b.String())
}

// ExplainBn produces the deterministic Bangla explanation for a verdict
func ExplainBn(level models.RiskLevel) string {
	var b strings.Builder

	switch level {
	case models.RiskLevelHigh:
		b.WriteString("উচ্চ ঝুঁকি সনাক্ত করা হয়েছে! এই বার্তাটিতে সন্দেহজনক কার্যক্রমের একাধিক লক্ষণ পাওয়া গেছে। ")
	case models.RiskLevelMedium:
		b.WriteString("ঝুঁকি থাকতে পারে। এই বার্তাটিতে কিছু সন্দেহজনক উপাদান রয়েছে। ")
	default:
		b.WriteString("ঝুঁকি কম মনে হচ্ছে। এই বার্তায় বড় কোনো সন্দেহজনক লক্ষণ পাওয়া যায়নি। ")
	}

	if level == models.RiskLevelHigh || level == models.RiskLevelMedium {
		b.WriteString("টাকা বা ব্যক্তিগত তথ্য শেয়ার করার আগে সর্বদা অফিশিয়াল মাধ্যমে পরিচয় যাচাই করুন।")
	}

	return strings.TrimSpace(b.String())
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
