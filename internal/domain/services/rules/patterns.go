package rules

import "regexp"

// keywordCategory is a weighted keyword set in three registers: English,
// romanized Bangla (Banglish) and Bangla script. A category contributes its
// weight once no matter how many of its keywords appear.
type keywordCategory struct {
	name     string
	flag     string
	weight   int
	english  []string
	banglish []string
	bangla   []string
}

var keywordCategories = []keywordCategory{
	{
		name:   "urgency",
		flag:   "Uses pressure tactics or artificial urgency",
		weight: 25,
		english: []string{
			"urgent", "immediately", "now", "today", "hurry", "limited",
			"last chance", "expire", "within 24 hours", "only",
			"slots left", "stock left",
		},
		banglish: []string{"taratari", "ajo", "ekhoni", "ekhon", "shesh", "limited"},
		bangla:   []string{"তাড়াতাড়ি", "আজ", "এখনই", "এখন", "শেষ", "দ্রুত"},
	},
	{
		name:   "payment",
		flag:   "Requests advance or direct payment",
		weight: 30,
		english: []string{
			"pay", "send money", "bkash", "rocket", "nagad", "bank transfer",
			"advance", "fee", "taka pathao", "payment",
		},
		banglish: []string{"taka", "pathao", "bkash", "rocket", "advance", "fee", "taka den"},
		bangla:   []string{"টাকা", "পাঠাও", "বিকাশ", "রকেট", "নগদ", "ফি"},
	},
	{
		name:   "overpromise",
		flag:   "Makes unrealistic guarantees",
		weight: 25,
		english: []string{
			"guarantee", "100%", "guaranteed", "confirm", "sure", "certain",
			"no risk", "risk free", "easy money",
		},
		banglish: []string{"guarantee", "confirm", "nischit", "pakka"},
		bangla:   []string{"গ্যারান্টি", "নিশ্চিত", "পাক্কা", "কনফার্ম"},
	},
}

// Weighted regex detectors. Low price and percentage have extra numeric
// conditions checked in the engine, not here.
var (
	sensitiveInfoPattern = regexp.MustCompile(`(?i)(PIN|password|OTP|পাসওয়ার্ড|পিন)`)
	jobFeePattern        = regexp.MustCompile(`(?i)(registration|visa|processing)\s*(fee|ফি)`)
	lowPricePattern      = regexp.MustCompile(`(?i)(\bonly|\bmatro|মাত্র)\s*(\d+)\s*(taka|টাকা|bdt)`)
	percentagePattern    = regexp.MustCompile(`(\d+)%`)
)

const (
	sensitiveInfoFlag   = "Requests sensitive personal information (PIN/OTP)"
	sensitiveInfoWeight = 60

	jobFeeFlag   = "Charges fees for job or visa services"
	jobFeeWeight = 40

	lowPriceFlag      = "Suspiciously low price for premium items"
	lowPriceWeight    = 30
	lowPriceThreshold = 20000

	percentageFlag      = "Promises unrealistic returns"
	percentageWeight    = 30
	percentageThreshold = 50

	lotteryFlag   = "Unsolicited prize claim requiring fees"
	lotteryWeight = 50
)

// Premium items that make an unusually low price suspicious
var premiumItemKeywords = []string{"iphone", "macbook", "laptop", "gold", "স্বর্ণ"}

// Prize claims only count when paired with a fee demand
var (
	prizeKeywords    = []string{"lottery", "লটারি", "prize", "won", "jitechen", "জিতেছেন"}
	prizeFeeKeywords = []string{"fee", "claim", "ফি", "processing"}
)
