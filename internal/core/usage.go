package core

import "github.com/shopspring/decimal"

const (
	TierSuccess  SuggestionTier = "success"
	TierInfo     SuggestionTier = "info"
	TierWarning  SuggestionTier = "warning"
	TierCritical SuggestionTier = "danger"
)

type (
	// SuggestionTier doubles as the CSS class of the dashboard notice.
	SuggestionTier string

	Suggestion struct {
		Tier    SuggestionTier `json:"tier"`
		Message string         `json:"message"`
	}
)

// UsagePercent returns the share of the budget limit already spent. A limit
// of zero or below means no limit is configured and yields 0.
func UsagePercent(totalExpense, limit decimal.Decimal) float64 {
	if !limit.IsPositive() {
		return 0
	}
	return totalExpense.Div(limit).Mul(decimal.NewFromInt(100)).InexactFloat64()
}

// SuggestionFor maps a usage percentage to a qualitative tier.
func SuggestionFor(percent float64) Suggestion {
	switch {
	case percent >= 90:
		return Suggestion{Tier: TierCritical, Message: "Critical! You've almost exhausted your budget."}
	case percent >= 75:
		return Suggestion{Tier: TierWarning, Message: "You're close to your limit, consider reducing food and travel expenses."}
	case percent >= 50:
		return Suggestion{Tier: TierInfo, Message: "You're doing okay, keep an eye on expenses."}
	default:
		return Suggestion{Tier: TierSuccess, Message: "Great job! You're spending smart!"}
	}
}
