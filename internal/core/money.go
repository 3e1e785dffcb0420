// Package core provides the budget domain: transactions, amount parsing and
// the aggregation that turns a BudgetState into a SummaryView.
//
// This file contains the functions for parsing user-entered amounts.
package core

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts a user-entered string into a non-negative decimal.
//
// Only a dot decimal separator is accepted. Commas are rejected so a grouped
// value such as "1,000" never reads as 1. Anything that does not parse as a
// decimal, or parses to a negative value, is rejected with ErrInvalidAmount.
//
// Examples:
//
//	ParseAmount("500")    -> 500, nil
//	ParseAmount("12.50")  -> 12.5, nil
//	ParseAmount("1,000")  -> 0, ErrInvalidAmount
//	ParseAmount("abc")    -> 0, ErrInvalidAmount
//	ParseAmount("-1")     -> 0, ErrInvalidAmount
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := parseDecimal(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w %q", ErrInvalidAmount, s)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w %q: must not be negative", ErrInvalidAmount, s)
	}
	return d, nil
}

// ParseBudgetLimit converts a user-entered limit. The sign is not checked: a
// zero or negative limit means "no limit configured" for usage computations.
func ParseBudgetLimit(s string) (decimal.Decimal, error) {
	d, err := parseDecimal(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w %q", ErrInvalidLimit, s)
	}
	return d, nil
}

func parseDecimal(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("empty value")
	}
	if strings.Contains(s, ",") {
		return decimal.Zero, fmt.Errorf("unexpected comma")
	}
	return decimal.NewFromString(s)
}

// FormatAmount renders an amount with two decimals for display.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}
