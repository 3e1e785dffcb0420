package core

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

// DateLayout is the only accepted transaction date format.
const DateLayout = "2006-01-02"

type (
	TransactionType string

	Transaction struct {
		ID       int             `json:"id"`
		Amount   decimal.Decimal `json:"amount"`
		Category string          `json:"category"` // only meaningful for expenses
		Date     string          `json:"date"`     // YYYY-MM-DD
		Note     string          `json:"note"`
		Type     TransactionType `json:"type"`
	}

	// BudgetState is the whole persisted document.
	BudgetState struct {
		Transactions []Transaction
		BudgetLimit  decimal.Decimal
	}
)

// DefaultBudgetLimit is used whenever the persisted document carries no limit.
var DefaultBudgetLimit = decimal.NewFromInt(20000)

var (
	// ErrInvalidInput is the parent of every user input error. Callers match it
	// with errors.Is to show a notice instead of failing.
	ErrInvalidInput = errors.New("invalid input")

	ErrInvalidAmount = fmt.Errorf("%w: amount", ErrInvalidInput)
	ErrInvalidLimit  = fmt.Errorf("%w: budget limit", ErrInvalidInput)
	ErrInvalidType   = fmt.Errorf("%w: transaction type", ErrInvalidInput)
	ErrInvalidDate   = fmt.Errorf("%w: date", ErrInvalidInput)
)

// NewBudgetState returns the empty document created on first access.
func NewBudgetState() BudgetState {
	return BudgetState{
		Transactions: []Transaction{},
		BudgetLimit:  DefaultBudgetLimit,
	}
}

// ParseTransactionType coerces free text into a TransactionType.
func ParseTransactionType(s string) (TransactionType, error) {
	switch TransactionType(strings.ToLower(strings.TrimSpace(s))) {
	case Income:
		return Income, nil
	case Expense:
		return Expense, nil
	default:
		return "", fmt.Errorf("%w %q", ErrInvalidType, s)
	}
}

// String implements fmt.Stringer
func (t TransactionType) String() string {
	return string(t)
}

// Title returns the capitalized type name, e.g. "Income".
func (t TransactionType) Title() string {
	if t == "" {
		return ""
	}
	s := string(t)
	return strings.ToUpper(s[:1]) + s[1:]
}

// ValidateDate checks that s is a real calendar date in YYYY-MM-DD form.
func ValidateDate(s string) error {
	if _, err := time.Parse(DateLayout, strings.TrimSpace(s)); err != nil {
		return fmt.Errorf("%w %q", ErrInvalidDate, s)
	}
	return nil
}

// MonthKey returns the YYYY-MM bucket of the transaction date, or
// UnknownMonth when the stored date is too short to carry one.
func (t Transaction) MonthKey() string {
	if len(t.Date) < 7 {
		return UnknownMonth
	}
	return t.Date[:7]
}
