package core

import (
	"sort"

	"github.com/shopspring/decimal"
)

// UnknownMonth buckets transactions whose stored date carries no year-month.
const UnknownMonth = "unknown"

// CategoryAmount represents an expense total aggregated by category name.
type CategoryAmount struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

// MonthTotals holds the income and expense sums of one YYYY-MM month.
type MonthTotals struct {
	Month   string          `json:"month"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

// SummaryView is the read-only aggregation computed from a BudgetState.
type SummaryView struct {
	TotalIncome  decimal.Decimal `json:"total_income"`
	TotalExpense decimal.Decimal `json:"total_expense"`
	Balance      decimal.Decimal `json:"balance"`
	BudgetLimit  decimal.Decimal `json:"budget_limit"`

	// Transactions sorted by date, most recent first.
	Transactions []Transaction `json:"transactions"`
	// CategoryBreakdown lists expense categories in first-encountered order.
	CategoryBreakdown []CategoryAmount `json:"category_breakdown"`
	// MonthlyTrend lists months in ascending order.
	MonthlyTrend []MonthTotals `json:"monthly_trend"`
}

// Summarize aggregates the state. It performs no I/O and never mutates state.
func Summarize(state BudgetState) SummaryView {
	view := SummaryView{
		TotalIncome:       decimal.Zero,
		TotalExpense:      decimal.Zero,
		BudgetLimit:       state.BudgetLimit,
		CategoryBreakdown: []CategoryAmount{},
		MonthlyTrend:      []MonthTotals{},
	}

	catIndex := map[string]int{}
	months := map[string]*MonthTotals{}

	for _, t := range state.Transactions {
		month, ok := months[t.MonthKey()]
		if !ok {
			month = &MonthTotals{Month: t.MonthKey(), Income: decimal.Zero, Expense: decimal.Zero}
			months[month.Month] = month
		}

		switch t.Type {
		case Income:
			view.TotalIncome = view.TotalIncome.Add(t.Amount)
			month.Income = month.Income.Add(t.Amount)
		case Expense:
			view.TotalExpense = view.TotalExpense.Add(t.Amount)
			month.Expense = month.Expense.Add(t.Amount)

			if i, seen := catIndex[t.Category]; seen {
				view.CategoryBreakdown[i].Amount = view.CategoryBreakdown[i].Amount.Add(t.Amount)
			} else {
				catIndex[t.Category] = len(view.CategoryBreakdown)
				view.CategoryBreakdown = append(view.CategoryBreakdown, CategoryAmount{Category: t.Category, Amount: t.Amount})
			}
		}
	}
	view.Balance = view.TotalIncome.Sub(view.TotalExpense)

	for _, m := range months {
		view.MonthlyTrend = append(view.MonthlyTrend, *m)
	}
	sort.Slice(view.MonthlyTrend, func(i, j int) bool {
		return view.MonthlyTrend[i].Month < view.MonthlyTrend[j].Month
	})

	view.Transactions = make([]Transaction, len(state.Transactions))
	copy(view.Transactions, state.Transactions)
	sort.SliceStable(view.Transactions, func(i, j int) bool {
		return view.Transactions[i].Date > view.Transactions[j].Date
	})

	return view
}
