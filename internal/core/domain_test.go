package core

import (
	"errors"
	"testing"
)

func TestParseTransactionType(t *testing.T) {
	cases := []struct {
		in   string
		want TransactionType
		ok   bool
	}{
		{"income", Income, true},
		{"expense", Expense, true},
		{" Expense ", Expense, true},
		{"INCOME", Income, true},
		{"transfer", "", false},
		{"", "", false},
	}
	for i, tc := range cases {
		got, err := ParseTransactionType(tc.in)
		if tc.ok && (err != nil || got != tc.want) {
			t.Fatalf("case %d expected %q, got %q (err=%v)", i, tc.want, got, err)
		}
		if !tc.ok && !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("case %d expected ErrInvalidInput, got %v", i, err)
		}
	}
}

func TestValidateDate(t *testing.T) {
	good := []string{"2024-01-05", "2024-02-29", "1999-12-31"}
	for _, d := range good {
		if err := ValidateDate(d); err != nil {
			t.Fatalf("%q expected ok, got %v", d, err)
		}
	}
	bad := []string{"", "2024-1", "2023-02-29", "05/01/2024", "2024-13-01"}
	for _, d := range bad {
		if err := ValidateDate(d); !errors.Is(err, ErrInvalidDate) {
			t.Fatalf("%q expected ErrInvalidDate, got %v", d, err)
		}
	}
}

func TestTransactionMonthKey(t *testing.T) {
	if got := (Transaction{Date: "2024-01-05"}).MonthKey(); got != "2024-01" {
		t.Fatalf("MonthKey = %q", got)
	}
	if got := (Transaction{Date: "2024"}).MonthKey(); got != UnknownMonth {
		t.Fatalf("short date MonthKey = %q", got)
	}
}

func TestNewBudgetState(t *testing.T) {
	s := NewBudgetState()
	if s.Transactions == nil || len(s.Transactions) != 0 {
		t.Fatalf("expected empty non-nil transactions")
	}
	if !s.BudgetLimit.Equal(DefaultBudgetLimit) || s.BudgetLimit.String() != "20000" {
		t.Fatalf("unexpected default limit %s", s.BudgetLimit)
	}
}

func TestTransactionTypeTitle(t *testing.T) {
	if Income.Title() != "Income" || Expense.Title() != "Expense" {
		t.Fatalf("unexpected titles %q %q", Income.Title(), Expense.Title())
	}
}
