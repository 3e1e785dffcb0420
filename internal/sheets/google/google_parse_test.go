package google

import (
	"testing"

	"budgetbuddy/internal/core"

	"github.com/shopspring/decimal"
)

func TestTransactionRow(t *testing.T) {
	row := transactionRow(core.Transaction{
		ID: 4, Amount: decimal.RequireFromString("12.5"), Category: "food",
		Date: "2024-03-02", Note: "café", Type: core.Expense,
	})

	want := []any{"2024-03-02", "Expense", "food", "12.50", "café", 4}
	if len(row) != len(want) || len(row) != len(Header) {
		t.Fatalf("row has %d cells, want %d", len(row), len(want))
	}
	for i := range want {
		if row[i] != want[i] {
			t.Errorf("cell %d (%v) = %v, want %v", i, Header[i], row[i], want[i])
		}
	}
}

func TestParseMirroredIDs(t *testing.T) {
	values := [][]any{
		{"ID"},
		{"1"},
		{},
		{"2.0"},
		{3.0},
		{"  7 "},
		{"n/a"},
		{"2.5"},
		{"-1"},
		{"0"},
	}

	got := parseMirroredIDs(values)
	for _, id := range []int{1, 2, 3, 7} {
		if !got[id] {
			t.Errorf("id %d missing from %v", id, got)
		}
	}
	if len(got) != 4 {
		t.Errorf("expected 4 ids, got %v", got)
	}
}
