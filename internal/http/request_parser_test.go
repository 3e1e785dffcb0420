package http

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"budgetbuddy/internal/core"
)

func TestParseTransactionForm(t *testing.T) {
	form := url.Values{
		"amount":   {"  12.50 "},
		"category": {" food\x00\x07 "},
		"date":     {" 2024-01-05 "},
		"note":     {"line one\nline two\x1b"},
		"type":     {" Expense "},
	}

	got := ParseTransactionForm(form)
	if got.Amount != "12.50" {
		t.Errorf("Amount = %q", got.Amount)
	}
	if got.Category != "food" {
		t.Errorf("Category = %q", got.Category)
	}
	if got.Date != "2024-01-05" {
		t.Errorf("Date = %q", got.Date)
	}
	if got.Note != "line one\nline two" {
		t.Errorf("Note = %q", got.Note)
	}
	if got.Type != "Expense" {
		t.Errorf("Type = %q", got.Type)
	}
}

func TestFormType(t *testing.T) {
	tests := []struct {
		query string
		want  core.TransactionType
	}{
		{"", core.Expense},
		{"type=income", core.Income},
		{"type=Income", core.Income},
		{"type=expense", core.Expense},
		{"type=refund", core.Expense},
	}
	for _, tt := range tests {
		q, _ := url.ParseQuery(tt.query)
		if got := FormType(q); got != tt.want {
			t.Errorf("FormType(%q) = %q, want %q", tt.query, got, tt.want)
		}
	}
}

func TestSanitizeInput(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"  plain  ", "plain"},
		{"tab\there", "tab\there"},
		{"bell\x07", "bell"},
		{"\x00null", "null"},
		{"crlf\r\n", "crlf"},
	}
	for _, tt := range tests {
		if got := sanitizeInput(tt.in); got != tt.want {
			t.Errorf("sanitizeInput(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseFormRejectsOversizedBody(t *testing.T) {
	body := "note=" + strings.Repeat("x", maxFormBytes+1)
	req := httptest.NewRequest(http.MethodPost, "/add", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	if err := parseForm(httptest.NewRecorder(), req); err == nil {
		t.Fatal("expected error for oversized form")
	}
}
