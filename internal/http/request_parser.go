package http

import (
	"net/http"
	"net/url"
	"strings"

	"budgetbuddy/internal/core"
	"budgetbuddy/internal/services"
)

// maxFormBytes bounds form bodies; transactions are a handful of short fields.
const maxFormBytes = 64 << 10

// parseForm limits the body size and parses it into r.PostForm.
func parseForm(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	return r.ParseForm()
}

// ParseTransactionForm extracts a transaction from submitted form values.
// Values are sanitized but not validated; the store owns validation.
func ParseTransactionForm(form url.Values) services.TransactionInput {
	return services.TransactionInput{
		Amount:   strings.TrimSpace(form.Get("amount")),
		Category: sanitizeInput(form.Get("category")),
		Date:     strings.TrimSpace(form.Get("date")),
		Note:     sanitizeInput(form.Get("note")),
		Type:     strings.TrimSpace(form.Get("type")),
	}
}

// FormType picks the transaction type preselected by the add form. Anything
// other than a recognizable type falls back to expense.
func FormType(query url.Values) core.TransactionType {
	t, err := core.ParseTransactionType(query.Get("type"))
	if err != nil {
		return core.Expense
	}
	return t
}

// sanitizeInput removes control characters except tab, newline and carriage
// return, and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != '\t' && r != '\n' && r != '\r' {
			return -1
		}
		return r
	}, s)
}
