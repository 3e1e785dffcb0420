package google

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"budgetbuddy/internal/core"

	"github.com/shopspring/decimal"
	goption "google.golang.org/api/option"
)

// fakeSheets emulates the subset of the Sheets values API the client uses.
type fakeSheets struct {
	mu      sync.Mutex
	rows    [][]any
	appends []string
	updates []string
}

func (f *fakeSheets) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, ":append"):
		var body struct {
			Values [][]any `json:"values"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f.rows = append(f.rows, body.Values...)
		f.appends = append(f.appends, r.URL.Query().Get("valueInputOption"))
		json.NewEncoder(w).Encode(map[string]any{
			"updates": map[string]any{"updatedRange": "'Transactions'!A2:F2"},
		})

	case r.Method == http.MethodPut:
		io.Copy(io.Discard, r.Body)
		f.updates = append(f.updates, r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{})

	case r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "!F:F"):
		values := make([][]any, 0, len(f.rows))
		for _, row := range f.rows {
			if len(row) >= 6 {
				values = append(values, []any{row[5]})
			}
		}
		json.NewEncoder(w).Encode(map[string]any{"values": values})

	case r.Method == http.MethodGet:
		json.NewEncoder(w).Encode(map[string]any{})

	default:
		http.NotFound(w, r)
	}
}

func newTestClient(t *testing.T, fake *fakeSheets) *Client {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	c, err := New(context.Background(), "sheet-id", "Transactions",
		goption.WithEndpoint(srv.URL+"/"),
		goption.WithHTTPClient(srv.Client()),
		goption.WithoutAuthentication(),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestNewRequiresSpreadsheetID(t *testing.T) {
	if _, err := New(context.Background(), "  ", "Transactions"); err == nil {
		t.Fatal("expected error for missing spreadsheet id")
	}
}

func TestNewRequiresCredentials(t *testing.T) {
	t.Setenv("GOOGLE_SERVICE_ACCOUNT_JSON", "")
	t.Setenv("GOOGLE_SERVICE_ACCOUNT_FILE", "")
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")

	_, err := New(context.Background(), "sheet-id", "")
	if err == nil || !strings.Contains(err.Error(), "missing service account credentials") {
		t.Fatalf("expected credentials error, got %v", err)
	}
}

func TestAppendTransactionAndMirroredIDs(t *testing.T) {
	fake := &fakeSheets{}
	c := newTestClient(t, fake)
	ctx := context.Background()

	for i, amount := range []string{"500", "1000"} {
		ref, err := c.AppendTransaction(ctx, core.Transaction{
			ID: i + 1, Amount: decimal.RequireFromString(amount), Category: "food",
			Date: "2024-01-05", Type: core.Expense,
		})
		if err != nil {
			t.Fatalf("AppendTransaction: %v", err)
		}
		if ref != "'Transactions'!A2:F2" {
			t.Errorf("unexpected ref %q", ref)
		}
	}

	if len(fake.rows) != 2 || fake.rows[1][3] != "1000.00" {
		t.Fatalf("unexpected rows %v", fake.rows)
	}
	if fake.appends[0] != "USER_ENTERED" {
		t.Errorf("valueInputOption = %q", fake.appends[0])
	}

	ids, err := c.MirroredIDs(ctx)
	if err != nil {
		t.Fatalf("MirroredIDs: %v", err)
	}
	if !ids[1] || !ids[2] || len(ids) != 2 {
		t.Fatalf("unexpected ids %v", ids)
	}
}

func TestEnsureHeaderWritesOnEmptySheet(t *testing.T) {
	fake := &fakeSheets{}
	c := newTestClient(t, fake)

	if err := c.EnsureHeader(context.Background()); err != nil {
		t.Fatalf("EnsureHeader: %v", err)
	}
	if len(fake.updates) != 1 {
		t.Fatalf("expected one header write, got %d", len(fake.updates))
	}
}

func TestClientWithoutService(t *testing.T) {
	c := &Client{spreadsheetID: "test", sheetName: "Transactions"}
	if _, err := c.AppendTransaction(context.Background(), core.Transaction{ID: 1}); err == nil {
		t.Fatal("expected error without service")
	}
	if _, err := c.MirroredIDs(context.Background()); err == nil {
		t.Fatal("expected error without service")
	}
}

func TestA1Range(t *testing.T) {
	tests := []struct {
		sheet, cells, want string
	}{
		{"Transactions", "A:F", "'Transactions'!A:F"},
		{"My Budget", "F:F", "'My Budget'!F:F"},
		{"Bob's", "A1:F1", "'Bob''s'!A1:F1"},
	}
	for _, tt := range tests {
		if got := a1Range(tt.sheet, tt.cells); got != tt.want {
			t.Errorf("a1Range(%q, %q) = %q, want %q", tt.sheet, tt.cells, got, tt.want)
		}
	}
}
