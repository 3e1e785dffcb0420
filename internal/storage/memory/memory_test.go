package memory

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"budgetbuddy/internal/storage"
)

func TestBlobReadWrite(t *testing.T) {
	b := New()
	if _, err := b.Read(context.Background()); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on empty blob, got %v", err)
	}

	in := []byte(`{"transactions": [], "budget_limit": 10}`)
	if err := b.Write(context.Background(), in); err != nil {
		t.Fatalf("write: %v", err)
	}
	in[0] = 'X' // caller mutation must not leak into the blob

	got, err := b.Read(context.Background())
	if err != nil || got[0] != '{' {
		t.Fatalf("unexpected read: %q err=%v", got, err)
	}
	got[0] = 'Y'
	again, _ := b.Read(context.Background())
	if again[0] != '{' {
		t.Fatalf("read returned shared buffer")
	}
	if b.Writes() != 1 {
		t.Fatalf("writes = %d", b.Writes())
	}
}

func TestNewFromFile(t *testing.T) {
	dir := t.TempDir()

	// Missing file -> empty blob
	b := NewFromFile(filepath.Join(dir, "missing.json"))
	if _, err := b.Read(context.Background()); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected empty blob for missing seed, got %v", err)
	}

	seed := filepath.Join(dir, "seed.json")
	if err := os.WriteFile(seed, []byte(`{"transactions": []}`), 0o644); err != nil {
		t.Fatalf("write seed: %v", err)
	}
	b = NewFromFile(seed)
	got, err := b.Read(context.Background())
	if err != nil || string(got) != `{"transactions": []}` {
		t.Fatalf("unexpected seeded content %q err=%v", got, err)
	}
}

func TestBlobBehindStore(t *testing.T) {
	b := New()
	s := storage.NewStore(b)
	s.EnsureInitialized(context.Background())
	if b.Writes() != 1 {
		t.Fatalf("expected initialization write, got %d", b.Writes())
	}
	if _, err := s.SaveTransaction(context.Background(), "12", "food", "2024-01-02", "", "expense"); err != nil {
		t.Fatalf("save: %v", err)
	}
	if got := s.Load(context.Background()); len(got.Transactions) != 1 {
		t.Fatalf("expected one transaction, got %d", len(got.Transactions))
	}
}
