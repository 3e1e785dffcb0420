// Package memory provides an in-process storage.Blob, used for demos and
// tests. Nothing survives a restart.
package memory

import (
	"context"
	"os"
	"sync"

	"budgetbuddy/internal/storage"
)

type Blob struct {
	mu     sync.Mutex
	data   []byte
	writes int
}

// New returns an empty blob; the first Read reports storage.ErrNotFound.
func New() *Blob {
	return &Blob{}
}

// NewWithDocument returns a blob already holding data.
func NewWithDocument(data []byte) *Blob {
	return &Blob{data: append([]byte(nil), data...)}
}

// NewFromFile seeds the blob from a document on disk. A missing or
// unreadable seed file yields an empty blob.
func NewFromFile(path string) *Blob {
	if path == "" {
		return New()
	}
	data, err := os.ReadFile(path)
	if err != nil || len(data) == 0 {
		return New()
	}
	return NewWithDocument(data)
}

func (b *Blob) Read(_ context.Context) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.data == nil {
		return nil, storage.ErrNotFound
	}
	return append([]byte(nil), b.data...), nil
}

func (b *Blob) Write(_ context.Context, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data = append(make([]byte, 0, len(data)), data...)
	b.writes++
	return nil
}

// Writes returns how many times the document was replaced.
func (b *Blob) Writes() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.writes
}
