package backend

import (
	"budgetbuddy/internal/cache"
	"budgetbuddy/internal/core"
	"budgetbuddy/internal/services"
	"budgetbuddy/internal/storage"
)

type BackendType string

const (
	FileBackend   BackendType = "file"
	MemoryBackend BackendType = "memory"
	SQLiteBackend BackendType = "sqlite"
)

func (t BackendType) IsValid() bool {
	switch t {
	case FileBackend, MemoryBackend, SQLiteBackend:
		return true
	}
	return false
}

func (t BackendType) String() string {
	return string(t)
}

// CleanupFunc releases resources acquired by the factory.
type CleanupFunc func() error

// Result is a ready-to-serve budget service over the configured blob.
type Result struct {
	Service *services.BudgetService
	Store   *storage.Store
	// SummaryCache is nil when caching is disabled.
	SummaryCache *cache.LRUCache[core.SummaryView]
	Cleanup      CleanupFunc
}
