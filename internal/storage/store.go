package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"budgetbuddy/internal/core"
	"budgetbuddy/internal/metrics"

	"github.com/shopspring/decimal"
)

// LoadResult distinguishes an empty state that was read from one that was
// substituted because nothing, or nothing readable, was persisted.
type LoadResult struct {
	State  core.BudgetState
	Status LoadStatus
	// Err carries the decode error when Status is LoadCorrupt.
	Err error
}

// Store is the sole owner of the persisted BudgetState. Every mutation is a
// full read-modify-write of the document, serialized by mu. Writers in other
// processes are not coordinated.
type Store struct {
	mu   sync.Mutex
	blob Blob
}

func NewStore(blob Blob) *Store {
	return &Store{blob: blob}
}

// EnsureInitialized creates the document when missing and persists the
// default budget limit when absent. It never fails: problems are logged and a
// corrupt document is left untouched.
func (s *Store) EnsureInitialized(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.inspect(ctx)
	if err != nil {
		slog.WarnContext(ctx, "Store initialization skipped, document unreadable", "error", err)
		return
	}

	switch res.Status {
	case LoadMissing:
		if err := s.write(ctx, core.NewBudgetState()); err != nil {
			slog.WarnContext(ctx, "Failed to create budget document", "error", err)
			return
		}
		slog.InfoContext(ctx, "Created budget document", "budget_limit", core.DefaultBudgetLimit.String())
	case LoadDefaulted:
		if err := s.write(ctx, res.State); err != nil {
			slog.WarnContext(ctx, "Failed to persist default budget limit", "error", err)
			return
		}
		slog.InfoContext(ctx, "Persisted default budget limit", "budget_limit", res.State.BudgetLimit.String())
	case LoadCorrupt:
		slog.WarnContext(ctx, "Budget document is corrupt, leaving it untouched", "error", res.Err)
	}
}

// Inspect reads the document and reports how it was interpreted. The error
// is non-nil only when the blob itself could not be read.
func (s *Store) Inspect(ctx context.Context) (LoadResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inspect(ctx)
}

// Load returns the persisted state, or a fresh empty state when the document
// is missing, unreadable or corrupt. The dashboard must always render.
func (s *Store) Load(ctx context.Context) core.BudgetState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// SetBudgetLimit parses raw and overwrites the budget limit.
func (s *Store) SetBudgetLimit(ctx context.Context, raw string) (decimal.Decimal, error) {
	limit, err := core.ParseBudgetLimit(raw)
	if err != nil {
		return decimal.Zero, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.load(ctx)
	state.BudgetLimit = limit
	if err := s.write(ctx, state); err != nil {
		return decimal.Zero, fmt.Errorf("save budget limit: %w", err)
	}

	slog.InfoContext(ctx, "Budget limit saved", "budget_limit", limit.String())
	return limit, nil
}

// SaveTransaction parses the raw form values and appends a new transaction
// whose id is the number of existing transactions plus one.
func (s *Store) SaveTransaction(ctx context.Context, rawAmount, category, date, note, rawType string) (core.Transaction, error) {
	amount, err := core.ParseAmount(rawAmount)
	if err != nil {
		return core.Transaction{}, err
	}
	typ, err := core.ParseTransactionType(rawType)
	if err != nil {
		return core.Transaction{}, err
	}
	date = strings.TrimSpace(date)
	if err := core.ValidateDate(date); err != nil {
		return core.Transaction{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.load(ctx)
	t := core.Transaction{
		ID:       len(state.Transactions) + 1,
		Amount:   amount,
		Category: category,
		Date:     date,
		Note:     note,
		Type:     typ,
	}
	state.Transactions = append(state.Transactions, t)

	if err := s.write(ctx, state); err != nil {
		return core.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved",
		"id", t.ID,
		"type", t.Type,
		"amount", t.Amount.String(),
		"category", t.Category,
		"date", t.Date)
	return t, nil
}

// Summary aggregates the current state.
func (s *Store) Summary(ctx context.Context) core.SummaryView {
	return core.Summarize(s.Load(ctx))
}

func (s *Store) inspect(ctx context.Context) (LoadResult, error) {
	data, err := s.blob.Read(ctx)
	if errors.Is(err, ErrNotFound) {
		return LoadResult{State: core.NewBudgetState(), Status: LoadMissing}, nil
	}
	if err != nil {
		return LoadResult{State: core.NewBudgetState(), Status: LoadCorrupt, Err: err}, fmt.Errorf("read document: %w", err)
	}

	state, status, err := DecodeState(data)
	return LoadResult{State: state, Status: status, Err: err}, nil
}

func (s *Store) load(ctx context.Context) core.BudgetState {
	res, err := s.inspect(ctx)
	if err != nil {
		metrics.StoreLoadFallbacks.WithLabelValues("unreadable").Inc()
		slog.WarnContext(ctx, "Budget document unreadable, using empty state", "error", err)
		return core.NewBudgetState()
	}
	if res.Status == LoadCorrupt {
		metrics.StoreLoadFallbacks.WithLabelValues(res.Status.String()).Inc()
		slog.WarnContext(ctx, "Budget document corrupt, using empty state", "error", res.Err)
		return core.NewBudgetState()
	}
	return res.State
}

func (s *Store) write(ctx context.Context, state core.BudgetState) error {
	data, err := EncodeState(state)
	if err != nil {
		return err
	}
	return s.blob.Write(ctx, data)
}
