package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"budgetbuddy/internal/amqp"
	"budgetbuddy/internal/cache"
	"budgetbuddy/internal/core"
	"budgetbuddy/internal/metrics"
	"budgetbuddy/internal/storage"

	"github.com/shopspring/decimal"
)

const summaryKey = "summary"

// EventPublisher is satisfied by *amqp.Client.
type EventPublisher interface {
	Publish(ctx context.Context, event *amqp.BudgetEvent) error
	Close() error
}

// TransactionInput carries the raw form values of a new transaction.
type TransactionInput struct {
	Amount   string
	Category string
	Date     string
	Note     string
	Type     string
}

// Dashboard is everything the landing page renders.
type Dashboard struct {
	core.SummaryView
	UsagePercent float64         `json:"usage_percent"`
	Suggestion   core.Suggestion `json:"suggestion"`
}

// BudgetService orchestrates writes to the Store with cache invalidation,
// metrics and event publishing.
type BudgetService struct {
	store     *storage.Store
	summaries cache.Cache[core.SummaryView]
	publisher EventPublisher
	closers   []io.Closer

	// bumped on every write so a summary computed before a write is not cached
	generation atomic.Uint64
	// cacheMu orders the generation check and Set against bump and Purge.
	cacheMu sync.Mutex
}

type Option func(*BudgetService)

// WithSummaryCache caches aggregated views between writes.
func WithSummaryCache(c cache.Cache[core.SummaryView]) Option {
	return func(s *BudgetService) { s.summaries = c }
}

// WithPublisher publishes budget events after each successful write.
func WithPublisher(p EventPublisher) Option {
	return func(s *BudgetService) { s.publisher = p }
}

// WithCloser registers a resource released by Close, typically the blob.
func WithCloser(c io.Closer) Option {
	return func(s *BudgetService) { s.closers = append(s.closers, c) }
}

func NewBudgetService(store *storage.Store, opts ...Option) *BudgetService {
	s := &BudgetService{store: store}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *BudgetService) EnsureInitialized(ctx context.Context) {
	s.store.EnsureInitialized(ctx)
	s.invalidate()
}

// AddTransaction validates and persists a transaction, then announces it.
func (s *BudgetService) AddTransaction(ctx context.Context, in TransactionInput) (core.Transaction, error) {
	t, err := s.store.SaveTransaction(ctx, in.Amount, in.Category, in.Date, in.Note, in.Type)
	if err != nil {
		if errors.Is(err, core.ErrInvalidInput) {
			metrics.InvalidInputs.WithLabelValues("add_transaction").Inc()
		}
		return core.Transaction{}, err
	}

	s.invalidate()
	metrics.TransactionsRecorded.WithLabelValues(t.Type.String()).Inc()
	s.publish(ctx, amqp.NewTransactionRecorded(t))
	return t, nil
}

// SetBudgetLimit validates and persists a new limit, then announces it.
func (s *BudgetService) SetBudgetLimit(ctx context.Context, raw string) (decimal.Decimal, error) {
	limit, err := s.store.SetBudgetLimit(ctx, raw)
	if err != nil {
		if errors.Is(err, core.ErrInvalidInput) {
			metrics.InvalidInputs.WithLabelValues("set_budget").Inc()
		}
		return decimal.Zero, err
	}

	s.invalidate()
	metrics.BudgetUpdates.Inc()
	s.publish(ctx, amqp.NewBudgetUpdated(limit))
	return limit, nil
}

// Summary returns the aggregated view, served from cache when fresh.
func (s *BudgetService) Summary(ctx context.Context) core.SummaryView {
	if s.summaries != nil {
		if view, ok := s.summaries.Get(summaryKey); ok {
			metrics.SummaryCacheLookups.WithLabelValues("hit").Inc()
			return view
		}
		metrics.SummaryCacheLookups.WithLabelValues("miss").Inc()
	}

	gen := s.generation.Load()
	view := s.store.Summary(ctx)
	if s.summaries != nil {
		s.cacheMu.Lock()
		if s.generation.Load() == gen {
			s.summaries.Set(summaryKey, view)
		}
		s.cacheMu.Unlock()
	}
	return view
}

func (s *BudgetService) Dashboard(ctx context.Context) Dashboard {
	view := s.Summary(ctx)
	pct := core.UsagePercent(view.TotalExpense, view.BudgetLimit)
	return Dashboard{
		SummaryView:  view,
		UsagePercent: pct,
		Suggestion:   core.SuggestionFor(pct),
	}
}

// Ready reports whether the budget document can be read.
func (s *BudgetService) Ready(ctx context.Context) error {
	_, err := s.store.Inspect(ctx)
	return err
}

func (s *BudgetService) invalidate() {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	s.generation.Add(1)
	if s.summaries != nil {
		s.summaries.Purge()
	}
}

func (s *BudgetService) publish(ctx context.Context, event *amqp.BudgetEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		metrics.EventsPublished.WithLabelValues(string(event.Event), "error").Inc()
		slog.ErrorContext(ctx, "Failed to publish budget event", "event", event.Event, "error", err)
		return
	}
	metrics.EventsPublished.WithLabelValues(string(event.Event), "ok").Inc()
}

// Close releases the publisher and every registered closer.
func (s *BudgetService) Close() error {
	var errs []error
	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}
	for _, c := range s.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close budget service: %w", errors.Join(errs...))
	}
	return nil
}
