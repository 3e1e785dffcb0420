package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"budgetbuddy/internal/amqp"
	"budgetbuddy/internal/cache"
	"budgetbuddy/internal/core"
	"budgetbuddy/internal/storage"
	"budgetbuddy/internal/storage/memory"
)

type fakePublisher struct {
	mu     sync.Mutex
	events []*amqp.BudgetEvent
	err    error
	closed bool
}

func (p *fakePublisher) Publish(_ context.Context, e *amqp.BudgetEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, e)
	return nil
}

func (p *fakePublisher) Close() error {
	p.closed = true
	return nil
}

type fakeCloser struct{ err error }

func (c *fakeCloser) Close() error { return c.err }

func newTestService(opts ...Option) (*BudgetService, *memory.Blob) {
	blob := memory.New()
	svc := NewBudgetService(storage.NewStore(blob), opts...)
	svc.EnsureInitialized(context.Background())
	return svc, blob
}

func TestAddTransactionPublishesEvent(t *testing.T) {
	pub := &fakePublisher{}
	svc, _ := newTestService(WithPublisher(pub))

	tx, err := svc.AddTransaction(context.Background(), TransactionInput{
		Amount: "500", Category: "food", Date: "2024-01-05", Note: "lunch", Type: "expense",
	})
	if err != nil {
		t.Fatalf("AddTransaction: %v", err)
	}
	if tx.ID != 1 || tx.Type != core.Expense {
		t.Fatalf("unexpected transaction %+v", tx)
	}
	if len(pub.events) != 1 || pub.events[0].Event != amqp.EventTransactionRecorded {
		t.Fatalf("expected one transaction.recorded event, got %+v", pub.events)
	}
	if pub.events[0].Transaction.ID != 1 {
		t.Fatalf("event carries wrong transaction %+v", pub.events[0].Transaction)
	}
}

func TestAddTransactionInvalidInput(t *testing.T) {
	pub := &fakePublisher{}
	svc, blob := newTestService(WithPublisher(pub))
	writes := blob.Writes()

	_, err := svc.AddTransaction(context.Background(), TransactionInput{Amount: "abc", Type: "expense", Date: "2024-01-05"})
	if !errors.Is(err, core.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if blob.Writes() != writes {
		t.Fatal("invalid input must not be persisted")
	}
	if len(pub.events) != 0 {
		t.Fatal("invalid input must not be published")
	}
}

func TestPublishFailureDoesNotFailWrite(t *testing.T) {
	pub := &fakePublisher{err: errors.New("broker down")}
	svc, _ := newTestService(WithPublisher(pub))

	limit, err := svc.SetBudgetLimit(context.Background(), "1500")
	if err != nil {
		t.Fatalf("SetBudgetLimit should succeed when publish fails: %v", err)
	}
	if limit.String() != "1500" {
		t.Fatalf("limit = %s", limit)
	}
	if got := svc.Summary(context.Background()).BudgetLimit.String(); got != "1500" {
		t.Fatalf("persisted limit = %s", got)
	}
}

func TestSummaryCacheInvalidatedOnWrite(t *testing.T) {
	summaries := cache.NewLRUCache[core.SummaryView](4, time.Hour)
	svc, _ := newTestService(WithSummaryCache(summaries))
	ctx := context.Background()

	if got := svc.Summary(ctx); len(got.Transactions) != 0 {
		t.Fatalf("expected empty summary, got %d transactions", len(got.Transactions))
	}
	if summaries.Size() != 1 {
		t.Fatal("summary should be cached after first read")
	}

	if _, err := svc.AddTransaction(ctx, TransactionInput{Amount: "1000", Date: "2024-02-01", Type: "income"}); err != nil {
		t.Fatalf("AddTransaction: %v", err)
	}
	got := svc.Summary(ctx)
	if len(got.Transactions) != 1 || got.TotalIncome.String() != "1000" {
		t.Fatalf("stale summary after write: %+v", got)
	}

	if _, err := svc.SetBudgetLimit(ctx, "750"); err != nil {
		t.Fatalf("SetBudgetLimit: %v", err)
	}
	if got := svc.Summary(ctx).BudgetLimit.String(); got != "750" {
		t.Fatalf("stale budget limit %s", got)
	}
}

// gatedCache pauses the first Set until released.
type gatedCache struct {
	*cache.LRUCache[core.SummaryView]
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func (c *gatedCache) Set(key string, view core.SummaryView) {
	c.once.Do(func() {
		close(c.entered)
		<-c.release
	})
	c.LRUCache.Set(key, view)
}

func TestSummaryCacheWriteDuringSet(t *testing.T) {
	summaries := &gatedCache{
		LRUCache: cache.NewLRUCache[core.SummaryView](4, time.Hour),
		entered:  make(chan struct{}),
		release:  make(chan struct{}),
	}
	svc, _ := newTestService(WithSummaryCache(summaries))
	ctx := context.Background()

	readDone := make(chan struct{})
	go func() {
		defer close(readDone)
		svc.Summary(ctx)
	}()
	<-summaries.entered

	addDone := make(chan error, 1)
	go func() {
		_, err := svc.AddTransaction(ctx, TransactionInput{Amount: "40", Date: "2024-02-01", Type: "expense"})
		addDone <- err
	}()
	// The write must not finish its invalidation while the old view is
	// still being stored.
	select {
	case err := <-addDone:
		t.Fatalf("write completed while a stale Set was in flight (err=%v)", err)
	case <-time.After(50 * time.Millisecond):
	}
	close(summaries.release)
	<-readDone
	if err := <-addDone; err != nil {
		t.Fatalf("AddTransaction: %v", err)
	}

	if got := svc.Summary(ctx); len(got.Transactions) != 1 {
		t.Fatalf("stale summary cached across a write: %d transactions", len(got.Transactions))
	}
}

func TestDashboard(t *testing.T) {
	tests := []struct {
		name    string
		limit   string
		expense string
		wantPct float64
		want    core.SuggestionTier
	}{
		{"under half", "1000", "100", 10, core.TierSuccess},
		{"half", "1000", "500", 50, core.TierInfo},
		{"three quarters", "1000", "750", 75, core.TierWarning},
		{"critical", "1000", "950", 95, core.TierCritical},
		{"no limit", "0", "950", 0, core.TierSuccess},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestService()
			ctx := context.Background()
			if _, err := svc.SetBudgetLimit(ctx, tt.limit); err != nil {
				t.Fatalf("SetBudgetLimit: %v", err)
			}
			if _, err := svc.AddTransaction(ctx, TransactionInput{Amount: tt.expense, Date: "2024-01-01", Type: "expense"}); err != nil {
				t.Fatalf("AddTransaction: %v", err)
			}

			d := svc.Dashboard(ctx)
			if d.UsagePercent != tt.wantPct {
				t.Errorf("usage = %v, want %v", d.UsagePercent, tt.wantPct)
			}
			if d.Suggestion.Tier != tt.want {
				t.Errorf("tier = %s, want %s", d.Suggestion.Tier, tt.want)
			}
		})
	}
}

func TestReady(t *testing.T) {
	svc, _ := newTestService()
	if err := svc.Ready(context.Background()); err != nil {
		t.Fatalf("Ready: %v", err)
	}
}

func TestClose(t *testing.T) {
	t.Run("nil components", func(t *testing.T) {
		svc := NewBudgetService(nil)
		if err := svc.Close(); err != nil {
			t.Fatalf("Close should not fail without resources: %v", err)
		}
	})

	t.Run("closes publisher and storage", func(t *testing.T) {
		pub := &fakePublisher{}
		svc := NewBudgetService(nil, WithPublisher(pub), WithCloser(&fakeCloser{}))
		if err := svc.Close(); err != nil {
			t.Fatalf("Close: %v", err)
		}
		if !pub.closed {
			t.Fatal("publisher not closed")
		}
	})

	t.Run("reports closer errors", func(t *testing.T) {
		boom := errors.New("boom")
		svc := NewBudgetService(nil, WithCloser(&fakeCloser{err: boom}))
		if err := svc.Close(); !errors.Is(err, boom) {
			t.Fatalf("expected wrapped closer error, got %v", err)
		}
	})
}
