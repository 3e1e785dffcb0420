package worker

import (
	"context"
	"fmt"
	"log/slog"

	"budgetbuddy/internal/amqp"
	"budgetbuddy/internal/core"
	"budgetbuddy/internal/metrics"
	"budgetbuddy/internal/sheets"
)

// MirrorWorker copies recorded transactions into a spreadsheet.
type MirrorWorker struct {
	mirror sheets.TransactionMirror
	index  sheets.MirrorIndex
}

// NewMirrorWorker creates a worker. index may be nil, which disables
// Reconcile and duplicate suppression.
func NewMirrorWorker(mirror sheets.TransactionMirror, index sheets.MirrorIndex) *MirrorWorker {
	return &MirrorWorker{mirror: mirror, index: index}
}

// HandleEvent is the amqp.Handler for budget events. A returned error
// requeues the delivery.
func (w *MirrorWorker) HandleEvent(ctx context.Context, event *amqp.BudgetEvent) error {
	switch event.Event {
	case amqp.EventTransactionRecorded:
		return w.mirrorTransaction(ctx, *event.Transaction)
	case amqp.EventBudgetUpdated:
		slog.InfoContext(ctx, "Budget limit changed",
			"budget_limit", event.BudgetLimit.String(),
			"timestamp", event.Timestamp)
		return nil
	default:
		slog.WarnContext(ctx, "Ignoring unknown event", "event", event.Event)
		return nil
	}
}

// Reconcile appends every transaction of state that has no row yet. It
// recovers from events lost while the worker was down.
func (w *MirrorWorker) Reconcile(ctx context.Context, state core.BudgetState) error {
	if w.index == nil {
		return nil
	}

	mirrored, err := w.index.MirroredIDs(ctx)
	if err != nil {
		return fmt.Errorf("list mirrored ids: %w", err)
	}

	synced, failed := 0, 0
	for _, t := range state.Transactions {
		if mirrored[t.ID] {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := w.append(ctx, t); err != nil {
			slog.ErrorContext(ctx, "Failed to mirror transaction during reconcile", "id", t.ID, "error", err)
			failed++
			continue
		}
		synced++
	}

	slog.InfoContext(ctx, "Reconcile completed",
		"total", len(state.Transactions),
		"already_mirrored", len(state.Transactions)-synced-failed,
		"synced", synced,
		"errors", failed)
	return nil
}

func (w *MirrorWorker) mirrorTransaction(ctx context.Context, t core.Transaction) error {
	// Redelivered messages must not produce duplicate rows.
	if w.index != nil {
		mirrored, err := w.index.MirroredIDs(ctx)
		if err != nil {
			return fmt.Errorf("list mirrored ids: %w", err)
		}
		if mirrored[t.ID] {
			slog.DebugContext(ctx, "Transaction already mirrored", "id", t.ID)
			return nil
		}
	}
	return w.append(ctx, t)
}

func (w *MirrorWorker) append(ctx context.Context, t core.Transaction) error {
	ref, err := w.mirror.AppendTransaction(ctx, t)
	if err != nil {
		metrics.TransactionsMirrored.WithLabelValues("error").Inc()
		return fmt.Errorf("append transaction %d: %w", t.ID, err)
	}

	metrics.TransactionsMirrored.WithLabelValues("ok").Inc()
	slog.InfoContext(ctx, "Mirrored transaction",
		"id", t.ID,
		"type", t.Type,
		"amount", core.FormatAmount(t.Amount),
		"sheets_ref", ref)
	return nil
}
