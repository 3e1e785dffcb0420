package sheets

import (
	"context"

	"budgetbuddy/internal/core"
)

// Ports for outbound spreadsheet adapters.
type (
	// TransactionMirror appends one row per recorded transaction.
	TransactionMirror interface {
		AppendTransaction(ctx context.Context, t core.Transaction) (rowRef string, err error)
	}

	// MirrorIndex reports which transaction ids already have a row, so a
	// reconcile pass can append only the missing ones.
	MirrorIndex interface {
		MirroredIDs(ctx context.Context) (map[int]bool, error)
	}
)
