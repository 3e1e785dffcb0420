package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"budgetbuddy/internal/core"

	"github.com/shopspring/decimal"
)

type EventType string

const (
	EventTransactionRecorded EventType = "transaction.recorded"
	EventBudgetUpdated       EventType = "budget.updated"
)

// BudgetEvent is published after every successful write to the budget document.
// Exactly one of Transaction or BudgetLimit is set, depending on Event.
type BudgetEvent struct {
	Event       EventType         `json:"event"`
	Transaction *core.Transaction `json:"transaction,omitempty"`
	BudgetLimit *decimal.Decimal  `json:"budget_limit,omitempty"`
	Timestamp   time.Time         `json:"timestamp"`
}

func NewTransactionRecorded(tx core.Transaction) *BudgetEvent {
	return &BudgetEvent{
		Event:       EventTransactionRecorded,
		Transaction: &tx,
		Timestamp:   time.Now().UTC(),
	}
}

func NewBudgetUpdated(limit decimal.Decimal) *BudgetEvent {
	return &BudgetEvent{
		Event:       EventBudgetUpdated,
		BudgetLimit: &limit,
		Timestamp:   time.Now().UTC(),
	}
}

func (e *BudgetEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// BudgetEventFromJSON decodes a message body and checks that the payload
// matches the event kind.
func BudgetEventFromJSON(data []byte) (*BudgetEvent, error) {
	var e BudgetEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	switch e.Event {
	case EventTransactionRecorded:
		if e.Transaction == nil {
			return nil, fmt.Errorf("%s event without transaction", e.Event)
		}
	case EventBudgetUpdated:
		if e.BudgetLimit == nil {
			return nil, fmt.Errorf("%s event without budget_limit", e.Event)
		}
	default:
		return nil, fmt.Errorf("unknown event %q", e.Event)
	}
	return &e, nil
}
