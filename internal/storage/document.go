package storage

import (
	"bytes"
	"encoding/json"
	"fmt"

	"budgetbuddy/internal/core"

	"github.com/shopspring/decimal"
)

// LoadStatus tells how a persisted document was turned into a BudgetState.
type LoadStatus int

const (
	// LoadOK means the document was complete.
	LoadOK LoadStatus = iota
	// LoadDefaulted means budget_limit was absent and the default was injected.
	LoadDefaulted
	// LoadMissing means nothing was persisted yet.
	LoadMissing
	// LoadCorrupt means the document could not be parsed.
	LoadCorrupt
)

func (s LoadStatus) String() string {
	switch s {
	case LoadOK:
		return "ok"
	case LoadDefaulted:
		return "defaulted"
	case LoadMissing:
		return "missing"
	case LoadCorrupt:
		return "corrupt"
	default:
		return fmt.Sprintf("LoadStatus(%d)", int(s))
	}
}

// document is the on-disk layout. Field names are a compatibility contract
// with any external tooling reading the file.
type document struct {
	Transactions []transactionRecord `json:"transactions"`
	BudgetLimit  *json.Number        `json:"budget_limit,omitempty"`
}

type transactionRecord struct {
	Amount   json.Number `json:"amount"`
	Category string      `json:"category"`
	Date     string      `json:"date"`
	Note     string      `json:"note"`
	Type     string      `json:"type"`
	ID       int         `json:"id"`
}

// DecodeState parses a persisted document and fills in defaults. It is pure:
// callers decide whether a LoadDefaulted document must be written back.
// A nil or empty input yields LoadMissing.
func DecodeState(data []byte) (core.BudgetState, LoadStatus, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return core.NewBudgetState(), LoadMissing, nil
	}

	var doc document
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return core.NewBudgetState(), LoadCorrupt, fmt.Errorf("decode document: %w", err)
	}

	state := core.NewBudgetState()
	status := LoadOK

	if doc.BudgetLimit == nil {
		status = LoadDefaulted
	} else {
		limit, err := decimal.NewFromString(doc.BudgetLimit.String())
		if err != nil {
			return core.NewBudgetState(), LoadCorrupt, fmt.Errorf("decode budget_limit: %w", err)
		}
		state.BudgetLimit = limit
	}

	for i, rec := range doc.Transactions {
		amount, err := decimal.NewFromString(rec.Amount.String())
		if err != nil {
			return core.NewBudgetState(), LoadCorrupt, fmt.Errorf("decode transaction %d amount: %w", i, err)
		}
		state.Transactions = append(state.Transactions, core.Transaction{
			ID:       rec.ID,
			Amount:   amount,
			Category: rec.Category,
			Date:     rec.Date,
			Note:     rec.Note,
			Type:     core.TransactionType(rec.Type),
		})
	}

	return state, status, nil
}

// EncodeState renders the full document with a four-space indent.
func EncodeState(state core.BudgetState) ([]byte, error) {
	limit := json.Number(state.BudgetLimit.String())
	doc := document{
		Transactions: make([]transactionRecord, 0, len(state.Transactions)),
		BudgetLimit:  &limit,
	}
	for _, t := range state.Transactions {
		doc.Transactions = append(doc.Transactions, transactionRecord{
			Amount:   json.Number(t.Amount.String()),
			Category: t.Category,
			Date:     t.Date,
			Note:     t.Note,
			Type:     string(t.Type),
			ID:       t.ID,
		})
	}

	data, err := json.MarshalIndent(doc, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return data, nil
}
