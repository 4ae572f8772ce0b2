package memory

import (
	"context"
	"fmt"
	"sync"

	"household/internal/sheets"
)

// Ledger keeps appended rows in process memory. It backs the ledger worker
// when no spreadsheet is configured, and tests.
type Ledger struct {
	mu      sync.Mutex
	entries []sheets.LedgerEntry
}

var _ sheets.LedgerWriter = (*Ledger)(nil)

func New() *Ledger {
	return &Ledger{}
}

// Append stores the entry and returns a synthetic row reference.
func (l *Ledger) Append(_ context.Context, e sheets.LedgerEntry) (string, error) {
	if err := e.Validate(); err != nil {
		return "", err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, e)
	return fmt.Sprintf("mem:%d", len(l.entries)), nil
}

// Entries returns a copy of every appended row in order.
func (l *Ledger) Entries() []sheets.LedgerEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]sheets.LedgerEntry(nil), l.entries...)
}
