// Package sheets declares the spreadsheet ledger that records paid bills.
// Implementations live in sheets/google and sheets/memory.
package sheets

import (
	"context"
	"errors"
	"strings"
	"time"

	"household/internal/core"
)

// LedgerEntry is one paid bill as written to the ledger.
type LedgerEntry struct {
	RecordID string
	Name     string
	Category string
	Amount   core.Money
	DueDate  core.Date
	PaidAt   time.Time
}

// Validate checks the fields every ledger row needs.
func (e LedgerEntry) Validate() error {
	if strings.TrimSpace(e.RecordID) == "" {
		return errors.New("ledger entry missing record id")
	}
	if strings.TrimSpace(e.Name) == "" {
		return core.ErrEmptyName
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if e.PaidAt.IsZero() {
		return errors.New("ledger entry missing payment time")
	}
	return nil
}

// Ports for outbound adapters.
type (
	LedgerWriter interface {
		// Append writes one row and returns a reference to it.
		Append(ctx context.Context, e LedgerEntry) (rowRef string, err error)
	}
)
