package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"household/internal/amqp"
	"household/internal/core"
	"household/internal/metrics"
	"household/internal/sheets"
)

// Event outcomes reported to metrics.
const (
	outcomeOK      = "ok"
	outcomeSkipped = "skipped"
	outcomeError   = "error"
)

// BillGetter looks a bill up by id. ports.Store implements it.
type BillGetter interface {
	GetBill(ctx context.Context, id string) (core.Bill, error)
}

// LedgerWorker copies paid bills from record events into the spreadsheet
// ledger.
type LedgerWorker struct {
	bills   BillGetter
	ledger  sheets.LedgerWriter
	metrics *metrics.Metrics

	mu sync.Mutex
	// Bills already written, so redelivered events do not add a second row.
	// An unpaid event clears the entry.
	written map[string]string
}

// NewLedgerWorker creates the worker. bills may be nil, in which case the
// event payload is trusted as is. m may be nil.
func NewLedgerWorker(bills BillGetter, ledger sheets.LedgerWriter, m *metrics.Metrics) *LedgerWorker {
	return &LedgerWorker{
		bills:   bills,
		ledger:  ledger,
		metrics: m,
		written: make(map[string]string),
	}
}

// HandleRecordEvent processes a single record event from AMQP. Only paid
// bills reach the ledger; every other kind is acknowledged and skipped.
func (w *LedgerWorker) HandleRecordEvent(ctx context.Context, ev *amqp.RecordEvent) error {
	if ev == nil {
		return errors.New("nil record event")
	}
	kind := string(ev.Kind)

	switch ev.Kind {
	case amqp.EventBillPaid:
	case amqp.EventBillUnpaid:
		w.forget(ev.RecordID)
		w.metrics.EventHandled(kind, outcomeSkipped)
		return nil
	default:
		slog.DebugContext(ctx, "Skipping record event", "kind", ev.Kind, "record_id", ev.RecordID)
		w.metrics.EventHandled(kind, outcomeSkipped)
		return nil
	}

	if ref, done := w.alreadyWritten(ev.RecordID); done {
		slog.InfoContext(ctx, "Bill already in ledger, skipping",
			"record_id", ev.RecordID, "ledger_ref", ref)
		w.metrics.EventHandled(kind, outcomeSkipped)
		return nil
	}

	entry, ok, err := w.entryFor(ctx, ev)
	if err != nil {
		w.metrics.EventHandled(kind, outcomeError)
		return err
	}
	if !ok {
		w.metrics.EventHandled(kind, outcomeSkipped)
		return nil
	}

	ref, err := w.ledger.Append(ctx, entry)
	if err != nil {
		w.metrics.EventHandled(kind, outcomeError)
		if errors.Is(err, core.ErrInvalidArgument) {
			// Invalid entries are dropped, not requeued.
			slog.WarnContext(ctx, "Dropping invalid ledger entry",
				"record_id", ev.RecordID, "error", err)
			return nil
		}
		return fmt.Errorf("append to ledger: %w", err)
	}
	w.remember(ev.RecordID, ref)
	w.metrics.EventHandled(kind, outcomeOK)

	slog.InfoContext(ctx, "Bill recorded in ledger",
		"record_id", entry.RecordID,
		"ledger_ref", ref,
		"name", entry.Name,
		"amount_cents", entry.Amount.Cents)
	return nil
}

// entryFor builds the ledger row. With a store it re-reads the bill so a
// bill unpaid again before the event arrived is not recorded.
func (w *LedgerWorker) entryFor(ctx context.Context, ev *amqp.RecordEvent) (sheets.LedgerEntry, bool, error) {
	paidAt := ev.Timestamp
	if paidAt.IsZero() {
		paidAt = time.Now()
	}

	if w.bills == nil {
		due, err := core.ParseDate(ev.DueDate)
		if err != nil && ev.DueDate != "" {
			return sheets.LedgerEntry{}, false, fmt.Errorf("parse due date: %w", err)
		}
		return sheets.LedgerEntry{
			RecordID: ev.RecordID,
			Name:     ev.Name,
			Category: ev.Category,
			Amount:   core.Cents(ev.AmountCents),
			DueDate:  due,
			PaidAt:   paidAt,
		}, true, nil
	}

	b, err := w.bills.GetBill(ctx, ev.RecordID)
	if errors.Is(err, core.ErrNotFound) {
		slog.WarnContext(ctx, "Paid bill no longer exists, skipping", "record_id", ev.RecordID)
		return sheets.LedgerEntry{}, false, nil
	}
	if err != nil {
		return sheets.LedgerEntry{}, false, fmt.Errorf("get bill from storage: %w", err)
	}
	if !b.Paid {
		slog.InfoContext(ctx, "Bill was unpaid again, skipping", "record_id", b.ID)
		return sheets.LedgerEntry{}, false, nil
	}
	return sheets.LedgerEntry{
		RecordID: b.ID,
		Name:     b.Name,
		Category: string(b.Category),
		Amount:   b.Amount,
		DueDate:  b.DueDate,
		PaidAt:   paidAt,
	}, true, nil
}

func (w *LedgerWorker) alreadyWritten(id string) (string, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	ref, ok := w.written[id]
	return ref, ok
}

func (w *LedgerWorker) remember(id, ref string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.written[id] = ref
}

func (w *LedgerWorker) forget(id string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.written, id)
}
