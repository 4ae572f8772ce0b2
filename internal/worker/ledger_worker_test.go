package worker

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"household/internal/amqp"
	"household/internal/core"
	"household/internal/memory"
	"household/internal/metrics"
	"household/internal/sheets"
	sheetsmem "household/internal/sheets/memory"
)

type failingLedger struct{ err error }

func (f failingLedger) Append(context.Context, sheets.LedgerEntry) (string, error) {
	return "", f.err
}

func seededStore(t *testing.T, paid bool) (*memory.Store, core.Bill) {
	t.Helper()
	store := memory.New()
	b, err := core.NewBill("Electricity", core.Cents(12550), core.NewDate(2025, 5, 20), true, core.CategoryUtilities)
	require.NoError(t, err)
	require.NoError(t, store.AddBill(context.Background(), b))
	if paid {
		b, err = store.SetBillPaid(context.Background(), b.ID, true)
		require.NoError(t, err)
	}
	return store, b
}

func paidEvent(b core.Bill) *amqp.RecordEvent {
	ev := amqp.NewBillEvent(amqp.EventBillPaid, b)
	ev.Timestamp = time.Date(2025, 5, 18, 9, 0, 0, 0, time.UTC)
	return ev
}

func scrape(t *testing.T, m *metrics.Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	return rec.Body.String()
}

func TestHandleRecordEventAppendsPaidBill(t *testing.T) {
	store, b := seededStore(t, true)
	ledger := sheetsmem.New()
	m := metrics.New()
	w := NewLedgerWorker(store, ledger, m)

	require.NoError(t, w.HandleRecordEvent(context.Background(), paidEvent(b)))

	entries := ledger.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, sheets.LedgerEntry{
		RecordID: b.ID,
		Name:     "Electricity",
		Category: "utilities",
		Amount:   core.Cents(12550),
		DueDate:  core.NewDate(2025, 5, 20),
		PaidAt:   time.Date(2025, 5, 18, 9, 0, 0, 0, time.UTC),
	}, entries[0])
	assert.Contains(t, scrape(t, m), `household_record_events_total{kind="bill_paid",outcome="ok"} 1`)
}

func TestHandleRecordEventIgnoresRedelivery(t *testing.T) {
	store, b := seededStore(t, true)
	ledger := sheetsmem.New()
	m := metrics.New()
	w := NewLedgerWorker(store, ledger, m)
	ctx := context.Background()

	require.NoError(t, w.HandleRecordEvent(ctx, paidEvent(b)))
	require.NoError(t, w.HandleRecordEvent(ctx, paidEvent(b)))
	assert.Len(t, ledger.Entries(), 1)
	assert.Contains(t, scrape(t, m), `household_record_events_total{kind="bill_paid",outcome="skipped"} 1`)

	// Unpaid then paid again is a new payment.
	require.NoError(t, w.HandleRecordEvent(ctx, amqp.NewBillEvent(amqp.EventBillUnpaid, b)))
	require.NoError(t, w.HandleRecordEvent(ctx, paidEvent(b)))
	assert.Len(t, ledger.Entries(), 2)
}

func TestHandleRecordEventSkips(t *testing.T) {
	unpaidStore, unpaid := seededStore(t, false)

	tests := []struct {
		name  string
		bills BillGetter
		event *amqp.RecordEvent
	}{
		{
			name:  "task event",
			bills: unpaidStore,
			event: &amqp.RecordEvent{Kind: amqp.EventTaskCompleted, RecordID: "t1", Name: "Mow"},
		},
		{
			name:  "bill added",
			bills: unpaidStore,
			event: amqp.NewBillEvent(amqp.EventBillAdded, unpaid),
		},
		{
			name:  "bill unpaid again before delivery",
			bills: unpaidStore,
			event: paidEvent(unpaid),
		},
		{
			name:  "bill deleted",
			bills: memory.New(),
			event: paidEvent(unpaid),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ledger := sheetsmem.New()
			w := NewLedgerWorker(tt.bills, ledger, nil)
			require.NoError(t, w.HandleRecordEvent(context.Background(), tt.event))
			assert.Empty(t, ledger.Entries())
		})
	}
}

func TestHandleRecordEventWithoutStoreTrustsPayload(t *testing.T) {
	ledger := sheetsmem.New()
	w := NewLedgerWorker(nil, ledger, nil)

	ev := &amqp.RecordEvent{
		Kind:        amqp.EventBillPaid,
		RecordID:    "b9",
		Name:        "Rent",
		AmountCents: 150000,
		DueDate:     "2025-06-01",
		Category:    "housing",
		Timestamp:   time.Date(2025, 5, 30, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, w.HandleRecordEvent(context.Background(), ev))

	entries := ledger.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "Rent", entries[0].Name)
	assert.Equal(t, core.Cents(150000), entries[0].Amount)
	assert.Equal(t, core.NewDate(2025, 6, 1), entries[0].DueDate)

	ev.RecordID = "b10"
	ev.DueDate = "01/06/2025"
	err := w.HandleRecordEvent(context.Background(), ev)
	assert.ErrorIs(t, err, core.ErrInvalidDate)
}

func TestHandleRecordEventLedgerFailures(t *testing.T) {
	store, b := seededStore(t, true)
	m := metrics.New()

	w := NewLedgerWorker(store, failingLedger{err: errors.New("quota exceeded")}, m)
	err := w.HandleRecordEvent(context.Background(), paidEvent(b))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "append to ledger")
	assert.Contains(t, scrape(t, m), `household_record_events_total{kind="bill_paid",outcome="error"} 1`)

	// Retrying after a failure must still write the row.
	ledger := sheetsmem.New()
	w.ledger = ledger
	require.NoError(t, w.HandleRecordEvent(context.Background(), paidEvent(b)))
	assert.Len(t, ledger.Entries(), 1)

	w = NewLedgerWorker(store, failingLedger{err: core.ErrEmptyName}, nil)
	assert.NoError(t, w.HandleRecordEvent(context.Background(), paidEvent(b)), "invalid entries are dropped")
}

func TestHandleRecordEventNil(t *testing.T) {
	w := NewLedgerWorker(nil, sheetsmem.New(), nil)
	assert.Error(t, w.HandleRecordEvent(context.Background(), nil))
}
