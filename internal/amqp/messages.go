package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"household/internal/core"
)

// EventKind names a record state change.
type EventKind string

const (
	EventBillAdded     EventKind = "bill_added"
	EventBillPaid      EventKind = "bill_paid"
	EventBillUnpaid    EventKind = "bill_unpaid"
	EventTaskCompleted EventKind = "task_completed"
	EventTaskReopened  EventKind = "task_reopened"
)

// RecordEvent is published after a record changes. It carries enough of the
// record for consumers (the ledger worker) to act without a store lookup.
type RecordEvent struct {
	Kind        EventKind `json:"kind"`
	RecordID    string    `json:"record_id"`
	Name        string    `json:"name"`
	AmountCents int64     `json:"amount_cents,omitempty"`
	DueDate     string    `json:"due_date,omitempty"`
	Category    string    `json:"category,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewBillEvent builds an event for a bill change.
func NewBillEvent(kind EventKind, b core.Bill) *RecordEvent {
	return &RecordEvent{
		Kind:        kind,
		RecordID:    b.ID,
		Name:        b.Name,
		AmountCents: b.Amount.Cents,
		DueDate:     b.DueDate.String(),
		Category:    string(b.Category),
		Timestamp:   time.Now(),
	}
}

// NewTaskEvent builds an event for a task change.
func NewTaskEvent(t core.Task) *RecordEvent {
	kind := EventTaskReopened
	if t.Completed {
		kind = EventTaskCompleted
	}
	return &RecordEvent{
		Kind:      kind,
		RecordID:  t.ID,
		Name:      t.Title,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the event to JSON bytes
func (e *RecordEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// RecordEventFromJSON decodes and sanity-checks an event.
func RecordEventFromJSON(data []byte) (*RecordEvent, error) {
	var e RecordEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	if e.Kind == "" || e.RecordID == "" {
		return nil, fmt.Errorf("record event missing kind or record_id")
	}
	return &e, nil
}

// ReminderKind names why a reminder was raised.
type ReminderKind string

const (
	ReminderBillDueSoon         ReminderKind = "bill_due_soon"
	ReminderBillOverdue         ReminderKind = "bill_overdue"
	ReminderSubscriptionRenewal ReminderKind = "subscription_renewal"
	ReminderPasswordStale       ReminderKind = "password_stale"
)

// ReminderMessage asks a notifier to remind the household about a record.
// DaysUntil is negative for overdue bills and stale passwords.
type ReminderMessage struct {
	Kind        ReminderKind `json:"kind"`
	RecordID    string       `json:"record_id"`
	Name        string       `json:"name"`
	AmountCents int64        `json:"amount_cents,omitempty"`
	Date        string       `json:"date"`
	DaysUntil   int          `json:"days_until"`
	Timestamp   time.Time    `json:"timestamp"`
}

func (m *ReminderMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ReminderMessageFromJSON(data []byte) (*ReminderMessage, error) {
	var m ReminderMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}
