package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"household/internal/amqp"
	"household/internal/core"
	"household/internal/metrics"
	"household/internal/ports"
)

// ReminderPublisher sends reminders to a notifier. *amqp.Client implements it.
type ReminderPublisher interface {
	PublishReminder(ctx context.Context, msg *amqp.ReminderMessage) error
}

// ReminderProcessor scans the store for records that need attention and
// publishes one reminder per record per day.
type ReminderProcessor struct {
	store      ports.Store
	publisher  ReminderPublisher
	thresholds Thresholds
	metrics    *metrics.Metrics

	mu   sync.Mutex
	sent map[string]string // kind:record_id -> day last published
}

// NewReminderProcessor creates a new reminder processor. m may be nil.
func NewReminderProcessor(store ports.Store, publisher ReminderPublisher, thresholds Thresholds, m *metrics.Metrics) *ReminderProcessor {
	return &ReminderProcessor{
		store:      store,
		publisher:  publisher,
		thresholds: thresholds,
		metrics:    m,
		sent:       make(map[string]string),
	}
}

// ProcessReminders publishes the reminders due at now and returns how many
// were sent. Publish failures are logged and retried on the next run.
func (p *ReminderProcessor) ProcessReminders(ctx context.Context, now time.Time) (int, error) {
	if p.store == nil || p.publisher == nil {
		return 0, fmt.Errorf("processor not properly initialized")
	}

	reminders, err := p.collect(ctx, now)
	if err != nil {
		return 0, err
	}

	day := core.DateOf(now).String()
	p.mu.Lock()
	defer p.mu.Unlock()
	for key, sentOn := range p.sent {
		if sentOn != day {
			delete(p.sent, key)
		}
	}

	slog.InfoContext(ctx, "Processing reminders",
		"candidates", len(reminders),
		"processing_date", day)

	published := 0
	for _, r := range reminders {
		key := string(r.Kind) + ":" + r.RecordID
		if p.sent[key] == day {
			continue
		}
		r.Timestamp = now
		if err := p.publisher.PublishReminder(ctx, r); err != nil {
			slog.ErrorContext(ctx, "Failed to publish reminder",
				"kind", r.Kind,
				"record_id", r.RecordID,
				"error", err)
			continue
		}
		p.sent[key] = day
		p.metrics.ReminderPublished(string(r.Kind))
		published++
	}

	slog.InfoContext(ctx, "Reminder processing complete",
		"published", published,
		"total_checked", len(reminders))

	return published, nil
}

func (p *ReminderProcessor) collect(ctx context.Context, now time.Time) ([]*amqp.ReminderMessage, error) {
	bills, err := p.store.ListBills(ctx)
	if err != nil {
		return nil, fmt.Errorf("list bills: %w", err)
	}
	subs, err := p.store.ListSubscriptions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	passwords, err := p.store.ListPasswords(ctx)
	if err != nil {
		return nil, fmt.Errorf("list password entries: %w", err)
	}

	var out []*amqp.ReminderMessage
	for _, b := range UnpaidBills(bills) {
		days := b.DueDate.DaysFrom(now)
		var kind amqp.ReminderKind
		switch {
		case days < 0:
			kind = amqp.ReminderBillOverdue
		case IsDueSoon(b.DueDate, now, p.thresholds.DueSoonDays):
			kind = amqp.ReminderBillDueSoon
		default:
			continue
		}
		out = append(out, &amqp.ReminderMessage{
			Kind:        kind,
			RecordID:    b.ID,
			Name:        b.Name,
			AmountCents: b.Amount.Cents,
			Date:        b.DueDate.String(),
			DaysUntil:   days,
		})
	}

	for _, s := range subs {
		next, err := NextRenewal(s, now)
		if err != nil {
			slog.WarnContext(ctx, "Skipping subscription with invalid cycle", "id", s.ID, "error", err)
			continue
		}
		if !IsDueSoon(next, now, p.thresholds.DueSoonDays) {
			continue
		}
		out = append(out, &amqp.ReminderMessage{
			Kind:        amqp.ReminderSubscriptionRenewal,
			RecordID:    s.ID,
			Name:        s.Name,
			AmountCents: s.Cost.Cents,
			Date:        next.String(),
			DaysUntil:   next.DaysFrom(now),
		})
	}

	for _, e := range StalePasswords(passwords, now, p.thresholds.StalePasswordDays) {
		out = append(out, &amqp.ReminderMessage{
			Kind:      amqp.ReminderPasswordStale,
			RecordID:  e.ID,
			Name:      e.Title,
			Date:      e.LastUpdated.String(),
			DaysUntil: e.LastUpdated.DaysFrom(now),
		})
	}

	return out, nil
}
