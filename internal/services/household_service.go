package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"household/internal/amqp"
	"household/internal/core"
	"household/internal/ports"
)

// EventPublisher announces record changes. *amqp.Client implements it.
type EventPublisher interface {
	PublishRecordEvent(ctx context.Context, event *amqp.RecordEvent) error
}

// HouseholdService orchestrates record changes across the store and the
// message broker. The store is the source of truth: a failed publish is
// logged and the change stands.
type HouseholdService struct {
	store  ports.Store
	events EventPublisher
}

// NewHouseholdService creates the service. events may be nil when no broker
// is configured.
func NewHouseholdService(store ports.Store, events EventPublisher) *HouseholdService {
	return &HouseholdService{
		store:  store,
		events: events,
	}
}

// Store returns the underlying store for read-only callers.
func (s *HouseholdService) Store() ports.Store {
	return s.store
}

// BillQuery narrows and orders a bill listing. A nil From/To leaves that
// side of the window open.
type BillQuery struct {
	Category core.BillCategory
	Search   string
	Sort     BillSortKey
	From     *core.Date
	To       *core.Date
	Unpaid   bool
}

// ListBills applies, in order: category, search text, due window, paid
// filter, then sort.
func (s *HouseholdService) ListBills(ctx context.Context, q BillQuery) ([]core.Bill, error) {
	if q.Category == "" {
		q.Category = core.BillCategoryAll
	}
	bills, err := s.store.ListBills(ctx)
	if err != nil {
		return nil, fmt.Errorf("list bills: %w", err)
	}
	bills, err = FilterBillsByCategory(bills, q.Category)
	if err != nil {
		return nil, err
	}
	bills = SearchBills(bills, q.Search)
	if q.From != nil || q.To != nil {
		from, to := core.NewDate(1, 1, 1), core.NewDate(9999, 12, 31)
		if q.From != nil {
			from = *q.From
		}
		if q.To != nil {
			to = *q.To
		}
		if bills, err = DueWithinWindow(bills, from, to); err != nil {
			return nil, err
		}
	}
	if q.Unpaid {
		bills = UnpaidBills(bills)
	}
	return SortBills(bills, q.Sort)
}

func (s *HouseholdService) AddBill(ctx context.Context, b core.Bill) error {
	if err := s.store.AddBill(ctx, b); err != nil {
		return fmt.Errorf("save bill: %w", err)
	}
	s.publish(ctx, amqp.NewBillEvent(amqp.EventBillAdded, b))
	return nil
}

// SetBillPaid marks a bill paid or unpaid and announces the change.
func (s *HouseholdService) SetBillPaid(ctx context.Context, id string, paid bool) (core.Bill, error) {
	b, err := s.store.SetBillPaid(ctx, id, paid)
	if err != nil {
		return core.Bill{}, fmt.Errorf("set bill paid: %w", err)
	}
	kind := amqp.EventBillUnpaid
	if paid {
		kind = amqp.EventBillPaid
	}
	s.publish(ctx, amqp.NewBillEvent(kind, b))
	return b, nil
}

func (s *HouseholdService) ListSubscriptions(ctx context.Context, key SubscriptionSortKey) ([]core.Subscription, error) {
	subs, err := s.store.ListSubscriptions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	return SortSubscriptions(subs, key)
}

func (s *HouseholdService) AddSubscription(ctx context.Context, sub core.Subscription) error {
	if err := s.store.AddSubscription(ctx, sub); err != nil {
		return fmt.Errorf("save subscription: %w", err)
	}
	return nil
}

// ListPasswords filters by category (or the all sentinel), then by text.
func (s *HouseholdService) ListPasswords(ctx context.Context, category core.PasswordCategory, text string) ([]core.PasswordEntry, error) {
	if category == "" {
		category = core.PasswordCategoryAll
	}
	entries, err := s.store.ListPasswords(ctx)
	if err != nil {
		return nil, fmt.Errorf("list password entries: %w", err)
	}
	return FilterPasswords(entries, category, text)
}

func (s *HouseholdService) AddPassword(ctx context.Context, p core.PasswordEntry) error {
	if err := s.store.AddPassword(ctx, p); err != nil {
		return fmt.Errorf("save password entry: %w", err)
	}
	return nil
}

func (s *HouseholdService) ListVehicles(ctx context.Context) ([]core.Vehicle, error) {
	vehicles, err := s.store.ListVehicles(ctx)
	if err != nil {
		return nil, fmt.Errorf("list vehicles: %w", err)
	}
	return vehicles, nil
}

func (s *HouseholdService) AddVehicle(ctx context.Context, v core.Vehicle) error {
	if err := s.store.AddVehicle(ctx, v); err != nil {
		return fmt.Errorf("save vehicle: %w", err)
	}
	return nil
}

// ListServiceRecords returns a vehicle's maintenance history, newest first.
func (s *HouseholdService) ListServiceRecords(ctx context.Context, vehicleID string) ([]core.ServiceRecord, error) {
	records, err := s.store.ListServiceRecords(ctx, vehicleID)
	if err != nil {
		return nil, fmt.Errorf("list service records: %w", err)
	}
	return SortServiceHistory(records), nil
}

func (s *HouseholdService) AddServiceRecord(ctx context.Context, r core.ServiceRecord) error {
	if err := s.store.AddServiceRecord(ctx, r); err != nil {
		return fmt.Errorf("save service record: %w", err)
	}
	return nil
}

func (s *HouseholdService) ListTasks(ctx context.Context) ([]core.Task, error) {
	tasks, err := s.store.ListTasks(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

func (s *HouseholdService) AddTask(ctx context.Context, t core.Task) error {
	if err := s.store.AddTask(ctx, t); err != nil {
		return fmt.Errorf("save task: %w", err)
	}
	return nil
}

// ToggleTask flips a task's completion flag and announces the change.
func (s *HouseholdService) ToggleTask(ctx context.Context, id string) (core.Task, error) {
	current, err := s.store.GetTask(ctx, id)
	if err != nil {
		return core.Task{}, fmt.Errorf("get task: %w", err)
	}
	t, err := s.store.SetTaskCompleted(ctx, id, !current.Completed)
	if err != nil {
		return core.Task{}, fmt.Errorf("set task completed: %w", err)
	}
	s.publish(ctx, amqp.NewTaskEvent(t))
	return t, nil
}

func (s *HouseholdService) publish(ctx context.Context, event *amqp.RecordEvent) {
	if s.events == nil {
		slog.DebugContext(ctx, "AMQP publisher not available, skipping record event",
			"kind", event.Kind, "record_id", event.RecordID)
		return
	}
	if err := s.events.PublishRecordEvent(ctx, event); err != nil {
		level := slog.LevelError
		if errors.Is(err, amqp.ErrCircuitOpen) {
			level = slog.LevelWarn
		}
		slog.Log(ctx, level, "Failed to publish record event",
			"kind", event.Kind,
			"record_id", event.RecordID,
			"error", err)
	}
}
