// Package memory provides a mutex-guarded in-memory Store. It starts empty or
// from a JSON seed file; nothing is persisted.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"household/internal/core"
)

// collection keeps records in insertion order with an id index.
type collection[T any] struct {
	items []T
	index map[string]int
	id    func(T) string
}

func newCollection[T any](id func(T) string) collection[T] {
	return collection[T]{index: make(map[string]int), id: id}
}

func (c *collection[T]) list() []T {
	return slices.Clone(c.items)
}

func (c *collection[T]) get(id string) (T, error) {
	i, ok := c.index[id]
	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: %s", core.ErrNotFound, id)
	}
	return c.items[i], nil
}

func (c *collection[T]) add(item T) error {
	id := c.id(item)
	if _, ok := c.index[id]; ok {
		return fmt.Errorf("%w: %s", core.ErrDuplicateID, id)
	}
	c.index[id] = len(c.items)
	c.items = append(c.items, item)
	return nil
}

func (c *collection[T]) update(id string, fn func(T) T) (T, error) {
	i, ok := c.index[id]
	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: %s", core.ErrNotFound, id)
	}
	c.items[i] = fn(c.items[i])
	return c.items[i], nil
}

type Store struct {
	mu            sync.Mutex
	bills         collection[core.Bill]
	subscriptions collection[core.Subscription]
	vehicles      collection[core.Vehicle]
	services      collection[core.ServiceRecord]
	passwords     collection[core.PasswordEntry]
	tasks         collection[core.Task]
}

func New() *Store {
	return &Store{
		bills:         newCollection(func(b core.Bill) string { return b.ID }),
		subscriptions: newCollection(func(s core.Subscription) string { return s.ID }),
		vehicles:      newCollection(func(v core.Vehicle) string { return v.ID }),
		services:      newCollection(func(r core.ServiceRecord) string { return r.ID }),
		passwords:     newCollection(func(p core.PasswordEntry) string { return p.ID }),
		tasks:         newCollection(func(t core.Task) string { return t.ID }),
	}
}

// NewFromSeedFile builds a store holding the records of a seed file.
func NewFromSeedFile(ctx context.Context, path string) (*Store, error) {
	seed, err := LoadSeedFile(path)
	if err != nil {
		return nil, err
	}
	s := New()
	if _, err := seed.Import(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) ListBills(context.Context) ([]core.Bill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bills.list(), nil
}

func (s *Store) GetBill(_ context.Context, id string) (core.Bill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bills.get(id)
}

func (s *Store) AddBill(_ context.Context, b core.Bill) error {
	if err := b.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bills.add(b)
}

func (s *Store) SetBillPaid(_ context.Context, id string, paid bool) (core.Bill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bills.update(id, func(b core.Bill) core.Bill { return b.WithPaid(paid) })
}

func (s *Store) ListSubscriptions(context.Context) ([]core.Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.subscriptions.list(), nil
}

func (s *Store) AddSubscription(_ context.Context, sub core.Subscription) error {
	if err := sub.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.subscriptions.add(sub)
}

func (s *Store) ListVehicles(context.Context) ([]core.Vehicle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.vehicles.list(), nil
}

func (s *Store) AddVehicle(_ context.Context, v core.Vehicle) error {
	if err := v.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.vehicles.add(v)
}

// ListServiceRecords returns the vehicle's records in insertion order.
func (s *Store) ListServiceRecords(_ context.Context, vehicleID string) ([]core.ServiceRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.vehicles.get(vehicleID); err != nil {
		return nil, err
	}
	out := []core.ServiceRecord{}
	for _, r := range s.services.items {
		if r.VehicleID == vehicleID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *Store) AddServiceRecord(_ context.Context, r core.ServiceRecord) error {
	if err := r.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.vehicles.get(r.VehicleID); err != nil {
		return err
	}
	return s.services.add(r)
}

func (s *Store) ListPasswords(context.Context) ([]core.PasswordEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.passwords.list(), nil
}

func (s *Store) AddPassword(_ context.Context, p core.PasswordEntry) error {
	if err := p.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.passwords.add(p)
}

func (s *Store) ListTasks(context.Context) ([]core.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tasks.list(), nil
}

func (s *Store) GetTask(_ context.Context, id string) (core.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tasks.get(id)
}

func (s *Store) AddTask(_ context.Context, t core.Task) error {
	if err := t.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tasks.add(t)
}

func (s *Store) SetTaskCompleted(_ context.Context, id string, completed bool) (core.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tasks.update(id, func(t core.Task) core.Task { return t.WithCompleted(completed) })
}
