package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"household/internal/core"
	"household/internal/ports"
)

// Thresholds are the day windows used for "soon" and "stale" flags.
type Thresholds struct {
	DueSoonDays       int
	StalePasswordDays int
}

// DefaultThresholds matches the household app: a week for due dates and
// 90 days for password age.
func DefaultThresholds() Thresholds {
	return Thresholds{DueSoonDays: 7, StalePasswordDays: 90}
}

func (t Thresholds) Validate() error {
	if t.DueSoonDays < 0 || t.StalePasswordDays < 0 {
		return core.ErrNegativeDuration
	}
	return nil
}

// DashboardService builds the cross-collection overview.
type DashboardService struct {
	store      ports.Store
	thresholds Thresholds
	now        func() time.Time
}

func NewDashboardService(store ports.Store, thresholds Thresholds) (*DashboardService, error) {
	if err := thresholds.Validate(); err != nil {
		return nil, err
	}
	return &DashboardService{store: store, thresholds: thresholds, now: time.Now}, nil
}

// Thresholds returns the configured windows.
func (s *DashboardService) Thresholds() Thresholds {
	return s.thresholds
}

// Build loads every collection concurrently and derives the dashboard.
func (s *DashboardService) Build(ctx context.Context) (core.Dashboard, error) {
	var (
		bills     []core.Bill
		subs      []core.Subscription
		passwords []core.PasswordEntry
		tasks     []core.Task
		vehicles  []core.Vehicle
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		bills, err = s.store.ListBills(gctx)
		return wrap("bills", err)
	})
	g.Go(func() (err error) {
		subs, err = s.store.ListSubscriptions(gctx)
		return wrap("subscriptions", err)
	})
	g.Go(func() (err error) {
		passwords, err = s.store.ListPasswords(gctx)
		return wrap("password entries", err)
	})
	g.Go(func() (err error) {
		tasks, err = s.store.ListTasks(gctx)
		return wrap("tasks", err)
	})
	g.Go(func() (err error) {
		vehicles, err = s.store.ListVehicles(gctx)
		return wrap("vehicles", err)
	})
	if err := g.Wait(); err != nil {
		return core.Dashboard{}, err
	}

	now := s.now()
	subSummary, err := SummarizeSubscriptions(subs, now, s.thresholds.DueSoonDays)
	if err != nil {
		return core.Dashboard{}, err
	}
	billSummary, err := SummarizeBills(bills, now)
	if err != nil {
		return core.Dashboard{}, err
	}
	byCategory, err := SumByCategory(bills)
	if err != nil {
		return core.Dashboard{}, err
	}

	return core.Dashboard{
		GeneratedAt:     now,
		Bills:           billSummary,
		BillsByCategory: byCategory,
		Subscriptions:   subSummary,
		Passwords:       SummarizePasswords(passwords, now, s.thresholds.StalePasswordDays),
		Tasks:           SummarizeTasks(tasks),
		Vehicles:        len(vehicles),
	}, nil
}

// BillSummary derives the bill totals alone.
func (s *DashboardService) BillSummary(ctx context.Context) (core.BillSummary, error) {
	bills, err := s.store.ListBills(ctx)
	if err != nil {
		return core.BillSummary{}, fmt.Errorf("list bills: %w", err)
	}
	return SummarizeBills(bills, s.now())
}

// BillBuckets groups unpaid bills by due bucket.
func (s *DashboardService) BillBuckets(ctx context.Context) (core.BillBuckets, error) {
	bills, err := s.store.ListBills(ctx)
	if err != nil {
		return core.BillBuckets{}, fmt.Errorf("list bills: %w", err)
	}
	sorted, err := SortBills(UnpaidBills(bills), SortBillsByDueDate)
	if err != nil {
		return core.BillBuckets{}, err
	}
	return BucketBills(sorted, s.now()), nil
}

func wrap(what string, err error) error {
	if err != nil {
		return fmt.Errorf("load %s: %w", what, err)
	}
	return nil
}
