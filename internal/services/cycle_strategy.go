// Package services provides the household aggregation engine and the
// orchestration services built on top of it.
//
// This file implements the Strategy Pattern for billing cycles. Each cycle
// (monthly, quarterly, yearly) knows how many charges it makes per year and
// how to step a billing date forward.

package services

import (
	"fmt"

	"household/internal/core"
)

// CycleStrategy encapsulates the calendar arithmetic of one billing cycle.
type CycleStrategy interface {
	// PeriodsPerYear is the number of charges the cycle makes in a year.
	PeriodsPerYear() int64
	// Advance moves a billing date forward by n whole periods, clamping to
	// the end of shorter months.
	Advance(from core.Date, n int) core.Date
}

// monthsCycle is a cycle whose period is a whole number of months.
type monthsCycle struct {
	months int
}

func (c monthsCycle) PeriodsPerYear() int64 {
	return int64(12 / c.months)
}

func (c monthsCycle) Advance(from core.Date, n int) core.Date {
	return from.AddMonthsClamped(n * c.months)
}

// cycleStrategies is read-only after init.
var cycleStrategies = map[core.BillingCycle]CycleStrategy{
	core.Monthly:   monthsCycle{months: 1},
	core.Quarterly: monthsCycle{months: 3},
	core.Yearly:    monthsCycle{months: 12},
}

// GetCycleStrategy returns the strategy for a billing cycle.
// Returns an error wrapping core.ErrUnknownCycle for anything else.
func GetCycleStrategy(cycle core.BillingCycle) (CycleStrategy, error) {
	s, ok := cycleStrategies[cycle]
	if !ok {
		return nil, fmt.Errorf("%w: %q", core.ErrUnknownCycle, string(cycle))
	}
	return s, nil
}
