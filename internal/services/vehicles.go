package services

import (
	"fmt"
	"slices"

	"household/internal/core"
)

// SortServiceHistory returns a copy with the most recent visit first. Visits
// on the same day keep their input order.
func SortServiceHistory(records []core.ServiceRecord) []core.ServiceRecord {
	out := slices.Clone(records)
	slices.SortStableFunc(out, func(a, b core.ServiceRecord) int {
		return b.Date.Compare(a.Date.Time)
	})
	return out
}

// TotalServiceCost sums the cost of every record. An empty history costs
// zero; a total above core.MaxCents fails with core.ErrAmountOverflow.
func TotalServiceCost(records []core.ServiceRecord) (core.Money, error) {
	costs := make([]core.Money, len(records))
	for i, r := range records {
		costs[i] = r.Cost
	}
	total, err := core.Sum(costs...)
	if err != nil {
		return core.Money{}, fmt.Errorf("service history: %w", err)
	}
	return total, nil
}
