package services

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"household/internal/core"
)

// BillSortKey selects the ordering used by SortBills.
type BillSortKey string

const (
	SortBillsByDueDate BillSortKey = "due"
	SortBillsByName    BillSortKey = "name"
	SortBillsByAmount  BillSortKey = "amount"
)

// Bucket boundaries in calendar days from today.
const (
	dueThisWeekDays = 7
	dueNextWeekDays = 14
)

// ParseBillSortKey parses a sort key. The empty string selects due date.
func ParseBillSortKey(s string) (BillSortKey, error) {
	switch k := BillSortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case "":
		return SortBillsByDueDate, nil
	case SortBillsByDueDate, SortBillsByName, SortBillsByAmount:
		return k, nil
	default:
		return "", fmt.Errorf("%w: %q", core.ErrUnknownSortKey, s)
	}
}

// TotalDue sums the amount of every bill. An empty input yields zero; a
// total above core.MaxCents fails with core.ErrAmountOverflow.
func TotalDue(bills []core.Bill) (core.Money, error) {
	var total core.Money
	for _, b := range bills {
		if err := accumulate(&total, b.Amount); err != nil {
			return core.Money{}, fmt.Errorf("bill %s: %w", b.ID, err)
		}
	}
	return total, nil
}

func accumulate(dst *core.Money, m core.Money) error {
	sum, err := dst.Add(m)
	if err != nil {
		return err
	}
	*dst = sum
	return nil
}

// DueWithinWindow returns the bills due in [start, end], both ends inclusive,
// in input order. A window with start after end is a malformed query.
func DueWithinWindow(bills []core.Bill, start, end core.Date) ([]core.Bill, error) {
	if start.After(end) {
		return nil, fmt.Errorf("%w: start %s after end %s", core.ErrInvalidRange, start, end)
	}
	out := make([]core.Bill, 0, len(bills))
	for _, b := range bills {
		if !b.DueDate.Before(start) && !b.DueDate.After(end) {
			out = append(out, b)
		}
	}
	return out, nil
}

// SortBills returns a sorted copy. Ties keep their input order.
func SortBills(bills []core.Bill, key BillSortKey) ([]core.Bill, error) {
	var less func(a, b core.Bill) int
	switch key {
	case SortBillsByDueDate, "":
		less = func(a, b core.Bill) int { return a.DueDate.Compare(b.DueDate.Time) }
	case SortBillsByName:
		less = func(a, b core.Bill) int { return compareFold(a.Name, b.Name) }
	case SortBillsByAmount:
		less = func(a, b core.Bill) int { return cmp.Compare(a.Amount.Cents, b.Amount.Cents) }
	default:
		return nil, fmt.Errorf("%w: %q", core.ErrUnknownSortKey, string(key))
	}
	out := slices.Clone(bills)
	slices.SortStableFunc(out, less)
	return out, nil
}

// IsDueSoon reports whether due falls between today and today+thresholdDays.
// Overdue dates are never "due soon".
func IsDueSoon(due core.Date, now time.Time, thresholdDays int) bool {
	days := due.DaysFrom(now)
	return days >= 0 && days <= thresholdDays
}

// BucketFor classifies a due date. The buckets are disjoint and cover every
// day: overdue (<0), this week (0..6), next week (7..13), later (>=14).
func BucketFor(due core.Date, now time.Time) core.Bucket {
	switch days := due.DaysFrom(now); {
	case days < 0:
		return core.BucketOverdue
	case days < dueThisWeekDays:
		return core.BucketDueThisWeek
	case days < dueNextWeekDays:
		return core.BucketDueNextWeek
	default:
		return core.BucketLater
	}
}

// BucketBills places every given bill in exactly one bucket, keeping input
// order within each bucket.
func BucketBills(bills []core.Bill, now time.Time) core.BillBuckets {
	buckets := core.BillBuckets{
		Overdue:     []core.Bill{},
		DueThisWeek: []core.Bill{},
		DueNextWeek: []core.Bill{},
		Later:       []core.Bill{},
	}
	for _, b := range bills {
		switch BucketFor(b.DueDate, now) {
		case core.BucketOverdue:
			buckets.Overdue = append(buckets.Overdue, b)
		case core.BucketDueThisWeek:
			buckets.DueThisWeek = append(buckets.DueThisWeek, b)
		case core.BucketDueNextWeek:
			buckets.DueNextWeek = append(buckets.DueNextWeek, b)
		case core.BucketLater:
			buckets.Later = append(buckets.Later, b)
		}
	}
	return buckets
}

// UnpaidBills returns the bills not yet marked paid.
func UnpaidBills(bills []core.Bill) []core.Bill {
	return slices.DeleteFunc(slices.Clone(bills), func(b core.Bill) bool { return b.Paid })
}

// RecurringBills returns the bills flagged as recurring.
func RecurringBills(bills []core.Bill) []core.Bill {
	return slices.DeleteFunc(slices.Clone(bills), func(b core.Bill) bool { return !b.Recurring })
}

// SummarizeBills computes the bill totals. Total covers every bill; the
// outstanding and per-bucket amounts cover unpaid bills only.
func SummarizeBills(bills []core.Bill, now time.Time) (core.BillSummary, error) {
	total, err := TotalDue(bills)
	if err != nil {
		return core.BillSummary{}, err
	}
	s := core.BillSummary{
		Total: total,
		Count: len(bills),
	}
	for _, b := range bills {
		if b.Recurring {
			s.RecurringCount++
		}
		if b.Paid {
			continue
		}
		s.UnpaidCount++
		var bucket *core.Money
		switch BucketFor(b.DueDate, now) {
		case core.BucketOverdue:
			bucket = &s.Overdue
		case core.BucketDueThisWeek:
			bucket = &s.DueThisWeek
		case core.BucketDueNextWeek:
			bucket = &s.DueNextWeek
		case core.BucketLater:
		}
		// Every partial sum is bounded by the checked total.
		if err := accumulate(&s.Outstanding, b.Amount); err != nil {
			return core.BillSummary{}, fmt.Errorf("bill %s: %w", b.ID, err)
		}
		if bucket != nil {
			if err := accumulate(bucket, b.Amount); err != nil {
				return core.BillSummary{}, fmt.Errorf("bill %s: %w", b.ID, err)
			}
		}
	}
	return s, nil
}

// SumByCategory totals bill amounts per category in display order.
// Categories without bills are omitted.
func SumByCategory(bills []core.Bill) ([]core.CategoryAmount, error) {
	totals := make(map[core.BillCategory]core.Money)
	for _, b := range bills {
		sum, err := totals[b.Category].Add(b.Amount)
		if err != nil {
			return nil, fmt.Errorf("bill %s: %w", b.ID, err)
		}
		totals[b.Category] = sum
	}
	out := make([]core.CategoryAmount, 0, len(totals))
	for _, c := range core.BillCategories() {
		if m, ok := totals[c]; ok {
			out = append(out, core.CategoryAmount{Name: string(c), Amount: m})
		}
	}
	return out, nil
}

func compareFold(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}
