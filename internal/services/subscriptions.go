package services

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"household/internal/core"
)

// SubscriptionSortKey selects the ordering used by SortSubscriptions.
type SubscriptionSortKey string

const (
	SortSubscriptionsByName        SubscriptionSortKey = "name"
	SortSubscriptionsByCost        SubscriptionSortKey = "cost"
	SortSubscriptionsByNextBilling SubscriptionSortKey = "next_billing"
)

// ParseSubscriptionSortKey parses a sort key. The empty string selects name.
func ParseSubscriptionSortKey(s string) (SubscriptionSortKey, error) {
	switch k := SubscriptionSortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case "":
		return SortSubscriptionsByName, nil
	case SortSubscriptionsByName, SortSubscriptionsByCost, SortSubscriptionsByNextBilling:
		return k, nil
	default:
		return "", fmt.Errorf("%w: %q", core.ErrUnknownSortKey, s)
	}
}

// AnnualizedCost is the yearly spend of a subscription: cost x12 for monthly,
// x4 for quarterly, x1 for yearly. It fails with core.ErrAmountOverflow when
// the yearly figure exceeds core.MaxCents.
func AnnualizedCost(sub core.Subscription) (core.Money, error) {
	strategy, err := GetCycleStrategy(sub.Cycle)
	if err != nil {
		return core.Money{}, err
	}
	return sub.Cost.Times(strategy.PeriodsPerYear())
}

// TotalAnnualizedCost sums AnnualizedCost over subs.
func TotalAnnualizedCost(subs []core.Subscription) (core.Money, error) {
	var total core.Money
	for _, s := range subs {
		annual, err := AnnualizedCost(s)
		if err != nil {
			return core.Money{}, fmt.Errorf("subscription %s: %w", s.ID, err)
		}
		if total, err = total.Add(annual); err != nil {
			return core.Money{}, fmt.Errorf("subscription %s: %w", s.ID, err)
		}
	}
	return total, nil
}

// MonthlyEquivalent spreads an annual amount over twelve months, rounding
// half-up to the cent.
func MonthlyEquivalent(annual core.Money) core.Money {
	monthly := decimal.NewFromInt(annual.Cents).DivRound(decimal.NewFromInt(12), 0)
	return core.Cents(monthly.IntPart())
}

// SortSubscriptions returns a sorted copy: name ascending, cost descending,
// or next billing date ascending. Ties keep their input order.
func SortSubscriptions(subs []core.Subscription, key SubscriptionSortKey) ([]core.Subscription, error) {
	var less func(a, b core.Subscription) int
	switch key {
	case SortSubscriptionsByName, "":
		less = func(a, b core.Subscription) int { return compareFold(a.Name, b.Name) }
	case SortSubscriptionsByCost:
		less = func(a, b core.Subscription) int { return cmp.Compare(b.Cost.Cents, a.Cost.Cents) }
	case SortSubscriptionsByNextBilling:
		less = func(a, b core.Subscription) int { return a.NextBillingDate.Compare(b.NextBillingDate.Time) }
	default:
		return nil, fmt.Errorf("%w: %q", core.ErrUnknownSortKey, string(key))
	}
	out := slices.Clone(subs)
	slices.SortStableFunc(out, less)
	return out, nil
}

// NextRenewal returns the first billing date on or after today. A stored
// next billing date in the past is rolled forward by whole cycles from the
// stored date, so month-end anchors do not drift.
func NextRenewal(sub core.Subscription, now time.Time) (core.Date, error) {
	strategy, err := GetCycleStrategy(sub.Cycle)
	if err != nil {
		return core.Date{}, err
	}
	today := core.DateOf(now)
	anchor := sub.NextBillingDate
	if !anchor.Before(today) {
		return anchor, nil
	}
	monthsPerPeriod := 12 / int(strategy.PeriodsPerYear())
	behind := (today.Year()-anchor.Year())*12 + int(today.Month()-anchor.Month())
	n := max(behind/monthsPerPeriod, 1)
	next := strategy.Advance(anchor, n)
	for next.Before(today) {
		n++
		next = strategy.Advance(anchor, n)
	}
	return next, nil
}

// UpcomingSoon reports whether the subscription renews within days.
func UpcomingSoon(sub core.Subscription, now time.Time, days int) (bool, error) {
	next, err := NextRenewal(sub, now)
	if err != nil {
		return false, err
	}
	return IsDueSoon(next, now, days), nil
}

// RenewingSoon returns the subscriptions that renew within days, in input order.
func RenewingSoon(subs []core.Subscription, now time.Time, days int) ([]core.Subscription, error) {
	out := make([]core.Subscription, 0, len(subs))
	for _, s := range subs {
		soon, err := UpcomingSoon(s, now, days)
		if err != nil {
			return nil, fmt.Errorf("subscription %s: %w", s.ID, err)
		}
		if soon {
			out = append(out, s)
		}
	}
	return out, nil
}

// SummarizeSubscriptions computes subscription totals for the dashboard.
func SummarizeSubscriptions(subs []core.Subscription, now time.Time, days int) (core.SubscriptionSummary, error) {
	annual, err := TotalAnnualizedCost(subs)
	if err != nil {
		return core.SubscriptionSummary{}, err
	}
	soon, err := RenewingSoon(subs, now, days)
	if err != nil {
		return core.SubscriptionSummary{}, err
	}
	return core.SubscriptionSummary{
		Count:        len(subs),
		MonthlyCost:  MonthlyEquivalent(annual),
		AnnualCost:   annual,
		RenewingSoon: len(soon),
	}, nil
}
