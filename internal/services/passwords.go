package services

import (
	"time"

	"household/internal/core"
)

// IsStale reports whether more than thresholdDays have elapsed since
// lastUpdated.
func IsStale(lastUpdated core.Date, now time.Time, thresholdDays int) bool {
	elapsed := -lastUpdated.DaysFrom(now)
	return elapsed > thresholdDays
}

// StalePasswords returns the entries not updated within thresholdDays.
func StalePasswords(entries []core.PasswordEntry, now time.Time, thresholdDays int) []core.PasswordEntry {
	out := make([]core.PasswordEntry, 0)
	for _, e := range entries {
		if IsStale(e.LastUpdated, now, thresholdDays) {
			out = append(out, e)
		}
	}
	return out
}

// SummarizePasswords counts stale and weak entries.
func SummarizePasswords(entries []core.PasswordEntry, now time.Time, thresholdDays int) core.PasswordSummary {
	s := core.PasswordSummary{Count: len(entries)}
	for _, e := range entries {
		if IsStale(e.LastUpdated, now, thresholdDays) {
			s.Stale++
		}
		if e.Strength == core.StrengthWeak {
			s.Weak++
		}
	}
	return s
}
