package services

import (
	"slices"
	"strings"

	"household/internal/core"
)

// FilterByCategory keeps the records whose category equals category. Passing
// the all sentinel returns every record.
func FilterByCategory[T any, C comparable](records []T, category, all C, categoryOf func(T) C) []T {
	if category == all {
		return slices.Clone(records)
	}
	out := make([]T, 0, len(records))
	for _, r := range records {
		if categoryOf(r) == category {
			out = append(out, r)
		}
	}
	return out
}

// FilterBySearchText keeps records where any of the given fields contains
// text, ignoring case. Blank text returns the input unchanged.
func FilterBySearchText[T any](records []T, text string, fields ...func(T) string) []T {
	needle := strings.ToLower(strings.TrimSpace(text))
	if needle == "" {
		return slices.Clone(records)
	}
	out := make([]T, 0, len(records))
	for _, r := range records {
		for _, field := range fields {
			if strings.Contains(strings.ToLower(field(r)), needle) {
				out = append(out, r)
				break
			}
		}
	}
	return out
}

func billCategory(b core.Bill) core.BillCategory { return b.Category }
func billName(b core.Bill) string                { return b.Name }

func passwordCategory(p core.PasswordEntry) core.PasswordCategory { return p.Category }
func passwordTitle(p core.PasswordEntry) string                   { return p.Title }
func passwordUsername(p core.PasswordEntry) string                { return p.Username }

// FilterBillsByCategory filters bills by category or the all sentinel.
func FilterBillsByCategory(bills []core.Bill, category core.BillCategory) ([]core.Bill, error) {
	if category != core.BillCategoryAll {
		if err := category.Validate(); err != nil {
			return nil, err
		}
	}
	return FilterByCategory(bills, category, core.BillCategoryAll, billCategory), nil
}

// SearchBills matches text against bill names.
func SearchBills(bills []core.Bill, text string) []core.Bill {
	return FilterBySearchText(bills, text, billName)
}

// FilterPasswordsByCategory filters entries by category or the all sentinel.
func FilterPasswordsByCategory(entries []core.PasswordEntry, category core.PasswordCategory) ([]core.PasswordEntry, error) {
	if category != core.PasswordCategoryAll {
		if err := category.Validate(); err != nil {
			return nil, err
		}
	}
	return FilterByCategory(entries, category, core.PasswordCategoryAll, passwordCategory), nil
}

// SearchPasswords matches text against titles and usernames.
func SearchPasswords(entries []core.PasswordEntry, text string) []core.PasswordEntry {
	return FilterBySearchText(entries, text, passwordTitle, passwordUsername)
}

// FilterPasswords applies the category filter, then the text search.
func FilterPasswords(entries []core.PasswordEntry, category core.PasswordCategory, text string) ([]core.PasswordEntry, error) {
	filtered, err := FilterPasswordsByCategory(entries, category)
	if err != nil {
		return nil, err
	}
	return SearchPasswords(filtered, text), nil
}
