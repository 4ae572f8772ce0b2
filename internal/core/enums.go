package core

import (
	"fmt"
	"strings"
)

// Closed enumerations. Every switch over these types lists each value and
// fails on anything else; there is no default bucket.

type (
	BillCategory     string
	BillingCycle     string
	PasswordCategory string
	PasswordStrength string
	Bucket           string
)

const (
	CategoryUtilities      BillCategory = "utilities"
	CategoryHousing        BillCategory = "housing"
	CategoryTransportation BillCategory = "transportation"
	CategoryInsurance      BillCategory = "insurance"
	CategoryEntertainment  BillCategory = "entertainment"
	CategoryOther          BillCategory = "other"
	// BillCategoryAll is a filter value only; records never carry it.
	BillCategoryAll BillCategory = "all"
)

const (
	Monthly   BillingCycle = "monthly"
	Quarterly BillingCycle = "quarterly"
	Yearly    BillingCycle = "yearly"
)

const (
	PasswordWebsites PasswordCategory = "websites"
	PasswordApps     PasswordCategory = "apps"
	PasswordFinance  PasswordCategory = "finance"
	PasswordWork     PasswordCategory = "work"
	PasswordPersonal PasswordCategory = "personal"
	// PasswordCategoryAll is a filter value only; records never carry it.
	PasswordCategoryAll PasswordCategory = "all"
)

const (
	StrengthWeak   PasswordStrength = "weak"
	StrengthMedium PasswordStrength = "medium"
	StrengthStrong PasswordStrength = "strong"
)

const (
	BucketOverdue     Bucket = "overdue"
	BucketDueThisWeek Bucket = "due_this_week"
	BucketDueNextWeek Bucket = "due_next_week"
	BucketLater       Bucket = "later"
)

// BillCategories returns every record category in display order.
func BillCategories() []BillCategory {
	return []BillCategory{
		CategoryUtilities, CategoryHousing, CategoryTransportation,
		CategoryInsurance, CategoryEntertainment, CategoryOther,
	}
}

func BillingCycles() []BillingCycle {
	return []BillingCycle{Monthly, Quarterly, Yearly}
}

// PasswordCategories returns every record category in display order.
func PasswordCategories() []PasswordCategory {
	return []PasswordCategory{PasswordWebsites, PasswordApps, PasswordFinance, PasswordWork, PasswordPersonal}
}

func PasswordStrengths() []PasswordStrength {
	return []PasswordStrength{StrengthWeak, StrengthMedium, StrengthStrong}
}

func (c BillCategory) Validate() error {
	switch c {
	case CategoryUtilities, CategoryHousing, CategoryTransportation,
		CategoryInsurance, CategoryEntertainment, CategoryOther:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCategory, string(c))
	}
}

// Icon returns the symbol name the presentation layer shows for the category.
func (c BillCategory) Icon() (string, error) {
	switch c {
	case CategoryUtilities:
		return "bolt.fill", nil
	case CategoryHousing:
		return "house.fill", nil
	case CategoryTransportation:
		return "car.fill", nil
	case CategoryInsurance:
		return "shield.fill", nil
	case CategoryEntertainment:
		return "tv.fill", nil
	case CategoryOther:
		return "doc.fill", nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, string(c))
	}
}

// ParseBillCategory parses a record category. "all" is rejected.
func ParseBillCategory(s string) (BillCategory, error) {
	c := BillCategory(strings.ToLower(strings.TrimSpace(s)))
	if err := c.Validate(); err != nil {
		return "", err
	}
	return c, nil
}

// ParseBillCategoryFilter parses a filter value: a record category, "all",
// or the empty string (treated as "all").
func ParseBillCategoryFilter(s string) (BillCategory, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == string(BillCategoryAll) {
		return BillCategoryAll, nil
	}
	return ParseBillCategory(s)
}

func (c BillingCycle) Validate() error {
	switch c {
	case Monthly, Quarterly, Yearly:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCycle, string(c))
	}
}

func ParseBillingCycle(s string) (BillingCycle, error) {
	c := BillingCycle(strings.ToLower(strings.TrimSpace(s)))
	if err := c.Validate(); err != nil {
		return "", err
	}
	return c, nil
}

func (c PasswordCategory) Validate() error {
	switch c {
	case PasswordWebsites, PasswordApps, PasswordFinance, PasswordWork, PasswordPersonal:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCategory, string(c))
	}
}

func (c PasswordCategory) Icon() (string, error) {
	switch c {
	case PasswordCategoryAll:
		return "tray.fill", nil
	case PasswordWebsites:
		return "globe", nil
	case PasswordApps:
		return "app.fill", nil
	case PasswordFinance:
		return "creditcard.fill", nil
	case PasswordWork:
		return "briefcase.fill", nil
	case PasswordPersonal:
		return "person.fill", nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, string(c))
	}
}

func ParsePasswordCategory(s string) (PasswordCategory, error) {
	c := PasswordCategory(strings.ToLower(strings.TrimSpace(s)))
	if err := c.Validate(); err != nil {
		return "", err
	}
	return c, nil
}

// ParsePasswordCategoryFilter accepts a record category, "all" or "".
func ParsePasswordCategoryFilter(s string) (PasswordCategory, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == string(PasswordCategoryAll) {
		return PasswordCategoryAll, nil
	}
	return ParsePasswordCategory(s)
}

func (s PasswordStrength) Validate() error {
	switch s {
	case StrengthWeak, StrengthMedium, StrengthStrong:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownStrength, string(s))
	}
}

func ParsePasswordStrength(s string) (PasswordStrength, error) {
	v := PasswordStrength(strings.ToLower(strings.TrimSpace(s)))
	if err := v.Validate(); err != nil {
		return "", err
	}
	return v, nil
}
