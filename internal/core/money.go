// Package core provides the household domain: records, closed enums, money
// and calendar dates.
//
// This file contains money parsing and formatting. Amounts are held as
// integer cents; decimal text is converted with half-up rounding.
package core

import (
	"encoding/json"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// Money is a non-negative currency amount in cents.
type Money struct {
	Cents int64
}

// MaxCents is the largest amount a Money may hold. Parsing, validation and
// the checked arithmetic all reject anything above it.
const MaxCents = (1<<63 - 1) / 100

// Cents is a convenience constructor.
func Cents(c int64) Money { return Money{Cents: c} }

// ParseAmount converts a decimal string to Money.
//
// Both dot (12.34) and comma (12,34) decimal separators are accepted and the
// third decimal place rounds half-up. Zero is a valid amount; signs, exponents
// and anything that is not a plain decimal number are rejected.
//
// Examples:
//
//	ParseAmount("125.50") -> 12550
//	ParseAmount("1,005")  -> 101
//	ParseAmount("0")      -> 0
func ParseAmount(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	dots := 0
	for _, r := range s {
		switch {
		case r == '.':
			dots++
		case !unicode.IsDigit(r):
			return Money{}, ErrInvalidAmount
		}
	}
	if dots > 1 || s == "." {
		return Money{}, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	cents := d.Shift(2).Round(0)
	if cents.GreaterThan(decimal.NewFromInt(MaxCents)) {
		return Money{}, ErrInvalidAmount
	}
	return Money{Cents: cents.IntPart()}, nil
}

// Validate rejects negative amounts and amounts above MaxCents.
func (m Money) Validate() error {
	if m.Cents < 0 || m.Cents > MaxCents {
		return ErrInvalidAmount
	}
	return nil
}

// Add returns m+o, or ErrAmountOverflow when the sum leaves [0, MaxCents].
func (m Money) Add(o Money) (Money, error) {
	if err := m.Validate(); err != nil {
		return Money{}, err
	}
	if err := o.Validate(); err != nil {
		return Money{}, err
	}
	if m.Cents > MaxCents-o.Cents {
		return Money{}, ErrAmountOverflow
	}
	return Money{Cents: m.Cents + o.Cents}, nil
}

// Times returns m multiplied by n, or ErrAmountOverflow when the product
// leaves [0, MaxCents].
func (m Money) Times(n int64) (Money, error) {
	if err := m.Validate(); err != nil {
		return Money{}, err
	}
	if n < 0 {
		return Money{}, ErrInvalidAmount
	}
	if n != 0 && m.Cents > MaxCents/n {
		return Money{}, ErrAmountOverflow
	}
	return Money{Cents: m.Cents * n}, nil
}

// Sum adds amounts with Add, stopping at the first overflow.
func Sum(amounts ...Money) (Money, error) {
	var total Money
	for _, a := range amounts {
		var err error
		if total, err = total.Add(a); err != nil {
			return Money{}, err
		}
	}
	return total, nil
}

// IsZero reports whether the amount is zero.
func (m Money) IsZero() bool { return m.Cents == 0 }

// Decimal returns the amount in currency units.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.Cents, -2)
}

// String formats the amount with two decimals, e.g. "1575.50". Currency
// symbols and grouping are left to the presentation layer.
func (m Money) String() string {
	return m.Decimal().StringFixed(2)
}

// MarshalJSON encodes the amount as a decimal string to avoid float rounding.
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// UnmarshalJSON accepts either a decimal string ("12.50") or a bare number.
func (m *Money) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return ErrInvalidAmount
		}
		raw = s
	}
	parsed, err := ParseAmount(raw)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
