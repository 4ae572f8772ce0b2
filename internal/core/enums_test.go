package core

import (
	"errors"
	"testing"
)

func TestBillCategoryIconsAreExhaustive(t *testing.T) {
	seen := map[string]bool{}
	for _, c := range BillCategories() {
		icon, err := c.Icon()
		if err != nil {
			t.Fatalf("%s: %v", c, err)
		}
		if seen[icon] {
			t.Errorf("icon %q reused", icon)
		}
		seen[icon] = true
	}
	if _, err := BillCategory("food").Icon(); !errors.Is(err, ErrUnknownCategory) {
		t.Fatalf("expected ErrUnknownCategory, got %v", err)
	}
}

func TestPasswordCategoryIcons(t *testing.T) {
	for _, c := range append(PasswordCategories(), PasswordCategoryAll) {
		if _, err := c.Icon(); err != nil {
			t.Fatalf("%s: %v", c, err)
		}
	}
	if _, err := PasswordCategory("games").Icon(); err == nil {
		t.Fatal("expected error")
	}
}

func TestParseBillCategoryFilter(t *testing.T) {
	tests := []struct {
		in      string
		want    BillCategory
		wantErr bool
	}{
		{"", BillCategoryAll, false},
		{"all", BillCategoryAll, false},
		{" ALL ", BillCategoryAll, false},
		{"Housing", CategoryHousing, false},
		{"groceries", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseBillCategoryFilter(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
	if _, err := ParseBillCategory("all"); err == nil {
		t.Fatal("record category must reject the all sentinel")
	}
}

func TestParseEnums(t *testing.T) {
	if c, err := ParseBillingCycle("Quarterly"); err != nil || c != Quarterly {
		t.Fatalf("got %q, %v", c, err)
	}
	if _, err := ParseBillingCycle("weekly"); !errors.Is(err, ErrUnknownCycle) {
		t.Fatalf("expected ErrUnknownCycle, got %v", err)
	}
	if c, err := ParsePasswordCategoryFilter(""); err != nil || c != PasswordCategoryAll {
		t.Fatalf("got %q, %v", c, err)
	}
	if c, err := ParsePasswordCategory("work"); err != nil || c != PasswordWork {
		t.Fatalf("got %q, %v", c, err)
	}
	if s, err := ParsePasswordStrength("WEAK"); err != nil || s != StrengthWeak {
		t.Fatalf("got %q, %v", s, err)
	}
	if _, err := ParsePasswordStrength("great"); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
}
