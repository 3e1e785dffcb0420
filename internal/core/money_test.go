package core

import (
	"errors"
	"testing"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out string
		ok  bool
	}{
		{"1", "1", true},
		{"500", "500", true},
		{"1.23", "1.23", true},
		{" 2.50 ", "2.5", true},
		{"0", "0", true},
		{"-1", "", false},
		{"abc", "", false},
		{"1.2.3", "", false},
		{"", "", false},
		{"NaN", "", false},
		{"1,23", "", false},
		{"1,000", "", false},
		{"20,000", "", false},
		{"1,000.50", "", false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil || got.String() != tc.out {
				t.Fatalf("%q expected %s, got %s (err=%v)", tc.in, tc.out, got, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
			if !errors.Is(err, ErrInvalidInput) || !errors.Is(err, ErrInvalidAmount) {
				t.Fatalf("%q expected ErrInvalidAmount, got %v", tc.in, err)
			}
		}
	}
}

func TestParseBudgetLimit(t *testing.T) {
	got, err := ParseBudgetLimit("-1")
	if err != nil || got.String() != "-1" {
		t.Fatalf("negative limit should be accepted, got %s err=%v", got, err)
	}
	for _, in := range []string{"abc", "", "20,000", "1,000", "2,5"} {
		if _, err := ParseBudgetLimit(in); !errors.Is(err, ErrInvalidInput) || !errors.Is(err, ErrInvalidLimit) {
			t.Fatalf("%q expected ErrInvalidLimit, got %v", in, err)
		}
	}
}

func TestFormatAmount(t *testing.T) {
	d, _ := ParseAmount("12.5")
	if got := FormatAmount(d); got != "12.50" {
		t.Fatalf("FormatAmount = %q", got)
	}
}
