package core

import (
	"testing"
	"time"
)

func TestParseExpenseDateLocalPath(t *testing.T) {
	bare := ParseExpenseDate("2024-03-05")
	stamped := ParseExpenseDate("2024-03-05T00:00:00Z")

	if bare.Kind != DateLocal || stamped.Kind != DateLocal {
		t.Fatalf("expected local kind, got %v and %v", bare.Kind, stamped.Kind)
	}
	// Both shapes must land on the same local calendar date, no timezone
	// shift applied.
	if !bare.Time.Equal(stamped.Time) {
		t.Fatalf("expected equal instants, got %v and %v", bare.Time, stamped.Time)
	}
	want := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.Local)
	if !bare.Time.Equal(want) {
		t.Fatalf("got %v, want %v", bare.Time, want)
	}
}

func TestParseExpenseDateFallback(t *testing.T) {
	cases := []struct {
		value string
		year  int
		month time.Month
		day   int
	}{
		{"05/03/2024", 2024, time.March, 5},
		{"2024-03", 2024, time.March, 1},
		{"05 Mar 24 10:00 UTC", 2024, time.March, 5},
		{"Tuesday, 05-Mar-24 10:00:00 UTC", 2024, time.March, 5},
	}
	for _, tc := range cases {
		p := ParseExpenseDate(tc.value)
		if p.Kind != DateFallback {
			t.Fatalf("value %q: expected fallback kind, got %v", tc.value, p.Kind)
		}
		if p.Time.Year() != tc.year || p.Time.Month() != tc.month || p.Time.Day() != tc.day {
			t.Fatalf("value %q: unexpected fallback date %v", tc.value, p.Time)
		}
	}
}

func TestParseExpenseDateMissing(t *testing.T) {
	for _, v := range []string{"", "   ", "n'importe quoi", "aa-bb-cc"} {
		if p := ParseExpenseDate(v); p.Kind != DateMissing {
			t.Fatalf("value %q: expected missing, got kind %v", v, p.Kind)
		}
	}
}
