// Package core holds the domain types and the pure logic of the expense
// tracker: validation, the monthly run-rate estimate, and list sorting.
package core

import (
	"strconv"
	"strings"
	"time"
)

// DateKind tells which path produced a ParsedDate.
type DateKind int

const (
	// DateMissing means the value was empty or unparsable. Such dates sort
	// at the epoch minimum, first in ascending order.
	DateMissing DateKind = iota
	// DateLocal means the value was a YYYY-MM-DD string (optionally with a
	// trailing time component, which is discarded) interpreted as a local
	// calendar date. No timezone shift is applied, so "2024-03-05" and
	// "2024-03-05T00:00:00Z" land on the same instant.
	DateLocal
	// DateFallback means a general date parser accepted the value.
	DateFallback
)

// ParsedDate is the two-variant result of parsing an expense date string.
type ParsedDate struct {
	Kind DateKind
	Time time.Time
}

// fallbackLayouts are tried in order for values that are not bare
// YYYY-MM-DD[T...] strings.
var fallbackLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"02/01/2006",
	"2006-01",
	time.RFC1123,
	time.RFC822,
	time.RFC850,
}

// ParseExpenseDate normalizes the two shapes expense dates arrive in: a bare
// ISO date (possibly carrying a time suffix from a timestamp column) and, as
// a fallback, anything a general parser accepts. The local-date path exists
// to avoid the off-by-one-day a naive UTC parse would introduce.
func ParseExpenseDate(value string) ParsedDate {
	value = strings.TrimSpace(value)
	if value == "" {
		return ParsedDate{Kind: DateMissing}
	}

	if parts := strings.SplitN(value, "-", 3); len(parts) == 3 {
		day, _, _ := strings.Cut(parts[2], "T")
		y, errY := strconv.Atoi(parts[0])
		m, errM := strconv.Atoi(parts[1])
		d, errD := strconv.Atoi(day)
		if errY == nil && errM == nil && errD == nil {
			return ParsedDate{
				Kind: DateLocal,
				Time: time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.Local),
			}
		}
	}

	for _, layout := range fallbackLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return ParsedDate{Kind: DateFallback, Time: t}
		}
	}
	return ParsedDate{Kind: DateMissing}
}

// sortInstant maps a parsed date onto the comparable axis used by Sorter.
// Missing dates collapse to the zero time.
func (p ParsedDate) sortInstant() time.Time {
	if p.Kind == DateMissing {
		return time.Time{}
	}
	return p.Time
}
