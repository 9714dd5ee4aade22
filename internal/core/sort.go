package core

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortKey selects the field a list of expenses is ordered by.
type SortKey string

const (
	SortByDate     SortKey = "date"
	SortByPlace    SortKey = "place"
	SortByCategory SortKey = "category"
)

// SortDirection is ascending or descending.
type SortDirection string

const (
	Ascending  SortDirection = "asc"
	Descending SortDirection = "desc"
)

// Sorter orders expense lists and remembers the active key and direction so
// that repeated requests for the same key flip the direction. It is meant
// for single-threaded use over an in-memory snapshot.
type Sorter struct {
	Key       SortKey
	Direction SortDirection

	collator *collate.Collator
}

// NewSorter starts out sorted by date descending, which matches the order
// the list endpoint returns.
func NewSorter() *Sorter {
	return &Sorter{
		Key:       SortByDate,
		Direction: Descending,
		// Base sensitivity: case and diacritics are ignored, so "Café"
		// and "cafe" compare equal.
		collator: collate.New(language.French, collate.Loose),
	}
}

// Toggle flips the direction when key is already active, otherwise switches
// to key ascending.
func (s *Sorter) Toggle(key SortKey) {
	if s.Key == key {
		if s.Direction == Ascending {
			s.Direction = Descending
		} else {
			s.Direction = Ascending
		}
		return
	}
	s.Key = key
	s.Direction = Ascending
}

// IsSortedBy reports whether key is the active sort key.
func (s *Sorter) IsSortedBy(key SortKey) bool {
	return s.Key == key
}

// Sort returns a stably ordered copy of expenses; the input slice is never
// mutated. Ties keep their relative input order.
func (s *Sorter) Sort(expenses []Expense) []Expense {
	items := make([]Expense, len(expenses))
	copy(items, expenses)

	dir := 1
	if s.Direction == Descending {
		dir = -1
	}

	sort.SliceStable(items, func(i, j int) bool {
		return s.compare(items[i], items[j])*dir < 0
	})
	return items
}

func (s *Sorter) compare(a, b Expense) int {
	switch s.Key {
	case SortByPlace:
		return s.collator.CompareString(a.Place, b.Place)
	case SortByCategory:
		return s.collator.CompareString(string(a.Category), string(b.Category))
	default:
		ta := ParseExpenseDate(a.ExpenseDate).sortInstant()
		tb := ParseExpenseDate(b.ExpenseDate).sortInstant()
		return ta.Compare(tb)
	}
}
