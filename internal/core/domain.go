package core

import (
	"errors"
	"strings"
	"time"
)

// Category is the closed set of expense categories. The persistence layer
// enforces the same set through a Postgres enum, so anything outside it must
// be rejected before reaching the database.
type Category string

const (
	CategorySorties       Category = "sorties"
	CategoryCourses       Category = "courses"
	CategoryEssences      Category = "essences"
	CategoryExceptionnels Category = "achats exceptionnels"
)

// Categories returns the valid categories in display order.
func Categories() []Category {
	return []Category{CategorySorties, CategoryCourses, CategoryEssences, CategoryExceptionnels}
}

// Valid reports whether the category belongs to the closed set.
func (c Category) Valid() bool {
	switch c {
	case CategorySorties, CategoryCourses, CategoryEssences, CategoryExceptionnels:
		return true
	}
	return false
}

type (
	// Expense is the sole persisted entity. ExpenseDate travels on the wire
	// as a bare YYYY-MM-DD string; created_at/updated_at are server clocks.
	Expense struct {
		ID          int64     `json:"id"`
		Amount      float64   `json:"amount"`
		Place       string    `json:"place"`
		ExpenseDate string    `json:"expense_date"`
		Category    Category  `json:"category"`
		CreatedAt   time.Time `json:"created_at"`
		UpdatedAt   time.Time `json:"updated_at"`
	}

	// ExpenseInput carries the client-supplied fields of a create request.
	ExpenseInput struct {
		Amount      float64  `json:"amount"`
		Place       string   `json:"place"`
		ExpenseDate string   `json:"expense_date"`
		Category    Category `json:"category"`
	}

	// ExpenseUpdate is an ExpenseInput addressed at an existing record.
	ExpenseUpdate struct {
		ID int64 `json:"id"`
		ExpenseInput
	}
)

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrEmptyPlace      = errors.New("empty place")
	ErrInvalidDate     = errors.New("invalid expense date")
	ErrInvalidCategory = errors.New("invalid category")
	ErrMissingID       = errors.New("missing expense id")
)

func (in ExpenseInput) Validate() error {
	// A zero amount is rejected deliberately; the upstream behavior never
	// admitted zero-amount expenses.
	if in.Amount <= 0 {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(in.Place) == "" {
		return ErrEmptyPlace
	}
	if len(in.Place) > 500 {
		return errors.New("place too long (max 500 characters)")
	}
	if ParseExpenseDate(in.ExpenseDate).Kind == DateMissing {
		return ErrInvalidDate
	}
	if !in.Category.Valid() {
		return ErrInvalidCategory
	}
	return nil
}

func (u ExpenseUpdate) Validate() error {
	if u.ID <= 0 {
		return ErrMissingID
	}
	return u.ExpenseInput.Validate()
}
