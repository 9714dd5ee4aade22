package core

import "testing"

func TestCategoryValid(t *testing.T) {
	for _, c := range Categories() {
		if !c.Valid() {
			t.Fatalf("expected %q to be valid", c)
		}
	}
	for _, c := range []Category{"vacances", "", "SORTIES", "courses "} {
		if c.Valid() {
			t.Fatalf("expected %q to be invalid", c)
		}
	}
}

func TestExpenseInputValidate(t *testing.T) {
	good := ExpenseInput{
		Amount:      12.5,
		Place:       "Boulangerie",
		ExpenseDate: "2025-03-05",
		Category:    CategoryCourses,
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	cases := []struct {
		name string
		in   ExpenseInput
		want error
	}{
		{"zero amount", ExpenseInput{Amount: 0, Place: "x", ExpenseDate: "2025-03-05", Category: CategoryCourses}, ErrInvalidAmount},
		{"negative amount", ExpenseInput{Amount: -3, Place: "x", ExpenseDate: "2025-03-05", Category: CategoryCourses}, ErrInvalidAmount},
		{"empty place", ExpenseInput{Amount: 1, Place: "  ", ExpenseDate: "2025-03-05", Category: CategoryCourses}, ErrEmptyPlace},
		{"bad date", ExpenseInput{Amount: 1, Place: "x", ExpenseDate: "pas une date", Category: CategoryCourses}, ErrInvalidDate},
		{"bad category", ExpenseInput{Amount: 1, Place: "x", ExpenseDate: "2025-03-05", Category: "vacances"}, ErrInvalidCategory},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.in.Validate(); err != tc.want {
				t.Fatalf("got %v, want %v", err, tc.want)
			}
		})
	}
}

func TestExpenseUpdateValidate(t *testing.T) {
	in := ExpenseInput{Amount: 1, Place: "x", ExpenseDate: "2025-03-05", Category: CategorySorties}
	if err := (ExpenseUpdate{ID: 0, ExpenseInput: in}).Validate(); err != ErrMissingID {
		t.Fatalf("expected ErrMissingID, got %v", err)
	}
	if err := (ExpenseUpdate{ID: 7, ExpenseInput: in}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
}
