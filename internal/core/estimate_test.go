package core

import (
	"testing"
	"time"
)

func TestComputeMonthlyEstimate(t *testing.T) {
	cases := []struct {
		name  string
		total float64
		now   time.Time
		want  MonthlyEstimate
	}{
		{
			"mid month",
			100,
			time.Date(2025, time.April, 10, 15, 0, 0, 0, time.UTC),
			MonthlyEstimate{TotalSoFar: 100, DaysElapsed: 10, DaysInMonth: 30, EstimatedTotal: 300},
		},
		{
			"later in same month projects less",
			100,
			time.Date(2025, time.April, 20, 8, 0, 0, 0, time.UTC),
			MonthlyEstimate{TotalSoFar: 100, DaysElapsed: 20, DaysInMonth: 30, EstimatedTotal: 150},
		},
		{
			"first of month",
			31,
			time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
			MonthlyEstimate{TotalSoFar: 31, DaysElapsed: 1, DaysInMonth: 31, EstimatedTotal: 961},
		},
		{
			"february non leap",
			0,
			time.Date(2025, time.February, 14, 0, 0, 0, 0, time.UTC),
			MonthlyEstimate{TotalSoFar: 0, DaysElapsed: 14, DaysInMonth: 28, EstimatedTotal: 0},
		},
		{
			"february leap",
			29,
			time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC),
			MonthlyEstimate{TotalSoFar: 29, DaysElapsed: 29, DaysInMonth: 29, EstimatedTotal: 29},
		},
		{
			"december wraps year",
			10,
			time.Date(2025, time.December, 5, 0, 0, 0, 0, time.UTC),
			MonthlyEstimate{TotalSoFar: 10, DaysElapsed: 5, DaysInMonth: 31, EstimatedTotal: 62},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ComputeMonthlyEstimate(tc.total, tc.now)
			if got != tc.want {
				t.Fatalf("got %+v, want %+v", got, tc.want)
			}
		})
	}
}

// The same month-to-date total projects lower as the month advances.
func TestEstimateMonotonicity(t *testing.T) {
	earlier := ComputeMonthlyEstimate(250, time.Date(2025, time.June, 3, 0, 0, 0, 0, time.UTC))
	later := ComputeMonthlyEstimate(250, time.Date(2025, time.June, 27, 0, 0, 0, 0, time.UTC))
	if earlier.EstimatedTotal < later.EstimatedTotal {
		t.Fatalf("expected earlier projection %v >= later projection %v",
			earlier.EstimatedTotal, later.EstimatedTotal)
	}
}
