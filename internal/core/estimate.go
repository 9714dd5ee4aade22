package core

import "time"

// MonthlyEstimate is the derived, non-persisted run-rate projection of the
// current month's spend. Field names match the wire format.
type MonthlyEstimate struct {
	TotalSoFar     float64 `json:"totalSoFar"`
	DaysElapsed    int     `json:"daysElapsed"`
	DaysInMonth    int     `json:"daysInMonth"`
	EstimatedTotal float64 `json:"estimatedTotal"`
}

// ComputeMonthlyEstimate projects the month-to-date total linearly onto the
// full month. totalSoFar is the sum of amounts for expenses dated within the
// current calendar month; now supplies the day-of-month and month length.
// The division guard is defensive only, daysElapsed is 1 on the first of
// the month.
func ComputeMonthlyEstimate(totalSoFar float64, now time.Time) MonthlyEstimate {
	est := MonthlyEstimate{
		TotalSoFar:  totalSoFar,
		DaysElapsed: now.Day(),
		DaysInMonth: daysInMonth(now),
	}
	if est.DaysElapsed > 0 {
		est.EstimatedTotal = totalSoFar / float64(est.DaysElapsed) * float64(est.DaysInMonth)
	}
	return est
}

// daysInMonth is the day-of-month of the day before the first of next month.
func daysInMonth(now time.Time) int {
	return time.Date(now.Year(), now.Month()+1, 0, 0, 0, 0, 0, now.Location()).Day()
}
