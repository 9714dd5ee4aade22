// Package worker keeps a warm monthly estimate by re-deriving it from the
// database whenever an expense mutation event arrives. It is the server-side
// mirror of the UI's fetch-after-write policy.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"depenses/internal/amqp"
	"depenses/internal/core"
	applog "depenses/internal/log"
)

// MonthTotaler is the slice of the store the refresher needs.
type MonthTotaler interface {
	CurrentMonthTotal(ctx context.Context) (float64, error)
}

type EstimateRefresher struct {
	store MonthTotaler

	mu     sync.RWMutex
	latest core.MonthlyEstimate
	fresh  bool
}

func NewEstimateRefresher(store MonthTotaler) *EstimateRefresher {
	return &EstimateRefresher{store: store}
}

// HandleEvent recomputes the current-month estimate after a mutation. Any
// storage failure is returned so the delivery gets requeued.
func (w *EstimateRefresher) HandleEvent(ctx context.Context, ev *amqp.ExpenseEvent) error {
	total, err := w.store.CurrentMonthTotal(ctx)
	if err != nil {
		return fmt.Errorf("current month total: %w", err)
	}

	est := core.ComputeMonthlyEstimate(total, time.Now())

	w.mu.Lock()
	w.latest = est
	w.fresh = true
	w.mu.Unlock()

	slog.InfoContext(ctx, "Monthly estimate refreshed",
		applog.FieldEventType, ev.Type,
		applog.FieldExpenseID, ev.ID,
		"total_so_far", est.TotalSoFar,
		"days_elapsed", est.DaysElapsed,
		"days_in_month", est.DaysInMonth,
		"estimated_total", est.EstimatedTotal)

	return nil
}

// Latest returns the most recently derived estimate; ok is false until the
// first event has been processed.
func (w *EstimateRefresher) Latest() (core.MonthlyEstimate, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.latest, w.fresh
}
