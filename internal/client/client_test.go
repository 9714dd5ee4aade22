package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"depenses/internal/core"
)

func TestGetExpenses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/getExpenses", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":[{"id":1,"amount":9.9,"place":"Fnac","expense_date":"2025-05-02","category":"achats exceptionnels"}]}`))
	}))
	defer srv.Close()

	c := New(srv.URL, 2*time.Second)
	expenses, err := c.GetExpenses(context.Background())
	require.NoError(t, err)
	require.Len(t, expenses, 1)
	assert.Equal(t, int64(1), expenses[0].ID)
	assert.Equal(t, core.CategoryExceptionnels, expenses[0].Category)
}

func TestGetMonthlyEstimate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":true,"data":{"totalSoFar":100,"daysElapsed":10,"daysInMonth":30,"estimatedTotal":300}}`))
	}))
	defer srv.Close()

	c := New(srv.URL, 2*time.Second)
	est, err := c.GetMonthlyEstimate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, core.MonthlyEstimate{TotalSoFar: 100, DaysElapsed: 10, DaysInMonth: 30, EstimatedTotal: 300}, est)
}

func TestCreateExpenseSendsPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"success":true,"data":{"id":5,"amount":20,"place":"Resto","expense_date":"2025-05-02","category":"sorties"},"message":"Expense added successfully"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, 2*time.Second)
	created, err := c.CreateExpense(context.Background(), core.ExpenseInput{
		Amount: 20, Place: "Resto", ExpenseDate: "2025-05-02", Category: core.CategorySorties,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(5), created.ID)
}

func TestFailureEnvelopeBecomesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"success":false,"message":"Expense not found"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, 2*time.Second)
	_, err := c.DeleteExpense(context.Background(), 404)
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.True(t, apiErr.IsNotFound())
	assert.Equal(t, "Expense not found", apiErr.Message)
}

func TestTimeoutIsAnErrorWithoutRetry(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		time.Sleep(300 * time.Millisecond)
		_, _ = w.Write([]byte(`{"success":true,"data":[]}`))
	}))
	defer srv.Close()

	c := New(srv.URL, 50*time.Millisecond)
	_, err := c.GetExpenses(context.Background())
	require.Error(t, err)
	assert.Equal(t, int32(1), hits.Load(), "timeouts must not retry")
}
