// Package client is the typed HTTP client for the expense API. Calls share a
// fixed timeout, never retry, and surface the response envelope's failure
// state as an *APIError.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"depenses/internal/core"
)

// APIError is a failure reported by the server envelope or a non-2xx status.
type APIError struct {
	StatusCode int
	Message    string
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("api error (status %d): %s: %s", e.StatusCode, e.Message, e.Detail)
	}
	return fmt.Sprintf("api error (status %d): %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether the server answered 404.
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

type Client struct {
	baseURL string
	http    *http.Client
}

// New builds a client for the given base URL. timeout bounds every request;
// an expired timeout is a plain error, there is no automatic retry.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// envelope mirrors the server's response wrapper; data stays raw until the
// caller's type is known.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
}

func (c *Client) do(ctx context.Context, method, path string, payload any, out any) error {
	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if !env.Success || resp.StatusCode >= 400 {
		return &APIError{StatusCode: resp.StatusCode, Message: env.Message, Detail: env.Error}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode response data: %w", err)
		}
	}
	return nil
}

// GetExpenses fetches all expenses, newest expense date first.
func (c *Client) GetExpenses(ctx context.Context) ([]core.Expense, error) {
	var expenses []core.Expense
	if err := c.do(ctx, http.MethodGet, "/getExpenses", nil, &expenses); err != nil {
		return nil, err
	}
	return expenses, nil
}

// GetMonthlyEstimate fetches the current month's run-rate projection.
func (c *Client) GetMonthlyEstimate(ctx context.Context) (core.MonthlyEstimate, error) {
	var est core.MonthlyEstimate
	if err := c.do(ctx, http.MethodGet, "/getMonthlyEstimate", nil, &est); err != nil {
		return core.MonthlyEstimate{}, err
	}
	return est, nil
}

func (c *Client) CreateExpense(ctx context.Context, in core.ExpenseInput) (core.Expense, error) {
	var created core.Expense
	if err := c.do(ctx, http.MethodPost, "/createExpense", in, &created); err != nil {
		return core.Expense{}, err
	}
	return created, nil
}

func (c *Client) UpdateExpense(ctx context.Context, u core.ExpenseUpdate) (core.Expense, error) {
	var updated core.Expense
	if err := c.do(ctx, http.MethodPut, "/updateExpense", u, &updated); err != nil {
		return core.Expense{}, err
	}
	return updated, nil
}

// DeleteExpense removes the record and returns its prior state.
func (c *Client) DeleteExpense(ctx context.Context, id int64) (core.Expense, error) {
	var deleted core.Expense
	path := "/deleteExpense?id=" + strconv.FormatInt(id, 10)
	if err := c.do(ctx, http.MethodDelete, path, nil, &deleted); err != nil {
		return core.Expense{}, err
	}
	return deleted, nil
}
