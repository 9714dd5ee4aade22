package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"depenses/internal/core"
	applog "depenses/internal/log"
)

// ErrNotFound is returned when an operation targets an id with no matching
// row. Handlers translate it to a 404.
var ErrNotFound = errors.New("expense not found")

const expenseColumns = "id, amount, place, expense_date, category, created_at, updated_at"

// Store wraps a bounded pgx connection pool. It is constructed explicitly
// and injected; there is no package-level instance. Every query acquires one
// connection for its single statement and releases it on all exit paths.
type Store struct {
	pool *pgxpool.Pool
}

// New connects to Postgres, applies migrations and returns a ready Store.
func New(ctx context.Context, databaseURL string, maxConns int32) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}
	cfg.MaxConns = maxConns
	cfg.ConnConfig.ConnectTimeout = 30 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(databaseURL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// ListExpenses returns all records ordered by expense date descending.
// Tie order within a date is whatever the storage returns.
func (s *Store) ListExpenses(ctx context.Context) ([]core.Expense, error) {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx,
		`SELECT `+expenseColumns+` FROM expenses ORDER BY expense_date DESC`)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []core.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}

	return expenses, nil
}

// CreateExpense inserts a record and returns it with the server-assigned id
// and timestamps.
func (s *Store) CreateExpense(ctx context.Context, in core.ExpenseInput) (core.Expense, error) {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return core.Expense{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx,
		`INSERT INTO expenses (amount, place, category, expense_date, created_at)
		 VALUES ($1, $2, $3, $4, NOW())
		 RETURNING `+expenseColumns,
		in.Amount, in.Place, string(in.Category), in.ExpenseDate)

	e, err := scanExpense(row)
	if err != nil {
		return core.Expense{}, fmt.Errorf("create expense: %w", err)
	}

	slog.InfoContext(ctx, "Expense created",
		applog.FieldExpenseID, e.ID, applog.FieldPlace, e.Place,
		applog.FieldAmount, e.Amount, applog.FieldCategory, e.Category)
	return e, nil
}

// UpdateExpense replaces all mutable fields of the record; the trigger
// refreshes updated_at. Returns ErrNotFound when the id does not exist.
func (s *Store) UpdateExpense(ctx context.Context, u core.ExpenseUpdate) (core.Expense, error) {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return core.Expense{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx,
		`UPDATE expenses
		 SET amount = $1, place = $2, category = $3, expense_date = $4
		 WHERE id = $5
		 RETURNING `+expenseColumns,
		u.Amount, u.Place, string(u.Category), u.ExpenseDate, u.ID)

	e, err := scanExpense(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return core.Expense{}, ErrNotFound
		}
		return core.Expense{}, fmt.Errorf("update expense: %w", err)
	}

	slog.InfoContext(ctx, "Expense updated", applog.FieldExpenseID, e.ID, applog.FieldPlace, e.Place)
	return e, nil
}

// DeleteExpense removes the record and returns its prior state. Returns
// ErrNotFound when the id does not exist.
func (s *Store) DeleteExpense(ctx context.Context, id int64) (core.Expense, error) {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return core.Expense{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx,
		`DELETE FROM expenses WHERE id = $1 RETURNING `+expenseColumns, id)

	e, err := scanExpense(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return core.Expense{}, ErrNotFound
		}
		return core.Expense{}, fmt.Errorf("delete expense: %w", err)
	}

	slog.InfoContext(ctx, "Expense deleted", applog.FieldExpenseID, e.ID, applog.FieldPlace, e.Place)
	return e, nil
}

// CurrentMonthTotal sums the amounts of expenses dated within the current
// calendar month on the database clock.
func (s *Store) CurrentMonthTotal(ctx context.Context) (float64, error) {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return 0, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var total float64
	err = conn.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0) AS total
		 FROM expenses
		 WHERE expense_date >= date_trunc('month', CURRENT_DATE)
		   AND expense_date < (date_trunc('month', CURRENT_DATE) + INTERVAL '1 month')`).
		Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum current month: %w", err)
	}

	return total, nil
}

// scanExpense maps one row onto the domain type. expense_date comes back as
// a DATE and goes out on the wire as a bare YYYY-MM-DD string.
func scanExpense(row pgx.Row) (core.Expense, error) {
	var (
		e           core.Expense
		expenseDate time.Time
		category    string
	)
	if err := row.Scan(&e.ID, &e.Amount, &e.Place, &expenseDate, &category, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return core.Expense{}, err
	}
	e.ExpenseDate = expenseDate.Format("2006-01-02")
	e.Category = core.Category(category)
	return e, nil
}
