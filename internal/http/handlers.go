package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"depenses/internal/amqp"
	"depenses/internal/core"
	applog "depenses/internal/log"
	"depenses/internal/storage"
)

// handleGetExpenses returns all records ordered by expense date descending.
func (s *Server) handleGetExpenses(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondMethodNotAllowed(w, http.MethodGet)
		return
	}

	expenses, err := s.store.ListExpenses(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "List expenses failed", applog.FieldError, err)
		respondError(w, http.StatusInternalServerError, "Error fetching expenses", "")
		return
	}
	if expenses == nil {
		expenses = []core.Expense{}
	}

	respondData(w, http.StatusOK, expenses, "")
}

// handleGetMonthlyEstimate sums the current month and projects it linearly
// onto the full month.
func (s *Server) handleGetMonthlyEstimate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondMethodNotAllowed(w, http.MethodGet)
		return
	}

	total, err := s.store.CurrentMonthTotal(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Month total query failed", applog.FieldError, err)
		respondError(w, http.StatusInternalServerError, "Error calculating estimate", "")
		return
	}

	respondData(w, http.StatusOK, core.ComputeMonthlyEstimate(total, time.Now()), "")
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondMethodNotAllowed(w, http.MethodPost)
		return
	}

	var in core.ExpenseInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body", "")
		return
	}
	if err := in.Validate(); err != nil {
		respondError(w, http.StatusBadRequest,
			"Missing required fields: amount, place, expense_date, category", err.Error())
		return
	}

	created, err := s.store.CreateExpense(r.Context(), in)
	if err != nil {
		slog.ErrorContext(r.Context(), "Create expense failed", applog.FieldError, err, applog.FieldPlace, in.Place)
		respondError(w, http.StatusInternalServerError, "Error adding expense", "")
		return
	}

	s.publishEvent(r.Context(), amqp.EventCreated, created.ID)
	respondData(w, http.StatusCreated, created, "Expense added successfully")
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		respondMethodNotAllowed(w, http.MethodPut)
		return
	}

	var u core.ExpenseUpdate
	if err := json.NewDecoder(r.Body).Decode(&u); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body", "")
		return
	}
	if err := u.Validate(); err != nil {
		respondError(w, http.StatusBadRequest,
			"Missing required fields: id, amount, place, expense_date, category", err.Error())
		return
	}

	updated, err := s.store.UpdateExpense(r.Context(), u)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Expense not found", "")
			return
		}
		slog.ErrorContext(r.Context(), "Update expense failed", applog.FieldError, err, applog.FieldExpenseID, u.ID)
		respondError(w, http.StatusInternalServerError, "Error updating expense", "")
		return
	}

	s.publishEvent(r.Context(), amqp.EventUpdated, updated.ID)
	respondData(w, http.StatusOK, updated, "Expense updated successfully")
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		respondMethodNotAllowed(w, http.MethodDelete)
		return
	}

	id, ok := deleteID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "Missing expense id", "")
		return
	}

	deleted, err := s.store.DeleteExpense(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Expense not found", "")
			return
		}
		slog.ErrorContext(r.Context(), "Delete expense failed", applog.FieldError, err, applog.FieldExpenseID, id)
		respondError(w, http.StatusInternalServerError, "Error deleting expense", "")
		return
	}

	s.publishEvent(r.Context(), amqp.EventDeleted, deleted.ID)
	respondData(w, http.StatusOK, deleted, "Expense deleted successfully")
}

// deleteID accepts the id from the query string or, failing that, a JSON
// body.
func deleteID(r *http.Request) (int64, bool) {
	if v := strings.TrimSpace(r.URL.Query().Get("id")); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		return id, err == nil && id > 0
	}

	body, err := io.ReadAll(r.Body)
	if err != nil || len(body) == 0 {
		return 0, false
	}
	var payload struct {
		ID int64 `json:"id"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return 0, false
	}
	return payload.ID, payload.ID > 0
}
