package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"gastos/internal/core"
	"gastos/internal/storage"
)

// expenseResponse is the wire shape of a stored expense.
type expenseResponse struct {
	ID       string `json:"id"`
	Concept  string `json:"concept"`
	Amount   string `json:"amount"`
	Cents    int64  `json:"cents"`
	Currency string `json:"currency"`
	Category string `json:"category"`
	Emoji    string `json:"emoji"`
	Date     string `json:"date"`
}

func toExpenseResponse(e core.Expense) expenseResponse {
	normalized := core.NormalizeCategory(string(e.Category))
	return expenseResponse{
		ID:       e.ID,
		Concept:  e.Concept,
		Amount:   core.FormatCents(e.Amount.Cents),
		Cents:    e.Amount.Cents,
		Currency: string(e.Currency),
		Category: string(normalized),
		Emoji:    normalized.Emoji(),
		Date:     e.Date.String(),
	}
}

func (s *Server) handleExpenses(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listExpenses(w, r)
	case http.MethodPost:
		s.createExpense(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) listExpenses(w http.ResponseWriter, r *http.Request) {
	var (
		expenses []core.Expense
		err      error
	)

	if r.URL.Query().Has("year") || r.URL.Query().Has("month") {
		year, month, perr := parseYearMonth(r)
		if perr != nil {
			writeError(w, http.StatusBadRequest, perr.Error())
			return
		}
		expenses, err = s.service.MonthExpenses(r.Context(), year, month)
	} else {
		expenses, err = s.service.ListExpenses(r.Context())
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "List expenses failed", "error", err)
		writeError(w, http.StatusInternalServerError, "could not list expenses")
		return
	}

	out := make([]expenseResponse, 0, len(expenses))
	for _, e := range expenses {
		out = append(out, toExpenseResponse(e))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) createExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	expense, err := req.toExpense()
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	created, err := s.service.CreateExpense(r.Context(), expense)
	if err != nil {
		if isValidationError(err) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		slog.ErrorContext(r.Context(), "Create expense failed", "error", err)
		writeError(w, http.StatusInternalServerError, "could not save expense")
		return
	}

	s.invalidateReadCaches()
	writeJSON(w, http.StatusCreated, toExpenseResponse(created))
}

func (s *Server) handleExpenseByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/expenses/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	switch r.Method {
	case http.MethodPut:
		s.updateExpense(w, r, id)
	case http.MethodDelete:
		s.deleteExpense(w, r, id)
	default:
		w.Header().Set("Allow", "PUT, DELETE")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) updateExpense(w http.ResponseWriter, r *http.Request, id string) {
	var req expenseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	expense, err := req.toExpense()
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	expense.ID = id
	if expense.Currency == "" {
		expense.Currency = core.DefaultCurrency
	}

	if err := s.service.UpdateExpense(r.Context(), expense); err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			writeError(w, http.StatusNotFound, "expense not found")
		case isValidationError(err):
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			slog.ErrorContext(r.Context(), "Update expense failed", "id", id, "error", err)
			writeError(w, http.StatusInternalServerError, "could not update expense")
		}
		return
	}

	s.invalidateReadCaches()
	writeJSON(w, http.StatusOK, toExpenseResponse(expense))
}

func (s *Server) deleteExpense(w http.ResponseWriter, r *http.Request, id string) {
	if err := s.service.DeleteExpense(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "expense not found")
			return
		}
		slog.ErrorContext(r.Context(), "Delete expense failed", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "could not delete expense")
		return
	}

	s.invalidateReadCaches()
	w.WriteHeader(http.StatusNoContent)
}

func isValidationError(err error) bool {
	return errors.Is(err, core.ErrInvalidAmount) ||
		errors.Is(err, core.ErrEmptyConcept) ||
		errors.Is(err, core.ErrConceptTooLong) ||
		errors.Is(err, core.ErrInvalidCurrency) ||
		errors.Is(err, core.ErrMissingDate)
}
