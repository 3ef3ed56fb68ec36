package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"gastos/internal/budget"
	"gastos/internal/core"
)

type budgetSpecJSON struct {
	MonthlyTotal string            `json:"monthly_total"`
	Cents        int64             `json:"cents"`
	Categories   map[string]string `json:"categories,omitempty"`
	Currency     string            `json:"currency"`
}

func toBudgetSpecJSON(spec budget.Spec) budgetSpecJSON {
	out := budgetSpecJSON{
		MonthlyTotal: core.FormatCents(spec.MonthlyTotal),
		Cents:        spec.MonthlyTotal,
		Currency:     string(spec.Currency),
	}
	if len(spec.Categories) > 0 {
		out.Categories = make(map[string]string, len(spec.Categories))
		for cat, cents := range spec.Categories {
			out.Categories[string(cat)] = core.FormatCents(cents)
		}
	}
	return out
}

type budgetResponse struct {
	Mode            string          `json:"mode"`
	DisplayCurrency string          `json:"display_currency"`
	MonthKey        string          `json:"month_key"`
	Resolved        *budgetSpecJSON `json:"resolved,omitempty"`
	Draft           budgetSpecJSON  `json:"draft"`
}

// budgetRequest is the wire shape for setting a budget. Amounts are decimal
// strings, same as expense amounts.
type budgetRequest struct {
	Month        string            `json:"month,omitempty"` // YYYY-MM, monthly mode only
	MonthlyTotal string            `json:"monthly_total"`
	Categories   map[string]string `json:"categories,omitempty"`
	Currency     string            `json:"currency,omitempty"`
}

func (s *Server) handleBudget(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.getBudget(w, r)
	case http.MethodPut:
		s.putBudget(w, r)
	case http.MethodDelete:
		s.removeBudget(w, r)
	default:
		w.Header().Set("Allow", "GET, PUT, DELETE")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// monthKeyParam reads the month query parameter, defaulting to the current
// month.
func monthKeyParam(r *http.Request) (string, error) {
	key := strings.TrimSpace(r.URL.Query().Get("month"))
	if key == "" {
		now := time.Now()
		return core.FormatMonthKey(now.Year(), int(now.Month())), nil
	}
	if _, _, err := core.ParseMonthKey(key); err != nil {
		return "", err
	}
	return key, nil
}

func (s *Server) getBudget(w http.ResponseWriter, r *http.Request) {
	monthKey, err := monthKeyParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp := budgetResponse{
		Mode:            string(s.budget.Mode()),
		DisplayCurrency: string(s.budget.DisplayCurrency()),
		MonthKey:        monthKey,
		Draft:           toBudgetSpecJSON(s.budget.EditableDraftFor(monthKey)),
	}
	if spec := s.budget.Resolve(monthKey); spec != nil {
		resolved := toBudgetSpecJSON(*spec)
		resp.Resolved = &resolved
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) putBudget(w http.ResponseWriter, r *http.Request) {
	var req budgetRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	spec, err := req.toSpec()
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	monthKey := strings.TrimSpace(req.Month)
	if monthKey == "" {
		now := time.Now()
		monthKey = core.FormatMonthKey(now.Year(), int(now.Month()))
	}

	if err := s.budget.Apply(r.Context(), monthKey, spec); err != nil {
		switch {
		case errors.Is(err, budget.ErrInvalidBudget), errors.Is(err, core.ErrInvalidMonthKey):
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			slog.ErrorContext(r.Context(), "Apply budget failed", "month_key", monthKey, "error", err)
			writeError(w, http.StatusInternalServerError, "could not save budget")
		}
		return
	}

	s.invalidateReadCaches()
	s.getBudgetAfterWrite(w, r, monthKey)
}

func (s *Server) removeBudget(w http.ResponseWriter, r *http.Request) {
	monthKey, err := monthKeyParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.budget.Remove(r.Context(), monthKey); err != nil {
		slog.ErrorContext(r.Context(), "Remove budget failed", "month_key", monthKey, "error", err)
		writeError(w, http.StatusInternalServerError, "could not remove budget")
		return
	}

	s.invalidateReadCaches()
	w.WriteHeader(http.StatusNoContent)
}

type budgetModeRequest struct {
	Mode string `json:"mode"`
}

func (s *Server) handleBudgetMode(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		w.Header().Set("Allow", "PUT")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req budgetModeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.budget.SwitchMode(r.Context(), budget.Mode(req.Mode)); err != nil {
		if errors.Is(err, budget.ErrInvalidMode) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		slog.ErrorContext(r.Context(), "Switch budget mode failed", "mode", req.Mode, "error", err)
		writeError(w, http.StatusInternalServerError, "could not switch budget mode")
		return
	}

	s.invalidateReadCaches()
	writeJSON(w, http.StatusOK, map[string]string{"mode": string(s.budget.Mode())})
}

func (s *Server) getBudgetAfterWrite(w http.ResponseWriter, r *http.Request, monthKey string) {
	resp := budgetResponse{
		Mode:            string(s.budget.Mode()),
		DisplayCurrency: string(s.budget.DisplayCurrency()),
		MonthKey:        monthKey,
		Draft:           toBudgetSpecJSON(s.budget.EditableDraftFor(monthKey)),
	}
	if spec := s.budget.Resolve(monthKey); spec != nil {
		resolved := toBudgetSpecJSON(*spec)
		resp.Resolved = &resolved
	}
	writeJSON(w, http.StatusOK, resp)
}

func (req budgetRequest) toSpec() (budget.Spec, error) {
	total, err := core.ParseDecimalToCents(req.MonthlyTotal)
	if err != nil {
		return budget.Spec{}, fmt.Errorf("invalid monthly total %q: %w", req.MonthlyTotal, err)
	}

	spec := budget.Spec{MonthlyTotal: total}

	if req.Currency != "" {
		currency := core.Currency(strings.ToUpper(strings.TrimSpace(req.Currency)))
		if !currency.Valid() {
			return budget.Spec{}, core.ErrInvalidCurrency
		}
		spec.Currency = currency
	}

	if len(req.Categories) > 0 {
		spec.Categories = make(map[core.Category]int64, len(req.Categories))
		for name, amount := range req.Categories {
			cat := core.NormalizeCategory(name)
			cents, err := core.ParseDecimalToCents(amount)
			if err != nil {
				return budget.Spec{}, fmt.Errorf("invalid limit for category %q: %w", name, err)
			}
			spec.Categories[cat] = cents
		}
	}

	return spec, nil
}
