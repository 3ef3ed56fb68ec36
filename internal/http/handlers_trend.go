package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"gastos/internal/report"
)

type trendMonth struct {
	Month       int    `json:"month"`
	SpentCents  int64  `json:"spent_cents"`
	BudgetCents *int64 `json:"budget_cents"` // null when no budget is set
}

type trendResponse struct {
	Year       int                `json:"year"`
	Months     []trendMonth       `json:"months"`
	Stacked    map[string][]int64 `json:"stacked"`
	TotalSpent int64              `json:"total_spent_cents"`
	HasBudget  bool               `json:"has_budget"`
}

func (s *Server) buildTrendResponse(r *http.Request, year int) (trendResponse, error) {
	cacheKey := strconv.Itoa(year)
	if cached, ok := s.trendCache.Get(cacheKey); ok {
		return cached, nil
	}

	expenses, err := s.service.ListExpenses(r.Context())
	if err != nil {
		return trendResponse{}, err
	}

	trend := report.BuildTrend(expenses, year, s.budget.Lookup)

	resp := trendResponse{
		Year:       trend.Year,
		Months:     make([]trendMonth, 12),
		Stacked:    make(map[string][]int64, len(trend.Stacked)),
		TotalSpent: trend.TotalSpent,
		HasBudget:  report.HasAnyBudget(trend.Budget),
	}
	for i := 0; i < 12; i++ {
		resp.Months[i] = trendMonth{
			Month:       i + 1,
			SpentCents:  trend.Spend[i],
			BudgetCents: trend.Budget[i],
		}
	}
	for cat, months := range trend.Stacked {
		resp.Stacked[string(cat)] = append([]int64(nil), months[:]...)
	}

	s.trendCache.Set(cacheKey, resp)
	return resp, nil
}

// handleTrend returns the yearly series as JSON. Months without a budget
// carry an explicit null, never zero.
func (s *Server) handleTrend(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	year, err := parseYear(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := s.buildTrendResponse(r, year)
	if err != nil {
		slog.ErrorContext(r.Context(), "Build trend failed", "error", err)
		writeError(w, http.StatusInternalServerError, "could not build trend")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleTrendChart renders the yearly series as a PNG image.
func (s *Server) handleTrendChart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	year, err := parseYear(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	expenses, err := s.service.ListExpenses(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Trend chart failed", "error", err)
		writeError(w, http.StatusInternalServerError, "could not build chart")
		return
	}

	trend := report.BuildTrend(expenses, year, s.budget.Lookup)
	png, err := s.charts.RenderTrend(trend)
	if err != nil {
		slog.ErrorContext(r.Context(), "Render trend chart failed", "error", err, "year", year)
		writeError(w, http.StatusInternalServerError, "could not render chart")
		return
	}
	if png == nil {
		writeError(w, http.StatusNotFound, "no expenses recorded for "+strconv.Itoa(year))
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}
