package http

import (
	"log/slog"
	"net/http"

	"gastos/internal/core"
	"gastos/internal/report"
)

type progressJSON struct {
	Percent int     `json:"percent"`
	Width   float64 `json:"width"`
	Tier    string  `json:"tier"`
}

func toProgressJSON(p report.Progress) progressJSON {
	return progressJSON{Percent: p.Percent, Width: p.Width, Tier: string(p.Tier)}
}

type currencyTotal struct {
	Currency string `json:"currency"`
	Symbol   string `json:"symbol"`
	Cents    int64  `json:"cents"`
	Amount   string `json:"amount"`
}

type categoryOverview struct {
	Category   string            `json:"category"`
	Emoji      string            `json:"emoji"`
	SpentCents int64             `json:"spent_cents"`
	Amount     string            `json:"amount"`
	LimitCents *int64            `json:"limit_cents,omitempty"`
	Progress   *progressJSON     `json:"progress,omitempty"`
	Expenses   []expenseResponse `json:"expenses"`
}

type budgetOverview struct {
	MonthlyTotal int64        `json:"monthly_total_cents"`
	Currency     string       `json:"currency"`
	SpentCents   int64        `json:"spent_cents"`
	Progress     progressJSON `json:"progress"`
}

type overviewResponse struct {
	Year       int                `json:"year"`
	Month      int                `json:"month"`
	MonthKey   string             `json:"month_key"`
	Totals     []currencyTotal    `json:"totals"`
	Budget     *budgetOverview    `json:"budget,omitempty"`
	Categories []categoryOverview `json:"categories"`
}

// handleOverview returns the month dashboard: totals per currency, the
// resolved budget with progress, and per-category breakdowns.
func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	year, month, err := parseYearMonth(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	sortMode := report.SortByDate
	if r.URL.Query().Get("sort") == "amount" {
		sortMode = report.SortByAmount
	}

	cacheKey := core.FormatMonthKey(year, month) + "/" + string(sortMode)
	if cached, ok := s.overviewCache.Get(cacheKey); ok {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	expenses, err := s.service.MonthExpenses(r.Context(), year, month)
	if err != nil {
		slog.ErrorContext(r.Context(), "Month overview failed", "error", err, "year", year, "month", month)
		writeError(w, http.StatusInternalServerError, "could not build overview")
		return
	}

	resp := s.buildOverview(year, month, expenses, sortMode)
	s.overviewCache.Set(cacheKey, resp)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) buildOverview(year, month int, expenses []core.Expense, sortMode report.SortMode) overviewResponse {
	monthKey := core.FormatMonthKey(year, month)

	resp := overviewResponse{
		Year:       year,
		Month:      month,
		MonthKey:   monthKey,
		Totals:     []currencyTotal{},
		Categories: []categoryOverview{},
	}

	// Per-currency totals, never mixed.
	sums := report.SumByCurrency(expenses)
	var rawTotal int64
	for _, cur := range core.Currencies() {
		cents, ok := sums[cur]
		if !ok {
			continue
		}
		rawTotal += cents
		resp.Totals = append(resp.Totals, currencyTotal{
			Currency: string(cur),
			Symbol:   cur.Symbol(),
			Cents:    cents,
			Amount:   core.FormatCents(cents),
		})
	}

	spec := s.budget.Resolve(monthKey)
	if spec != nil {
		resp.Budget = &budgetOverview{
			MonthlyTotal: spec.MonthlyTotal,
			Currency:     string(spec.Currency),
			SpentCents:   rawTotal,
			Progress:     toProgressJSON(report.ComputeProgress(rawTotal, spec.MonthlyTotal)),
		}
	}

	groups := report.GroupByCategory(expenses)
	for _, cat := range core.Categories() {
		items, ok := groups[cat]
		if !ok {
			continue
		}
		items = report.SortWithinCategory(items, sortMode)

		var spent int64
		out := make([]expenseResponse, 0, len(items))
		for _, e := range items {
			spent += e.Amount.Cents
			out = append(out, toExpenseResponse(e))
		}

		overview := categoryOverview{
			Category:   string(cat),
			Emoji:      cat.Emoji(),
			SpentCents: spent,
			Amount:     core.FormatCents(spent),
			Expenses:   out,
		}

		if spec != nil {
			if limit, ok := spec.Categories[cat]; ok && limit > 0 {
				overview.LimitCents = &limit
				p := toProgressJSON(report.ComputeProgress(spent, limit))
				overview.Progress = &p
			}
		}

		resp.Categories = append(resp.Categories, overview)
	}

	return resp
}
