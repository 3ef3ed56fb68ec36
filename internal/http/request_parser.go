package http

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"gastos/internal/core"
)

// expenseRequest is the wire shape for creating and updating expenses.
// Amount is a decimal string so clients can send "12.34" or "1.234,56".
type expenseRequest struct {
	Concept  string `json:"concept"`
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
	Category string `json:"category"`
	Date     string `json:"date"` // YYYY-MM-DD, defaults to today
}

func (req expenseRequest) toExpense() (core.Expense, error) {
	cents, err := core.ParseDecimalToCents(req.Amount)
	if err != nil {
		return core.Expense{}, fmt.Errorf("invalid amount %q: %w", req.Amount, err)
	}

	date := core.Date{Time: time.Now()}
	if strings.TrimSpace(req.Date) != "" {
		date, err = core.ParseDate(req.Date)
		if err != nil {
			return core.Expense{}, fmt.Errorf("invalid date %q: %w", req.Date, err)
		}
	}

	currency := core.Currency(strings.ToUpper(strings.TrimSpace(req.Currency)))
	if req.Currency != "" && !currency.Valid() {
		return core.Expense{}, core.ErrInvalidCurrency
	}

	return core.Expense{
		Concept:  sanitizeInput(req.Concept),
		Amount:   core.Money{Cents: cents},
		Currency: currency,
		Category: core.Category(sanitizeInput(req.Category)),
		Date:     date,
	}, nil
}

// parseYearMonth extracts year and month from query parameters, defaulting
// to the current month. Month is 1-based.
func parseYearMonth(r *http.Request) (year, month int, err error) {
	now := time.Now()
	year = now.Year()
	month = int(now.Month())

	if v := strings.TrimSpace(r.URL.Query().Get("year")); v != "" {
		year, err = strconv.Atoi(v)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid year %q", v)
		}
	}
	if v := strings.TrimSpace(r.URL.Query().Get("month")); v != "" {
		month, err = strconv.Atoi(v)
		if err != nil || month < 1 || month > 12 {
			return 0, 0, fmt.Errorf("invalid month %q", v)
		}
	}
	return year, month, nil
}

// parseYear extracts the year query parameter, defaulting to the current year.
func parseYear(r *http.Request) (int, error) {
	if v := strings.TrimSpace(r.URL.Query().Get("year")); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("invalid year %q", v)
		}
		return year, nil
	}
	return time.Now().Year(), nil
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
