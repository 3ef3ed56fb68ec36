// Package report derives month, year and category aggregates from raw
// expense lists and turns budget limits into progress indicators and trend
// series. Everything here is pure computation: no I/O, no hidden state.
package report

import (
	"sort"

	"gastos/internal/core"
)

// SortMode selects the ordering of expenses inside a category.
type SortMode string

const (
	SortByDate   SortMode = "date"   // most recent first
	SortByAmount SortMode = "amount" // largest first
)

// FilterByMonth returns the expenses whose date falls in the given year and
// 1-based month, preserving input order.
func FilterByMonth(expenses []core.Expense, year, month int) []core.Expense {
	var out []core.Expense
	for _, e := range expenses {
		if e.Date.Year() == year && e.Date.Month() == month {
			out = append(out, e)
		}
	}
	return out
}

// SumByCurrency totals amounts per currency. Currencies are never combined
// or converted; an empty input yields an empty map.
func SumByCurrency(expenses []core.Expense) map[core.Currency]int64 {
	totals := make(map[core.Currency]int64)
	for _, e := range expenses {
		totals[e.Currency] += e.Amount.Cents
	}
	return totals
}

// GroupByCategory buckets expenses by normalized category. Categories with
// no matching expenses are absent from the result.
func GroupByCategory(expenses []core.Expense) map[core.Category][]core.Expense {
	groups := make(map[core.Category][]core.Expense)
	for _, e := range expenses {
		cat := core.NormalizeCategory(string(e.Category))
		groups[cat] = append(groups[cat], e)
	}
	return groups
}

// SortWithinCategory returns a new slice ordered per mode. Ties keep their
// prior relative order.
func SortWithinCategory(expenses []core.Expense, mode SortMode) []core.Expense {
	out := make([]core.Expense, len(expenses))
	copy(out, expenses)
	switch mode {
	case SortByAmount:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Amount.Cents > out[j].Amount.Cents
		})
	default:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Date.After(out[j].Date.Time)
		})
	}
	return out
}

// YearSeries holds the 12-month aggregation for one calendar year. Month
// slots are indexed 0 (January) through 11 (December). TotalSpent doubles as
// an "any data at all" flag for the trend views.
//
// Amounts are summed in raw cents across whatever currencies appear, matching
// the single-axis trend the original tracker draws; per-currency reporting
// belongs to SumByCurrency.
type YearSeries struct {
	Totals     [12]int64
	Stacked    map[core.Category][12]int64
	TotalSpent int64
}

// BuildYearSeries aggregates a full year of expenses into monthly totals and
// per-category stacks.
func BuildYearSeries(expenses []core.Expense, year int) YearSeries {
	series := YearSeries{Stacked: make(map[core.Category][12]int64)}
	for _, e := range expenses {
		if e.Date.Year() != year {
			continue
		}
		m := e.Date.Month() - 1
		series.Totals[m] += e.Amount.Cents
		series.TotalSpent += e.Amount.Cents

		cat := core.NormalizeCategory(string(e.Category))
		months := series.Stacked[cat]
		months[m] += e.Amount.Cents
		series.Stacked[cat] = months
	}
	return series
}
