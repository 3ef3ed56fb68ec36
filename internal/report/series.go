package report

import "gastos/internal/core"

// BudgetLookup resolves the budget total (in cents) for a "YYYY-MM" month
// key. ok is false for months with no active budget.
type BudgetLookup func(monthKey string) (limitCents int64, ok bool)

// BuildBudgetLine resolves the budget for each month of a year. A nil entry
// is a month without a budget and must render as a gap in a line chart, not
// as zero: no budget is unknown, not free.
func BuildBudgetLine(year int, lookup BudgetLookup) [12]*int64 {
	var line [12]*int64
	for m := 0; m < 12; m++ {
		key := core.FormatMonthKey(year, m+1)
		if limit, ok := lookup(key); ok {
			v := limit
			line[m] = &v
		}
	}
	return line
}

// HasAnyBudget reports whether at least one month carries a positive budget.
// The spend-vs-budget comparison view hides itself otherwise.
func HasAnyBudget(line [12]*int64) bool {
	for _, v := range line {
		if v != nil && *v > 0 {
			return true
		}
	}
	return false
}

// Trend is the full-year data behind the trend charts: actual spend, the
// per-category stack and the budget line, as parallel 12-slot series.
type Trend struct {
	Year       int
	Spend      [12]int64
	Stacked    map[core.Category][12]int64
	Budget     [12]*int64
	TotalSpent int64
}

// BuildTrend walks all 12 months of a year, combining the expense
// aggregation with the resolved budget line.
func BuildTrend(expenses []core.Expense, year int, lookup BudgetLookup) Trend {
	series := BuildYearSeries(expenses, year)
	return Trend{
		Year:       year,
		Spend:      series.Totals,
		Stacked:    series.Stacked,
		Budget:     BuildBudgetLine(year, lookup),
		TotalSpent: series.TotalSpent,
	}
}

// HasData reports whether the year contains any expenses at all, used to
// decide between a chart and an empty state.
func (t Trend) HasData() bool {
	return t.TotalSpent > 0
}
