package report

import (
	"testing"

	"gastos/internal/core"
)

func TestBuildBudgetLineGaps(t *testing.T) {
	lookup := func(monthKey string) (int64, bool) {
		// Only May carries a budget.
		if monthKey == "2024-05" {
			return 30000, true
		}
		return 0, false
	}

	line := BuildBudgetLine(2024, lookup)
	for m, v := range line {
		if m == 4 {
			if v == nil || *v != 30000 {
				t.Fatalf("May should resolve to 30000, got %v", v)
			}
			continue
		}
		if v != nil {
			t.Fatalf("month %d should be a gap (nil), got %d", m+1, *v)
		}
	}

	if !HasAnyBudget(line) {
		t.Fatal("line with one positive entry should have a budget")
	}

	var empty [12]*int64
	if HasAnyBudget(empty) {
		t.Fatal("all-nil line should not report a budget")
	}
	zero := int64(0)
	empty[3] = &zero
	if HasAnyBudget(empty) {
		t.Fatal("a zero entry alone should not report a budget")
	}
}

func TestBuildTrend(t *testing.T) {
	expenses := []core.Expense{
		expense("mayo", 12000, core.EUR, core.CategoryOcio, 2024, 5, 2),
	}
	lookup := func(monthKey string) (int64, bool) { return 0, false }

	trend := BuildTrend(expenses, 2024, lookup)
	if trend.Year != 2024 {
		t.Fatalf("year: got %d", trend.Year)
	}
	if trend.Spend[4] != 12000 {
		t.Fatalf("May spend: got %d", trend.Spend[4])
	}
	if !trend.HasData() {
		t.Fatal("trend with spend should report data")
	}

	none := BuildTrend(nil, 2024, lookup)
	if none.HasData() {
		t.Fatal("empty trend should not report data")
	}
}
