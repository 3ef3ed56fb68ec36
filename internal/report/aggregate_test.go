package report

import (
	"testing"

	"gastos/internal/core"
)

func expense(concept string, cents int64, cur core.Currency, cat core.Category, y, m, d int) core.Expense {
	return core.Expense{
		ID:       concept,
		Concept:  concept,
		Amount:   core.Money{Cents: cents},
		Currency: cur,
		Category: cat,
		Date:     core.NewDate(y, m, d),
	}
}

func marchExpenses() []core.Expense {
	return []core.Expense{
		expense("menu", 5000, core.EUR, "Comida", 2024, 3, 5),
		expense("tapas", 2000, core.EUR, "Comida", 2024, 3, 10),
		expense("cine", 1500, core.USD, core.CategoryOcio, 2024, 3, 12),
	}
}

func TestFilterByMonth(t *testing.T) {
	expenses := append(marchExpenses(),
		expense("abril", 900, core.EUR, core.CategoryOtros, 2024, 4, 1),
		expense("otro año", 900, core.EUR, core.CategoryOtros, 2023, 3, 1),
	)

	march := FilterByMonth(expenses, 2024, 3)
	if len(march) != 3 {
		t.Fatalf("expected 3 expenses in March 2024, got %d", len(march))
	}

	// The month filters of one year partition its expenses: no overlap,
	// no omission.
	total := 0
	for m := 1; m <= 12; m++ {
		total += len(FilterByMonth(expenses, 2024, m))
	}
	if total != 4 {
		t.Fatalf("2024 partition covers %d expenses, want 4", total)
	}
}

func TestSumByCurrencyNeverCombines(t *testing.T) {
	totals := SumByCurrency(marchExpenses())
	if len(totals) != 2 {
		t.Fatalf("expected 2 currency buckets, got %d", len(totals))
	}
	if totals[core.EUR] != 7000 {
		t.Fatalf("EUR total: got %d, want 7000", totals[core.EUR])
	}
	if totals[core.USD] != 1500 {
		t.Fatalf("USD total: got %d, want 1500", totals[core.USD])
	}

	if got := SumByCurrency(nil); len(got) != 0 {
		t.Fatalf("empty input should yield empty map, got %v", got)
	}
}

func TestGroupByCategoryNormalizes(t *testing.T) {
	groups := GroupByCategory(marchExpenses())

	// "Comida" is not a registry member and lands in the fallback bucket.
	if len(groups[core.CategoryOtros]) != 2 {
		t.Fatalf("fallback bucket: got %d, want 2", len(groups[core.CategoryOtros]))
	}
	if len(groups[core.CategoryOcio]) != 1 {
		t.Fatalf("Ocio bucket: got %d, want 1", len(groups[core.CategoryOcio]))
	}
	if _, ok := groups[core.CategoryGasolina]; ok {
		t.Fatal("categories without expenses must be absent, not empty")
	}
}

func TestSortWithinCategory(t *testing.T) {
	in := []core.Expense{
		expense("a", 100, core.EUR, core.CategoryOcio, 2024, 3, 1),
		expense("b", 300, core.EUR, core.CategoryOcio, 2024, 3, 20),
		expense("c", 300, core.EUR, core.CategoryOcio, 2024, 3, 10),
		expense("d", 200, core.EUR, core.CategoryOcio, 2024, 3, 10),
	}

	byDate := SortWithinCategory(in, SortByDate)
	if byDate[0].ID != "b" || byDate[3].ID != "a" {
		t.Fatalf("date sort order wrong: %v", ids(byDate))
	}
	// Same date: stable, so c before d.
	if byDate[1].ID != "c" || byDate[2].ID != "d" {
		t.Fatalf("date ties should keep input order: %v", ids(byDate))
	}

	byAmount := SortWithinCategory(in, SortByAmount)
	if byAmount[0].ID != "b" || byAmount[1].ID != "c" {
		t.Fatalf("amount ties should keep input order: %v", ids(byAmount))
	}
	if byAmount[3].ID != "a" {
		t.Fatalf("amount sort order wrong: %v", ids(byAmount))
	}

	// Input untouched.
	if in[0].ID != "a" {
		t.Fatal("SortWithinCategory must not mutate its input")
	}
}

func ids(expenses []core.Expense) []string {
	out := make([]string, len(expenses))
	for i, e := range expenses {
		out[i] = e.ID
	}
	return out
}

func TestBuildYearSeries(t *testing.T) {
	expenses := []core.Expense{
		expense("ene", 1000, core.EUR, core.CategoryOcio, 2024, 1, 5),
		expense("mar1", 2000, core.EUR, core.CategoryOcio, 2024, 3, 5),
		expense("mar2", 500, core.EUR, "Legacy", 2024, 3, 9),
		expense("fuera", 9999, core.EUR, core.CategoryOcio, 2023, 3, 9),
	}

	series := BuildYearSeries(expenses, 2024)
	if series.Totals[0] != 1000 || series.Totals[2] != 2500 {
		t.Fatalf("totals wrong: %v", series.Totals)
	}
	if series.TotalSpent != 3500 {
		t.Fatalf("TotalSpent: got %d, want 3500", series.TotalSpent)
	}
	if series.Stacked[core.CategoryOcio][2] != 2000 {
		t.Fatalf("Ocio March stack: got %d", series.Stacked[core.CategoryOcio][2])
	}
	if series.Stacked[core.CategoryOtros][2] != 500 {
		t.Fatalf("legacy category should stack under fallback: got %d", series.Stacked[core.CategoryOtros][2])
	}

	empty := BuildYearSeries(nil, 2024)
	if empty.TotalSpent != 0 {
		t.Fatal("empty input should have zero TotalSpent")
	}
}
