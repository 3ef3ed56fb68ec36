package charts

import (
	"bytes"
	"testing"

	"gastos/internal/report"
)

func cents(v int64) *int64 { return &v }

func TestBudgetRuns(t *testing.T) {
	tests := []struct {
		name   string
		budget [12]*int64
		want   []budgetRun
	}{
		{
			name:   "no budget",
			budget: [12]*int64{},
			want:   nil,
		},
		{
			name:   "full year",
			budget: [12]*int64{cents(100), cents(100), cents(100), cents(100), cents(100), cents(100), cents(100), cents(100), cents(100), cents(100), cents(100), cents(100)},
			want:   []budgetRun{{start: 0, end: 12}},
		},
		{
			name:   "gap in the middle",
			budget: [12]*int64{cents(100), cents(100), nil, nil, cents(200), cents(200), cents(200), nil, nil, nil, nil, nil},
			want:   []budgetRun{{start: 0, end: 2}, {start: 4, end: 7}},
		},
		{
			name:   "single month kept",
			budget: [12]*int64{nil, nil, nil, nil, cents(100), nil, nil, nil, nil, nil, nil, nil},
			want:   []budgetRun{{start: 4, end: 5}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := budgetRuns(tt.budget)
			if len(got) != len(tt.want) {
				t.Fatalf("runs = %d, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i].start != tt.want[i].start || got[i].end != tt.want[i].end {
					t.Errorf("run %d = [%d,%d), want [%d,%d)", i, got[i].start, got[i].end, tt.want[i].start, tt.want[i].end)
				}
				if len(got[i].values) != got[i].end-got[i].start {
					t.Errorf("run %d has %d values for %d months", i, len(got[i].values), got[i].end-got[i].start)
				}
			}
		})
	}
}

func TestRenderTrendEmptyYear(t *testing.T) {
	g := NewGenerator()
	png, err := g.RenderTrend(report.Trend{Year: 2024})
	if err != nil {
		t.Fatalf("RenderTrend: %v", err)
	}
	if png != nil {
		t.Fatal("empty year should produce no image")
	}
}

func TestRenderTrendProducesPNG(t *testing.T) {
	g := NewGenerator()
	trend := report.Trend{Year: 2024, TotalSpent: 3000}
	trend.Spend[0] = 1000
	trend.Spend[1] = 2000
	trend.Budget[0] = cents(150000)
	trend.Budget[1] = cents(150000)

	png, err := g.RenderTrend(trend)
	if err != nil {
		t.Fatalf("RenderTrend: %v", err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Fatalf("output is not a PNG, first bytes: %x", png[:min(8, len(png))])
	}
}

func TestRenderTrendIsolatedBudgetMonth(t *testing.T) {
	g := NewGenerator()
	trend := report.Trend{Year: 2024, TotalSpent: 1000}
	trend.Spend[4] = 1000
	trend.Budget[4] = cents(150000)

	// A budget set for a single month still has to show up in the image.
	png, err := g.RenderTrend(trend)
	if err != nil {
		t.Fatalf("RenderTrend: %v", err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Fatal("isolated budget month should still render a PNG")
	}
}
