package report

import "testing"

func TestComputeProgressScenarios(t *testing.T) {
	cases := []struct {
		spent, limit int64
		wantPercent  int
		wantWidth    float64
		wantTier     Tier
	}{
		{15000, 20000, 75, 75, TierWarning},
		{19000, 20000, 95, 95, TierDanger},
		{0, 20000, 0, 0, TierOK},
		{10000, 20000, 50, 50, TierOK},
		{20000, 20000, 100, 100, TierDanger},
		{30000, 20000, 150, 100, TierDanger},
		{5000, 0, 0, 0, TierOK},   // no budget is never alarming
		{5000, -100, 0, 0, TierOK},
	}
	for i, tc := range cases {
		got := ComputeProgress(tc.spent, tc.limit)
		if got.Percent != tc.wantPercent || got.Width != tc.wantWidth || got.Tier != tc.wantTier {
			t.Fatalf("case %d: ComputeProgress(%d, %d) = %+v", i, tc.spent, tc.limit, got)
		}
	}
}

func TestComputeProgressCap(t *testing.T) {
	got := ComputeProgress(1_000_000, 100)
	if got.Percent != 999 {
		t.Fatalf("percent should cap at 999, got %d", got.Percent)
	}
	if got.Width != 100 {
		t.Fatalf("width should cap at 100, got %v", got.Width)
	}
}

func TestComputeProgressMonotonic(t *testing.T) {
	const limit = 10000
	prevPercent := -1
	tierRank := map[Tier]int{TierOK: 0, TierWarning: 1, TierDanger: 2}
	prevTier := -1
	for spent := int64(0); spent <= 3*limit; spent += 137 {
		p := ComputeProgress(spent, limit)
		if p.Percent < prevPercent {
			t.Fatalf("percent regressed at spent=%d: %d < %d", spent, p.Percent, prevPercent)
		}
		if tierRank[p.Tier] < prevTier {
			t.Fatalf("tier regressed at spent=%d: %s", spent, p.Tier)
		}
		if spent >= limit && p.Width != 100 {
			t.Fatalf("width should saturate at 100 once over budget, got %v at spent=%d", p.Width, spent)
		}
		prevPercent = p.Percent
		prevTier = tierRank[p.Tier]
	}
}
