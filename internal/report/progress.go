package report

import "math"

// Tier classifies budget consumption for progress-bar coloring.
type Tier string

const (
	TierOK      Tier = "ok"
	TierWarning Tier = "warning"
	TierDanger  Tier = "danger"
)

const (
	warningThreshold = 70
	dangerThreshold  = 90
	percentCap       = 999 // keep labels sane when wildly over budget
)

// Progress describes how far spending has eaten into a limit. Percent feeds
// the "X% used" label and may exceed 100; Width is the bar width and never
// leaves [0,100].
type Progress struct {
	Percent int
	Width   float64
	Tier    Tier
}

// ComputeProgress relates spent cents to a budget limit. A limit of zero or
// less means no budget, which is never alarming.
func ComputeProgress(spentCents, limitCents int64) Progress {
	if limitCents <= 0 {
		return Progress{Percent: 0, Width: 0, Tier: TierOK}
	}
	raw := float64(spentCents) / float64(limitCents) * 100
	if raw > percentCap {
		raw = percentCap
	}
	width := raw
	if width > 100 {
		width = 100
	}
	if width < 0 {
		width = 0
	}
	tier := TierOK
	switch {
	case raw >= dangerThreshold:
		tier = TierDanger
	case raw >= warningThreshold:
		tier = TierWarning
	}
	return Progress{
		Percent: int(math.Round(raw)),
		Width:   width,
		Tier:    tier,
	}
}
