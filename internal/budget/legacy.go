package budget

import (
	"context"
	"encoding/json"
	"log/slog"
	"math"

	"gastos/internal/core"
)

// legacyConfig is the pre-mode flat shape: a single enabled flag, one
// monthly amount and flat per-category limits, amounts as plain decimals.
type legacyConfig struct {
	Enabled bool `json:"enabled"`
	Monthly struct {
		Amount   float64 `json:"amount"`
		Currency string  `json:"currency"`
	} `json:"monthly"`
	Categories map[string]float64 `json:"categories"`
}

// migrateLegacy transforms a legacy blob into the current configuration.
// enabled=true becomes the template; enabled=false leaves it unset. The
// legacy currency is surfaced so the caller can apply it as the display
// currency. ok is false when the blob cannot be parsed.
func migrateLegacy(ctx context.Context, blob []byte) (Config, core.Currency, bool) {
	var legacy legacyConfig
	if err := json.Unmarshal(blob, &legacy); err != nil {
		slog.WarnContext(ctx, "Legacy budget blob is corrupt, using defaults", "error", err)
		return Config{}, "", false
	}

	cfg := DefaultConfig()
	currency := core.Currency(legacy.Monthly.Currency)

	if legacy.Enabled {
		spec := Spec{
			MonthlyTotal: decimalToCents(legacy.Monthly.Amount),
			Categories:   map[core.Category]int64{},
		}
		if currency.Valid() {
			spec.Currency = currency
		}
		for name, amount := range legacy.Categories {
			cents := decimalToCents(amount)
			if cents <= 0 {
				continue
			}
			spec.Categories[core.Category(name)] = cents
		}
		cfg.Template = &spec
	}
	return cfg, currency, true
}

func decimalToCents(v float64) int64 {
	return int64(math.Round(v * 100))
}
