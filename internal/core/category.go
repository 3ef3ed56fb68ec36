package core

// Category is one of the fixed spending categories. The set is closed: any
// value outside it is treated as CategoryOtros for aggregation and budgeting,
// without rewriting the stored record.
type Category string

const (
	CategoryRestaurantes Category = "Restaurantes"
	CategorySupermercado Category = "Supermercado"
	CategoryTransporte   Category = "Transporte"
	CategoryGasolina     Category = "Gasolina"
	CategoryOcio         Category = "Ocio"
	CategoryOtros        Category = "Otros"
)

// FallbackCategory is where unknown or legacy category values land.
const FallbackCategory = CategoryOtros

var categoryEmoji = map[Category]string{
	CategoryRestaurantes: "🍽️",
	CategorySupermercado: "🛒",
	CategoryTransporte:   "🚌",
	CategoryGasolina:     "⛽",
	CategoryOcio:         "🎉",
	CategoryOtros:        "📦",
}

const defaultEmoji = "📦"

// Categories returns the registry in display order.
func Categories() []Category {
	return []Category{
		CategoryRestaurantes,
		CategorySupermercado,
		CategoryTransporte,
		CategoryGasolina,
		CategoryOcio,
		CategoryOtros,
	}
}

// Member reports whether c is part of the registry.
func (c Category) Member() bool {
	_, ok := categoryEmoji[c]
	return ok
}

// NormalizeCategory maps any stored value onto the registry. Members pass through;
// everything else becomes the fallback. Total, never fails.
func NormalizeCategory(raw string) Category {
	if c := Category(raw); c.Member() {
		return c
	}
	return FallbackCategory
}

// Emoji returns the display emoji for a category, with a default for values
// that somehow bypassed normalization.
func (c Category) Emoji() string {
	if e, ok := categoryEmoji[c]; ok {
		return e
	}
	return defaultEmoji
}
