package core

// Currency is an ISO-style currency code. Amounts in different currencies
// are tracked and reported separately, never summed together.
type Currency string

const (
	EUR Currency = "EUR"
	USD Currency = "USD"
	GBP Currency = "GBP"
	COP Currency = "COP"
	MXN Currency = "MXN"
)

// DefaultCurrency is used when nothing else is configured.
const DefaultCurrency = EUR

var currencySymbol = map[Currency]string{
	EUR: "€",
	USD: "$",
	GBP: "£",
	COP: "$",
	MXN: "$",
}

// Currencies returns the supported codes in display order.
func Currencies() []Currency {
	return []Currency{EUR, USD, GBP, COP, MXN}
}

func (c Currency) Valid() bool {
	_, ok := currencySymbol[c]
	return ok
}

// Symbol returns the display symbol. Locale-aware formatting is the UI's
// job; this only covers raw labels.
func (c Currency) Symbol() string {
	if s, ok := currencySymbol[c]; ok {
		return s
	}
	return string(c)
}
