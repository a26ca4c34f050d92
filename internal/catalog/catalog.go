// Package catalog holds the static currency and unit lookup tables the UI
// uses to fill in defaults the backend leaves blank.
package catalog

// DefaultCurrency is applied client-side to products created without one.
const DefaultCurrency = "USD"

var currencySymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
	"INR": "₹",
	"NGN": "₦",
	"KES": "KSh",
	"GHS": "GH₵",
	"ZAR": "R",
	"CAD": "CA$",
	"AUD": "A$",
}

// CurrencySymbol returns the display symbol for a currency code, or the
// code itself when unknown.
func CurrencySymbol(code string) string {
	if s, ok := currencySymbols[code]; ok {
		return s
	}
	if code == "" {
		return currencySymbols[DefaultCurrency]
	}
	return code
}

var defaultUnits = map[string]string{
	"Electronics": "pcs",
	"Groceries":   "kg",
	"Beverages":   "liters",
	"Clothing":    "pcs",
	"Stationery":  "pcs",
	"Hardware":    "pcs",
}

// DefaultUnit returns the stock unit conventions for a category; "pcs"
// when the category has none.
func DefaultUnit(category string) string {
	if u, ok := defaultUnits[category]; ok {
		return u
	}
	return "pcs"
}
