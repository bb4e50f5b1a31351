package ledger

import (
	"fmt"
	"math"
	"strings"
)

// Round rounds a monetary amount to 2 decimals, half-up at the cent.
// Every paid/expense amount in the store goes through this after mutation.
func Round(x float64) float64 {
	return math.Round(x*100) / 100
}

var currencySymbols = map[string]string{
	"ILS": "₪",
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"JOD": "JD ",
	"AED": "AED ",
}

// Format renders an amount for display. Presentation only: the raw
// float64 stays the source of truth everywhere in the store.
func Format(x float64, currency string) string {
	sym, ok := currencySymbols[strings.ToUpper(currency)]
	if !ok {
		sym = strings.ToUpper(currency) + " "
	}
	if x < 0 {
		return "-" + sym + trimAmount(-x)
	}
	return sym + trimAmount(x)
}

// trimAmount prints whole amounts without a fraction and everything
// else with 2 digits, matching the dashboard's currency formatting.
func trimAmount(x float64) string {
	r := Round(x)
	if r == math.Trunc(r) {
		return fmt.Sprintf("%.0f", r)
	}
	return fmt.Sprintf("%.2f", r)
}
