// Package export turns analysis results into presentable reports: a text
// table for the terminal, CSV and JSON for files. Decimal-to-string and
// date-to-ISO-8601 conversion happens here, not in the core.
package export

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var currencySymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
	"CNY": "¥",
	"INR": "₹",
	"KRW": "₩",
}

// FormatCurrency renders an amount with its currency symbol, falling back
// to the ISO code when no symbol is defined.
func FormatCurrency(amount decimal.Decimal, code string) string {
	if symbol, ok := currencySymbols[code]; ok {
		return symbol + amount.StringFixed(decimalPlaces(code))
	}
	return fmt.Sprintf("%s %s", code, amount.StringFixed(decimalPlaces(code)))
}

// FormatPercent renders a percentage with a leading sign for increases.
func FormatPercent(pct float64) string {
	if pct > 0 {
		return fmt.Sprintf("+%.2f%%", pct)
	}
	return fmt.Sprintf("%.2f%%", pct)
}

func decimalPlaces(code string) int32 {
	switch code {
	case "JPY", "KRW":
		return 0
	}
	return 2
}
