package utils

import (
	"strings"

	"github.com/shopspring/decimal"
)

var currencySymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
}

// FormatMoney renders an amount with two decimals, thousands separators and the
// currency symbol when known.
// Example: 1234.5 USD returns "$1,234.50", 12.5 CHF returns "CHF 12.50".
func FormatMoney(amount decimal.Decimal, currency string) string {
	formatted := groupThousands(amount.StringFixed(2))
	if sym, ok := currencySymbols[currency]; ok {
		return sym + formatted
	}
	if currency == "" {
		return "$" + formatted
	}
	return currency + " " + formatted
}

// groupThousands inserts commas into the integer part of a fixed-point string.
func groupThousands(fixed string) string {
	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign, fixed = "-", fixed[1:]
	}
	intPart, frac, _ := strings.Cut(fixed, ".")
	if len(intPart) <= 3 {
		return sign + fixed
	}

	var b strings.Builder
	lead := len(intPart) % 3
	if lead > 0 {
		b.WriteString(intPart[:lead])
	}
	for i := lead; i < len(intPart); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(intPart[i : i+3])
	}
	if frac != "" {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return sign + b.String()
}
