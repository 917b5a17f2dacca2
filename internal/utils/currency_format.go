package utils

import (
	"github.com/shopspring/decimal"
)

// EuroPrecision is the number of decimals shown for euro amounts.
const EuroPrecision = 2

// FormatWithPrecision formats an amount with the given precision
// Example: 12.3456 with precision 2 returns "12.35"
func FormatWithPrecision(amount decimal.Decimal, precision int) string {
	return amount.StringFixed(int32(precision))
}

// FormatEuro renders an amount the way dashboard headlines show it.
// Example: -1234.5 returns "-1234.50 Euro"
func FormatEuro(amount decimal.Decimal) string {
	return FormatWithPrecision(amount, EuroPrecision) + " Euro"
}
