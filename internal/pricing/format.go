package pricing

import (
	"math"
	"math/big"
	"strings"

	"github.com/dustin/go-humanize"
)

// Display conventions for pt-BR amounts in reais.
const (
	CurrencySymbol    = "R$"
	thousandSeparator = "."
	decimalSeparator  = ","
	maxDecimals       = 9

	// Above 2^53 every float64 is an integer, and humanize.FormatFloat
	// overflows its int64 integer part from 2^63 on.
	exactIntegerLimit = 1 << 53
)

// nbsp separates the currency symbol from the amount, as pt-BR formatting does.
const nbsp = "\u00a0"

// FormatCurrency renders an amount as "R$ 1.234,57": two decimals, rounded half-up.
func FormatCurrency(value float64) string {
	s := FormatNumber(value, 2)
	if strings.HasPrefix(s, "-") {
		return "-" + CurrencySymbol + nbsp + s[1:]
	}
	return CurrencySymbol + nbsp + s
}

// FormatNumber renders a number with grouping and a fixed count of decimals (0 to 9).
func FormatNumber(value float64, decimals int) string {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return humanize.FormatFloat("", value)
	}
	if decimals < 0 {
		decimals = 0
	}
	if decimals > maxDecimals {
		decimals = maxDecimals
	}

	if math.Abs(value) >= exactIntegerLimit {
		return formatLargeNumber(value, decimals)
	}

	// humanize requires both separators in the pattern to pick up a custom decimal mark.
	pattern := "#" + thousandSeparator + "###" + decimalSeparator + strings.Repeat("#", decimals)
	s := humanize.FormatFloat(pattern, value)
	if isNegativeZero(s) {
		return s[1:]
	}
	return s
}

// formatLargeNumber renders an integral value of any magnitude.
func formatLargeNumber(value float64, decimals int) string {
	integer, _ := new(big.Float).SetFloat64(math.Abs(value)).Int(nil)
	s := strings.ReplaceAll(humanize.BigComma(integer), ",", thousandSeparator)
	if decimals > 0 {
		s += decimalSeparator + strings.Repeat("0", decimals)
	}
	if value < 0 {
		return "-" + s
	}
	return s
}

// FormatPercent renders a percentage with up to two decimals, dropping trailing zeros.
func FormatPercent(value float64) string {
	s := FormatNumber(value, 2)
	if !strings.Contains(s, decimalSeparator) {
		return s
	}
	return strings.TrimSuffix(strings.TrimRight(s, "0"), decimalSeparator)
}

// FormatNumber2 is FormatNumber with two decimals.
func FormatNumber2(value float64) string {
	return FormatNumber(value, 2)
}

func isNegativeZero(s string) bool {
	if !strings.HasPrefix(s, "-") {
		return false
	}
	return strings.Trim(s[1:], "0"+thousandSeparator+decimalSeparator) == ""
}
