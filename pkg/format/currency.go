// Package format renders amounts and quantities for reports.
package format

import (
	"fmt"
	"math"
	"strings"

	"github.com/iwvelando/heating-compare/pkg/mathutil"
)

// EuroSymbol is appended to formatted currency amounts.
const EuroSymbol = "€"

// Currency returns an amount with thousands separators and a euro suffix (e.g., "-1,234.56 €").
func Currency(amount float64) string {
	return NumericCurrency(amount) + " " + EuroSymbol
}

// NumericCurrency returns a currency string without a currency symbol but with separators (e.g., "-1,234.56").
func NumericCurrency(amount float64) string {
	rounded := mathutil.Round(amount)
	sign := ""
	if rounded < 0 {
		sign = "-"
	}
	return sign + group(fmt.Sprintf("%.2f", math.Abs(rounded)))
}

// Energy returns a whole number of kilowatt-hours with separators (e.g., "12,345 kWh").
func Energy(kWh float64) string {
	return group(fmt.Sprintf("%.0f", math.Abs(kWh))) + " kWh"
}

// group inserts thousands separators into the integer part of a plain decimal string.
func group(formatted string) string {
	intPart, decPart, hasDecimals := strings.Cut(formatted, ".")

	if len(intPart) > 3 {
		var builder strings.Builder
		for i, digit := range intPart {
			if i > 0 && (len(intPart)-i)%3 == 0 {
				builder.WriteByte(',')
			}
			builder.WriteRune(digit)
		}
		intPart = builder.String()
	}

	if !hasDecimals {
		return intPart
	}
	return intPart + "." + decPart
}
