// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"

	"github.com/iwvelando/heating-compare/pkg/constants"
)

// Round rounds a value to two decimals, i.e. to represent real currency.
// Used for display only; the engine never rounds.
func Round(val float64) float64 {
	return math.Round(val*constants.DecimalPrecision) / constants.DecimalPrecision
}

// WithinTolerance checks if two values are within a specified tolerance
func WithinTolerance(val1, val2, tolerance float64) bool {
	return math.Abs(val1-val2) <= tolerance
}

// ClampNonNegative returns val, or 0 when val is negative.
func ClampNonNegative(val float64) float64 {
	return math.Max(val, 0)
}

// PercentToRate converts a percentage (e.g. 85) into a fraction (0.85).
func PercentToRate(percent float64) float64 {
	return percent / constants.PercentageMultiplier
}

// IsFinite reports whether val is neither NaN nor infinite.
func IsFinite(val float64) bool {
	return !math.IsNaN(val) && !math.IsInf(val, 0)
}
