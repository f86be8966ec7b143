// Package projection turns a year-0 cost and an annual growth rate into a
// yearly cost sequence, and aggregates such sequences.
package projection

import (
	"math"

	"github.com/iwvelando/heating-compare/pkg/mathutil"
	"gonum.org/v1/gonum/floats"
)

// Project returns years values where element k is base × (1 + rate)^k and
// rate is growthPercent / 100. No rounding is applied.
func Project(base, growthPercent float64, years int) []float64 {
	if years <= 0 {
		return []float64{}
	}

	factor := 1.0 + mathutil.PercentToRate(growthPercent)
	costs := make([]float64, years)
	for year := range costs {
		costs[year] = base * math.Pow(factor, float64(year))
	}
	return costs
}

// Cumulative returns the running total of values: element k is the sum of
// values[0..k] inclusive.
func Cumulative(values []float64) []float64 {
	result := make([]float64, len(values))
	if len(values) == 0 {
		return result
	}
	return floats.CumSum(result, values)
}

// Sum adds sequences element-wise into a new slice. All sequences must have
// the same length; Sum panics otherwise.
func Sum(series ...[]float64) []float64 {
	if len(series) == 0 {
		return []float64{}
	}

	total := make([]float64, len(series[0]))
	copy(total, series[0])
	for _, s := range series[1:] {
		floats.Add(total, s)
	}
	return total
}
