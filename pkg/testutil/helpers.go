// Package testutil provides common utility functions for testing.
package testutil

import (
	"github.com/iwvelando/heating-compare/internal/comparison"
	"github.com/iwvelando/heating-compare/pkg/breakeven"
)

// FindScenario finds a scenario by name in the results.
// Returns a pointer to the summary if found, nil otherwise.
func FindScenario(results comparison.Results, name string) *comparison.ScenarioSummary {
	for i := range results.Scenarios {
		if results.Scenarios[i].Name == name {
			return &results.Scenarios[i]
		}
	}
	return nil
}

// FindBreakEven returns the matrix cell comparing row against col, looked up
// by label.
func FindBreakEven(results comparison.Results, row, col string) (breakeven.Result, bool) {
	rowIndex, colIndex := -1, -1
	for i, label := range results.BreakEven.Labels {
		if label == row {
			rowIndex = i
		}
		if label == col {
			colIndex = i
		}
	}
	if rowIndex < 0 || colIndex < 0 {
		return breakeven.Result{}, false
	}
	return results.BreakEven.Matrix[rowIndex][colIndex], true
}
