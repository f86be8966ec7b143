// Package validation provides parameter validation primitives shared by the
// engine, the CLI and the HTTP layer.
package validation

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/iwvelando/heating-compare/pkg/mathutil"
)

// Rule identifies the constraint a numeric field must satisfy.
type Rule int

const (
	// Unbounded accepts any finite value (growth rates may be negative).
	Unbounded Rule = iota
	// NonNegative requires value >= 0.
	NonNegative
	// Positive requires value > 0.
	Positive
	// Percentage requires value in (0, 100].
	Percentage
)

// String describes the rule the way it appears in error messages.
func (r Rule) String() string {
	switch r {
	case NonNegative:
		return "must be >= 0"
	case Positive:
		return "must be > 0"
	case Percentage:
		return "must be in (0, 100]"
	default:
		return "must be a finite number"
	}
}

// FieldError names a single offending field and the constraint it violates.
type FieldError struct {
	Field      string `json:"field"`
	Constraint string `json:"constraint"`
	Value      string `json:"value"`
}

func (fe FieldError) String() string {
	return fmt.Sprintf("%s %s (got %s)", fe.Field, fe.Constraint, fe.Value)
}

// ValidationError collects every constraint violation found in a parameter set.
type ValidationError struct {
	Violations []FieldError `json:"violations"`
}

// Error implements error.
func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.String())
	}
	return "invalid parameters: " + strings.Join(parts, "; ")
}

// Add records a violation; nil is ignored.
func (e *ValidationError) Add(fe *FieldError) {
	if fe != nil {
		e.Violations = append(e.Violations, *fe)
	}
}

// Fields returns the names of the offending fields in the order they were found.
func (e *ValidationError) Fields() []string {
	fields := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		fields = append(fields, v.Field)
	}
	return fields
}

// ErrorOrNil returns e as an error when it holds violations, nil otherwise.
func (e *ValidationError) ErrorOrNil() error {
	if e == nil || len(e.Violations) == 0 {
		return nil
	}
	return e
}

// Check verifies a single float field against rule.
func Check(field string, value float64, rule Rule) *FieldError {
	ok := mathutil.IsFinite(value)
	if ok {
		switch rule {
		case NonNegative:
			ok = value >= 0
		case Positive:
			ok = value > 0
		case Percentage:
			ok = value > 0 && value <= 100
		}
	}
	if ok {
		return nil
	}
	return &FieldError{
		Field:      field,
		Constraint: rule.String(),
		Value:      strconv.FormatFloat(value, 'g', -1, 64),
	}
}

// CheckIntRange verifies that an integer field lies in [min, max].
func CheckIntRange(field string, value, min, max int) *FieldError {
	if value >= min && value <= max {
		return nil
	}
	return &FieldError{
		Field:      field,
		Constraint: fmt.Sprintf("must be an integer in [%d, %d]", min, max),
		Value:      strconv.Itoa(value),
	}
}

// CheckWholeNumber verifies that a value decoded as a float can be stored as
// an integer without truncation. The [min, max] range only shapes the
// constraint text; CheckIntRange enforces it once the value is an int.
func CheckWholeNumber(field string, value float64, min, max int) *FieldError {
	if mathutil.IsFinite(value) && value == math.Trunc(value) &&
		value >= math.MinInt32 && value <= math.MaxInt32 {
		return nil
	}
	return &FieldError{
		Field:      field,
		Constraint: fmt.Sprintf("must be an integer in [%d, %d]", min, max),
		Value:      strconv.FormatFloat(value, 'g', -1, 64),
	}
}
