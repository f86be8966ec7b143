// Package breakeven determines when one option's cumulative total cost
// (upfront plus operating) stops exceeding another's.
package breakeven

// Status classifies a pairwise comparison.
type Status string

const (
	// StatusSelf marks an option compared with itself.
	StatusSelf Status = "self"
	// StatusAhead means A costs no more upfront than B.
	StatusAhead Status = "ahead"
	// StatusPayback means A costs more upfront and catches up within the horizon.
	StatusPayback Status = "payback"
	// StatusNever means A costs more upfront and never catches up.
	StatusNever Status = "never"
)

// Result is the outcome of comparing option A against option B. Year is nil
// for StatusNever and encodes as JSON null.
type Result struct {
	Status Status `json:"status"`
	Year   *int   `json:"year"`
}

func at(status Status, year int) Result {
	return Result{Status: status, Year: &year}
}

// Self is the result of comparing an option with itself.
func Self() Result {
	return at(StatusSelf, 0)
}

// Never is the result when A never catches up.
func Never() Result {
	return Result{Status: StatusNever}
}

// YearValue returns the year and whether one is set.
func (r Result) YearValue() (int, bool) {
	if r.Year == nil {
		return 0, false
	}
	return *r.Year, true
}

// Find reports when A's cumulative total cost first drops to or below B's.
// Year i (1-indexed) accounts for annualA[i-1] and annualB[i-1].
func Find(capexA float64, annualA []float64, capexB float64, annualB []float64) Result {
	diff := capexA - capexB
	if diff <= 0 {
		return at(StatusAhead, 0)
	}

	years := len(annualA)
	if len(annualB) < years {
		years = len(annualB)
	}
	for i := 0; i < years; i++ {
		diff += annualA[i] - annualB[i]
		if diff <= 0 {
			return at(StatusPayback, i+1)
		}
	}
	return Never()
}
