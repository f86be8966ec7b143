package comparison

import (
	"encoding/json"

	"github.com/iwvelando/heating-compare/pkg/breakeven"
	"github.com/iwvelando/heating-compare/pkg/energy"
)

// ScenarioCount is the number of alternatives entered in the break-even matrix.
const ScenarioCount = 4

// ScenarioSummary is a read-only view of one alternative's costs. It is built
// once per calculation and never mutated afterwards.
type ScenarioSummary struct {
	Name            string
	Capex           float64
	AnnualCosts     []float64
	CumulativeCosts []float64
}

// FirstYearCost is the operating cost of the first year.
func (s ScenarioSummary) FirstYearCost() float64 {
	return s.AnnualCosts[0]
}

// HorizonCost is the accumulated operating cost over the whole horizon.
func (s ScenarioSummary) HorizonCost() float64 {
	return s.CumulativeCosts[len(s.CumulativeCosts)-1]
}

// TotalHorizonCost adds the upfront cost to HorizonCost.
func (s ScenarioSummary) TotalHorizonCost() float64 {
	return s.Capex + s.HorizonCost()
}

type scenarioJSON struct {
	Name             string    `json:"name"`
	Capex            float64   `json:"capex"`
	AnnualCosts      []float64 `json:"annual_costs"`
	CumulativeCosts  []float64 `json:"cumulative_costs"`
	FirstYearCost    float64   `json:"first_year_cost"`
	HorizonCost      float64   `json:"horizon_cost"`
	TotalHorizonCost float64   `json:"total_horizon_cost"`
}

// MarshalJSON includes the derived figures alongside the sequences.
func (s ScenarioSummary) MarshalJSON() ([]byte, error) {
	return json.Marshal(scenarioJSON{
		Name:             s.Name,
		Capex:            s.Capex,
		AnnualCosts:      s.AnnualCosts,
		CumulativeCosts:  s.CumulativeCosts,
		FirstYearCost:    s.FirstYearCost(),
		HorizonCost:      s.HorizonCost(),
		TotalHorizonCost: s.TotalHorizonCost(),
	})
}

// UnmarshalJSON reads the sequences back; derived figures are recomputed.
func (s *ScenarioSummary) UnmarshalJSON(data []byte) error {
	var raw scenarioJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = ScenarioSummary{
		Name:            raw.Name,
		Capex:           raw.Capex,
		AnnualCosts:     raw.AnnualCosts,
		CumulativeCosts: raw.CumulativeCosts,
	}
	return nil
}

// Investment holds the upfront figures of the alternatives.
type Investment struct {
	RadiatorPowerKW float64 `json:"radiator_power_kw"`
	RadiatorCapex   float64 `json:"radiator_capex"`
	BoilerCost      float64 `json:"boiler_cost"`
}

// Matrix holds break-even results indexed by scenario position: row A, column B.
type Matrix [ScenarioCount][ScenarioCount]breakeven.Result

// BreakEven is the break-even section of the results.
type BreakEven struct {
	Labels       []string `json:"labels"`
	Matrix       Matrix   `json:"matrix"`
	HorizonYears int      `json:"horizon_years"`
}

// Baseline summarizes the status-quo installation. It is reported for
// comparison only and is not part of the matrix.
type Baseline struct {
	Name          string    `json:"name"`
	AnnualCosts   []float64 `json:"annual_costs"`
	FirstYearCost float64   `json:"first_year_cost"`
	HorizonCost   float64   `json:"horizon_cost"`
}

// Results is everything one calculation produces.
type Results struct {
	Energy          energy.Balance    `json:"energy"`
	Scenarios       []ScenarioSummary `json:"scenarios"`
	Investment      Investment        `json:"investment"`
	BreakEven       BreakEven         `json:"break_even"`
	CurrentBaseline Baseline          `json:"current_baseline"`
}
