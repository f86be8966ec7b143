// Package comparison assembles the heating scenarios from a parameter set and
// computes the energy balance, cost projections and break-even matrix.
package comparison

import (
	"github.com/iwvelando/heating-compare/internal/config"
	"github.com/iwvelando/heating-compare/pkg/breakeven"
	"github.com/iwvelando/heating-compare/pkg/constants"
	"github.com/iwvelando/heating-compare/pkg/energy"
	"github.com/iwvelando/heating-compare/pkg/projection"
	"go.uber.org/zap"
)

// costLines are the independently projected cost categories.
type costLines struct {
	pelletCurrent        []float64
	pelletNewWithWood    []float64
	pelletNewWithoutWood []float64
	wood                 []float64
	maintenance          []float64
	electricWithWood     []float64
	electricTotal        []float64
	subscription         []float64
}

// ComputeResults validates params and evaluates every scenario. On invalid
// input it returns a *validation.ValidationError and no partial results.
func ComputeResults(logger *zap.Logger, params config.Parameters) (Results, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if err := params.Validate(); err != nil {
		logger.Debug("rejected parameter set",
			zap.String("op", "comparison.ComputeResults"),
			zap.Error(err),
		)
		return Results{}, err
	}

	balance := energy.Compute(energyInputs(params))
	radiators := energy.SizeRadiators(params.TotalAreaM2, params.DesignPowerDensityWPerM2,
		params.RadiatorCostPerKW, params.RadiatorInstallExtraCost)
	lines := projectCostLines(params, balance)

	scenarios := buildScenarios(params, radiators, lines)
	baseline := buildBaseline(lines)

	labels := make([]string, 0, ScenarioCount)
	for _, s := range scenarios {
		labels = append(labels, s.Name)
	}

	results := Results{
		Energy:    balance,
		Scenarios: scenarios[:],
		Investment: Investment{
			RadiatorPowerKW: radiators.PowerKW,
			RadiatorCapex:   radiators.Capex,
			BoilerCost:      params.NewBoilerCost,
		},
		BreakEven: BreakEven{
			Labels:       labels,
			Matrix:       BuildMatrix(scenarios),
			HorizonYears: params.AnalysisYears,
		},
		CurrentBaseline: baseline,
	}

	logger.Debug("comparison computed",
		zap.String("op", "comparison.ComputeResults"),
		zap.Int("years", params.AnalysisYears),
		zap.Float64("heatDemandKWh", balance.TotalHeatDemandKWh),
		zap.Float64("baselineHorizonCost", baseline.HorizonCost),
	)

	return results, nil
}

func energyInputs(params config.Parameters) energy.Inputs {
	return energy.Inputs{
		PelletConsumptionTonnes:    params.PelletConsumptionTonnes,
		PelletDensityKWhPerKg:      params.PelletEnergyDensityKWhPerKg,
		WoodConsumptionStere:       params.WoodConsumptionStere,
		WoodEnergyPerStereKWh:      params.WoodEnergyPerStereKWh,
		OldBoilerEfficiencyPercent: params.OldBoilerEfficiencyPercent,
		NewBoilerEfficiencyPercent: params.NewBoilerEfficiencyPercent,
		WoodStoveEfficiencyPercent: params.WoodStoveEfficiencyPercent,
	}
}

func projectCostLines(params config.Parameters, balance energy.Balance) costLines {
	years := params.AnalysisYears
	pellet := func(massKg float64) []float64 {
		return projection.Project(massKg*params.PelletPricePerKg, params.PelletPriceGrowthRatePercent, years)
	}
	electric := func(kWh float64) []float64 {
		return projection.Project(kWh*params.ElectricPricePerKWh, params.ElectricPriceGrowthRatePercent, years)
	}

	return costLines{
		pelletCurrent:        pellet(balance.PelletMassCurrentKg),
		pelletNewWithWood:    pellet(balance.PelletMassNewWithWoodKg),
		pelletNewWithoutWood: pellet(balance.PelletMassNewWithoutWoodKg),
		wood: projection.Project(params.WoodConsumptionStere*params.WoodPricePerStere,
			params.WoodPriceGrowthRatePercent, years),
		maintenance: projection.Project(params.MaintenanceCostPerYear,
			params.MaintenanceGrowthRatePercent, years),
		electricWithWood: electric(balance.ElectricNeededWithWoodKWh),
		electricTotal:    electric(balance.ElectricNeededTotalKWh),
		subscription: projection.Project(params.ElectricSubscriptionIncreasePerMonth*constants.MonthsPerYear,
			params.ElectricSubscriptionGrowthRatePercent, years),
	}
}

func newScenarioSummary(name string, capex float64, annual []float64) ScenarioSummary {
	return ScenarioSummary{
		Name:            name,
		Capex:           capex,
		AnnualCosts:     annual,
		CumulativeCosts: projection.Cumulative(annual),
	}
}

func buildScenarios(params config.Parameters, radiators energy.RadiatorSizing, lines costLines) [ScenarioCount]ScenarioSummary {
	return [ScenarioCount]ScenarioSummary{
		newScenarioSummary(constants.ScenarioNewBoilerWithStove, params.NewBoilerCost,
			projection.Sum(lines.pelletNewWithWood, lines.wood, lines.maintenance)),
		newScenarioSummary(constants.ScenarioNewBoilerWithoutStove, params.NewBoilerCost,
			projection.Sum(lines.pelletNewWithoutWood, lines.maintenance)),
		newScenarioSummary(constants.ScenarioElectricWithStove, radiators.Capex,
			projection.Sum(lines.wood, lines.electricWithWood, lines.subscription)),
		newScenarioSummary(constants.ScenarioElectricOnly, radiators.Capex,
			projection.Sum(lines.electricTotal, lines.subscription)),
	}
}

func buildBaseline(lines costLines) Baseline {
	current := newScenarioSummary(constants.BaselineName, 0,
		projection.Sum(lines.pelletCurrent, lines.wood, lines.maintenance))
	return Baseline{
		Name:          current.Name,
		AnnualCosts:   current.AnnualCosts,
		FirstYearCost: current.FirstYearCost(),
		HorizonCost:   current.HorizonCost(),
	}
}

// BuildMatrix compares every ordered pair of scenarios. Cells are independent.
func BuildMatrix(scenarios [ScenarioCount]ScenarioSummary) Matrix {
	var matrix Matrix
	for a := range scenarios {
		for b := range scenarios {
			if a == b {
				matrix[a][b] = breakeven.Self()
				continue
			}
			matrix[a][b] = breakeven.Find(
				scenarios[a].Capex, scenarios[a].AnnualCosts,
				scenarios[b].Capex, scenarios[b].AnnualCosts,
			)
		}
	}
	return matrix
}
