// Package energy converts fuel consumption and appliance efficiencies into
// delivered heat, and back-solves the input each alternative installation
// needs to deliver the same heat.
package energy

import (
	"github.com/iwvelando/heating-compare/pkg/constants"
	"github.com/iwvelando/heating-compare/pkg/mathutil"
)

// Inputs are the physical quantities the balance is computed from.
// Efficiencies are percentages in (0, 100]; PelletDensityKWhPerKg must be > 0.
type Inputs struct {
	PelletConsumptionTonnes    float64
	PelletDensityKWhPerKg      float64
	WoodConsumptionStere       float64
	WoodEnergyPerStereKWh      float64
	OldBoilerEfficiencyPercent float64
	NewBoilerEfficiencyPercent float64
	WoodStoveEfficiencyPercent float64
}

// Balance is the energy section of a comparison result.
type Balance struct {
	PelletEnergyInputKWh       float64 `json:"pellet_energy_input_kwh"`
	PelletHeatDeliveredKWh     float64 `json:"pellet_heat_delivered_kwh"`
	WoodHeatDeliveredKWh       float64 `json:"wood_heat_delivered_kwh"`
	TotalHeatDemandKWh         float64 `json:"total_heat_demand_kwh"`
	PelletMassCurrentKg        float64 `json:"pellet_mass_current_kg"`
	PelletMassNewWithWoodKg    float64 `json:"pellet_mass_new_with_wood_kg"`
	PelletMassNewWithoutWoodKg float64 `json:"pellet_mass_new_without_wood_kg"`
	ElectricNeededWithWoodKWh  float64 `json:"electric_needed_with_wood_kwh"`
	ElectricNeededTotalKWh     float64 `json:"electric_needed_total_kwh"`
	OldBoilerEfficiencyPercent float64 `json:"old_boiler_efficiency_percent"`
	NewBoilerEfficiencyPercent float64 `json:"new_boiler_efficiency_percent"`
	WoodStoveEfficiencyPercent float64 `json:"wood_stove_efficiency_percent"`
}

// InputEnergy is consumption × energy density.
func InputEnergy(consumption, density float64) float64 {
	return consumption * density
}

// DeliveredHeat is the useful heat an appliance extracts from input energy.
func DeliveredHeat(inputKWh, efficiencyPercent float64) float64 {
	return inputKWh * mathutil.PercentToRate(efficiencyPercent)
}

// RequiredInput back-solves the input energy needed to deliver heatKWh.
func RequiredInput(heatKWh, efficiencyPercent float64) float64 {
	return heatKWh / mathutil.PercentToRate(efficiencyPercent)
}

// Remainder is the heat left to cover once covered kWh are supplied,
// never negative.
func Remainder(demandKWh, coveredKWh float64) float64 {
	return mathutil.ClampNonNegative(demandKWh - coveredKWh)
}

// Compute derives the full balance. The current installation fixes the heat
// demand; every other variant must deliver that same total.
func Compute(in Inputs) Balance {
	pelletMassKg := in.PelletConsumptionTonnes * constants.KilogramsPerTonne
	pelletInput := InputEnergy(pelletMassKg, in.PelletDensityKWhPerKg)
	woodInput := InputEnergy(in.WoodConsumptionStere, in.WoodEnergyPerStereKWh)

	pelletHeat := DeliveredHeat(pelletInput, in.OldBoilerEfficiencyPercent)
	woodHeat := DeliveredHeat(woodInput, in.WoodStoveEfficiencyPercent)
	demand := pelletHeat + woodHeat

	// Unreachable with the current formulas since woodHeat is part of demand.
	pelletHeatWithWood := Remainder(demand, woodHeat)
	pelletInputWithWood := RequiredInput(pelletHeatWithWood, in.NewBoilerEfficiencyPercent)
	pelletInputWithoutWood := RequiredInput(demand, in.NewBoilerEfficiencyPercent)

	return Balance{
		PelletEnergyInputKWh:       pelletInput,
		PelletHeatDeliveredKWh:     pelletHeat,
		WoodHeatDeliveredKWh:       woodHeat,
		TotalHeatDemandKWh:         demand,
		PelletMassCurrentKg:        pelletMassKg,
		PelletMassNewWithWoodKg:    pelletInputWithWood / in.PelletDensityKWhPerKg,
		PelletMassNewWithoutWoodKg: pelletInputWithoutWood / in.PelletDensityKWhPerKg,
		// Electric heating converts at 100%.
		ElectricNeededWithWoodKWh:  Remainder(demand, woodHeat),
		ElectricNeededTotalKWh:     demand,
		OldBoilerEfficiencyPercent: in.OldBoilerEfficiencyPercent,
		NewBoilerEfficiencyPercent: in.NewBoilerEfficiencyPercent,
		WoodStoveEfficiencyPercent: in.WoodStoveEfficiencyPercent,
	}
}
