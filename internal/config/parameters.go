package config

import (
	"encoding/json"
	"fmt"

	"github.com/iwvelando/heating-compare/pkg/constants"
	"github.com/iwvelando/heating-compare/pkg/validation"
)

// Parameters is the full input of one comparison. Field names are shared by
// JSON payloads, YAML files and environment overrides.
type Parameters struct {
	TotalAreaM2                           float64 `json:"total_area_m2" yaml:"total_area_m2" mapstructure:"total_area_m2"`
	PelletConsumptionTonnes               float64 `json:"pellet_consumption_tonnes" yaml:"pellet_consumption_tonnes" mapstructure:"pellet_consumption_tonnes"`
	PelletPricePerKg                      float64 `json:"pellet_price_per_kg" yaml:"pellet_price_per_kg" mapstructure:"pellet_price_per_kg"`
	PelletPriceGrowthRatePercent          float64 `json:"pellet_price_growth_rate_percent" yaml:"pellet_price_growth_rate_percent" mapstructure:"pellet_price_growth_rate_percent"`
	WoodConsumptionStere                  float64 `json:"wood_consumption_stere" yaml:"wood_consumption_stere" mapstructure:"wood_consumption_stere"`
	WoodPricePerStere                     float64 `json:"wood_price_per_stere" yaml:"wood_price_per_stere" mapstructure:"wood_price_per_stere"`
	WoodPriceGrowthRatePercent            float64 `json:"wood_price_growth_rate_percent" yaml:"wood_price_growth_rate_percent" mapstructure:"wood_price_growth_rate_percent"`
	PelletEnergyDensityKWhPerKg           float64 `json:"pellet_energy_density_kwh_per_kg" yaml:"pellet_energy_density_kwh_per_kg" mapstructure:"pellet_energy_density_kwh_per_kg"`
	WoodEnergyPerStereKWh                 float64 `json:"wood_energy_per_stere_kwh" yaml:"wood_energy_per_stere_kwh" mapstructure:"wood_energy_per_stere_kwh"`
	OldBoilerEfficiencyPercent            float64 `json:"old_boiler_efficiency_percent" yaml:"old_boiler_efficiency_percent" mapstructure:"old_boiler_efficiency_percent"`
	NewBoilerEfficiencyPercent            float64 `json:"new_boiler_efficiency_percent" yaml:"new_boiler_efficiency_percent" mapstructure:"new_boiler_efficiency_percent"`
	WoodStoveEfficiencyPercent            float64 `json:"wood_stove_efficiency_percent" yaml:"wood_stove_efficiency_percent" mapstructure:"wood_stove_efficiency_percent"`
	MaintenanceCostPerYear                float64 `json:"maintenance_cost_per_year" yaml:"maintenance_cost_per_year" mapstructure:"maintenance_cost_per_year"`
	MaintenanceGrowthRatePercent          float64 `json:"maintenance_growth_rate_percent" yaml:"maintenance_growth_rate_percent" mapstructure:"maintenance_growth_rate_percent"`
	ElectricPricePerKWh                   float64 `json:"electric_price_per_kwh" yaml:"electric_price_per_kwh" mapstructure:"electric_price_per_kwh"`
	ElectricPriceGrowthRatePercent        float64 `json:"electric_price_growth_rate_percent" yaml:"electric_price_growth_rate_percent" mapstructure:"electric_price_growth_rate_percent"`
	ElectricSubscriptionIncreasePerMonth  float64 `json:"electric_subscription_increase_per_month" yaml:"electric_subscription_increase_per_month" mapstructure:"electric_subscription_increase_per_month"`
	ElectricSubscriptionGrowthRatePercent float64 `json:"electric_subscription_growth_rate_percent" yaml:"electric_subscription_growth_rate_percent" mapstructure:"electric_subscription_growth_rate_percent"`
	AnalysisYears                         int     `json:"analysis_years" yaml:"analysis_years" mapstructure:"analysis_years"`
	NewBoilerCost                         float64 `json:"new_boiler_cost" yaml:"new_boiler_cost" mapstructure:"new_boiler_cost"`
	RadiatorCostPerKW                     float64 `json:"radiator_cost_per_kw" yaml:"radiator_cost_per_kw" mapstructure:"radiator_cost_per_kw"`
	DesignPowerDensityWPerM2              float64 `json:"design_power_density_w_per_m2" yaml:"design_power_density_w_per_m2" mapstructure:"design_power_density_w_per_m2"`
	RadiatorInstallExtraCost              float64 `json:"radiator_install_extra_cost" yaml:"radiator_install_extra_cost" mapstructure:"radiator_install_extra_cost"`
}

// Defaults returns the reference parameter set shown on the landing page.
func Defaults() Parameters {
	return Parameters{
		TotalAreaM2:                           98.5,
		PelletConsumptionTonnes:               1.5,
		PelletPricePerKg:                      0.30,
		PelletPriceGrowthRatePercent:          3.0,
		WoodConsumptionStere:                  5.0,
		WoodPricePerStere:                     90.0,
		WoodPriceGrowthRatePercent:            2.0,
		PelletEnergyDensityKWhPerKg:           4.8,
		WoodEnergyPerStereKWh:                 1700.0,
		OldBoilerEfficiencyPercent:            85.0,
		NewBoilerEfficiencyPercent:            95.0,
		WoodStoveEfficiencyPercent:            79.0,
		MaintenanceCostPerYear:                250.0,
		MaintenanceGrowthRatePercent:          2.0,
		ElectricPricePerKWh:                   0.15,
		ElectricPriceGrowthRatePercent:        3.0,
		ElectricSubscriptionIncreasePerMonth:  10.0,
		ElectricSubscriptionGrowthRatePercent: 3.0,
		AnalysisYears:                         30,
		NewBoilerCost:                         18000.0,
		RadiatorCostPerKW:                     150.0,
		DesignPowerDensityWPerM2:              120.0,
		RadiatorInstallExtraCost:              0.0,
	}
}

// AnalysisYearsField is the only integer parameter.
const AnalysisYearsField = "analysis_years"

type floatField struct {
	name  string
	rule  validation.Rule
	value func(p *Parameters) float64
}

// floatFields lists every float parameter in declaration order.
var floatFields = []floatField{
	{"total_area_m2", validation.NonNegative, func(p *Parameters) float64 { return p.TotalAreaM2 }},
	{"pellet_consumption_tonnes", validation.NonNegative, func(p *Parameters) float64 { return p.PelletConsumptionTonnes }},
	{"pellet_price_per_kg", validation.NonNegative, func(p *Parameters) float64 { return p.PelletPricePerKg }},
	{"pellet_price_growth_rate_percent", validation.Unbounded, func(p *Parameters) float64 { return p.PelletPriceGrowthRatePercent }},
	{"wood_consumption_stere", validation.NonNegative, func(p *Parameters) float64 { return p.WoodConsumptionStere }},
	{"wood_price_per_stere", validation.NonNegative, func(p *Parameters) float64 { return p.WoodPricePerStere }},
	{"wood_price_growth_rate_percent", validation.Unbounded, func(p *Parameters) float64 { return p.WoodPriceGrowthRatePercent }},
	{"pellet_energy_density_kwh_per_kg", validation.Positive, func(p *Parameters) float64 { return p.PelletEnergyDensityKWhPerKg }},
	{"wood_energy_per_stere_kwh", validation.Positive, func(p *Parameters) float64 { return p.WoodEnergyPerStereKWh }},
	{"old_boiler_efficiency_percent", validation.Percentage, func(p *Parameters) float64 { return p.OldBoilerEfficiencyPercent }},
	{"new_boiler_efficiency_percent", validation.Percentage, func(p *Parameters) float64 { return p.NewBoilerEfficiencyPercent }},
	{"wood_stove_efficiency_percent", validation.Percentage, func(p *Parameters) float64 { return p.WoodStoveEfficiencyPercent }},
	{"maintenance_cost_per_year", validation.NonNegative, func(p *Parameters) float64 { return p.MaintenanceCostPerYear }},
	{"maintenance_growth_rate_percent", validation.Unbounded, func(p *Parameters) float64 { return p.MaintenanceGrowthRatePercent }},
	{"electric_price_per_kwh", validation.NonNegative, func(p *Parameters) float64 { return p.ElectricPricePerKWh }},
	{"electric_price_growth_rate_percent", validation.Unbounded, func(p *Parameters) float64 { return p.ElectricPriceGrowthRatePercent }},
	{"electric_subscription_increase_per_month", validation.NonNegative, func(p *Parameters) float64 { return p.ElectricSubscriptionIncreasePerMonth }},
	{"electric_subscription_growth_rate_percent", validation.Unbounded, func(p *Parameters) float64 { return p.ElectricSubscriptionGrowthRatePercent }},
	{"new_boiler_cost", validation.NonNegative, func(p *Parameters) float64 { return p.NewBoilerCost }},
	{"radiator_cost_per_kw", validation.NonNegative, func(p *Parameters) float64 { return p.RadiatorCostPerKW }},
	{"design_power_density_w_per_m2", validation.NonNegative, func(p *Parameters) float64 { return p.DesignPowerDensityWPerM2 }},
	{"radiator_install_extra_cost", validation.NonNegative, func(p *Parameters) float64 { return p.RadiatorInstallExtraCost }},
}

// Validate checks every constraint and returns a *validation.ValidationError
// listing all violations, or nil.
func (p Parameters) Validate() error {
	return p.validate(nil)
}

// validate collects every violation. A non-nil years error replaces the
// range check when analysis_years could not be decoded as an integer.
func (p Parameters) validate(years *validation.FieldError) error {
	verr := &validation.ValidationError{}
	for _, f := range floatFields {
		verr.Add(validation.Check(f.name, f.value(&p), f.rule))
	}
	if years == nil {
		years = validation.CheckIntRange(AnalysisYearsField, p.AnalysisYears,
			constants.MinAnalysisYears, constants.MaxAnalysisYears)
	}
	verr.Add(years)
	return verr.ErrorOrNil()
}

// checkYears reports an analysis_years value that is not a whole number.
func checkYears(value float64) *validation.FieldError {
	return validation.CheckWholeNumber(AnalysisYearsField, value,
		constants.MinAnalysisYears, constants.MaxAnalysisYears)
}

type parametersJSON Parameters

// UnmarshalJSON accepts an integral analysis_years written as a float
// (12.0). Any other fractional value is returned as a *ValidationError.
func (p *Parameters) UnmarshalJSON(data []byte) error {
	aux := struct {
		*parametersJSON
		AnalysisYears *json.Number `json:"analysis_years"`
	}{parametersJSON: (*parametersJSON)(p)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.AnalysisYears == nil {
		return nil
	}

	value, err := aux.AnalysisYears.Float64()
	if err != nil {
		return fmt.Errorf("invalid %s: %w", AnalysisYearsField, err)
	}
	if fe := checkYears(value); fe != nil {
		return p.validate(fe)
	}
	p.AnalysisYears = int(value)
	return nil
}

// FieldNames returns every parameter name in canonical order.
func FieldNames() []string {
	names := make([]string, 0, len(floatFields)+1)
	for _, f := range floatFields {
		names = append(names, f.name)
	}
	return append(names, AnalysisYearsField)
}

// Schema is the JSON Schema request payloads are checked against before decoding.
func Schema() map[string]interface{} {
	fields := make([]validation.SchemaField, 0, len(floatFields)+1)
	for _, f := range floatFields {
		fields = append(fields, validation.SchemaField{Name: f.name, Type: "number"})
	}
	fields = append(fields, validation.SchemaField{Name: AnalysisYearsField, Type: "integer"})
	return validation.ObjectSchema(fields)
}

// Map returns the parameter values keyed by field name.
func (p Parameters) Map() map[string]interface{} {
	values := make(map[string]interface{}, len(floatFields)+1)
	for _, f := range floatFields {
		values[f.name] = f.value(&p)
	}
	values[AnalysisYearsField] = p.AnalysisYears
	return values
}
