package energy

import "github.com/iwvelando/heating-compare/pkg/constants"

// RadiatorSizing is the installed electric power and its upfront cost.
type RadiatorSizing struct {
	PowerKW float64
	Capex   float64
}

// SizeRadiators sizes an electric installation from floor area and design
// power density (W/m²), priced per kW plus a fixed install extra.
func SizeRadiators(areaM2, powerDensityWPerM2, costPerKW, installExtra float64) RadiatorSizing {
	power := areaM2 * powerDensityWPerM2 / constants.WattsPerKilowatt
	return RadiatorSizing{
		PowerKW: power,
		Capex:   power*costPerKW + installExtra,
	}
}
