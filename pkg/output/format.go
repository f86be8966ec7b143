// Package output provides utilities for formatting and displaying comparison results.
package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/iwvelando/heating-compare/internal/comparison"
	"github.com/iwvelando/heating-compare/pkg/breakeven"
	"github.com/iwvelando/heating-compare/pkg/format"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DescribeBreakEven renders one matrix cell for humans.
func DescribeBreakEven(result breakeven.Result) string {
	switch result.Status {
	case breakeven.StatusSelf:
		return "-"
	case breakeven.StatusAhead:
		return "ahead"
	case breakeven.StatusPayback:
		year, _ := result.YearValue()
		return fmt.Sprintf("year %d", year)
	default:
		return "never"
	}
}

// PrettyFormat outputs a human-readable rather than machine-readable report.
func PrettyFormat(w io.Writer, results comparison.Results) {
	p := message.NewPrinter(language.English)
	e := results.Energy

	fmt.Fprintf(w, "--- Energy balance ---\n")
	fmt.Fprintf(w, "Pellet input energy          | %s\n", format.Energy(e.PelletEnergyInputKWh))
	fmt.Fprintf(w, "Pellet heat delivered        | %s\n", format.Energy(e.PelletHeatDeliveredKWh))
	fmt.Fprintf(w, "Wood heat delivered          | %s\n", format.Energy(e.WoodHeatDeliveredKWh))
	fmt.Fprintf(w, "Total heat demand            | %s\n", format.Energy(e.TotalHeatDemandKWh))
	_, _ = p.Fprintf(w, "Pellets (current)            | %.0f kg\n", e.PelletMassCurrentKg)
	_, _ = p.Fprintf(w, "Pellets (new, with stove)    | %.0f kg\n", e.PelletMassNewWithWoodKg)
	_, _ = p.Fprintf(w, "Pellets (new, without stove) | %.0f kg\n", e.PelletMassNewWithoutWoodKg)
	fmt.Fprintf(w, "Electricity (with stove)     | %s\n", format.Energy(e.ElectricNeededWithWoodKWh))
	fmt.Fprintf(w, "Electricity (radiators only) | %s\n", format.Energy(e.ElectricNeededTotalKWh))
	_, _ = p.Fprintf(w, "Efficiencies                 | old boiler %.1f%%, new boiler %.1f%%, stove %.1f%%\n",
		e.OldBoilerEfficiencyPercent, e.NewBoilerEfficiencyPercent, e.WoodStoveEfficiencyPercent)

	fmt.Fprintf(w, "\n--- Investment ---\n")
	_, _ = p.Fprintf(w, "Radiator power | %.2f kW\n", results.Investment.RadiatorPowerKW)
	fmt.Fprintf(w, "Radiators      | %s\n", format.Currency(results.Investment.RadiatorCapex))
	fmt.Fprintf(w, "New boiler     | %s\n", format.Currency(results.Investment.BoilerCost))

	fmt.Fprintf(w, "\n--- Costs over %d years ---\n", results.BreakEven.HorizonYears)
	fmt.Fprintf(w, "Scenario | Capex | First year | Horizon | Total\n")
	fmt.Fprintf(w, "________ | _____ | __________ | _______ | _____\n")
	for _, s := range results.Scenarios {
		fmt.Fprintf(w, "%s | %s | %s | %s | %s\n", s.Name,
			format.Currency(s.Capex), format.Currency(s.FirstYearCost()),
			format.Currency(s.HorizonCost()), format.Currency(s.TotalHorizonCost()))
	}
	base := results.CurrentBaseline
	fmt.Fprintf(w, "%s | - | %s | %s | -\n", base.Name,
		format.Currency(base.FirstYearCost), format.Currency(base.HorizonCost))

	fmt.Fprintf(w, "\n--- Break-even (row against column) ---\n")
	labels := results.BreakEven.Labels
	for i, label := range labels {
		fmt.Fprintf(w, "%s\n", label)
		for j, other := range labels {
			if i == j {
				continue
			}
			fmt.Fprintf(w, "  vs %s: %s\n", other, DescribeBreakEven(results.BreakEven.Matrix[i][j]))
		}
	}
}

// CsvFormat outputs the yearly operating costs in comma-separated value format.
func CsvFormat(w io.Writer, results comparison.Results) error {
	writer := csv.NewWriter(w)

	header := []string{"year"}
	for _, s := range results.Scenarios {
		header = append(header, fmt.Sprintf("annual (%s)", s.Name), fmt.Sprintf("cumulative (%s)", s.Name))
	}
	header = append(header, fmt.Sprintf("annual (%s)", results.CurrentBaseline.Name))
	if err := writer.Write(header); err != nil {
		return err
	}

	for year := 0; year < results.BreakEven.HorizonYears; year++ {
		row := []string{strconv.Itoa(year + 1)}
		for _, s := range results.Scenarios {
			row = append(row, amount(s.AnnualCosts[year]), amount(s.CumulativeCosts[year]))
		}
		row = append(row, amount(results.CurrentBaseline.AnnualCosts[year]))
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// BreakEvenCsvFormat outputs the break-even matrix, one row per scenario.
// Cells hold the status followed by the year when there is one.
func BreakEvenCsvFormat(w io.Writer, results comparison.Results) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(append([]string{"scenario"}, results.BreakEven.Labels...)); err != nil {
		return err
	}
	for i, label := range results.BreakEven.Labels {
		row := []string{label}
		for _, cell := range results.BreakEven.Matrix[i] {
			value := string(cell.Status)
			if year, ok := cell.YearValue(); ok {
				value = fmt.Sprintf("%s %d", cell.Status, year)
			}
			row = append(row, value)
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func amount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
