// Package constants provides shared constants for the heating-compare application.
package constants

// Unit conversions
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// KilogramsPerTonne converts pellet consumption from tonnes to kilograms
	KilogramsPerTonne = 1000.0

	// WattsPerKilowatt converts design power density (W/m²) into installed kW
	WattsPerKilowatt = 1000.0

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100
)

// Analysis horizon bounds
const (
	// MinAnalysisYears is the shortest supported horizon
	MinAnalysisYears = 1

	// MaxAnalysisYears is the longest supported horizon
	MaxAnalysisYears = 50
)

// Scenario labels. These are user-facing strings and part of the API contract.
const (
	ScenarioNewBoilerWithStove    = "Chaudière neuve + poêle"
	ScenarioNewBoilerWithoutStove = "Chaudière neuve sans poêle"
	ScenarioElectricWithStove     = "Radiateurs électriques + poêle"
	ScenarioElectricOnly          = "Radiateurs électriques seuls"

	// BaselineName labels the status-quo installation
	BaselineName = "Situation actuelle (chaudière existante + poêle)"
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default parameter file name
	DefaultConfigFile = "parameters.yaml"

	// ExampleConfigFile is the example parameter file name
	ExampleConfigFile = "parameters.yaml.example"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"

	// EnvPrefix prefixes environment overrides, e.g. HEATING_PARAMETERS_ANALYSIS_YEARS
	EnvPrefix = "HEATING"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the web UI
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum body size for parameter payloads (64 KB)
	DefaultMaxUploadSizeBytes int64 = 64 * 1024

	// MetricsNamespace prefixes every exported Prometheus metric
	MetricsNamespace = "heating_compare"
)

// Validation constants
const (
	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01
)
