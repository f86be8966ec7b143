// Package config defines the parameter set, its defaults and constraints, and
// the functions for loading it from YAML files and the environment.
package config

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/iwvelando/heating-compare/pkg/constants"
	"github.com/iwvelando/heating-compare/pkg/validation"
	"github.com/spf13/viper"
)

// Configuration holds everything the CLI reads from a parameter file.
type Configuration struct {
	Parameters Parameters    `yaml:"parameters" mapstructure:"parameters"`
	Logging    LoggingConfig `yaml:"logging,omitempty" mapstructure:"logging"`
	Output     OutputConfig  `yaml:"output,omitempty" mapstructure:"output"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty" mapstructure:"level"`           // debug, info, warn, error
	Format     string `yaml:"format,omitempty" mapstructure:"format"`         // json, console
	OutputFile string `yaml:"outputFile,omitempty" mapstructure:"outputFile"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty" mapstructure:"format"` // pretty, csv
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there. Parameters missing from the file keep their defaults
// and HEATING_PARAMETERS_<FIELD> environment variables override the file.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}
	return decode(v)
}

// LoadConfigurationFromReader loads YAML configuration from an arbitrary
// reader. Only the document and the defaults are used; the environment is
// ignored so uploaded parameters are evaluated as sent.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %s", err)
	}
	return decode(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")

	for key, value := range Defaults().Map() {
		v.SetDefault("parameters."+key, value)
	}
	return v
}

// decode unmarshals the merged settings. Struct decoding would truncate a
// fractional analysis_years, so the raw value is checked first and reported
// along with every other violation.
func decode(v *viper.Viper) (*Configuration, error) {
	key := "parameters." + AnalysisYearsField

	var yearsErr *validation.FieldError
	if value, ok := numericValue(v.Get(key)); ok {
		if yearsErr = checkYears(value); yearsErr != nil {
			v.Set(key, constants.MinAnalysisYears)
		}
	}

	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}
	if yearsErr != nil {
		return nil, configuration.Parameters.validate(yearsErr)
	}
	return &configuration, nil
}

func numericValue(raw interface{}) (float64, bool) {
	switch value := raw.(type) {
	case int:
		return float64(value), true
	case int64:
		return float64(value), true
	case float64:
		return value, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		return f, err == nil
	}
	return 0, false
}

// ValidateConfiguration returns non-fatal warnings about plausible but
// suspicious parameter combinations.
func (c *Configuration) ValidateConfiguration() []string {
	var warnings []string
	p := c.Parameters

	if p.PelletConsumptionTonnes == 0 && p.WoodConsumptionStere == 0 {
		warnings = append(warnings, "no pellet or wood consumption: heat demand is zero and only fixed charges are compared")
	}
	if p.NewBoilerEfficiencyPercent < p.OldBoilerEfficiencyPercent {
		warnings = append(warnings, fmt.Sprintf("new boiler efficiency (%.1f%%) is lower than the current boiler's (%.1f%%)",
			p.NewBoilerEfficiencyPercent, p.OldBoilerEfficiencyPercent))
	}
	if p.DesignPowerDensityWPerM2 == 0 && p.TotalAreaM2 > 0 {
		warnings = append(warnings, "design power density is zero: radiators are sized at 0 kW")
	}

	return warnings
}
