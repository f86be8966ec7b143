package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/iwvelando/heating-compare/internal/comparison"
	"github.com/iwvelando/heating-compare/internal/config"
	"github.com/iwvelando/heating-compare/internal/logging"
	"github.com/iwvelando/heating-compare/pkg/constants"
	"github.com/iwvelando/heating-compare/pkg/output"
	"github.com/iwvelando/heating-compare/pkg/validation"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

func main() {
	// Process command line flags first to get config location
	configLocation := flag.String("config", constants.DefaultConfigFile, "path to parameter file")
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, csv")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	printDefaults := flag.Bool("print-defaults", false, "print the default parameter file and exit")
	flag.Parse()

	if *printDefaults {
		out, err := yaml.Marshal(config.Configuration{Parameters: config.Defaults()})
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to encode defaults: %v\n", err)
			os.Exit(1)
		}
		fmt.Print(string(out))
		return
	}

	// Load the parameter file to get logging configuration
	conf, err := config.LoadConfiguration(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		os.Exit(1)
	}

	logger, err := logging.New(conf.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	// Determine output format (CLI override takes precedence over config)
	outputFormat := conf.Output.Format
	if *outputFormatFlag != "" {
		outputFormat = *outputFormatFlag
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}

	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		logger.Fatal(err.Error(),
			zap.String("op", "main"),
		)
	}

	for _, warning := range conf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	results, err := comparison.ComputeResults(logger, conf.Parameters)
	if err != nil {
		var verr *validation.ValidationError
		if errors.As(err, &verr) {
			for _, violation := range verr.Violations {
				logger.Error("invalid parameter",
					zap.String("op", "main"),
					zap.String("field", violation.Field),
					zap.String("constraint", violation.Constraint),
					zap.String("value", violation.Value),
				)
			}
			_ = logger.Sync()
			os.Exit(1)
		}
		logger.Fatal("failed to compute comparison",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	switch outputFormat {
	case constants.OutputFormatPretty:
		output.PrettyFormat(os.Stdout, results)
	case constants.OutputFormatCSV:
		if err := output.CsvFormat(os.Stdout, results); err != nil {
			logger.Fatal("failed to write CSV", zap.String("op", "main"), zap.Error(err))
		}
		fmt.Println()
		if err := output.BreakEvenCsvFormat(os.Stdout, results); err != nil {
			logger.Fatal("failed to write CSV", zap.String("op", "main"), zap.Error(err))
		}
	}
}
