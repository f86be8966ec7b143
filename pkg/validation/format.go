package validation

import (
	"fmt"
	"strings"

	"github.com/iwvelando/heating-compare/pkg/constants"
)

// OutputFormats lists the report formats the CLI can print.
var OutputFormats = []string{constants.OutputFormatPretty, constants.OutputFormatCSV}

// ValidateOutputFormat rejects a report format the CLI cannot print. Matching
// is exact, so "CSV" and " pretty " are errors.
func ValidateOutputFormat(format string) error {
	for _, supported := range OutputFormats {
		if format == supported {
			return nil
		}
	}
	return fmt.Errorf("unsupported output format %q, expected one of: %s",
		format, strings.Join(OutputFormats, ", "))
}
