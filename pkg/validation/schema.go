package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// ErrSchemaMismatch is wrapped by ValidateDocument when a payload has the wrong shape.
var ErrSchemaMismatch = errors.New("payload does not match schema")

// SchemaField describes one property of a JSON object schema.
type SchemaField struct {
	Name string
	// Type is a JSON Schema primitive type, e.g. "number" or "integer".
	Type string
}

// ObjectSchema builds a draft-04 JSON Schema for a flat object whose listed
// properties are all optional. Unknown properties are tolerated.
func ObjectSchema(fields []SchemaField) map[string]interface{} {
	properties := make(map[string]interface{}, len(fields))
	for _, f := range fields {
		properties[f.Name] = map[string]interface{}{"type": f.Type}
	}
	return map[string]interface{}{
		"$schema":              "http://json-schema.org/draft-04/schema#",
		"type":                 "object",
		"properties":           properties,
		"additionalProperties": true,
	}
}

// ValidateDocument checks a raw JSON document against schema.
func ValidateDocument(schema map[string]interface{}, document []byte) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(schema),
		gojsonschema.NewBytesLoader(document),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSchemaMismatch, err)
	}

	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return fmt.Errorf("%w: %s", ErrSchemaMismatch, strings.Join(errs, "; "))
	}
	return nil
}
