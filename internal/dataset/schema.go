package dataset

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// ErrSchema is returned when a document does not satisfy its JSON schema.
var ErrSchema = errors.New("schema validation failed")

// PayloadSchema describes the metrics payload: an object of arrays of number, numeric string or null.
const PayloadSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "additionalProperties": {
    "type": "array",
    "items": {"type": ["number", "string", "null"]}
  }
}`

// ValidatePayload checks raw JSON against PayloadSchema.
func ValidatePayload(raw []byte) error {
	return ValidateJSON(PayloadSchema, raw)
}

// ValidateJSON validates raw against schema and folds all violations into one error.
func ValidateJSON(schema string, raw []byte) error {
	result, err := gojsonschema.Validate(gojsonschema.NewStringLoader(schema), gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}
	if result.Valid() {
		return nil
	}
	var details []string
	for _, desc := range result.Errors() {
		details = append(details, desc.String())
	}
	return fmt.Errorf("%w: %s", ErrSchema, strings.Join(details, "; "))
}
