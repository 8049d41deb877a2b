package app

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/module-details.schema.json
var moduleDetailsSchemaJSON string

var moduleDetailsSchema = jsonschema.MustCompileString("module-details.schema.json", moduleDetailsSchemaJSON)

// ValidateModuleDetails checks a raw module-detail document against the
// embedded schema before it is decoded.
func ValidateModuleDetails(raw []byte) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return &InvalidDescriptorError{Reason: fmt.Sprintf("JSON parse error: %v", err)}
	}
	if err := moduleDetailsSchema.Validate(doc); err != nil {
		return &InvalidDescriptorError{Reason: extractValidationError(err)}
	}
	return nil
}

// extractValidationError extracts a concise message from a schema violation.
func extractValidationError(err error) string {
	if ve, ok := err.(*jsonschema.ValidationError); ok {
		leaf := ve
		for len(leaf.Causes) > 0 {
			leaf = leaf.Causes[0]
		}
		loc := leaf.InstanceLocation
		if loc == "" {
			loc = "/"
		}
		return fmt.Sprintf("%s: %s", loc, leaf.Message)
	}

	lines := strings.Split(err.Error(), "\n")
	return lines[0]
}
