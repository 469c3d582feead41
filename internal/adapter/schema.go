package adapter

import (
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/MKhiriev/go-pref-sync/models"
)

// Schemas for the documents that cross the wire. Both kinds are flat objects
// with non-empty field names; credential documents additionally constrain
// every value to a string, because each entry is a serialized credential.
const (
	preferencesSchema = `{
		"type": "object",
		"propertyNames": { "minLength": 1 }
	}`

	credentialsSchema = `{
		"type": "object",
		"propertyNames": { "minLength": 1 },
		"additionalProperties": { "type": "string" }
	}`
)

// DocumentValidator checks that documents arriving from the network match
// the expected shape for their kind before they reach the reconciliation
// layer. A malformed push must never corrupt local state.
type DocumentValidator struct {
	schemas map[models.Kind]*jsonschema.Schema
}

// NewDocumentValidator compiles the per-kind schemas.
func NewDocumentValidator() (*DocumentValidator, error) {
	compiler := jsonschema.NewCompiler()

	sources := map[models.Kind]string{
		models.KindPreferences: preferencesSchema,
		models.KindCredentials: credentialsSchema,
	}

	schemas := make(map[models.Kind]*jsonschema.Schema, len(sources))
	for kind, source := range sources {
		url := fmt.Sprintf("inline://%s.schema.json", kind)

		doc, err := jsonschema.UnmarshalJSON(strings.NewReader(source))
		if err != nil {
			return nil, fmt.Errorf("parse %s schema: %w", kind, err)
		}
		if err = compiler.AddResource(url, doc); err != nil {
			return nil, fmt.Errorf("add %s schema: %w", kind, err)
		}

		schema, err := compiler.Compile(url)
		if err != nil {
			return nil, fmt.Errorf("compile %s schema: %w", kind, err)
		}
		schemas[kind] = schema
	}

	return &DocumentValidator{schemas: schemas}, nil
}

// Validate checks record against the schema for kind. Unknown kinds fail.
func (v *DocumentValidator) Validate(kind models.Kind, record models.Record) error {
	schema, ok := v.schemas[kind]
	if !ok {
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidDocument, kind)
	}

	if err := schema.Validate(map[string]any(record)); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	return nil
}
