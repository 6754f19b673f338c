package ai

import (
	"encoding/json"
	"fmt"
	"reflect"

	"order-portal/internal/core"

	"github.com/invopop/jsonschema"
	"github.com/shopspring/decimal"
)

var (
	decimalType     = reflect.TypeOf(decimal.Decimal{})
	nullDecimalType = reflect.TypeOf(decimal.NullDecimal{})
)

func reflector() *jsonschema.Reflector {
	return &jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			switch t {
			case decimalType:
				return &jsonschema.Schema{Type: "string", Pattern: `^-?[0-9]+(\.[0-9]+)?$`}
			case nullDecimalType:
				return &jsonschema.Schema{OneOf: []*jsonschema.Schema{
					{Type: "string", Pattern: `^-?[0-9]+(\.[0-9]+)?$`},
					{Type: "null"},
				}}
			}
			return nil
		},
	}
}

// schemaMap reflects v into the generic map the Responses API expects.
func schemaMap(v any) (map[string]any, error) {
	raw, err := json.Marshal(reflector().Reflect(v))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("failed to unmarshal schema to map: %w", err)
	}
	return m, nil
}

// DocumentSchema returns the JSON schema of the persisted store document.
func DocumentSchema() ([]byte, error) {
	s := reflector().Reflect(&core.Document{})
	s.Title = "Order portal store document"
	raw, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal document schema: %w", err)
	}
	return raw, nil
}
