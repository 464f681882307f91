package tool

import (
	"encoding/json"
	"fmt"
)

// Validator validates tool inputs against their schemas before execution.
type Validator struct{}

// NewValidator creates a new validator
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateInput validates input against a tool's schema
func (v *Validator) ValidateInput(schema Schema, input json.RawMessage) error {
	if schema.Type != "object" {
		return fmt.Errorf("schema type must be 'object', got %q", schema.Type)
	}

	inputMap := map[string]any{}
	if len(input) > 0 {
		if err := json.Unmarshal(input, &inputMap); err != nil {
			return fmt.Errorf("invalid JSON input: %w", err)
		}
	}

	for _, required := range schema.Required {
		if _, exists := inputMap[required]; !exists {
			return fmt.Errorf("missing required field: %s", required)
		}
	}

	for propName, prop := range schema.Properties {
		value, exists := inputMap[propName]
		if !exists {
			continue // optional field not provided
		}
		if err := v.validateProperty(propName, prop, value); err != nil {
			return err
		}
	}

	return nil
}

func (v *Validator) validateProperty(name string, def Property, value any) error {
	if value == nil {
		return nil
	}

	if err := validateType(name, def.Type, value); err != nil {
		return err
	}

	if len(def.Enum) > 0 {
		strVal, ok := value.(string)
		if !ok {
			return fmt.Errorf("field %q: expected string for enum validation, got %T", name, value)
		}
		valid := false
		for _, e := range def.Enum {
			if strVal == e {
				valid = true
				break
			}
		}
		if !valid {
			return fmt.Errorf("field %q: value %q not in allowed values %v", name, strVal, def.Enum)
		}
	}

	if def.Type == "number" || def.Type == "integer" {
		numVal, err := toFloat64(value)
		if err != nil {
			return fmt.Errorf("field %q: %w", name, err)
		}
		if def.Minimum != nil && numVal < *def.Minimum {
			return fmt.Errorf("field %q: value %v is less than minimum %v", name, numVal, *def.Minimum)
		}
		if def.Maximum != nil && numVal > *def.Maximum {
			return fmt.Errorf("field %q: value %v exceeds maximum %v", name, numVal, *def.Maximum)
		}
	}

	if def.Type == "string" {
		if strVal, ok := value.(string); ok {
			if def.MinLength != nil && len(strVal) < *def.MinLength {
				return fmt.Errorf("field %q: string length %d is less than minimum %d", name, len(strVal), *def.MinLength)
			}
			if def.MaxLength != nil && len(strVal) > *def.MaxLength {
				return fmt.Errorf("field %q: string length %d exceeds maximum %d", name, len(strVal), *def.MaxLength)
			}
		}
	}

	return nil
}

func validateType(name string, expectedType string, value any) error {
	switch expectedType {
	case "string":
		if _, ok := value.(string); !ok {
			return fmt.Errorf("field %q: expected string, got %T", name, value)
		}
	case "number":
		switch value.(type) {
		case float64, float32, int, int64, int32, json.Number:
		default:
			return fmt.Errorf("field %q: expected number, got %T", name, value)
		}
	case "integer":
		switch v := value.(type) {
		case float64:
			if v != float64(int64(v)) {
				return fmt.Errorf("field %q: expected integer, got float %v", name, v)
			}
		case int, int64, int32:
		default:
			return fmt.Errorf("field %q: expected integer, got %T", name, value)
		}
	case "boolean":
		if _, ok := value.(bool); !ok {
			return fmt.Errorf("field %q: expected boolean, got %T", name, value)
		}
	}
	return nil
}

func toFloat64(v any) (float64, error) {
	switch val := v.(type) {
	case float64:
		return val, nil
	case float32:
		return float64(val), nil
	case int:
		return float64(val), nil
	case int64:
		return float64(val), nil
	case int32:
		return float64(val), nil
	case json.Number:
		return val.Float64()
	default:
		return 0, fmt.Errorf("cannot convert %T to float64", v)
	}
}
