// Package tool defines the tool interface and a constructed registry that
// maps tool names to implementations and converts them to API parameters.
package tool

import (
	"context"
	"encoding/json"
)

// Tool is the interface that all tools must implement
type Tool interface {
	// Name returns the tool name (used in API calls)
	Name() string

	// Description returns a human-readable description of what the tool does
	Description() string

	// InputSchema returns the JSON Schema for the tool's input parameters
	InputSchema() Schema

	// Execute runs the tool with the provided input and returns the result
	Execute(ctx context.Context, input json.RawMessage) (string, error)
}

// Schema defines the JSON Schema for a tool's input parameters
type Schema struct {
	// Type must be "object"
	Type string `json:"type"`

	// Properties defines the tool's parameters
	Properties map[string]Property `json:"properties"`

	// Required lists the names of required parameters
	Required []string `json:"required,omitempty"`
}

// Property defines a single parameter in a tool schema
type Property struct {
	// Type is the JSON Schema type (string, number, integer, boolean)
	Type string `json:"type"`

	// Description explains what this parameter is for
	Description string `json:"description,omitempty"`

	// Enum restricts the parameter to specific values
	Enum []string `json:"enum,omitempty"`

	// Minimum/Maximum for number types
	Minimum *float64 `json:"minimum,omitempty"`
	Maximum *float64 `json:"maximum,omitempty"`

	// MinLength/MaxLength for string types
	MinLength *int `json:"minLength,omitempty"`
	MaxLength *int `json:"maxLength,omitempty"`
}

// funcTool is a Tool implemented by a plain function
type funcTool struct {
	name        string
	description string
	schema      Schema
	fn          func(context.Context, json.RawMessage) (string, error)
}

func (t *funcTool) Name() string        { return t.name }
func (t *funcTool) Description() string { return t.description }
func (t *funcTool) InputSchema() Schema { return t.schema }

func (t *funcTool) Execute(ctx context.Context, input json.RawMessage) (string, error) {
	return t.fn(ctx, input)
}

// NewFuncTool creates a Tool from a function, for simple tools that don't
// warrant a dedicated struct.
func NewFuncTool(
	name string,
	description string,
	schema Schema,
	fn func(context.Context, json.RawMessage) (string, error),
) Tool {
	return &funcTool{
		name:        name,
		description: description,
		schema:      schema,
		fn:          fn,
	}
}

// IntPtr returns a pointer to n, for schema length bounds.
func IntPtr(n int) *int { return &n }

// FloatPtr returns a pointer to f, for schema range bounds.
func FloatPtr(f float64) *float64 { return &f }
