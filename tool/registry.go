package tool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/shared/constant"
)

// Sentinel errors for registry operations.
var (
	// ErrNotFound is returned when executing a tool that is not registered.
	ErrNotFound = errors.New("tool not found")

	// ErrInvalidInput is returned when a tool's input fails schema validation.
	ErrInvalidInput = errors.New("invalid tool input")
)

// Registry maps tool names to implementations. The set of registered names
// doubles as the call allow-list: anything outside it is rejected by
// Execute. A Registry is a constructed object passed by reference to
// whatever loop needs tool execution, never a process-wide singleton.
type Registry struct {
	tools     map[string]Tool
	validator *Validator
	mu        sync.RWMutex
}

// NewRegistry creates an empty tool registry
func NewRegistry() *Registry {
	return &Registry{
		tools:     make(map[string]Tool),
		validator: NewValidator(),
	}
}

// Register adds a tool to the registry
func (r *Registry) Register(t Tool) error {
	if t == nil {
		return fmt.Errorf("tool cannot be nil")
	}

	name := t.Name()
	if name == "" {
		return fmt.Errorf("tool name cannot be empty")
	}

	if schema := t.InputSchema(); schema.Type != "object" {
		return fmt.Errorf("tool %s: schema type must be 'object', got %q", name, schema.Type)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[name]; exists {
		return fmt.Errorf("tool %s already registered", name)
	}

	r.tools[name] = t
	return nil
}

// RegisterAll adds multiple tools to the registry
func (r *Registry) RegisterAll(tools []Tool) error {
	for _, t := range tools {
		if err := r.Register(t); err != nil {
			return err
		}
	}
	return nil
}

// Get retrieves a tool by name
func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, exists := r.tools[name]
	return t, exists
}

// Has checks if a tool is registered
func (r *Registry) Has(name string) bool {
	_, exists := r.Get(name)
	return exists
}

// List returns all registered tool names, sorted
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count returns the number of registered tools
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}

// Execute validates input against the tool's schema and runs the tool.
// Unregistered names fail with ErrNotFound; validation failures fail with
// ErrInvalidInput before the tool runs.
func (r *Registry) Execute(ctx context.Context, name string, input json.RawMessage) (string, error) {
	t, exists := r.Get(name)
	if !exists {
		return "", fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	if err := r.validator.ValidateInput(t.InputSchema(), input); err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrInvalidInput, name, err)
	}

	return t.Execute(ctx, input)
}

// ToAnthropicTools converts all registered tools to Anthropic tool parameters
func (r *Registry) ToAnthropicTools() []anthropic.ToolParam {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)

	params := make([]anthropic.ToolParam, 0, len(names))
	for _, name := range names {
		params = append(params, convertToolToParam(r.tools[name]))
	}
	return params
}

// ToAnthropicToolUnions converts tools to union parameters
func (r *Registry) ToAnthropicToolUnions() []anthropic.ToolUnionParam {
	params := r.ToAnthropicTools()
	unions := make([]anthropic.ToolUnionParam, len(params))
	for i := range params {
		unions[i] = anthropic.ToolUnionParam{OfTool: &params[i]}
	}
	return unions
}

func convertToolToParam(t Tool) anthropic.ToolParam {
	schema := t.InputSchema()

	properties := make(map[string]interface{}, len(schema.Properties))
	for propName, prop := range schema.Properties {
		properties[propName] = convertProperty(prop)
	}

	inputSchema := anthropic.ToolInputSchemaParam{
		Type:       constant.Object("object"),
		Properties: properties,
	}
	if len(schema.Required) > 0 {
		inputSchema.Required = schema.Required
	}

	return anthropic.ToolParam{
		Name:        t.Name(),
		Description: anthropic.String(t.Description()),
		InputSchema: inputSchema,
	}
}

func convertProperty(def Property) map[string]interface{} {
	prop := map[string]interface{}{
		"type": def.Type,
	}
	if def.Description != "" {
		prop["description"] = def.Description
	}
	if len(def.Enum) > 0 {
		prop["enum"] = def.Enum
	}
	if def.Minimum != nil {
		prop["minimum"] = *def.Minimum
	}
	if def.Maximum != nil {
		prop["maximum"] = *def.Maximum
	}
	if def.MinLength != nil {
		prop["minLength"] = *def.MinLength
	}
	if def.MaxLength != nil {
		prop["maxLength"] = *def.MaxLength
	}
	return prop
}
