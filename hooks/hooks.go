// Package hooks provides observer hooks for agent conversations: message
// traffic, tool execution, and context compression.
package hooks

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/youssefsiam38/agentctx/compression"
	"github.com/youssefsiam38/agentctx/types"
)

// BeforeMessageHook is called before sending the conversation to the API
type BeforeMessageHook func(ctx context.Context, messages []*types.Message) error

// AfterMessageHook is called after an assistant turn is received
type AfterMessageHook func(ctx context.Context, message *types.Message) error

// ToolCallHook is called when a tool is executed
// Parameters: ctx, toolName, input, output, error
type ToolCallHook func(ctx context.Context, toolName string, input json.RawMessage, output string, err error) error

// BeforeCompressionHook is called before context compression with the
// current token count
type BeforeCompressionHook func(ctx context.Context, tokenCount int) error

// AfterCompressionHook is called after context compression
type AfterCompressionHook func(ctx context.Context, result *compression.Result) error

// Registry holds all registered hooks
type Registry struct {
	mu                sync.RWMutex
	beforeMessage     []BeforeMessageHook
	afterMessage      []AfterMessageHook
	toolCall          []ToolCallHook
	beforeCompression []BeforeCompressionHook
	afterCompression  []AfterCompressionHook
}

// NewRegistry creates a new hook registry
func NewRegistry() *Registry {
	return &Registry{}
}

// OnBeforeMessage registers a hook to be called before sending messages
func (r *Registry) OnBeforeMessage(hook BeforeMessageHook) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.beforeMessage = append(r.beforeMessage, hook)
}

// OnAfterMessage registers a hook to be called after an assistant turn
func (r *Registry) OnAfterMessage(hook AfterMessageHook) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.afterMessage = append(r.afterMessage, hook)
}

// OnToolCall registers a hook to be called when a tool is executed
func (r *Registry) OnToolCall(hook ToolCallHook) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.toolCall = append(r.toolCall, hook)
}

// OnBeforeCompression registers a hook to be called before compression
func (r *Registry) OnBeforeCompression(hook BeforeCompressionHook) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.beforeCompression = append(r.beforeCompression, hook)
}

// OnAfterCompression registers a hook to be called after compression
func (r *Registry) OnAfterCompression(hook AfterCompressionHook) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.afterCompression = append(r.afterCompression, hook)
}

// TriggerBeforeMessage calls all registered before-message hooks
func (r *Registry) TriggerBeforeMessage(ctx context.Context, messages []*types.Message) error {
	r.mu.RLock()
	hooks := make([]BeforeMessageHook, len(r.beforeMessage))
	copy(hooks, r.beforeMessage)
	r.mu.RUnlock()

	for _, hook := range hooks {
		if err := hook(ctx, messages); err != nil {
			return err
		}
	}
	return nil
}

// TriggerAfterMessage calls all registered after-message hooks
func (r *Registry) TriggerAfterMessage(ctx context.Context, message *types.Message) error {
	r.mu.RLock()
	hooks := make([]AfterMessageHook, len(r.afterMessage))
	copy(hooks, r.afterMessage)
	r.mu.RUnlock()

	for _, hook := range hooks {
		if err := hook(ctx, message); err != nil {
			return err
		}
	}
	return nil
}

// TriggerToolCall calls all registered tool-call hooks
func (r *Registry) TriggerToolCall(ctx context.Context, toolName string, input json.RawMessage, output string, err error) error {
	r.mu.RLock()
	hooks := make([]ToolCallHook, len(r.toolCall))
	copy(hooks, r.toolCall)
	r.mu.RUnlock()

	for _, hook := range hooks {
		if hookErr := hook(ctx, toolName, input, output, err); hookErr != nil {
			return hookErr
		}
	}
	return nil
}

// TriggerBeforeCompression calls all registered before-compression hooks
func (r *Registry) TriggerBeforeCompression(ctx context.Context, tokenCount int) error {
	r.mu.RLock()
	hooks := make([]BeforeCompressionHook, len(r.beforeCompression))
	copy(hooks, r.beforeCompression)
	r.mu.RUnlock()

	for _, hook := range hooks {
		if err := hook(ctx, tokenCount); err != nil {
			return err
		}
	}
	return nil
}

// TriggerAfterCompression calls all registered after-compression hooks
func (r *Registry) TriggerAfterCompression(ctx context.Context, result *compression.Result) error {
	r.mu.RLock()
	hooks := make([]AfterCompressionHook, len(r.afterCompression))
	copy(hooks, r.afterCompression)
	r.mu.RUnlock()

	for _, hook := range hooks {
		if err := hook(ctx, result); err != nil {
			return err
		}
	}
	return nil
}
