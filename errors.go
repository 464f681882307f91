package agentctx

import (
	"errors"
	"fmt"
)

// Sentinel errors.
var (
	// ErrInvalidConfig is returned when agent configuration fails validation.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrUnknownAction is returned by Manager.Dispatch for an unrecognized
	// action name.
	ErrUnknownAction = errors.New("unknown action")

	// ErrInvalidMessage is returned when a message input fails validation.
	ErrInvalidMessage = errors.New("invalid message")

	// ErrMaxIterations is returned when a chat turn exceeds the tool
	// iteration limit without the model producing a final answer.
	ErrMaxIterations = errors.New("maximum tool iterations reached")

	// ErrInvalidToolSchema is returned when a registered tool carries a
	// malformed input schema.
	ErrInvalidToolSchema = errors.New("invalid tool schema")
)

// UnknownActionError reports an action name that Dispatch does not handle.
type UnknownActionError struct {
	Action string
}

func (e *UnknownActionError) Error() string {
	return fmt.Sprintf("unknown action: %s", e.Action)
}

func (e *UnknownActionError) Unwrap() error { return ErrUnknownAction }

func (e *UnknownActionError) Is(target error) bool {
	return target == ErrUnknownAction
}

// AgentError wraps an error with the operation that produced it and
// optional key/value context.
type AgentError struct {
	Op      string
	Err     error
	Context map[string]any
}

func (e *AgentError) Error() string {
	if len(e.Context) > 0 {
		return fmt.Sprintf("%s: %v (context: %v)", e.Op, e.Err, e.Context)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *AgentError) Unwrap() error { return e.Err }

// WithContext attaches a key/value pair to the error.
func (e *AgentError) WithContext(key string, value any) *AgentError {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// NewAgentError creates an AgentError for the given operation.
func NewAgentError(op string, err error) *AgentError {
	return &AgentError{Op: op, Err: err}
}
