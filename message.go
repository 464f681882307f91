package agentctx

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/youssefsiam38/agentctx/types"
)

// Re-exported message types so callers only need the root package for
// everyday use.
type (
	Role    = types.Role
	Message = types.Message
)

// Role constants.
const (
	RoleUser      = types.RoleUser
	RoleAssistant = types.RoleAssistant
	RoleTool      = types.RoleTool
	RoleSystem    = types.RoleSystem
)

// NewMessage creates a message stamped with the current time.
func NewMessage(role Role, content string) *Message {
	return &Message{
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// NewUserMessage creates a user message stamped with the current time.
func NewUserMessage(content string) *Message {
	return NewMessage(RoleUser, content)
}

// NewAssistantMessage creates an assistant message stamped with the current
// time.
func NewAssistantMessage(content string) *Message {
	return NewMessage(RoleAssistant, content)
}

// NewToolMessage creates a tool-result message tagged with the task that
// produced it.
func NewToolMessage(content, taskID string) *Message {
	m := NewMessage(RoleTool, content)
	m.TaskID = taskID
	return m
}

// NewSystemMessage creates a system message stamped with the current time.
func NewSystemMessage(content string) *Message {
	return NewMessage(RoleSystem, content)
}

// NewTaskID returns a fresh task identifier for grouping the tool calls of
// a single assistant turn.
func NewTaskID() string {
	return "task-" + uuid.NewString()
}

// MessageInput is the loose record accepted by Manager.AddMessage. Role and
// Content are required; Timestamp defaults to now when zero.
type MessageInput struct {
	Role      Role           `json:"role"`
	Content   string         `json:"content"`
	TaskID    string         `json:"task_id,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	Timestamp time.Time      `json:"timestamp,omitempty"`
}

// Validate checks the input for required fields and a known role.
func (in MessageInput) Validate() error {
	if in.Role == "" {
		return fmt.Errorf("%w: role is required", ErrInvalidMessage)
	}
	if !in.Role.Valid() {
		return fmt.Errorf("%w: unknown role %q", ErrInvalidMessage, in.Role)
	}
	if in.Content == "" {
		return fmt.Errorf("%w: content is required", ErrInvalidMessage)
	}
	return nil
}

// Message converts the input into a Message, stamping a timestamp when none
// was supplied.
func (in MessageInput) Message() *Message {
	ts := in.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	return &Message{
		Role:      in.Role,
		Content:   in.Content,
		Timestamp: ts,
		TaskID:    in.TaskID,
		Metadata:  in.Metadata,
	}
}
