// Package types defines the core message types shared across agentctx packages.
package types

import "time"

// Role represents the message role
type Role string

const (
	// RoleUser represents a user message
	RoleUser Role = "user"

	// RoleAssistant represents an assistant message
	RoleAssistant Role = "assistant"

	// RoleTool represents a tool result message
	RoleTool Role = "tool"

	// RoleSystem represents a system message
	RoleSystem Role = "system"
)

// Valid reports whether r is one of the recognized roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAssistant, RoleTool, RoleSystem:
		return true
	}
	return false
}

// Message represents one turn in a conversation.
//
// A Message is immutable once constructed: rewriting context means replacing
// message slices, never patching a Message in place. The Timestamp is used
// only as a sort key during compression and is never reset.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`

	// Timestamp is the creation instant, defaulted to the current time by
	// the constructors when not supplied.
	Timestamp time.Time `json:"timestamp"`

	// TaskID optionally correlates an assistant tool call with its tool
	// result message(s).
	TaskID string `json:"task_id,omitempty"`

	// Metadata is an open-ended annotation map. It is carried verbatim and
	// never interpreted by the context engine.
	Metadata map[string]any `json:"metadata,omitempty"`
}
