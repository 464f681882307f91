package agentctx

import (
	"strings"
	"testing"
	"time"
)

func TestMessageConstructors(t *testing.T) {
	before := time.Now()

	user := NewUserMessage("hello")
	if user.Role != RoleUser || user.Content != "hello" {
		t.Errorf("NewUserMessage = %+v", user)
	}
	if user.Timestamp.Before(before) {
		t.Error("timestamp not defaulted to now")
	}

	toolMsg := NewToolMessage("result", "task-1")
	if toolMsg.Role != RoleTool || toolMsg.TaskID != "task-1" {
		t.Errorf("NewToolMessage = %+v", toolMsg)
	}

	if NewAssistantMessage("a").Role != RoleAssistant {
		t.Error("NewAssistantMessage role mismatch")
	}
	if NewSystemMessage("s").Role != RoleSystem {
		t.Error("NewSystemMessage role mismatch")
	}
}

func TestNewTaskID(t *testing.T) {
	a, b := NewTaskID(), NewTaskID()
	if !strings.HasPrefix(a, "task-") {
		t.Errorf("NewTaskID() = %q, want task- prefix", a)
	}
	if a == b {
		t.Error("consecutive task ids collide")
	}
}

func TestMessageInputPreservesTimestamp(t *testing.T) {
	ts := time.Date(2025, 12, 1, 8, 0, 0, 0, time.UTC)
	in := MessageInput{Role: RoleUser, Content: "hi", Timestamp: ts}

	if got := in.Message().Timestamp; !got.Equal(ts) {
		t.Errorf("Timestamp = %v, want %v", got, ts)
	}
}

func TestMessageInputMetadata(t *testing.T) {
	in := MessageInput{
		Role:     RoleAssistant,
		Content:  "hi",
		Metadata: map[string]any{"source": "test"},
	}
	msg := in.Message()
	if msg.Metadata["source"] != "test" {
		t.Errorf("Metadata = %v, want carried verbatim", msg.Metadata)
	}
}
