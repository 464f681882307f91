package hooks

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/youssefsiam38/agentctx/compression"
	"github.com/youssefsiam38/agentctx/types"
)

func TestTriggerOrder(t *testing.T) {
	r := NewRegistry()
	var order []int

	for i := 1; i <= 3; i++ {
		i := i
		r.OnBeforeMessage(func(ctx context.Context, messages []*types.Message) error {
			order = append(order, i)
			return nil
		})
	}

	if err := r.TriggerBeforeMessage(context.Background(), nil); err != nil {
		t.Fatalf("TriggerBeforeMessage: %v", err)
	}
	if len(order) != 3 || order[0] != 1 || order[2] != 3 {
		t.Errorf("hooks ran in order %v, want [1 2 3]", order)
	}
}

func TestTriggerStopsOnError(t *testing.T) {
	r := NewRegistry()
	wantErr := errors.New("blocked")
	var secondRan bool

	r.OnBeforeCompression(func(ctx context.Context, tokenCount int) error {
		return wantErr
	})
	r.OnBeforeCompression(func(ctx context.Context, tokenCount int) error {
		secondRan = true
		return nil
	})

	err := r.TriggerBeforeCompression(context.Background(), 100)
	if !errors.Is(err, wantErr) {
		t.Errorf("TriggerBeforeCompression error = %v, want %v", err, wantErr)
	}
	if secondRan {
		t.Error("hook after the failing one still ran")
	}
}

func TestTriggerPassesArguments(t *testing.T) {
	r := NewRegistry()

	var gotTool string
	var gotErr error
	r.OnToolCall(func(ctx context.Context, toolName string, input json.RawMessage, output string, err error) error {
		gotTool = toolName
		gotErr = err
		return nil
	})

	execErr := errors.New("tool exploded")
	if err := r.TriggerToolCall(context.Background(), "calculate", json.RawMessage(`{}`), "", execErr); err != nil {
		t.Fatalf("TriggerToolCall: %v", err)
	}
	if gotTool != "calculate" || !errors.Is(gotErr, execErr) {
		t.Errorf("hook saw (%q, %v), want (calculate, %v)", gotTool, gotErr, execErr)
	}

	var gotResult *compression.Result
	r.OnAfterCompression(func(ctx context.Context, result *compression.Result) error {
		gotResult = result
		return nil
	})
	want := &compression.Result{Compressed: true, OriginalTokens: 100, CompressedTokens: 40}
	if err := r.TriggerAfterCompression(context.Background(), want); err != nil {
		t.Fatalf("TriggerAfterCompression: %v", err)
	}
	if gotResult != want {
		t.Error("after-compression hook did not receive the result")
	}
}

func TestEmptyRegistryTriggers(t *testing.T) {
	r := NewRegistry()
	msg := &types.Message{Role: types.RoleUser, Content: "hi", Timestamp: time.Now()}

	if err := r.TriggerBeforeMessage(context.Background(), []*types.Message{msg}); err != nil {
		t.Errorf("TriggerBeforeMessage on empty registry: %v", err)
	}
	if err := r.TriggerAfterMessage(context.Background(), msg); err != nil {
		t.Errorf("TriggerAfterMessage on empty registry: %v", err)
	}
}
