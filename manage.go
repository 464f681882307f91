package agentctx

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/youssefsiam38/agentctx/compression"
	"github.com/youssefsiam38/agentctx/store"
	"github.com/youssefsiam38/agentctx/tool"
	"github.com/youssefsiam38/agentctx/types"
)

// Action names recognized by Manager.Dispatch.
const (
	ActionMonitor  = "monitor"
	ActionCompress = "compress"
	ActionStats    = "stats"
	ActionClear    = "clear"
	ActionRecent   = "recent"
)

// DefaultRecentLimit is used by the recent action when no limit is given.
const DefaultRecentLimit = 5

// Params carries optional arguments for a dispatched action.
type Params struct {
	// Limit bounds the recent action; zero means DefaultRecentLimit.
	Limit int `json:"limit,omitempty"`
}

// Result is the uniform envelope returned by every dispatched action.
// Callers must check Success rather than inferring the outcome from the
// shape of Data.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Err     error  `json:"-"`
}

// Manager bundles a context store, its compression policy, and a stats
// reporter behind a single serialized surface. All methods take one mutex,
// so a Manager is safe for concurrent use; the mutex belongs to the
// instance, independent Managers never contend.
type Manager struct {
	mu       sync.Mutex
	store    *store.Store
	policy   *compression.Policy
	reporter *Reporter
}

// NewManager creates a Manager with its own store. Non-positive maxTokens,
// out-of-range threshold, and non-positive retainRecent fall back to
// defaults.
func NewManager(maxTokens int, threshold float64, retainRecent int) (*Manager, error) {
	policy, err := compression.NewPolicy(compression.Config{RetainRecent: retainRecent})
	if err != nil {
		return nil, err
	}
	s := store.New(maxTokens, threshold)
	return &Manager{
		store:    s,
		policy:   policy,
		reporter: NewReporter(s),
	}, nil
}

// Dispatch runs a named action and returns the uniform result envelope.
// Unknown action names return Success=false with an UnknownActionError and
// leave the store untouched.
func (m *Manager) Dispatch(action string, params Params) *Result {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch action {
	case ActionMonitor:
		return m.monitor()
	case ActionCompress:
		return m.compress()
	case ActionStats:
		snap := m.reporter.Snapshot()
		return &Result{
			Success: true,
			Message: fmt.Sprintf("statistics for %d messages", snap.TotalMessages),
			Data:    snap,
		}
	case ActionClear:
		removed := m.store.Clear()
		return &Result{
			Success: true,
			Message: fmt.Sprintf("cleared %d messages", removed),
			Data:    map[string]any{"messages_removed": removed},
		}
	case ActionRecent:
		limit := params.Limit
		if limit == 0 {
			limit = DefaultRecentLimit
		}
		msgs := m.store.Recent(limit)
		return &Result{
			Success: true,
			Message: fmt.Sprintf("returning %d recent messages", len(msgs)),
			Data:    map[string]any{"messages": msgs, "count": len(msgs)},
		}
	default:
		err := &UnknownActionError{Action: action}
		return &Result{
			Success: false,
			Message: err.Error(),
			Err:     err,
		}
	}
}

func (m *Manager) monitor() *Result {
	snap := m.reporter.Snapshot()
	return &Result{
		Success: true,
		Message: fmt.Sprintf("context using %d/%d tokens (%.1f%%)",
			snap.TotalTokens, snap.MaxTokens, snap.UtilizationRate*100),
		Data: snap,
	}
}

func (m *Manager) compress() *Result {
	if !m.policy.ShouldCompress(m.store) {
		return &Result{
			Success: true,
			Message: fmt.Sprintf("below threshold, no compression needed (%d/%d tokens)",
				m.store.TokenCount(), m.store.MaxTokens()),
			Data: map[string]any{"compressed": false},
		}
	}

	result := m.policy.Compress(m.store)
	if !result.Compressed {
		return &Result{
			Success: true,
			Message: result.Reason,
			Data:    result,
		}
	}
	return &Result{
		Success: true,
		Message: fmt.Sprintf("compressed %d -> %d tokens (%.1f%% saved)",
			result.OriginalTokens, result.CompressedTokens, result.CompressionRatio*100),
		Data: result,
	}
}

// AddMessage validates the input and appends it to the store.
func (m *Manager) AddMessage(in MessageInput) error {
	if err := in.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.store.Add(in.Message())
	return nil
}

// Append adds an already-constructed message to the store.
func (m *Manager) Append(msg *Message) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.store.Add(msg)
}

// Messages returns a copy of the full history in insertion order.
func (m *Manager) Messages() []*types.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.store.Messages()
}

// Recent returns a copy of the last limit messages.
func (m *Manager) Recent(limit int) []*types.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.store.Recent(limit)
}

// Snapshot returns current statistics.
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reporter.Snapshot()
}

// TokenCount returns the store's running token total.
func (m *Manager) TokenCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.store.TokenCount()
}

// ShouldCompress reports whether the store is over its trigger point.
func (m *Manager) ShouldCompress() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.policy.ShouldCompress(m.store)
}

// Compress runs the compression policy unconditionally and returns its
// result.
func (m *Manager) Compress() *compression.Result {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.policy.Compress(m.store)
}

// Clear empties the store and returns the number of messages removed. The
// compression counter survives.
func (m *Manager) Clear() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.store.Clear()
}

// toolInput is the wire shape of the manage_context tool call.
type toolInput struct {
	Action string `json:"action"`
	Limit  int    `json:"limit,omitempty"`
}

// Tool exposes the manager as a tool the model can call to inspect and
// manage its own context window.
func (m *Manager) Tool() tool.Tool {
	schema := tool.Schema{
		Type: "object",
		Properties: map[string]tool.Property{
			"action": {
				Type:        "string",
				Description: "The context management action to perform",
				Enum:        []string{ActionMonitor, ActionCompress, ActionStats, ActionClear, ActionRecent},
			},
			"limit": {
				Type:        "integer",
				Description: "Number of messages to return for the recent action",
				Minimum:     tool.FloatPtr(1),
			},
		},
		Required: []string{"action"},
	}

	return tool.NewFuncTool(
		"manage_context",
		"Monitor, compress, and inspect the conversation context window",
		schema,
		func(ctx context.Context, input json.RawMessage) (string, error) {
			var in toolInput
			if err := json.Unmarshal(input, &in); err != nil {
				return "", fmt.Errorf("parse manage_context input: %w", err)
			}

			result := m.Dispatch(in.Action, Params{Limit: in.Limit})

			envelope := map[string]any{
				"success": result.Success,
				"message": result.Message,
			}
			if result.Data != nil {
				envelope["data"] = result.Data
			}
			if result.Err != nil {
				envelope["error"] = result.Err.Error()
			}

			out, err := json.Marshal(envelope)
			if err != nil {
				return "", fmt.Errorf("marshal manage_context result: %w", err)
			}
			return string(out), nil
		},
	)
}
