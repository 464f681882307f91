package agentctx

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/youssefsiam38/agentctx/store"
	"github.com/youssefsiam38/agentctx/types"
)

func statsMsg(role Role, content, taskID string) *Message {
	return &Message{
		Role:      role,
		Content:   content,
		TaskID:    taskID,
		Timestamp: time.Now(),
	}
}

func TestRoleDistribution(t *testing.T) {
	s := store.New(1000, 0.8)
	r := NewReporter(s)

	s.Add(statsMsg(RoleUser, "q1", ""))
	s.Add(statsMsg(RoleUser, "q2", ""))
	s.Add(statsMsg(RoleAssistant, "a1", ""))
	s.Add(statsMsg(RoleTool, "t1", "task-1"))

	want := map[types.Role]int{RoleUser: 2, RoleAssistant: 1, RoleTool: 1}
	if got := r.RoleDistribution(); !reflect.DeepEqual(got, want) {
		t.Errorf("RoleDistribution() = %v, want %v", got, want)
	}
}

func TestTaskDistribution(t *testing.T) {
	s := store.New(1000, 0.8)
	r := NewReporter(s)

	s.Add(statsMsg(RoleUser, "q", ""))
	s.Add(statsMsg(RoleTool, "t1", "task-a"))
	s.Add(statsMsg(RoleTool, "t2", "task-a"))
	s.Add(statsMsg(RoleTool, "t3", "task-b"))

	want := map[string]int{"task-a": 2, "task-b": 1}
	if got := r.TaskDistribution(); !reflect.DeepEqual(got, want) {
		t.Errorf("TaskDistribution() = %v, want %v (untasked messages excluded)", got, want)
	}
}

func TestUtilizationRate(t *testing.T) {
	tests := []struct {
		name  string
		chars int
		want  float64
	}{
		{"empty", 0, 0},
		{"third of budget", 1110, 0.333}, // 333 tokens / 1000
		{"full budget", 3334, 1.0},       // 1000 tokens (floor of 1000.2)
		{"over budget", 4000, 1.2},       // no clamping
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := store.New(1000, 0.8)
			r := NewReporter(s)
			if tt.chars > 0 {
				s.Add(statsMsg(RoleUser, strings.Repeat("x", tt.chars), ""))
			}
			if got := r.UtilizationRate(); got != tt.want {
				t.Errorf("UtilizationRate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSnapshotIdempotent(t *testing.T) {
	s := store.New(1000, 0.8)
	r := NewReporter(s)

	s.Add(statsMsg(RoleUser, strings.Repeat("x", 100), ""))
	s.Add(statsMsg(RoleAssistant, strings.Repeat("y", 200), ""))
	s.Add(statsMsg(RoleTool, "result", "task-1"))

	first := r.Snapshot()
	second := r.Snapshot()

	if !reflect.DeepEqual(first, second) {
		t.Errorf("consecutive snapshots differ:\n first=%+v\nsecond=%+v", first, second)
	}

	if first.TotalMessages != 3 {
		t.Errorf("TotalMessages = %d, want 3", first.TotalMessages)
	}
	if want := s.TokenCount(); first.TotalTokens != want {
		t.Errorf("TotalTokens = %d, want %d", first.TotalTokens, want)
	}
	if first.MaxTokens != 1000 || first.CompressionThreshold != 0.8 {
		t.Errorf("budget fields = %d/%v, want 1000/0.8", first.MaxTokens, first.CompressionThreshold)
	}
}

func TestSnapshotReflectsMutation(t *testing.T) {
	s := store.New(1000, 0.8)
	r := NewReporter(s)

	before := r.Snapshot()
	s.Add(statsMsg(RoleUser, strings.Repeat("x", 50), ""))
	after := r.Snapshot()

	if before.TotalMessages != 0 || after.TotalMessages != 1 {
		t.Errorf("snapshots not computed fresh: before=%d after=%d", before.TotalMessages, after.TotalMessages)
	}
}
