package store

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/youssefsiam38/agentctx/types"
)

func msg(role types.Role, content string) *types.Message {
	return &types.Message{
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
}

func TestEstimateContentTokens(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    int
	}{
		{"empty", "", 0},
		{"short", "abc", 0},
		{"seven chars", "1234567", 2},
		{"ten chars", "1234567890", 3},
		{"hundred chars", strings.Repeat("x", 100), 30},
		{"four thousand chars", strings.Repeat("x", 4000), 1200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EstimateContentTokens(tt.content); got != tt.want {
				t.Errorf("EstimateContentTokens(%d chars) = %d, want %d", len(tt.content), got, tt.want)
			}
		})
	}
}

func TestNewDefaults(t *testing.T) {
	tests := []struct {
		name          string
		maxTokens     int
		threshold     float64
		wantMax       int
		wantThreshold float64
	}{
		{"valid", 1000, 0.5, 1000, 0.5},
		{"zero max", 0, 0.5, DefaultMaxTokens, 0.5},
		{"negative max", -1, 0.5, DefaultMaxTokens, 0.5},
		{"zero threshold", 1000, 0, 1000, DefaultThreshold},
		{"threshold above one", 1000, 1.5, 1000, DefaultThreshold},
		{"threshold exactly one", 1000, 1.0, 1000, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(tt.maxTokens, tt.threshold)
			if s.MaxTokens() != tt.wantMax {
				t.Errorf("MaxTokens() = %d, want %d", s.MaxTokens(), tt.wantMax)
			}
			if s.Threshold() != tt.wantThreshold {
				t.Errorf("Threshold() = %v, want %v", s.Threshold(), tt.wantThreshold)
			}
		})
	}
}

// checkInvariant verifies the running counter equals an exact recount.
func checkInvariant(t *testing.T, s *Store) {
	t.Helper()
	if got, want := s.TokenCount(), SumTokens(s.Messages()); got != want {
		t.Fatalf("token count invariant violated: counter=%d recount=%d", got, want)
	}
}

func TestTokenCountInvariant(t *testing.T) {
	s := New(1000, 0.8)
	checkInvariant(t, s)

	for i := 0; i < 10; i++ {
		s.Add(msg(types.RoleUser, strings.Repeat("a", i*7)))
		checkInvariant(t, s)
	}

	s.ApplyCompression(s.Recent(3))
	checkInvariant(t, s)

	s.Clear()
	checkInvariant(t, s)

	s.Add(msg(types.RoleAssistant, "after clear"))
	checkInvariant(t, s)
}

func TestRecent(t *testing.T) {
	s := New(1000, 0.8)
	for i := 0; i < 10; i++ {
		s.Add(msg(types.RoleUser, fmt.Sprintf("message %d", i)))
	}

	t.Run("last three in insertion order", func(t *testing.T) {
		got := s.Recent(3)
		if len(got) != 3 {
			t.Fatalf("Recent(3) returned %d messages, want 3", len(got))
		}
		for i, m := range got {
			want := fmt.Sprintf("message %d", 7+i)
			if m.Content != want {
				t.Errorf("Recent(3)[%d].Content = %q, want %q", i, m.Content, want)
			}
		}
	})

	t.Run("limit above length returns all", func(t *testing.T) {
		if got := s.Recent(100); len(got) != 10 {
			t.Errorf("Recent(100) returned %d messages, want 10", len(got))
		}
	})

	t.Run("non-positive limit returns empty", func(t *testing.T) {
		if got := s.Recent(0); len(got) != 0 {
			t.Errorf("Recent(0) returned %d messages, want 0", len(got))
		}
		if got := s.Recent(-5); len(got) != 0 {
			t.Errorf("Recent(-5) returned %d messages, want 0", len(got))
		}
	})

	t.Run("returned slice is a copy", func(t *testing.T) {
		got := s.Recent(2)
		got[0] = msg(types.RoleSystem, "mutated")
		if s.Messages()[8].Content == "mutated" {
			t.Error("mutating Recent result changed the store")
		}
	})
}

func TestClearPreservesCompressionCount(t *testing.T) {
	s := New(1000, 0.8)
	s.Add(msg(types.RoleUser, strings.Repeat("a", 100)))
	s.Add(msg(types.RoleAssistant, strings.Repeat("b", 100)))
	s.ApplyCompression(s.Messages())

	if s.CompressionCount() != 1 {
		t.Fatalf("CompressionCount() = %d, want 1", s.CompressionCount())
	}

	removed := s.Clear()
	if removed != 2 {
		t.Errorf("Clear() = %d, want 2", removed)
	}
	if s.Len() != 0 || s.TokenCount() != 0 {
		t.Errorf("after Clear: len=%d tokens=%d, want 0/0", s.Len(), s.TokenCount())
	}
	if s.CompressionCount() != 1 {
		t.Errorf("Clear reset CompressionCount to %d, want 1", s.CompressionCount())
	}
}

func TestApplyCompressionRecounts(t *testing.T) {
	s := New(1000, 0.8)
	for i := 0; i < 5; i++ {
		s.Add(msg(types.RoleAssistant, strings.Repeat("x", 50)))
	}

	retained := s.Recent(2)
	tokens, compressions := s.ApplyCompression(retained)

	if want := SumTokens(retained); tokens != want {
		t.Errorf("ApplyCompression tokens = %d, want %d", tokens, want)
	}
	if compressions != 1 {
		t.Errorf("ApplyCompression compressions = %d, want 1", compressions)
	}
	if s.Len() != 2 {
		t.Errorf("Len() = %d, want 2", s.Len())
	}
}
