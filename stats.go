package agentctx

import (
	"math"

	"github.com/youssefsiam38/agentctx/store"
	"github.com/youssefsiam38/agentctx/types"
)

// Reporter derives read-only statistics from a context store. It holds no
// state of its own; every call computes from the store's current contents,
// so repeated calls on an unchanged store return identical values.
type Reporter struct {
	store *store.Store
}

// NewReporter creates a Reporter over the given store.
func NewReporter(s *store.Store) *Reporter {
	return &Reporter{store: s}
}

// Snapshot is a point-in-time summary of a context store.
type Snapshot struct {
	TotalMessages        int            `json:"total_messages"`
	TotalTokens          int            `json:"total_tokens"`
	MaxTokens            int            `json:"max_tokens"`
	CompressionThreshold float64        `json:"compression_threshold"`
	CompressionCount     int            `json:"compression_count"`
	RoleDistribution     map[Role]int   `json:"role_distribution"`
	TaskDistribution     map[string]int `json:"task_distribution"`
	UtilizationRate      float64        `json:"utilization_rate"`
}

// RoleDistribution returns the message count per role.
func (r *Reporter) RoleDistribution() map[Role]int {
	dist := make(map[types.Role]int)
	for _, m := range r.store.Messages() {
		dist[m.Role]++
	}
	return dist
}

// TaskDistribution returns the message count per task id, skipping
// messages with no task id.
func (r *Reporter) TaskDistribution() map[string]int {
	dist := make(map[string]int)
	for _, m := range r.store.Messages() {
		if m.TaskID == "" {
			continue
		}
		dist[m.TaskID]++
	}
	return dist
}

// UtilizationRate returns tokenCount/maxTokens rounded to three decimals.
// It can exceed 1.0 when the store is over budget. A zero max returns 0.
func (r *Reporter) UtilizationRate() float64 {
	max := r.store.MaxTokens()
	if max == 0 {
		return 0
	}
	return round3(float64(r.store.TokenCount()) / float64(max))
}

// Snapshot computes a fresh summary of the store.
func (r *Reporter) Snapshot() Snapshot {
	return Snapshot{
		TotalMessages:        r.store.Len(),
		TotalTokens:          r.store.TokenCount(),
		MaxTokens:            r.store.MaxTokens(),
		CompressionThreshold: r.store.Threshold(),
		CompressionCount:     r.store.CompressionCount(),
		RoleDistribution:     r.RoleDistribution(),
		TaskDistribution:     r.TaskDistribution(),
		UtilizationRate:      r.UtilizationRate(),
	}
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
