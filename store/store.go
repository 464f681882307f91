// Package store holds the ordered conversation history and its running
// token counter for one conversation session.
package store

import (
	"github.com/youssefsiam38/agentctx/types"
)

// Default budget values, matching the package defaults used by the
// compression policy.
const (
	DefaultMaxTokens = 4000
	DefaultThreshold = 0.8
)

// Store is an ordered collection of conversation messages with a running
// token counter. Insertion order is conversation order; compression may
// re-sort by timestamp.
//
// A Store is created once per conversation session with a fixed budget and
// lives for the duration of the session. It performs no internal locking:
// the design assumes a single sequential writer. Callers that share a Store
// across goroutines must serialize access externally, with one guard per
// Store instance so that independent conversations never serialize against
// each other.
//
// Invariant: after every mutation, TokenCount equals the sum of
// EstimateTokens over the current messages.
type Store struct {
	maxTokens        int
	threshold        float64
	messages         []*types.Message
	tokenCount       int
	compressionCount int
}

// New creates a Store with the given token budget and compression threshold.
// Non-positive maxTokens and thresholds outside (0, 1] fall back to the
// package defaults.
func New(maxTokens int, threshold float64) *Store {
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultThreshold
	}
	return &Store{
		maxTokens: maxTokens,
		threshold: threshold,
	}
}

// Add appends a message and advances the token counter by the message's
// estimated cost. It accepts any well-formed message and never fails.
func (s *Store) Add(m *types.Message) {
	s.messages = append(s.messages, m)
	s.tokenCount += EstimateTokens(m)
}

// Recent returns the last min(limit, Len) messages in their original order.
// The returned slice is a copy; mutating it does not affect the store.
// A non-positive limit returns an empty slice.
func (s *Store) Recent(limit int) []*types.Message {
	if limit <= 0 {
		return []*types.Message{}
	}
	if limit > len(s.messages) {
		limit = len(s.messages)
	}
	out := make([]*types.Message, limit)
	copy(out, s.messages[len(s.messages)-limit:])
	return out
}

// Clear empties the message list and zeroes the token counter. The
// compression count is preserved as a session statistic. It returns the
// number of messages removed.
func (s *Store) Clear() int {
	n := len(s.messages)
	s.messages = nil
	s.tokenCount = 0
	return n
}

// Messages returns a copy of the current message sequence.
func (s *Store) Messages() []*types.Message {
	out := make([]*types.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Len returns the number of stored messages.
func (s *Store) Len() int { return len(s.messages) }

// TokenCount returns the running token total.
func (s *Store) TokenCount() int { return s.tokenCount }

// MaxTokens returns the static token budget.
func (s *Store) MaxTokens() int { return s.maxTokens }

// Threshold returns the compression threshold fraction.
func (s *Store) Threshold() float64 { return s.threshold }

// CompressionCount returns how many compressions have been applied over the
// lifetime of the session. It is monotonically non-decreasing and survives
// Clear.
func (s *Store) CompressionCount() int { return s.compressionCount }

// ApplyCompression installs the retained message set produced by a
// compression pass and records one compression. The token counter is
// recomputed from the retained set rather than adjusted incrementally, so
// counter drift cannot accumulate. The new slice and counter are fully
// computed before any field is assigned.
//
// It returns the new token count and the updated compression count.
func (s *Store) ApplyCompression(retained []*types.Message) (tokens, compressions int) {
	msgs := make([]*types.Message, len(retained))
	copy(msgs, retained)
	tokens = SumTokens(msgs)

	s.messages = msgs
	s.tokenCount = tokens
	s.compressionCount++
	return tokens, s.compressionCount
}
