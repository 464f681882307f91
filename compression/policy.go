package compression

import (
	"math"
	"sort"

	"github.com/youssefsiam38/agentctx/store"
	"github.com/youssefsiam38/agentctx/types"
)

// ReasonNothingToCompress is the Result reason when Compress is invoked on
// an empty store.
const ReasonNothingToCompress = "nothing to compress"

// Policy decides when a store's history exceeds its budget and rewrites the
// history to fit. Like the store it operates on, a Policy performs no
// internal locking; callers serialize access per store instance.
type Policy struct {
	cfg Config
}

// NewPolicy creates a Policy, applying defaults to zero-valued fields.
func NewPolicy(cfg Config) (*Policy, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Policy{cfg: cfg}, nil
}

// Config returns the policy configuration.
func (p *Policy) Config() Config { return p.cfg }

// ShouldCompress reports whether the store's token count exceeds its
// trigger point, floor(maxTokens * threshold). Pure predicate, no side
// effects.
func (p *Policy) ShouldCompress(s *store.Store) bool {
	threshold := int(float64(s.MaxTokens()) * s.Threshold())
	return s.TokenCount() > threshold
}

// Result describes the outcome of a compression pass.
type Result struct {
	Compressed bool   `json:"compressed"`
	Reason     string `json:"reason,omitempty"`

	OriginalTokens   int `json:"original_tokens"`
	CompressedTokens int `json:"compressed_tokens"`

	// CompressionRatio is (original-compressed)/original rounded to three
	// decimals, 0 when there was nothing to save.
	CompressionRatio float64 `json:"compression_ratio"`

	// MessagesRemoved counts the discarded non-user messages.
	MessagesRemoved int `json:"messages_removed"`

	// CompressionCount is the store's updated lifetime compression counter.
	CompressionCount int `json:"compression_count"`
}

// Compress rewrites the store's history in place: all user messages are
// retained unconditionally, only the most recent RetainRecent non-user
// messages survive, and the retained set is re-sorted by timestamp
// ascending before being installed with a freshly recomputed token count.
//
// The sort is stable and uses whatever timestamps the messages were
// constructed with. Callers that supplied out-of-order timestamps get a
// caller-determined order rather than arrival order; that is intended
// behavior, not a defect.
//
// On an empty store Compress returns a Result with Compressed=false and
// changes nothing. Compress does not check ShouldCompress; direct callers
// may compress below the trigger point.
func (p *Policy) Compress(s *store.Store) *Result {
	msgs := s.Messages()
	if len(msgs) == 0 {
		return &Result{
			Compressed:       false,
			Reason:           ReasonNothingToCompress,
			CompressionCount: s.CompressionCount(),
		}
	}

	var user, nonUser []*types.Message
	for _, m := range msgs {
		if m.Role == types.RoleUser {
			user = append(user, m)
		} else {
			nonUser = append(nonUser, m)
		}
	}

	recentNonUser := nonUser
	if len(nonUser) > p.cfg.RetainRecent {
		recentNonUser = nonUser[len(nonUser)-p.cfg.RetainRecent:]
	}

	retained := make([]*types.Message, 0, len(user)+len(recentNonUser))
	retained = append(retained, user...)
	retained = append(retained, recentNonUser...)
	sort.SliceStable(retained, func(i, j int) bool {
		return retained[i].Timestamp.Before(retained[j].Timestamp)
	})

	original := s.TokenCount()
	tokens, count := s.ApplyCompression(retained)

	return &Result{
		Compressed:       true,
		OriginalTokens:   original,
		CompressedTokens: tokens,
		CompressionRatio: ratio(original, tokens),
		MessagesRemoved:  len(nonUser) - len(recentNonUser),
		CompressionCount: count,
	}
}

// ratio computes the saved-token fraction rounded to three decimals,
// guarding the original==0 case so direct Compress callers can never hit a
// divide-by-zero.
func ratio(original, compressed int) float64 {
	if original == 0 {
		return 0
	}
	return round3(float64(original-compressed) / float64(original))
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
