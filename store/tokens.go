package store

import "github.com/youssefsiam38/agentctx/types"

// EstimateTokens estimates the token cost of a message from its content
// length using a fixed ratio of 0.3 tokens per character, truncated toward
// zero. It is a deterministic approximation, not a tokenizer; content length
// is measured in bytes.
func EstimateTokens(m *types.Message) int {
	return EstimateContentTokens(m.Content)
}

// EstimateContentTokens estimates tokens for a raw content string.
func EstimateContentTokens(content string) int {
	// floor(len * 0.3) without going through floating point
	return len(content) * 3 / 10
}

// SumTokens calculates the total estimated tokens across messages.
func SumTokens(messages []*types.Message) int {
	total := 0
	for _, m := range messages {
		total += EstimateTokens(m)
	}
	return total
}
