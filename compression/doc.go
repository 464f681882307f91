// Package compression enforces the token budget of a conversation store by
// selectively discarding low-value history.
//
// The policy is deterministic: user messages are never dropped (user intent
// must not be lost), and only the most recent non-user messages are kept,
// on the premise that recent tool and assistant exchanges carry more context
// value than older ones. After a pass the retained messages are re-sorted by
// timestamp so the conversation reads in a causally plausible order.
//
// Check whether a pass is due and run it:
//
//	policy, _ := compression.NewPolicy(compression.Config{RetainRecent: 5})
//	if policy.ShouldCompress(st) {
//	    result := policy.Compress(st)
//	    log.Printf("compressed: %d -> %d tokens", result.OriginalTokens, result.CompressedTokens)
//	}
//
// Compress on an empty store is a non-error steady state: it reports
// Compressed=false with a reason and changes nothing.
package compression
