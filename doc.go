// Package agentctx is a context-management toolkit for LLM agents built on
// the Anthropic API. It keeps a conversation's message history inside a
// token budget: an estimator prices every message as it is appended, a
// compression policy trims old assistant and tool traffic once the budget
// is crossed while preserving every user message, and a stats reporter
// exposes the resulting window for monitoring.
//
// The high-level entry points are Agent, which runs a chat loop with tool
// execution and automatic compression, and Manager, which exposes the same
// context operations as a uniform action API (and as a tool the model can
// call on its own context).
//
// Basic usage:
//
//	client := anthropic.NewClient()
//	agent, err := agentctx.New(agentctx.Config{
//		Client: &client,
//		Model:  anthropic.ModelClaudeSonnet4_5,
//	}, agentctx.WithContextBudget(4000))
//	if err != nil {
//		log.Fatal(err)
//	}
//	resp, err := agent.Chat(ctx, "hello")
package agentctx
