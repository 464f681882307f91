package agentctx

import (
	"github.com/youssefsiam38/agentctx/hooks"
	"github.com/youssefsiam38/agentctx/tool"
)

// Option is a functional option for configuring an Agent
type Option func(*internalConfig) error

// WithMaxTokens sets the maximum number of tokens to generate per response
func WithMaxTokens(n int64) Option {
	return func(c *internalConfig) error {
		c.maxTokens = n
		return nil
	}
}

// WithTemperature sets the temperature for sampling (0.0 to 1.0)
func WithTemperature(t float64) Option {
	return func(c *internalConfig) error {
		c.temperature = &t
		return nil
	}
}

// WithTools registers tools with the agent
func WithTools(tools ...tool.Tool) Option {
	return func(c *internalConfig) error {
		for _, t := range tools {
			schema := t.InputSchema()
			if schema.Type != "object" {
				return NewAgentError("WithTools", ErrInvalidToolSchema).
					WithContext("tool", t.Name()).
					WithContext("reason", "schema type must be 'object'")
			}
			c.tools = append(c.tools, t)
		}
		return nil
	}
}

// WithContextBudget sets the context window token budget (default 4000)
func WithContextBudget(tokens int) Option {
	return func(c *internalConfig) error {
		if tokens <= 0 {
			return NewAgentError("WithContextBudget", ErrInvalidConfig).
				WithContext("tokens", tokens).
				WithContext("reason", "must be positive")
		}
		c.maxContextTokens = tokens
		return nil
	}
}

// WithCompressionThreshold sets when compression triggers (0.0-1.0, default 0.8)
func WithCompressionThreshold(threshold float64) Option {
	return func(c *internalConfig) error {
		if threshold <= 0 || threshold > 1 {
			return NewAgentError("WithCompressionThreshold", ErrInvalidConfig).
				WithContext("threshold", threshold).
				WithContext("reason", "threshold must be between 0 and 1")
		}
		c.compressionThreshold = threshold
		return nil
	}
}

// WithRetainRecent sets how many recent non-user messages compression keeps
// (default 5)
func WithRetainRecent(n int) Option {
	return func(c *internalConfig) error {
		if n < 0 {
			return NewAgentError("WithRetainRecent", ErrInvalidConfig).
				WithContext("n", n).
				WithContext("reason", "must not be negative")
		}
		c.retainRecent = n
		return nil
	}
}

// WithAutoCompression enables or disables automatic context compression
// before each API call
func WithAutoCompression(enabled bool) Option {
	return func(c *internalConfig) error {
		c.autoCompress = enabled
		return nil
	}
}

// WithMaxRetries sets the maximum number of retry attempts for API calls
func WithMaxRetries(n int) Option {
	return func(c *internalConfig) error {
		if n < 0 {
			return NewAgentError("WithMaxRetries", ErrInvalidConfig).
				WithContext("n", n).
				WithContext("reason", "must not be negative")
		}
		c.maxRetries = n
		return nil
	}
}

// WithMaxToolIterations sets the maximum tool call iterations per Chat
// (default 5)
func WithMaxToolIterations(n int) Option {
	return func(c *internalConfig) error {
		if n <= 0 {
			return NewAgentError("WithMaxToolIterations", ErrInvalidConfig).
				WithContext("n", n).
				WithContext("reason", "must be positive")
		}
		c.maxToolIterations = n
		return nil
	}
}

// WithRateLimit sets the API request budget in requests per minute
// (default 60, 0 disables rate limiting)
func WithRateLimit(requestsPerMinute int) Option {
	return func(c *internalConfig) error {
		if requestsPerMinute < 0 {
			return NewAgentError("WithRateLimit", ErrInvalidConfig).
				WithContext("requestsPerMinute", requestsPerMinute).
				WithContext("reason", "must not be negative")
		}
		c.requestsPerMinute = requestsPerMinute
		return nil
	}
}

// WithHooks replaces the agent's hook registry
func WithHooks(registry *hooks.Registry) Option {
	return func(c *internalConfig) error {
		if registry == nil {
			return NewAgentError("WithHooks", ErrInvalidConfig).
				WithContext("reason", "registry must not be nil")
		}
		c.hooks = registry
		return nil
	}
}
