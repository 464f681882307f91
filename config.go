package agentctx

import (
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/youssefsiam38/agentctx/hooks"
	"github.com/youssefsiam38/agentctx/tool"
)

// Config holds the required configuration for an agent.
//
// Example:
//
//	client := anthropic.NewClient()
//	agent, _ := agentctx.New(agentctx.Config{
//	    Client:       &client,
//	    Model:        "claude-sonnet-4-5-20250929",
//	    SystemPrompt: "You are a helpful assistant",
//	})
type Config struct {
	// Client is the Anthropic API client (required)
	Client *anthropic.Client

	// Model is the model ID to use (required)
	Model string

	// SystemPrompt is the system prompt for the agent (required)
	SystemPrompt string
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Client == nil {
		return fmt.Errorf("%w: Anthropic client is required", ErrInvalidConfig)
	}

	if c.Model == "" {
		return fmt.Errorf("%w: Model is required", ErrInvalidConfig)
	}

	if c.SystemPrompt == "" {
		return fmt.Errorf("%w: SystemPrompt is required", ErrInvalidConfig)
	}

	return nil
}

// internalConfig holds the full agent configuration including optional
// parameters
type internalConfig struct {
	// Required from Config
	client       *anthropic.Client
	model        string
	systemPrompt string

	// Generation parameters
	maxTokens   int64
	temperature *float64

	// Context window configuration
	maxContextTokens     int
	compressionThreshold float64
	retainRecent         int
	autoCompress         bool

	// Transport configuration
	maxRetries        int
	maxToolIterations int
	requestsPerMinute int

	// Internal state
	tools []tool.Tool
	hooks *hooks.Registry
}

// newInternalConfig creates a new internal config from the public Config
func newInternalConfig(cfg Config) *internalConfig {
	return &internalConfig{
		client:       cfg.Client,
		model:        cfg.Model,
		systemPrompt: cfg.SystemPrompt,

		// Defaults
		maxTokens:            1024,
		maxContextTokens:     4000,
		compressionThreshold: 0.8,
		retainRecent:         5,
		autoCompress:         true,
		maxRetries:           3,
		maxToolIterations:    5,
		requestsPerMinute:    60,

		tools: []tool.Tool{},
		hooks: hooks.NewRegistry(),
	}
}
