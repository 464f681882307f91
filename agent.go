package agentctx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"golang.org/x/time/rate"

	"github.com/youssefsiam38/agentctx/compression"
	"github.com/youssefsiam38/agentctx/tool"
	"github.com/youssefsiam38/agentctx/types"
)

// completer is the chat-completion transport consumed by the agent loop.
// Tests substitute a stub; production uses the Anthropic client.
type completer interface {
	complete(ctx context.Context, params anthropic.MessageNewParams) (*anthropic.Message, error)
}

type anthropicCompleter struct {
	client *anthropic.Client
}

func (c *anthropicCompleter) complete(ctx context.Context, params anthropic.MessageNewParams) (*anthropic.Message, error) {
	return c.client.Messages.New(ctx, params)
}

// Response is the final result of one Chat turn.
type Response struct {
	// Content is the assistant's text answer.
	Content string

	// StopReason is the API's stop reason for the final message.
	StopReason string

	// Iterations counts the API round trips the turn took, including tool
	// call loops.
	Iterations int
}

// Agent runs a conversation loop against the Anthropic API with tool
// execution, rate limiting, and automatic context compression.
type Agent struct {
	config    *internalConfig
	registry  *tool.Registry
	manager   *Manager
	limiter   *rate.Limiter
	transport completer
}

// New creates a new Agent with the given configuration and options. The
// agent's context manager is registered as a manage_context tool, so the
// model can inspect and compress its own window.
func New(cfg Config, opts ...Option) (*Agent, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	internal := newInternalConfig(cfg)
	for _, opt := range opts {
		if err := opt(internal); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	manager, err := NewManager(internal.maxContextTokens, internal.compressionThreshold, internal.retainRecent)
	if err != nil {
		return nil, err
	}

	registry := tool.NewRegistry()
	if err := registry.RegisterAll(internal.tools); err != nil {
		return nil, fmt.Errorf("failed to register tools: %w", err)
	}
	if err := registry.Register(manager.Tool()); err != nil {
		return nil, fmt.Errorf("failed to register context tool: %w", err)
	}

	var limiter *rate.Limiter
	if internal.requestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(internal.requestsPerMinute)), 1)
	}

	return &Agent{
		config:    internal,
		registry:  registry,
		manager:   manager,
		limiter:   limiter,
		transport: &anthropicCompleter{client: internal.client},
	}, nil
}

// Model returns the model being used by this agent
func (a *Agent) Model() string {
	return a.config.model
}

// SystemPrompt returns the system prompt
func (a *Agent) SystemPrompt() string {
	return a.config.systemPrompt
}

// Manager returns the agent's context manager.
func (a *Agent) Manager() *Manager {
	return a.manager
}

// RegisterTool adds a new tool to the agent
func (a *Agent) RegisterTool(t tool.Tool) error {
	return a.registry.Register(t)
}

// Tools returns all registered tool names
func (a *Agent) Tools() []string {
	return a.registry.List()
}

// OnBeforeMessage registers a hook called before sending messages
func (a *Agent) OnBeforeMessage(hook func(ctx context.Context, messages []*types.Message) error) {
	a.config.hooks.OnBeforeMessage(hook)
}

// OnAfterMessage registers a hook called after an assistant turn
func (a *Agent) OnAfterMessage(hook func(ctx context.Context, message *types.Message) error) {
	a.config.hooks.OnAfterMessage(hook)
}

// OnToolCall registers a hook called when a tool is executed
func (a *Agent) OnToolCall(hook func(ctx context.Context, toolName string, input json.RawMessage, output string, err error) error) {
	a.config.hooks.OnToolCall(hook)
}

// OnBeforeCompression registers a hook called before context compression
func (a *Agent) OnBeforeCompression(hook func(ctx context.Context, tokenCount int) error) {
	a.config.hooks.OnBeforeCompression(hook)
}

// OnAfterCompression registers a hook called after context compression
func (a *Agent) OnAfterCompression(hook func(ctx context.Context, result *compression.Result) error) {
	a.config.hooks.OnAfterCompression(hook)
}

// Chat appends the prompt as a user message and runs the conversation loop
// until the model produces a text answer or the iteration limit is hit.
// Tool calls requested by the model are executed through the registry, and
// their results are fed back both to the API and to the context store.
func (a *Agent) Chat(ctx context.Context, prompt string) (*Response, error) {
	a.manager.Append(NewUserMessage(prompt))

	if a.config.autoCompress {
		if err := a.compressIfNeeded(ctx); err != nil {
			return nil, err
		}
	}

	// The context store holds flattened text for budgeting; within a turn
	// the API conversation carries the native tool_use/tool_result blocks.
	convo := historyParams(a.manager.Messages())

	for iteration := 1; iteration <= a.config.maxToolIterations; iteration++ {
		if err := a.config.hooks.TriggerBeforeMessage(ctx, a.manager.Messages()); err != nil {
			return nil, fmt.Errorf("before-message hook failed: %w", err)
		}

		resp, err := a.send(ctx, a.buildParams(convo))
		if err != nil {
			return nil, NewAgentError("Chat", err).WithContext("iteration", iteration)
		}

		text, toolUses := parseContent(resp)

		if text != "" {
			assistantMsg := NewAssistantMessage(text)
			a.manager.Append(assistantMsg)
			if err := a.config.hooks.TriggerAfterMessage(ctx, assistantMsg); err != nil {
				return nil, fmt.Errorf("after-message hook failed: %w", err)
			}
		}

		if resp.StopReason == anthropic.StopReasonToolUse && len(toolUses) > 0 {
			convo = append(convo, resp.ToParam())

			results, err := a.executeToolCalls(ctx, toolUses)
			if err != nil {
				return nil, err
			}
			convo = append(convo, anthropic.NewUserMessage(results...))
			continue
		}

		return &Response{
			Content:    text,
			StopReason: string(resp.StopReason),
			Iterations: iteration,
		}, nil
	}

	return nil, NewAgentError("Chat", ErrMaxIterations).
		WithContext("maxToolIterations", a.config.maxToolIterations)
}

// compressIfNeeded runs the compression policy when the store is over its
// trigger point, wrapped in the compression hooks.
func (a *Agent) compressIfNeeded(ctx context.Context) error {
	if !a.manager.ShouldCompress() {
		return nil
	}

	if err := a.config.hooks.TriggerBeforeCompression(ctx, a.manager.TokenCount()); err != nil {
		return fmt.Errorf("before-compression hook failed: %w", err)
	}

	result := a.manager.Compress()

	if err := a.config.hooks.TriggerAfterCompression(ctx, result); err != nil {
		return fmt.Errorf("after-compression hook failed: %w", err)
	}

	return nil
}

// executeToolCalls runs each requested tool and returns the result blocks
// for the next API round trip. The calls of one assistant turn share a
// task id in the context store.
func (a *Agent) executeToolCalls(ctx context.Context, toolUses []anthropic.ToolUseBlock) ([]anthropic.ContentBlockParamUnion, error) {
	taskID := NewTaskID()
	results := make([]anthropic.ContentBlockParamUnion, 0, len(toolUses))

	for _, call := range toolUses {
		output, execErr := a.registry.Execute(ctx, call.Name, call.Input)

		if hookErr := a.config.hooks.TriggerToolCall(ctx, call.Name, call.Input, output, execErr); hookErr != nil {
			return nil, fmt.Errorf("tool call hook failed: %w", hookErr)
		}

		content := output
		isError := false
		if execErr != nil {
			content = execErr.Error()
			isError = true
		}

		a.manager.Append(NewToolMessage(content, taskID))
		results = append(results, anthropic.NewToolResultBlock(call.ID, content, isError))
	}

	return results, nil
}

// send issues the API request behind the rate limiter, retrying rate-limit
// and server errors with linear backoff.
func (a *Agent) send(ctx context.Context, params anthropic.MessageNewParams) (*anthropic.Message, error) {
	var lastErr error

	for attempt := 0; attempt <= a.config.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Second * time.Duration(attempt)):
			}
		}

		if a.limiter != nil {
			if err := a.limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}

		resp, err := a.transport.complete(ctx, params)
		if err == nil {
			return resp, nil
		}

		lastErr = err
		if !isRetryableError(err) {
			return nil, err
		}
	}

	return nil, lastErr
}

// isRetryableError reports whether an API error is worth retrying:
// rate limits and server-side failures.
func isRetryableError(err error) bool {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 429 || apiErr.StatusCode >= 500
	}
	return false
}

// buildParams assembles the API request for the current conversation.
func (a *Agent) buildParams(convo []anthropic.MessageParam) anthropic.MessageNewParams {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(a.config.model),
		MaxTokens: a.config.maxTokens,
		Messages:  convo,
	}

	if a.config.systemPrompt != "" {
		params.System = []anthropic.TextBlockParam{
			{Text: a.config.systemPrompt},
		}
	}

	if a.registry.Count() > 0 {
		params.Tools = a.registry.ToAnthropicToolUnions()
	}

	if a.config.temperature != nil {
		params.Temperature = anthropic.Float(*a.config.temperature)
	}

	return params
}

// historyParams converts stored history into API message parameters.
// System messages ride in the request's System field, so they are skipped
// here; tool results are replayed as labeled user text since the original
// tool_use ids are not retained across turns.
func historyParams(messages []*types.Message) []anthropic.MessageParam {
	params := make([]anthropic.MessageParam, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case types.RoleSystem:
			continue
		case types.RoleAssistant:
			params = append(params, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Content)))
		case types.RoleTool:
			params = append(params, anthropic.NewUserMessage(anthropic.NewTextBlock("[tool result] "+m.Content)))
		default:
			params = append(params, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
		}
	}
	return params
}

// parseContent extracts the text answer and any tool calls from an API
// response.
func parseContent(resp *anthropic.Message) (string, []anthropic.ToolUseBlock) {
	var text string
	var toolUses []anthropic.ToolUseBlock

	for _, block := range resp.Content {
		switch b := block.AsAny().(type) {
		case anthropic.TextBlock:
			text += b.Text
		case anthropic.ToolUseBlock:
			toolUses = append(toolUses, b)
		}
	}

	return text, toolUses
}
