package hooks

import (
	"context"
	"encoding/json"
	"log"
	"os"

	"github.com/youssefsiam38/agentctx/compression"
	"github.com/youssefsiam38/agentctx/types"
)

// LoggingHooks wires a standard logger into every hook point.
type LoggingHooks struct {
	logger *log.Logger
}

// NewLoggingHooks creates logging hooks with the given logger
func NewLoggingHooks(logger *log.Logger) *LoggingHooks {
	return &LoggingHooks{logger: logger}
}

// DefaultLoggingHooks creates logging hooks writing to stderr
func DefaultLoggingHooks() *LoggingHooks {
	return NewLoggingHooks(log.New(os.Stderr, "[agentctx] ", log.LstdFlags))
}

// RegisterAll attaches the logging hooks to a registry
func (l *LoggingHooks) RegisterAll(registry *Registry) {
	registry.OnBeforeMessage(l.BeforeMessage)
	registry.OnAfterMessage(l.AfterMessage)
	registry.OnToolCall(l.ToolCall)
	registry.OnBeforeCompression(l.BeforeCompression)
	registry.OnAfterCompression(l.AfterCompression)
}

// BeforeMessage logs the outgoing history size
func (l *LoggingHooks) BeforeMessage(ctx context.Context, messages []*types.Message) error {
	l.logger.Printf("sending %d messages", len(messages))
	return nil
}

// AfterMessage logs the assistant turn
func (l *LoggingHooks) AfterMessage(ctx context.Context, message *types.Message) error {
	l.logger.Printf("assistant replied (%d chars)", len(message.Content))
	return nil
}

// ToolCall logs a tool execution and its outcome
func (l *LoggingHooks) ToolCall(ctx context.Context, toolName string, input json.RawMessage, output string, err error) error {
	if err != nil {
		l.logger.Printf("tool %s failed: %v", toolName, err)
		return nil
	}
	l.logger.Printf("tool %s returned %d chars", toolName, len(output))
	return nil
}

// BeforeCompression logs the token count triggering compression
func (l *LoggingHooks) BeforeCompression(ctx context.Context, tokenCount int) error {
	l.logger.Printf("compressing context at %d tokens", tokenCount)
	return nil
}

// AfterCompression logs the compression outcome
func (l *LoggingHooks) AfterCompression(ctx context.Context, result *compression.Result) error {
	if !result.Compressed {
		l.logger.Printf("compression skipped: %s", result.Reason)
		return nil
	}
	l.logger.Printf("compressed %d -> %d tokens (ratio %.3f, removed %d)",
		result.OriginalTokens, result.CompressedTokens, result.CompressionRatio, result.MessagesRemoved)
	return nil
}

// MetricsHooks emits counters and gauges for hook events through a
// caller-supplied sink.
type MetricsHooks struct {
	// OnMetric receives (name, value, tags) for each emitted metric.
	OnMetric func(name string, value float64, tags map[string]string)
}

// RegisterAll attaches the metrics hooks to a registry
func (m *MetricsHooks) RegisterAll(registry *Registry) {
	registry.OnToolCall(func(ctx context.Context, toolName string, input json.RawMessage, output string, err error) error {
		status := "ok"
		if err != nil {
			status = "error"
		}
		m.emit("tool_call", 1, map[string]string{"tool": toolName, "status": status})
		return nil
	})

	registry.OnBeforeCompression(func(ctx context.Context, tokenCount int) error {
		m.emit("compression_trigger_tokens", float64(tokenCount), nil)
		return nil
	})

	registry.OnAfterCompression(func(ctx context.Context, result *compression.Result) error {
		if result.Compressed {
			m.emit("compression_ratio", result.CompressionRatio, nil)
			m.emit("messages_removed", float64(result.MessagesRemoved), nil)
		}
		return nil
	})
}

func (m *MetricsHooks) emit(name string, value float64, tags map[string]string) {
	if m.OnMetric != nil {
		m.OnMetric(name, value, tags)
	}
}
