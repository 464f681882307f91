package builtin

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/youssefsiam38/agentctx/tool"
)

// DefaultTimeFormat is used when the caller does not supply one.
const DefaultTimeFormat = "2006-01-02 15:04:05"

// Clock reports the current time, optionally in a named timezone.
type Clock struct {
	now func() time.Time
}

// NewClock creates a clock tool
func NewClock() *Clock {
	return &Clock{now: time.Now}
}

func (c *Clock) Name() string { return "get_current_time" }

func (c *Clock) Description() string {
	return "Get the current date and time, optionally in a specific IANA timezone."
}

func (c *Clock) InputSchema() tool.Schema {
	return tool.Schema{
		Type: "object",
		Properties: map[string]tool.Property{
			"timezone": {
				Type:        "string",
				Description: "IANA timezone name, e.g. \"Asia/Shanghai\". Defaults to the local timezone.",
			},
			"format": {
				Type:        "string",
				Description: "Go reference-time layout for the output. Defaults to \"2006-01-02 15:04:05\".",
			},
		},
	}
}

func (c *Clock) Execute(ctx context.Context, input json.RawMessage) (string, error) {
	var params struct {
		Timezone string `json:"timezone"`
		Format   string `json:"format"`
	}
	if len(input) > 0 {
		if err := json.Unmarshal(input, &params); err != nil {
			return "", fmt.Errorf("invalid input: %w", err)
		}
	}

	now := c.now()
	zone := "Local"
	if params.Timezone != "" {
		loc, err := time.LoadLocation(params.Timezone)
		if err != nil {
			return "", fmt.Errorf("unknown timezone %q: %w", params.Timezone, err)
		}
		now = now.In(loc)
		zone = params.Timezone
	}

	format := params.Format
	if format == "" {
		format = DefaultTimeFormat
	}

	out, err := json.Marshal(map[string]any{
		"time":     now.Format(format),
		"timezone": zone,
		"weekday":  now.Weekday().String(),
	})
	if err != nil {
		return "", err
	}
	return string(out), nil
}
