package builtin

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"

	"github.com/youssefsiam38/agentctx/tool"
)

var emailAddressPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// SentEmail is one delivered message in the outbox.
type SentEmail struct {
	ID       string    `json:"id"`
	To       string    `json:"to"`
	Subject  string    `json:"subject"`
	BodyHTML string    `json:"body_html"`
	SentAt   time.Time `json:"sent_at"`
}

// Email renders a markdown body to sanitized HTML and records the message
// in an in-memory outbox. It does not talk to a real mail server; the
// outbox stands in for delivery so demos and tests can inspect what was
// sent.
type Email struct {
	mu     sync.Mutex
	sent   []SentEmail
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

// NewEmail creates an email tool with an empty outbox
func NewEmail() *Email {
	return &Email{
		md:     goldmark.New(),
		policy: bluemonday.UGCPolicy(),
	}
}

func (e *Email) Name() string { return "send_email" }

func (e *Email) Description() string {
	return "Send an email. The body is markdown and is rendered to sanitized HTML."
}

func (e *Email) InputSchema() tool.Schema {
	return tool.Schema{
		Type: "object",
		Properties: map[string]tool.Property{
			"to": {
				Type:        "string",
				Description: "Recipient email address",
				MinLength:   tool.IntPtr(3),
			},
			"subject": {
				Type:        "string",
				Description: "Email subject line",
				MinLength:   tool.IntPtr(1),
				MaxLength:   tool.IntPtr(100),
			},
			"body": {
				Type:        "string",
				Description: "Email body in markdown",
				MinLength:   tool.IntPtr(1),
				MaxLength:   tool.IntPtr(50000),
			},
		},
		Required: []string{"to", "subject", "body"},
	}
}

func (e *Email) Execute(ctx context.Context, input json.RawMessage) (string, error) {
	var params struct {
		To      string `json:"to"`
		Subject string `json:"subject"`
		Body    string `json:"body"`
	}
	if err := json.Unmarshal(input, &params); err != nil {
		return "", fmt.Errorf("invalid input: %w", err)
	}

	if !emailAddressPattern.MatchString(params.To) {
		return "", fmt.Errorf("invalid recipient address: %s", params.To)
	}

	html, err := e.render(params.Body)
	if err != nil {
		return "", fmt.Errorf("render body: %w", err)
	}

	msg := SentEmail{
		ID:       uuid.NewString(),
		To:       params.To,
		Subject:  params.Subject,
		BodyHTML: html,
		SentAt:   time.Now(),
	}

	e.mu.Lock()
	e.sent = append(e.sent, msg)
	e.mu.Unlock()

	out, err := json.Marshal(map[string]any{
		"message_id": msg.ID,
		"to":         msg.To,
		"subject":    msg.Subject,
		"status":     "sent",
	})
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// render converts markdown to HTML and strips anything the UGC policy
// disallows, script tags included.
func (e *Email) render(body string) (string, error) {
	var buf bytes.Buffer
	if err := e.md.Convert([]byte(body), &buf); err != nil {
		return "", err
	}
	return e.policy.Sanitize(buf.String()), nil
}

// Sent returns a copy of the outbox.
func (e *Email) Sent() []SentEmail {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]SentEmail, len(e.sent))
	copy(out, e.sent)
	return out
}
