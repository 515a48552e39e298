package llm

import "context"

// Roles accepted on outbound messages.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Error tags carried on a Completion. An empty tag means success.
const (
	ErrRateLimit    = "rate_limit"
	ErrAPIError     = "api_error"
	ErrNoResponse   = "no_response"
	ErrServiceError = "service_error"
)

// Message is the provider-neutral chat message shape.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Usage is the token usage mapping reported by a provider. Providers that do
// not report usage return an empty map, never nil, so callers can uniformly
// check for the presence of keys.
type Usage map[string]any

// Completion is the uniform envelope every completion call returns, success
// or failure. Err is one of the error tags above, or empty on success. On
// failure Message.Content carries a user-safe explanation.
type Completion struct {
	Message Message `json:"message"`
	Usage   Usage   `json:"usage"`
	Err     string  `json:"error,omitempty"`
}

// Failed reports whether the envelope carries an error tag.
func (c *Completion) Failed() bool {
	return c.Err != ""
}

// TotalTokens returns the total_tokens usage figure if the provider reported
// one, else 0.
func (c *Completion) TotalTokens() int {
	if c.Usage == nil {
		return 0
	}
	switch v := c.Usage["total_tokens"].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}

// Options carries per-call overrides. Unset fields fall back to the
// configured defaults inside the provider.
type Options struct {
	Model       string
	Temperature *float64
	MaxTokens   *int
}

// Provider is the adapter contract for one external LLM completion API.
// GenerateCompletion is fail-soft: transport and provider failures are
// reported through the envelope's error tag, never through a Go error, so
// the layers above need no error handling for provider outages.
type Provider interface {
	GenerateCompletion(ctx context.Context, messages []Message, opts Options) *Completion
}
