package metrics

import (
	"log/slog"
	"time"
)

// TokenUsage counts the tokens billed for one language model call.
type TokenUsage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// IsZero reports whether the provider returned no usage data.
func (u TokenUsage) IsZero() bool {
	return u.PromptTokens == 0 && u.CompletionTokens == 0 && u.TotalTokens == 0
}

// Total prefers the provider's total and falls back to the sum of the parts.
func (u TokenUsage) Total() int {
	if u.TotalTokens > 0 {
		return u.TotalTokens
	}
	return u.PromptTokens + u.CompletionTokens
}

// LLMCall describes one model call made while handling an utterance.
// Step is "classification", "insights" or "chat".
type LLMCall struct {
	Step    string
	Model   string
	Usage   TokenUsage
	Latency time.Duration
}

// LogValue groups the call under a single log attribute.
func (c LLMCall) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("step", c.Step),
		slog.String("model", c.Model),
		slog.Int64("latency_ms", c.Latency.Milliseconds()),
	}
	if !c.Usage.IsZero() {
		attrs = append(attrs,
			slog.Int("prompt_tokens", c.Usage.PromptTokens),
			slog.Int("completion_tokens", c.Usage.CompletionTokens),
			slog.Int("total_tokens", c.Usage.Total()),
		)
	}
	return slog.GroupValue(attrs...)
}

var _ slog.LogValuer = LLMCall{}
