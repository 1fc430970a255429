package llm

import (
	"context"
	"errors"

	"github.com/yanqian/weather-assistant/internal/domain/assistant"
	apperrors "github.com/yanqian/weather-assistant/pkg/errors"
)

// Unavailable stands in for a language model that could not be built,
// usually because no API key is configured. The server still starts and
// reports itself not ready.
type Unavailable struct {
	Reason error
}

// NewUnavailable wraps the construction error.
func NewUnavailable(reason error) *Unavailable {
	if reason == nil {
		reason = errors.New("language model not configured")
	}
	return &Unavailable{Reason: reason}
}

// Generate always fails with provider_unavailable.
func (u *Unavailable) Generate(context.Context, assistant.Prompt) (assistant.Completion, error) {
	return assistant.Completion{}, apperrors.Wrap(apperrors.CodeProviderUnavailable, "language model is not configured", u.Reason)
}

// Ready returns the construction error.
func (u *Unavailable) Ready() error {
	return u.Reason
}
