package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/yanqian/weather-assistant/internal/domain/assistant"
	apperrors "github.com/yanqian/weather-assistant/pkg/errors"
	"github.com/yanqian/weather-assistant/pkg/metrics"
)

const defaultModel = "gemini-2.5-flash"

// Client adapts the Gemini API to the assistant language model port.
type Client struct {
	client *genai.Client
	model  string
}

// NewClient constructs a Gemini client. baseURL is optional and mostly used by tests.
func NewClient(ctx context.Context, apiKey, baseURL, model string, timeout time.Duration) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("gemini api key cannot be empty")
	}
	if strings.TrimSpace(model) == "" {
		model = defaultModel
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	cfg := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: timeout},
	}
	if base := strings.TrimSpace(baseURL); base != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: base}
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &Client{client: client, model: model}, nil
}

// Generate sends a single generateContent call.
func (c *Client) Generate(ctx context.Context, prompt assistant.Prompt) (assistant.Completion, error) {
	temperature := prompt.Temperature
	cfg := &genai.GenerateContentConfig{
		Temperature: &temperature,
	}
	if prompt.System != "" {
		cfg.SystemInstruction = genai.NewContentFromText(prompt.System, genai.RoleUser)
	}
	if prompt.MaxOutputTokens > 0 {
		cfg.MaxOutputTokens = int32(prompt.MaxOutputTokens)
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt.User), cfg)
	if err != nil {
		return assistant.Completion{}, mapError(err)
	}

	out := assistant.Completion{
		Text:  resp.Text(),
		Model: c.model,
	}
	if usage := resp.UsageMetadata; usage != nil {
		out.Usage = metrics.TokenUsage{
			PromptTokens:     int(usage.PromptTokenCount),
			CompletionTokens: int(usage.CandidatesTokenCount),
			TotalTokens:      int(usage.TotalTokenCount),
		}
	}
	return out, nil
}

// Ready always succeeds once the client is built.
func (c *Client) Ready() error {
	return nil
}

func mapError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusTooManyRequests:
			return apperrors.Wrap(apperrors.CodeRateLimited, "language model quota exceeded", err)
		default:
			return apperrors.Wrap(apperrors.CodeProviderUnavailable, fmt.Sprintf("language model request failed with status %d", apiErr.Code), err)
		}
	}
	return apperrors.Wrap(apperrors.CodeProviderUnavailable, "language model unreachable", err)
}
