package chatgpt

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/yanqian/weather-assistant/internal/domain/assistant"
	apperrors "github.com/yanqian/weather-assistant/pkg/errors"
	"github.com/yanqian/weather-assistant/pkg/metrics"
)

const defaultModel = openai.GPT4oMini

// Client talks to any OpenAI compatible chat completions endpoint.
type Client struct {
	client *openai.Client
	model  string
}

// NewClient constructs a ChatGPT client.
func NewClient(apiKey, baseURL, model string, timeout time.Duration) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("chatgpt api key cannot be empty")
	}
	if strings.TrimSpace(model) == "" {
		model = defaultModel
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	cfg := openai.DefaultConfig(apiKey)
	if base := strings.TrimSpace(baseURL); base != "" {
		cfg.BaseURL = strings.TrimRight(base, "/")
	}
	cfg.HTTPClient = &http.Client{Timeout: timeout}

	return &Client{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}, nil
}

// Generate triggers a sync chat completion.
func (c *Client) Generate(ctx context.Context, prompt assistant.Prompt) (assistant.Completion, error) {
	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if prompt.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: prompt.System})
	}
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: prompt.User})

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: prompt.Temperature,
		MaxTokens:   prompt.MaxOutputTokens,
	})
	if err != nil {
		return assistant.Completion{}, mapError(err)
	}
	if len(resp.Choices) == 0 {
		return assistant.Completion{}, apperrors.Wrap(apperrors.CodeMalformedProviderResponse, "chatgpt returned no choices", nil)
	}

	return assistant.Completion{
		Text:  resp.Choices[0].Message.Content,
		Model: resp.Model,
		Usage: metrics.TokenUsage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}, nil
}

// Ready always succeeds once the client is built.
func (c *Client) Ready() error {
	return nil
}

func mapError(err error) error {
	status := 0
	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
	}

	switch {
	case status == http.StatusTooManyRequests:
		return apperrors.Wrap(apperrors.CodeRateLimited, "language model quota exceeded", err)
	case status != 0:
		return apperrors.Wrap(apperrors.CodeProviderUnavailable, fmt.Sprintf("language model request failed with status %d", status), err)
	default:
		return apperrors.Wrap(apperrors.CodeProviderUnavailable, "language model unreachable", err)
	}
}
