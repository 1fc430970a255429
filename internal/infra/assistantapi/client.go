package assistantapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/yanqian/weather-assistant/internal/domain/assistant"
	"github.com/yanqian/weather-assistant/internal/domain/chatsession"
)

// Client talks to a running assistant server over its JSON API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a client for the server at baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 90 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Send posts one utterance. Any non-200 status counts as a transport failure;
// application errors come back in-band with status 200.
func (c *Client) Send(ctx context.Context, utterance string) (assistant.ChatResponse, error) {
	body, err := json.Marshal(assistant.ChatRequest{Message: utterance})
	if err != nil {
		return assistant.ChatResponse{}, fmt.Errorf("encode chat request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat", bytes.NewReader(body))
	if err != nil {
		return assistant.ChatResponse{}, fmt.Errorf("build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var out assistant.ChatResponse
	if err := c.do(req, &out); err != nil {
		return assistant.ChatResponse{}, err
	}
	return out, nil
}

// Health succeeds only when the server answers and reports the assistant ready.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("build health request: %w", err)
	}
	var out assistant.HealthResponse
	if err := c.do(req, &out); err != nil {
		return err
	}
	if !out.AssistantReady {
		return fmt.Errorf("assistant not ready (status %q)", out.Status)
	}
	return nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return fmt.Errorf("%s %s: status %d: %s", req.Method, req.URL.Path, resp.StatusCode, strings.TrimSpace(string(payload)))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", req.URL.Path, err)
	}
	return nil
}

var _ chatsession.Backend = (*Client)(nil)
