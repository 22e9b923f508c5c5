package anthropic_client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexmeckes/draftagent/go/clients"
)

// ErrEmptyCompletion is returned when the response carries no text block.
var ErrEmptyCompletion = errors.New("anthropic: completion contained no text")

// CompletionRequest is a single-turn prompt with a role-flavored system instruction.
type CompletionRequest struct {
	Model       string
	System      string
	Prompt      string
	MaxTokens   int
	Temperature float64
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesRequest struct {
	Model       string    `json:"model"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
	System      string    `json:"system,omitempty"`
	Messages    []message `json:"messages"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type messagesResponse struct {
	ID         string         `json:"id"`
	Content    []contentBlock `json:"content"`
	StopReason string         `json:"stop_reason"`
}

type AnthropicClient struct {
	*clients.BaseClient
}

func NewAnthropicClient(baseURL, apiKey string, timeout time.Duration) *AnthropicClient {
	if baseURL == "" {
		baseURL = BaseURL
	}
	client := &AnthropicClient{
		BaseClient: clients.NewBaseClient(strings.TrimRight(baseURL, "/")),
	}

	client.SetHeader(JsonHeader, JsonContentType)
	client.SetHeader(APIKeyHeader, apiKey)
	client.SetHeader(VersionHeader, APIVersion)
	if timeout > 0 {
		client.SetTimeout(timeout)
	}

	return client
}

// Complete sends the prompt and returns the text of the first text block.
func (c *AnthropicClient) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	payload, err := json.Marshal(messagesRequest{
		Model:       req.Model,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
		System:      req.System,
		Messages:    []message{{Role: roleUser, Content: req.Prompt}},
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	body, err := c.Post(ctx, messagesPath, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("anthropic messages: %w", err)
	}

	var resp messagesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	for _, block := range resp.Content {
		if block.Type == contentTypeText {
			return block.Text, nil
		}
	}
	return "", ErrEmptyCompletion
}
