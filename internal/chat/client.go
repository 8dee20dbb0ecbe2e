// Package chat is a thin client for an OpenAI-compatible chat completions
// endpoint. It is hand-rolled rather than an SDK because the upstream
// (NVIDIA-hosted) models take the vendor extension chat_template_kwargs in
// the request body, which SDK request types cannot express.
package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"heritage-api/internal/model"

	"github.com/rs/zerolog"
)

// CompletionRequest is a single-turn completion call.
type CompletionRequest struct {
	Message     string  `json:"message"`
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"top_p"`
	MaxTokens   int     `json:"max_tokens"`
	Thinking    bool    `json:"thinking"`
}

// Client calls an OpenAI-compatible /chat/completions endpoint.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient creates a chat client. Calls are bounded by the HTTP client
// timeout so a slow upstream cannot hold a request handler indefinitely.
func NewClient(baseURL, apiKey, model string, logger zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		logger: logger.With().Str("component", "chat").Logger(),
	}
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

type wireMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type wireRequest struct {
	Model              string         `json:"model"`
	Messages           []wireMessage  `json:"messages"`
	Temperature        float64        `json:"temperature"`
	TopP               float64        `json:"top_p"`
	MaxTokens          int            `json:"max_tokens"`
	ChatTemplateKwargs map[string]any `json:"chat_template_kwargs,omitempty"`
}

type wireResponse struct {
	Choices []struct {
		Message wireMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Complete sends a single-user-message completion and returns the first
// choice's content.
func (c *Client) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	body := wireRequest{
		Model:       c.model,
		Messages:    []wireMessage{{Role: "user", Content: req.Message}},
		Temperature: req.Temperature,
		TopP:        req.TopP,
		MaxTokens:   req.MaxTokens,
		ChatTemplateKwargs: map[string]any{
			"thinking": req.Thinking,
		},
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to encode completion request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build completion request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Error().Err(err).Msg("completion request failed")
		return "", &model.ExternalServiceError{Service: "chat", Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", &model.ExternalServiceError{Service: "chat", Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Error().
			Int("status", resp.StatusCode).
			Msg("completion request rejected")
		return "", &model.ExternalServiceError{
			Service: "chat",
			Err:     fmt.Errorf("upstream returned status %d", resp.StatusCode),
		}
	}

	var parsed wireResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", &model.ExternalServiceError{Service: "chat", Err: err}
	}
	if parsed.Error != nil {
		return "", &model.ExternalServiceError{
			Service: "chat",
			Err:     fmt.Errorf("upstream error: %s", parsed.Error.Message),
		}
	}
	if len(parsed.Choices) == 0 {
		return "", &model.ExternalServiceError{
			Service: "chat",
			Err:     fmt.Errorf("upstream returned no choices"),
		}
	}

	return parsed.Choices[0].Message.Content, nil
}
