// Package llm is the external language-model collaborator: an OpenAI-style
// chat-completions client over plain net/http. It owns the transport-level
// policy the core pipeline deliberately does not have, including the retry
// behavior for rate-limited requests.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

const defaultBaseURL = "https://api.openai.com/v1/chat/completions"

// Sentinel errors surfaced to the caller. Transport failures and 5xx
// responses map to ErrServiceUnavailable; 429 maps to ErrRateLimited.
var (
	ErrServiceUnavailable = errors.New("llm service unavailable")
	ErrRateLimited        = errors.New("llm rate limited")

	// ErrAPIKeyMissing indicates no API key was found in the environment.
	ErrAPIKeyMissing = errors.New("OPENAI_API_KEY environment variable is not set")
)

// authError wraps 401/403 responses. Never retried.
type authError struct {
	message string
}

func (e *authError) Error() string {
	return "authentication error: " + e.message
}

// IsAuthError checks if an error is an authentication error.
func IsAuthError(err error) bool {
	var ae *authError
	return errors.As(err, &ae)
}

// Request carries one summarization prompt to the model.
type Request struct {
	System      string
	User        string
	MaxTokens   int
	Temperature float64
}

// Summarizer is the collaborator abstraction the pipeline depends on.
type Summarizer interface {
	Summarize(ctx context.Context, req Request) (string, error)
	Name() string
}

// Client talks to an OpenAI-compatible chat completions endpoint.
type Client struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
	retries int
}

// NewClient creates a chat-completions client for the given model.
// The API key is read from OPENAI_API_KEY; baseURL falls back to the
// public OpenAI endpoint when empty.
func NewClient(model, baseURL string, timeout time.Duration) (*Client, error) {
	key := os.Getenv("OPENAI_API_KEY")
	if key == "" {
		return nil, ErrAPIKeyMissing
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &Client{
		apiKey:  key,
		model:   model,
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		retries: 3,
	}, nil
}

func (c *Client) Name() string { return "openai" }

// Summarize sends the prompt and returns the model's completion text.
// Rate-limited requests are retried with exponential backoff; auth errors
// and server errors are returned immediately.
func (c *Client) Summarize(ctx context.Context, req Request) (string, error) {
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = 100
	}

	var messages []chatMessage
	if req.System != "" {
		messages = append(messages, chatMessage{Role: "system", Content: req.System})
	}
	messages = append(messages, chatMessage{Role: "user", Content: req.User})

	body := chatRequest{
		Model:     c.model,
		Messages:  messages,
		MaxTokens: maxTokens,
	}
	if req.Temperature > 0 {
		body.Temperature = &req.Temperature
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	var content string
	err = retryWithBackoff(ctx, c.retries, func() error {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
		if err != nil {
			return fmt.Errorf("creating request: %w", err)
		}
		httpReq.Header.Set("Content-Type", "application/json")
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

		httpResp, err := c.client.Do(httpReq)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
		}
		defer httpResp.Body.Close()

		respBody, err := io.ReadAll(httpResp.Body)
		if err != nil {
			return fmt.Errorf("reading response: %w", err)
		}

		switch {
		case httpResp.StatusCode == http.StatusTooManyRequests:
			return ErrRateLimited
		case httpResp.StatusCode == http.StatusUnauthorized,
			httpResp.StatusCode == http.StatusForbidden:
			return &authError{message: string(respBody)}
		case httpResp.StatusCode >= 500:
			return fmt.Errorf("%w: status %d: %s", ErrServiceUnavailable, httpResp.StatusCode, respBody)
		case httpResp.StatusCode != http.StatusOK:
			return fmt.Errorf("API error (status %d): %s", httpResp.StatusCode, respBody)
		}

		var result chatResponse
		if err := json.Unmarshal(respBody, &result); err != nil {
			return fmt.Errorf("parsing response: %w", err)
		}

		if len(result.Choices) == 0 {
			return fmt.Errorf("no choices in response")
		}
		text := result.Choices[0].Message.Content
		if text == "" {
			return fmt.Errorf("empty text content in API response")
		}

		content = text
		return nil
	})

	return content, err
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature *float64      `json:"temperature,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []chatChoice `json:"choices"`
}

type chatChoice struct {
	Message chatMessage `json:"message"`
}
