// Package llm calls an OpenAI-compatible chat-completion endpoint
// (Ollama, OpenAI, OpenRouter and similar proxies).
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultBaseURL = "http://localhost:11434/v1"
	DefaultModel   = "gemma3:1b"
	DefaultTimeout = 60 * time.Second

	temperature = 0.8
	maxTokens   = 1024
)

// Message is one role-tagged chat message
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// Config holds the endpoint settings. It is never modified after NewClient.
type Config struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

func (c Config) withDefaults() Config {
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	return c
}

// Client sends chat-completion requests. It is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	cfg        Config
	logger     *slog.Logger
}

func NewClient(httpClient *http.Client, cfg Config, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		httpClient: httpClient,
		cfg:        cfg.withDefaults(),
		logger:     logger,
	}
}

// Status describes the configured endpoint without exposing the key
type Status struct {
	Configured bool   `json:"configured"`
	BaseURL    string `json:"baseUrl"`
	Model      string `json:"model"`
	HasAPIKey  bool   `json:"hasApiKey"`
}

func (c *Client) Status() Status {
	return Status{
		Configured: true,
		BaseURL:    c.cfg.BaseURL,
		Model:      c.cfg.Model,
		HasAPIKey:  c.cfg.APIKey != "",
	}
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends messages and returns the trimmed text of the first choice.
// Each call is bounded by the configured timeout. Failures are *Error.
func (c *Client) Complete(ctx context.Context, messages []Message) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	body, err := json.Marshal(chatRequest{
		Model:       c.cfg.Model,
		Messages:    messages,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", &Error{Err: ErrTransport, Cause: fmt.Errorf("marshal request: %w", err)}
	}

	url := c.cfg.BaseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", &Error{Err: ErrTransport, Cause: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", &Error{Err: ErrTimeout, Cause: err}
		}
		return "", &Error{Err: ErrTransport, Cause: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", &Error{Err: ErrTimeout, StatusCode: resp.StatusCode, Cause: err}
		}
		return "", &Error{Err: ErrTransport, StatusCode: resp.StatusCode, Cause: fmt.Errorf("read response: %w", err)}
	}

	c.logger.DebugContext(ctx, "chat completion",
		"model", c.cfg.Model,
		"status", resp.StatusCode,
		"latency_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &Error{Err: ErrStatus, StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	var chatResp chatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return "", &Error{Err: ErrDecode, StatusCode: resp.StatusCode, Body: string(respBody), Cause: err}
	}

	if len(chatResp.Choices) == 0 {
		return "", &Error{Err: ErrEmptyResponse, StatusCode: resp.StatusCode}
	}
	content := strings.TrimSpace(chatResp.Choices[0].Message.Content)
	if content == "" {
		return "", &Error{Err: ErrEmptyResponse, StatusCode: resp.StatusCode}
	}

	return content, nil
}
