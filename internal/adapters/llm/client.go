// Package llm calls an OpenAI-compatible chat completions endpoint.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/okian/crickdash/internal/domain/assistant"
	"github.com/okian/crickdash/pkg/metrics"
)

var (
	// ErrUpstream marks a failed or non-2xx completion call.
	ErrUpstream = errors.New("llm upstream failed")
	// ErrNoChoices marks a completion without any usable message.
	ErrNoChoices = errors.New("llm returned no choices")
)

type chatRequest struct {
	Model       string              `json:"model"`
	Messages    []assistant.Message `json:"messages"`
	Temperature float64             `json:"temperature"`
	MaxTokens   int                 `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message assistant.Message `json:"message"`
	} `json:"choices"`
}

// Config describes the upstream endpoint and sampling parameters.
type Config struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// Client implements assistant.Completer.
type Client struct {
	http *resty.Client
	cfg  Config
}

// NewClient creates a Resty-backed client.
func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	h := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetTimeout(cfg.Timeout)
	if cfg.APIKey != "" {
		h.SetAuthToken(cfg.APIKey)
	}
	return &Client{http: h, cfg: cfg}
}

// Complete sends messages and returns the first choice's content.
func (c *Client) Complete(ctx context.Context, messages []assistant.Message) (string, error) {
	start := time.Now()
	defer func() {
		metrics.RecordUpstreamLatency(float64(time.Since(start).Milliseconds()))
	}()

	var out chatResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(chatRequest{
			Model:       c.cfg.Model,
			Messages:    messages,
			Temperature: c.cfg.Temperature,
			MaxTokens:   c.cfg.MaxTokens,
		}).
		SetResult(&out).
		Post("/chat/completions")
	if err != nil {
		metrics.RecordUpstreamError("transport")
		return "", fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	if resp.IsError() {
		metrics.RecordUpstreamError("status")
		return "", fmt.Errorf("%w: status %d: %s", ErrUpstream, resp.StatusCode(), resp.String())
	}
	if len(out.Choices) == 0 || strings.TrimSpace(out.Choices[0].Message.Content) == "" {
		metrics.RecordUpstreamError("empty")
		return "", ErrNoChoices
	}
	return out.Choices[0].Message.Content, nil
}

var _ assistant.Completer = (*Client)(nil)
