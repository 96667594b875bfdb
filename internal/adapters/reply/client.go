// Package reply posts conversation requests to the reply service.
package reply

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/okian/crickdash/internal/domain/conversation"
)

const defaultTimeout = 30 * time.Second

type replyBody struct {
	Reply *string `json:"reply"`
}

// Client implements conversation.Replier over HTTP.
type Client struct {
	http *resty.Client
	url  string
}

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithTimeout bounds every request at the transport level.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.SetTimeout(d)
		}
	}
}

// NewClient creates a client posting to url.
func NewClient(url string, opts ...Option) *Client {
	c := &Client{
		http: resty.New().
			SetHeader("Content-Type", "application/json").
			SetHeader("Accept", "application/json").
			SetTimeout(defaultTimeout),
		url: url,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Reply posts req and returns the reply text. Any non-2xx status or a body
// without a reply field is an error; the session turns every error into its
// fallback message. The body is decoded whatever Content-Type it carries.
func (c *Client) Reply(ctx context.Context, req conversation.Request) (string, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		Post(c.url)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrTransport, err)
	}
	if !resp.IsSuccess() {
		return "", fmt.Errorf("%w: %d", ErrStatus, resp.StatusCode())
	}

	var body replyBody
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return "", fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if body.Reply == nil {
		return "", ErrMalformed
	}
	return *body.Reply, nil
}

var _ conversation.Replier = (*Client)(nil)
