package chatprobe

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// client wraps a resty client bound to the dashboard base URL.
type client struct {
	rc *resty.Client
}

func newClient(baseURL string, timeout time.Duration) *client {
	return &client{
		rc: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(timeout).
			SetHeader("Content-Type", "application/json"),
	}
}

// get decodes the JSON body of GET path into out, requiring a 200.
func (c *client) get(ctx context.Context, path string, out any) error {
	resp, err := c.rc.R().SetContext(ctx).SetResult(out).Get(path)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	return expect(resp, http.StatusOK)
}

// post sends body to path and decodes the response into out. The status is
// returned for the caller to check; non-2xx bodies are decoded as apiError.
func (c *client) post(ctx context.Context, path string, body, out any) (int, *apiError, error) {
	var apiErr apiError
	resp, err := c.rc.R().SetContext(ctx).SetBody(body).SetResult(out).SetError(&apiErr).Post(path)
	if err != nil {
		return 0, nil, fmt.Errorf("POST %s: %w", path, err)
	}
	if resp.IsError() {
		return resp.StatusCode(), &apiErr, nil
	}
	return resp.StatusCode(), nil, nil
}

func expect(resp *resty.Response, status int) error {
	if resp.StatusCode() != status {
		return fmt.Errorf("%w: %s %s returned %d, want %d",
			ErrUnexpectedStatus, resp.Request.Method, resp.Request.URL, resp.StatusCode(), status)
	}
	return nil
}
