// Package httpclient provides the shared HTTP client used by every fetch in
// the pipeline, wrapping resty behind a minimal interface so fetchers and
// rules can be tested against fakes.
package httpclient

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"
)

// Response exposes the subset of an HTTP response the pipeline reads.
type Response interface {
	Body() []byte
	StatusCode() int
}

// Client performs GET requests with per-request headers. Implementations
// must honor the context and enforce their own request timeout.
type Client interface {
	Get(ctx context.Context, url string, headers map[string]string) (Response, error)
}

type restyClient struct {
	rc *resty.Client
}

// NewRestyClient builds a Client with the given per-request timeout.
func NewRestyClient(timeout time.Duration) Client {
	rc := resty.New().
		SetTimeout(timeout).
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(5))
	return &restyClient{rc: rc}
}

// Get fetches the URL. A non-2xx status is not an error here; callers check
// the status code so they can log response snippets.
func (c *restyClient) Get(ctx context.Context, url string, headers map[string]string) (Response, error) {
	req := c.rc.R().SetContext(ctx)
	if len(headers) > 0 {
		req.SetHeaders(headers)
	}
	resp, err := req.Get(url)
	if err != nil {
		return nil, err
	}
	return resp, nil
}
