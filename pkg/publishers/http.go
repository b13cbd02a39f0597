package publishers

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// httpPublisher posts run events to a generic HTTP endpoint.
type httpPublisher struct {
	id      string
	url     string
	method  string
	headers map[string]string
	client  *resty.Client
	log     Logger
}

// newHTTPPublisher builds an HTTP publisher from its config entry.
func newHTTPPublisher(cfg SinkConfig, log Logger) (Publisher, error) {
	if cfg.HTTP == nil {
		return nil, fmt.Errorf("publisher %q missing http configuration", cfg.ID)
	}

	client := resty.New().
		SetTimeout(time.Duration(cfg.HTTP.TimeoutSeconds) * time.Second)

	return &httpPublisher{
		id:      cfg.ID,
		url:     cfg.HTTP.URL,
		method:  cfg.HTTP.Method,
		headers: cfg.HTTP.Headers,
		client:  client,
		log:     ensureLogger(log),
	}, nil
}

func (p *httpPublisher) ID() string   { return p.id }
func (p *httpPublisher) Type() string { return TypeHTTP }

// Publish sends the event as a JSON body with the configured method and
// headers. Any non-2xx response is an error.
func (p *httpPublisher) Publish(ctx context.Context, evt Event) error {
	req := p.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(evt)
	for k, v := range p.headers {
		req.SetHeader(k, v)
	}

	resp, err := req.Execute(p.method, p.url)
	if err != nil {
		p.log.ErrorObj("http publisher send failed", "publisher_http_error", map[string]any{
			"url":   p.url,
			"error": err.Error(),
		})
		return fmt.Errorf("send event to %s: %w", p.url, err)
	}
	if resp.IsError() {
		p.log.ErrorObj("http publisher rejected event", "publisher_http_error", map[string]any{
			"url":    p.url,
			"status": resp.StatusCode(),
		})
		return fmt.Errorf("endpoint %s returned status %d", p.url, resp.StatusCode())
	}

	p.log.DebugObj("http publisher delivered event", "publisher_http_delivery", map[string]any{
		"url":    p.url,
		"status": resp.StatusCode(),
	})
	return nil
}
