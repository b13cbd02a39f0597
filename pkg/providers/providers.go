// Package providers implements the two fetch adapters every source is
// ingested through: syndication (RSS/Atom) and extraction (HTML scraping).
package providers

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/uutiskone-hq/uutiskone/internal/domain"
	"github.com/uutiskone-hq/uutiskone/internal/logger"
	"github.com/uutiskone-hq/uutiskone/pkg/httpclient"
)

const defaultRequestTimeout = 15 * time.Second

// Fetcher turns one source into raw items. Implementations never panic on
// malformed upstream data; a source that cannot be read returns an error and
// is skipped by the pipeline.
type Fetcher interface {
	// Mode returns the source mode this fetcher serves.
	Mode() string

	// Fetch retrieves and decodes the source's items.
	Fetch(ctx context.Context, src domain.Source) ([]domain.RawItem, error)
}

// FetcherRegistry resolves the fetcher for a source descriptor.
type FetcherRegistry interface {
	FetcherFor(src domain.Source) (Fetcher, error)
}

type fetcherRegistry struct {
	fetchers map[string]Fetcher
	mu       sync.RWMutex
}

// NewFetcherRegistry builds a registry for the provided fetcher implementations.
func NewFetcherRegistry(fetchers ...Fetcher) FetcherRegistry {
	reg := &fetcherRegistry{
		fetchers: make(map[string]Fetcher, len(fetchers)),
	}
	for _, f := range fetchers {
		if f == nil {
			continue
		}
		reg.fetchers[strings.ToLower(strings.TrimSpace(f.Mode()))] = f
	}
	return reg
}

// FetcherFor selects the fetcher matching the source's resolved mode.
func (r *fetcherRegistry) FetcherFor(src domain.Source) (Fetcher, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if f, ok := r.fetchers[src.Mode()]; ok {
		return f, nil
	}
	return nil, fmt.Errorf("no fetcher registered for mode %q", src.Mode())
}

// DefaultHTTPClient returns a tuned client for provider fetchers.
func DefaultHTTPClient() httpclient.Client {
	return httpclient.NewRestyClient(defaultRequestTimeout)
}

// Options tunes the default fetchers.
type Options struct {
	// ExtractionItemCap bounds how many items one listing page yields.
	ExtractionItemCap int
	// DeepScrapeDelay is slept before a rule's secondary article fetch.
	DeepScrapeDelay time.Duration
}

// DefaultFetcherRegistry wires up both adapter strategies.
func DefaultFetcherRegistry(client httpclient.Client, log logger.Logger, opts Options) FetcherRegistry {
	if client == nil {
		client = DefaultHTTPClient()
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	return NewFetcherRegistry(
		NewSyndicationFetcher(client, log),
		NewExtractionFetcher(client, log, opts),
	)
}

// Headers returns the browser-like request headers sent to every source.
// Several upstream hosts reject requests without them.
func Headers(src domain.Source) map[string]string {
	return map[string]string{
		"User-Agent":      "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36",
		"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
		"Accept-Language": "en,fi;q=0.8",
	}
}

// responseSnippet truncates a response body for error messages.
func responseSnippet(body []byte) string {
	const maxLen = 512
	s := strings.TrimSpace(string(body))
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	if s == "" {
		return "<empty>"
	}
	return s
}
