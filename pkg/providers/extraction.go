package providers

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/uutiskone-hq/uutiskone/internal/domain"
	"github.com/uutiskone-hq/uutiskone/internal/logger"
	"github.com/uutiskone-hq/uutiskone/pkg/httpclient"
	"github.com/uutiskone-hq/uutiskone/pkg/providers/rules"
)

const (
	defaultExtractionItemCap = 12
	maxListingHTMLBytes      = 1 << 20 // 1 MiB
)

// extractionFetcher scrapes a source's listing page with its registered
// per-domain rule, or the generic fallback when none exists.
type extractionFetcher struct {
	client  httpclient.Client
	log     logger.Logger
	itemCap int
	delay   time.Duration
}

// NewExtractionFetcher builds the HTML scraping adapter.
func NewExtractionFetcher(client httpclient.Client, log logger.Logger, opts Options) Fetcher {
	if log == nil {
		log = logger.NopLogger{}
	}
	itemCap := opts.ExtractionItemCap
	if itemCap <= 0 {
		itemCap = defaultExtractionItemCap
	}
	return &extractionFetcher{
		client:  client,
		log:     log,
		itemCap: itemCap,
		delay:   opts.DeepScrapeDelay,
	}
}

func (f *extractionFetcher) Mode() string {
	return domain.ModeExtraction
}

func (f *extractionFetcher) Fetch(ctx context.Context, src domain.Source) ([]domain.RawItem, error) {
	pageURL := src.ExtractionURL
	if pageURL == "" {
		return nil, fmt.Errorf("source %q has no extraction url", src.Title())
	}

	resp, err := f.client.Get(ctx, pageURL, Headers(src))
	if err != nil {
		return nil, fmt.Errorf("fetch listing page: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("listing page returned status %d: %s", resp.StatusCode(), responseSnippet(resp.Body()))
	}

	body := resp.Body()
	if len(body) > maxListingHTMLBytes {
		body = body[:maxListingHTMLBytes]
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse listing page: %w", err)
	}

	base := src.BaseURL()
	rule := rules.Generic()
	if base != nil {
		if r, ok := rules.For(base.Hostname()); ok {
			rule = r
		}
	}

	deps := rules.Deps{
		Client:          f.client,
		Log:             f.log,
		Base:            base,
		DeepScrapeDelay: f.delay,
	}

	var items []domain.RawItem
	var stopErr error
	doc.Find(rule.ListSelector()).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if len(items) >= f.itemCap {
			return false
		}
		if err := ctx.Err(); err != nil {
			stopErr = err
			return false
		}
		item, ok := rule.Parse(ctx, deps, sel)
		if !ok {
			return true
		}
		items = append(items, item)
		return true
	})
	if stopErr != nil {
		return nil, stopErr
	}

	if len(items) == 0 {
		f.log.WarnObj("listing page yielded no items", "extraction_empty", map[string]any{
			"source": src.Title(),
			"url":    pageURL,
		})
	}
	return items, nil
}
