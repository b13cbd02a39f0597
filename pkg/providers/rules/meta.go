package rules

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const maxArticleHTMLBytes = 1 << 20 // 1 MiB

// fetchArticlePage performs a rule's bounded secondary fetch. The politeness
// delay runs first so deep-scraping rules cannot hammer a host while the
// listing page is being walked.
func fetchArticlePage(ctx context.Context, deps Deps, pageURL string) (*goquery.Document, error) {
	if deps.DeepScrapeDelay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(deps.DeepScrapeDelay):
		}
	}

	resp, err := deps.Client.Get(ctx, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch article page: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("article page returned status %d", resp.StatusCode())
	}

	body := resp.Body()
	if len(body) > maxArticleHTMLBytes {
		body = body[:maxArticleHTMLBytes]
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse article page: %w", err)
	}
	return doc, nil
}

// pageMeta holds metadata lifted from an article page's head.
type pageMeta struct {
	Title       string
	Description string
	ImageURL    string
}

// parsePageMeta extracts OpenGraph metadata with plain-tag fallbacks.
func parsePageMeta(doc *goquery.Document) pageMeta {
	extract := func(sel string) string {
		if node := doc.Find(sel).First(); node.Length() > 0 {
			if val, ok := node.Attr("content"); ok {
				return strings.TrimSpace(val)
			}
		}
		return ""
	}

	pm := pageMeta{}
	pm.Title = firstNonEmpty(
		extract(`meta[property="og:title"]`),
		strings.TrimSpace(doc.Find("h1").First().Text()),
		strings.TrimSpace(doc.Find("title").First().Text()),
	)
	pm.Description = firstNonEmpty(
		extract(`meta[property="og:description"]`),
		extract(`meta[name="description"]`),
	)
	pm.ImageURL = extract(`meta[property="og:image"]`)
	return pm
}

// firstNonEmpty returns the first non-empty string from the given values.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
