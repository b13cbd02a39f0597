// Package rules holds the per-domain extraction rules for sources without a
// feed, plus the generic fallback rule. Rules form a static registry keyed
// by hostname; adding a source means adding a file here and registering it.
package rules

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/uutiskone-hq/uutiskone/internal/domain"
	"github.com/uutiskone-hq/uutiskone/internal/logger"
	"github.com/uutiskone-hq/uutiskone/pkg/httpclient"
)

// Deps is what a rule gets to work with. Rules that deep-scrape fetch the
// article's own page through Client, after sleeping DeepScrapeDelay.
type Deps struct {
	Client          httpclient.Client
	Log             logger.Logger
	Base            *url.URL
	DeepScrapeDelay time.Duration
}

// Rule extracts one listing entry into the shared raw item contract.
// Returning ok=false skips the entry without failing the source.
type Rule interface {
	ListSelector() string
	Parse(ctx context.Context, deps Deps, sel *goquery.Selection) (item domain.RawItem, ok bool)
}

var registry = map[string]Rule{
	"coe.int":                   coeIntRule{},
	"ec.europa.eu":              ecEuropaRule{},
	"eit-culture-creativity.eu": eitCultureRule{},
	"icann.org":                 icannRule{},
	"institute.global":          instituteGlobalRule{},
	"lausuntopalvelu.fi":        lausuntopalveluRule{},
	"ne-mo.org":                 nemoRule{},
	"opengovpartnership.org":    openGovRule{},
	"puistokatu4.fi":            puistokatuRule{},
	"theparliamentmagazine.eu":  parliamentMagazineRule{},
}

// For returns the registered rule for a hostname, if any. The host is
// matched without a leading "www." and case-insensitively.
func For(host string) (Rule, bool) {
	r, ok := registry[NormalizeHost(host)]
	return r, ok
}

// Generic returns the fallback rule used when no per-domain rule exists.
func Generic() Rule {
	return genericRule{}
}

// NormalizeHost lowercases a hostname and strips the "www." prefix.
func NormalizeHost(host string) string {
	return strings.TrimPrefix(strings.ToLower(strings.TrimSpace(host)), "www.")
}

// trimmedText returns the selection's own trimmed text.
func trimmedText(sel *goquery.Selection) string {
	return strings.TrimSpace(sel.Text())
}

// text returns the trimmed text of the first match under sel.
func text(sel *goquery.Selection, selector string) string {
	return strings.TrimSpace(sel.Find(selector).First().Text())
}

// attr returns the trimmed attribute of the first match under sel.
func attr(sel *goquery.Selection, selector, name string) string {
	v, _ := sel.Find(selector).First().Attr(name)
	return strings.TrimSpace(v)
}

// firstAttr returns the first non-empty attribute among names.
func firstAttr(sel *goquery.Selection, selector string, names ...string) string {
	node := sel.Find(selector).First()
	for _, name := range names {
		if v, ok := node.Attr(name); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// absoluteURL resolves a possibly relative href against the rule's base.
func absoluteURL(deps Deps, raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	if parsed.IsAbs() || deps.Base == nil {
		return raw
	}
	return deps.Base.ResolveReference(parsed).String()
}
