// Package normalize turns raw adapter items into canonical articles:
// absolute links, resolved timestamps, a single image candidate and a
// sanitized content snippet. Field failures degrade to absence and never
// reject the item.
package normalize

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/uutiskone-hq/uutiskone/internal/domain"
	"github.com/uutiskone-hq/uutiskone/internal/logger"
)

const defaultContentLimit = 600

// brokenSchemeRe matches a protocol whose double slash was collapsed to a
// single one, a recurring artifact in hand-edited sheet URLs and feeds.
var brokenSchemeRe = regexp.MustCompile(`^(https?):/([^/])`)

// Normalizer canonicalizes raw items for one run.
type Normalizer struct {
	log          logger.Logger
	contentLimit int
	now          func() time.Time
}

// New builds a normalizer. A zero contentLimit falls back to the default
// snippet bound.
func New(log logger.Logger, contentLimit int) *Normalizer {
	if log == nil {
		log = logger.NopLogger{}
	}
	if contentLimit <= 0 {
		contentLimit = defaultContentLimit
	}
	return &Normalizer{
		log:          log,
		contentLimit: contentLimit,
		now:          time.Now,
	}
}

// Normalize converts one raw item from src into an article. The article is
// immutable after this point.
func (n *Normalizer) Normalize(src domain.Source, item domain.RawItem) domain.Article {
	base := src.BaseURL()
	link := ResolveLink(item.Link, base)

	return domain.Article{
		Title:             strings.TrimSpace(item.Title),
		Link:              link,
		PubDate:           ResolveTimestamp(item.PublishedRaw, link, n.now()),
		Content:           SanitizeContent(item.HTMLBody, item.Title, n.contentLimit),
		Creator:           strings.TrimSpace(item.Creator),
		SourceTitle:       src.Title(),
		SheetCategory:     src.Category,
		EnforcedImage:     ResolveImage(item, base),
		SourceDescription: firstNonBlank(src.Description, item.FeedDescription),
		SourceLogo:        n.resolveLogo(src, item),
		Lang:              src.Lang,
		Scope:             src.Scope,
		IsDarkLogo:        src.DarkLogo,
		OriginalRSSURL:    strings.TrimSpace(src.SyndicationURL),
	}
}

// ResolveLink makes a link absolute against base and repairs a collapsed
// protocol slash. Unparsable links pass through untouched.
func ResolveLink(raw string, base *url.URL) string {
	link := strings.TrimSpace(raw)
	if link == "" {
		return ""
	}
	link = brokenSchemeRe.ReplaceAllString(link, "$1://$2")

	parsed, err := url.Parse(link)
	if err != nil {
		return link
	}
	if parsed.IsAbs() {
		return parsed.String()
	}
	if base == nil {
		return link
	}
	return base.ResolveReference(parsed).String()
}

// resolveLogo prefers the feed's own channel image, then falls back to a
// favicon lookup for the source host. Any construction failure means no logo.
func (n *Normalizer) resolveLogo(src domain.Source, item domain.RawItem) string {
	if img := strings.TrimSpace(item.FeedImage); img != "" {
		return img
	}
	base := src.BaseURL()
	if base == nil || base.Hostname() == "" {
		return ""
	}
	return fmt.Sprintf("https://www.google.com/s2/favicons?domain=%s&sz=64", base.Hostname())
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
