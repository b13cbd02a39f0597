package rules

import (
	"context"

	"github.com/PuerkitoBio/goquery"

	"github.com/uutiskone-hq/uutiskone/internal/domain"
)

// genericRule is the broad-selector fallback for domains without a
// registered rule. It leans on the structural conventions most news
// listings share: a card element holding a heading, an anchor and an image.
type genericRule struct{}

func (genericRule) ListSelector() string {
	return "article, .post, .news-item, .item-card"
}

func (genericRule) Parse(_ context.Context, deps Deps, sel *goquery.Selection) (domain.RawItem, bool) {
	title := text(sel, "h1, h2, h3")
	link := attr(sel, "a", "href")
	if title == "" || link == "" {
		return domain.RawItem{}, false
	}

	published := parseDayDate(text(sel, "time, .date, .published"))
	if published == "" {
		published = attr(sel, "time", "datetime")
	}

	return domain.RawItem{
		Title:        title,
		Link:         absoluteURL(deps, link),
		PublishedRaw: published,
		HTMLBody:     text(sel, "p"),
		Enclosures:   imageEnclosure(deps, firstAttr(sel, "img", "src", "data-src")),
	}, true
}

// imageEnclosure wraps a scraped image URL as a structured candidate.
func imageEnclosure(deps Deps, src string) []domain.Enclosure {
	if src == "" {
		return nil
	}
	return []domain.Enclosure{{URL: absoluteURL(deps, src)}}
}
