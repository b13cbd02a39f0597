package rules

import (
	"context"

	"github.com/PuerkitoBio/goquery"

	"github.com/uutiskone-hq/uutiskone/internal/domain"
)

// openGovRule reads Open Government Partnership archive cards.
type openGovRule struct{}

func (openGovRule) ListSelector() string {
	return ".archive-card, .news-item, article"
}

func (openGovRule) Parse(_ context.Context, deps Deps, sel *goquery.Selection) (domain.RawItem, bool) {
	titleAnchor := sel.Find(".title a, h3 a").First()
	title := trimmedText(titleAnchor)
	link, _ := titleAnchor.Attr("href")
	if title == "" || link == "" {
		return domain.RawItem{}, false
	}

	return domain.RawItem{
		Title:        title,
		Link:         absoluteURL(deps, link),
		PublishedRaw: parseDayDate(text(sel, ".date, .meta-date, .post-date")),
		HTMLBody:     text(sel, ".excerpt, .description, p"),
		Enclosures:   imageEnclosure(deps, attr(sel, "img", "src")),
	}, true
}
