package rules

import (
	"context"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/uutiskone-hq/uutiskone/internal/domain"
)

// parliamentMagazineRule reads The Parliament Magazine's news listing.
// Dates come as "06 Feb" or "19 Dec 25", so the current year is assumed
// when none is printed.
type parliamentMagazineRule struct{}

func (parliamentMagazineRule) ListSelector() string {
	return "div.news-item"
}

func (parliamentMagazineRule) Parse(_ context.Context, deps Deps, sel *goquery.Selection) (domain.RawItem, bool) {
	titleAnchor := sel.Find(".ni-title a").First()
	title := trimmedText(titleAnchor)
	link, _ := titleAnchor.Attr("href")
	if title == "" || link == "" {
		return domain.RawItem{}, false
	}

	return domain.RawItem{
		Title:        title,
		Link:         absoluteURL(deps, link),
		PublishedRaw: parseShortMonth(text(sel, "span.ni-date"), time.Now()),
		HTMLBody:     text(sel, ".ni-desc a"),
		Enclosures:   imageEnclosure(deps, attr(sel, "img", "src")),
	}, true
}
