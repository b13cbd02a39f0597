package rules

import (
	"context"

	"github.com/PuerkitoBio/goquery"

	"github.com/uutiskone-hq/uutiskone/internal/domain"
)

// ecEuropaRule reads European Commission news listings built on the ECL
// component library.
type ecEuropaRule struct{}

func (ecEuropaRule) ListSelector() string {
	return ".ecl-list-item, article"
}

func (ecEuropaRule) Parse(_ context.Context, deps Deps, sel *goquery.Selection) (domain.RawItem, bool) {
	titleAnchor := sel.Find(".ecl-link--standalone, .ecl-list-item__title a").First()
	title := trimmedText(titleAnchor)
	link, _ := titleAnchor.Attr("href")
	if title == "" || link == "" {
		return domain.RawItem{}, false
	}

	return domain.RawItem{
		Title:        title,
		Link:         absoluteURL(deps, link),
		PublishedRaw: parseDayDate(text(sel, ".ecl-list-item__detail, .ecl-meta-item")),
		HTMLBody:     text(sel, ".ecl-list-item__description, p"),
		Enclosures:   imageEnclosure(deps, attr(sel, "img", "src")),
	}, true
}
