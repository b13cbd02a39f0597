package rules

import (
	"context"

	"github.com/PuerkitoBio/goquery"

	"github.com/uutiskone-hq/uutiskone/internal/domain"
)

// coeIntRule reads the Council of Europe newsroom listing. Dates appear
// inside location metadata ("Strasbourg, France - 21/01/2026").
type coeIntRule struct{}

func (coeIntRule) ListSelector() string {
	return ".news-item, .asset-abstract"
}

func (coeIntRule) Parse(_ context.Context, deps Deps, sel *goquery.Selection) (domain.RawItem, bool) {
	titleAnchor := sel.Find("h3 a, h2 a, a").First()
	title := trimmedText(titleAnchor)
	link, _ := titleAnchor.Attr("href")
	if title == "" || link == "" {
		return domain.RawItem{}, false
	}

	return domain.RawItem{
		Title:        title,
		Link:         absoluteURL(deps, link),
		PublishedRaw: parseSlashDate(text(sel, ".news-date, .date, .metadata")),
		HTMLBody:     text(sel, ".abstract, .description, p"),
		Enclosures:   imageEnclosure(deps, attr(sel, "img", "src")),
	}, true
}
