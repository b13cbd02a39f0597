package rules

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/uutiskone-hq/uutiskone/internal/domain"
)

// lausuntopalveluRule reads the Finnish consultation service's request
// table. Each table row is one open consultation.
type lausuntopalveluRule struct{}

func (lausuntopalveluRule) ListSelector() string {
	return "tbody tr"
}

func (lausuntopalveluRule) Parse(_ context.Context, deps Deps, sel *goquery.Selection) (domain.RawItem, bool) {
	titleAnchor := sel.Find("a").First()
	title := trimmedText(titleAnchor)
	link, _ := titleAnchor.Attr("href")
	if title == "" || link == "" {
		return domain.RawItem{}, false
	}

	var descs []string
	for _, d := range []string{text(sel, "td:nth-of-type(3)"), text(sel, ".row-fluid span")} {
		if d != "" {
			descs = append(descs, d)
		}
	}
	body := strings.Join(descs, " - ")
	if body == "" {
		body = "Lausuntopyyntö"
	}

	return domain.RawItem{
		Title:        title,
		Link:         absoluteURL(deps, link),
		PublishedRaw: parseFinnishDate(text(sel, "td:nth-of-type(1)")),
		HTMLBody:     body,
		Creator:      "Lausuntopalvelu.fi",
	}, true
}
