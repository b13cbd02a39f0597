package rules

import (
	"context"
	"regexp"

	"github.com/PuerkitoBio/goquery"

	"github.com/uutiskone-hq/uutiskone/internal/domain"
)

var kirjoittanutRe = regexp.MustCompile(`(?i)Kirjoittanut:\s*`)

// puistokatuRule reads the Puistokatu 4 blog listing. Author names carry a
// "Kirjoittanut:" prefix that is stripped off.
type puistokatuRule struct{}

func (puistokatuRule) ListSelector() string {
	return ".posts-small-list div.post, article.post"
}

func (puistokatuRule) Parse(_ context.Context, deps Deps, sel *goquery.Selection) (domain.RawItem, bool) {
	titleAnchor := sel.Find(".title a, h2 a, h3 a").First()
	title := trimmedText(titleAnchor)
	link, _ := titleAnchor.Attr("href")
	if title == "" || link == "" {
		return domain.RawItem{}, false
	}

	creator := kirjoittanutRe.ReplaceAllString(text(sel, ".post-author__info span, .author"), "")

	return domain.RawItem{
		Title:        title,
		Link:         absoluteURL(deps, link),
		PublishedRaw: parseFinnishDate(text(sel, "div.date, .date")),
		HTMLBody:     text(sel, ".excerpt p, p"),
		Creator:      creator,
		Enclosures:   imageEnclosure(deps, attr(sel, "img", "src")),
	}, true
}
