package rules

import (
	"context"

	"github.com/PuerkitoBio/goquery"

	"github.com/uutiskone-hq/uutiskone/internal/domain"
)

// instituteGlobalRule reads institute.global insight cards. Images are
// frequently lazy-loaded via data-src.
type instituteGlobalRule struct{}

func (instituteGlobalRule) ListSelector() string {
	return ".content-card, .card, article"
}

func (instituteGlobalRule) Parse(_ context.Context, deps Deps, sel *goquery.Selection) (domain.RawItem, bool) {
	title := text(sel, "h3, h2, .title")
	link := attr(sel, "a", "href")
	if title == "" || link == "" {
		return domain.RawItem{}, false
	}

	return domain.RawItem{
		Title:        title,
		Link:         absoluteURL(deps, link),
		PublishedRaw: parseDayDate(text(sel, ".date, time")),
		HTMLBody:     text(sel, ".summary, .description, p"),
		Enclosures:   imageEnclosure(deps, firstAttr(sel, "img", "src", "data-src")),
	}, true
}
