package rules

import (
	"context"

	"github.com/PuerkitoBio/goquery"

	"github.com/uutiskone-hq/uutiskone/internal/domain"
)

// icannRule reads the ICANN announcements list. The cards carry no images
// or excerpts, only a title, link and a "22 December 2025" style date.
type icannRule struct{}

func (icannRule) ListSelector() string {
	return "li.card"
}

func (icannRule) Parse(_ context.Context, deps Deps, sel *goquery.Selection) (domain.RawItem, bool) {
	title := text(sel, "h3")
	link := attr(sel, "a", "href")
	if title == "" || link == "" {
		return domain.RawItem{}, false
	}

	return domain.RawItem{
		Title:        title,
		Link:         absoluteURL(deps, link),
		PublishedRaw: parseDayDate(text(sel, "iti-date-tag")),
		HTMLBody:     "ICANN Announcement",
		Creator:      "ICANN",
	}, true
}
