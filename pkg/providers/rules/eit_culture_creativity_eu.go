package rules

import (
	"context"

	"github.com/PuerkitoBio/goquery"

	"github.com/uutiskone-hq/uutiskone/internal/domain"
)

// eitCultureRule deep-scrapes EIT Culture & Creativity news. The listing
// cards carry only a link, so the article page itself supplies the title,
// date and image.
type eitCultureRule struct{}

func (eitCultureRule) ListSelector() string {
	return ".eit-news-card, .card, article"
}

func (eitCultureRule) Parse(ctx context.Context, deps Deps, sel *goquery.Selection) (domain.RawItem, bool) {
	link := attr(sel, "a", "href")
	if link == "" {
		return domain.RawItem{}, false
	}
	link = absoluteURL(deps, link)

	doc, err := fetchArticlePage(ctx, deps, link)
	if err != nil {
		deps.Log.WarnObj("article page fetch failed", "deep_scrape_failed", map[string]any{
			"url":   link,
			"error": err.Error(),
		})
		return domain.RawItem{}, false
	}

	meta := parsePageMeta(doc)
	if meta.Title == "" {
		return domain.RawItem{}, false
	}

	return domain.RawItem{
		Title:        meta.Title,
		Link:         link,
		PublishedRaw: parseDayDate(trimmedText(doc.Find("span.eit-news-article-date").First())),
		HTMLBody:     meta.Description,
		Enclosures:   imageEnclosure(deps, meta.ImageURL),
	}, true
}
