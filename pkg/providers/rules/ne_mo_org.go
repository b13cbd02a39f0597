package rules

import (
	"context"

	"github.com/PuerkitoBio/goquery"

	"github.com/uutiskone-hq/uutiskone/internal/domain"
)

// nemoRule deep-scrapes NEMO (Network of European Museum Organisations)
// news. The listing only exposes article links, so each entry costs one
// extra page fetch; a failed fetch drops the entry rather than the source.
type nemoRule struct{}

func (nemoRule) ListSelector() string {
	return ".news-list-item, .news-item, article"
}

func (nemoRule) Parse(ctx context.Context, deps Deps, sel *goquery.Selection) (domain.RawItem, bool) {
	link := firstAttr(sel, "a.darklink", "href")
	if link == "" {
		link = attr(sel, "a", "href")
	}
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

	title := trimmedText(doc.Find("h1").First())
	if title == "" {
		title = parsePageMeta(doc).Title
	}
	if title == "" {
		return domain.RawItem{}, false
	}

	image, _ := doc.Find("a.lightbox").First().Attr("href")
	if image == "" {
		image = parsePageMeta(doc).ImageURL
	}

	return domain.RawItem{
		Title:        title,
		Link:         link,
		PublishedRaw: parseDayDate(trimmedText(doc.Find(".news-list-date, time").First())),
		HTMLBody:     trimmedText(doc.Find(".lead strong").First()),
		Enclosures:   imageEnclosure(deps, image),
	}, true
}
