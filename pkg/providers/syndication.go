package providers

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	ext "github.com/mmcdole/gofeed/extensions"

	"github.com/uutiskone-hq/uutiskone/internal/domain"
	"github.com/uutiskone-hq/uutiskone/internal/logger"
	"github.com/uutiskone-hq/uutiskone/pkg/httpclient"
)

// syndicationFetcher reads RSS/Atom feeds through gofeed.
type syndicationFetcher struct {
	client httpclient.Client
	log    logger.Logger
}

// NewSyndicationFetcher builds the feed-reading adapter.
func NewSyndicationFetcher(client httpclient.Client, log logger.Logger) Fetcher {
	if client == nil {
		client = DefaultHTTPClient()
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	return &syndicationFetcher{client: client, log: log}
}

func (f *syndicationFetcher) Mode() string {
	return domain.ModeSyndication
}

// Fetch downloads and parses the feed. A parse failure gets one
// repair-and-retry pass over malformed entities before the source is given
// up on.
func (f *syndicationFetcher) Fetch(ctx context.Context, src domain.Source) ([]domain.RawItem, error) {
	feedURL := src.URL()
	if feedURL == "" {
		return nil, fmt.Errorf("source %q has no syndication url", src.Title())
	}

	resp, err := f.client.Get(ctx, feedURL, Headers(src))
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("feed returned status %d body: %s", resp.StatusCode(), responseSnippet(resp.Body()))
	}

	body := string(resp.Body())
	parser := gofeed.NewParser()

	feed, err := parser.ParseString(body)
	if err != nil {
		f.log.DebugObj("feed parse failed, repairing entities", "feed_repair", map[string]any{
			"source": src.Title(),
			"error":  err.Error(),
		})
		feed, err = parser.ParseString(repairEntities(body))
		if err != nil {
			return nil, fmt.Errorf("parse feed after repair: %w", err)
		}
	}

	items := make([]domain.RawItem, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item == nil {
			continue
		}
		items = append(items, feedItem(feed, item))
	}
	return items, nil
}

// feedItem maps one gofeed item onto the shared raw contract.
func feedItem(feed *gofeed.Feed, item *gofeed.Item) domain.RawItem {
	body := item.Content
	if strings.TrimSpace(body) == "" {
		body = item.Description
	}

	// Atom feeds may only carry <updated>; prefer the published stamp but
	// fall back rather than losing the date.
	publishedRaw := item.Published
	if publishedRaw == "" {
		publishedRaw = item.Updated
	}
	switch {
	case item.PublishedParsed != nil:
		publishedRaw = item.PublishedParsed.Format(time.RFC3339)
	case item.UpdatedParsed != nil && item.Published == "":
		publishedRaw = item.UpdatedParsed.Format(time.RFC3339)
	}

	raw := domain.RawItem{
		Title:           strings.TrimSpace(item.Title),
		Link:            strings.TrimSpace(item.Link),
		PublishedRaw:    publishedRaw,
		HTMLBody:        body,
		Enclosures:      enclosureCandidates(item),
		Creator:         itemCreator(item),
		FeedTitle:       strings.TrimSpace(feed.Title),
		FeedDescription: strings.TrimSpace(feed.Description),
	}
	if feed.Image != nil {
		raw.FeedImage = strings.TrimSpace(feed.Image.URL)
	}
	return raw
}

// enclosureCandidates collects structured image candidates in preference
// order: media:content first (it carries declared widths), then
// media:thumbnail, classic enclosures and the item image.
func enclosureCandidates(item *gofeed.Item) []domain.Enclosure {
	var out []domain.Enclosure

	out = append(out, mediaExtensions(item, "content")...)
	out = append(out, mediaExtensions(item, "thumbnail")...)

	for _, enc := range item.Enclosures {
		if enc == nil || strings.TrimSpace(enc.URL) == "" {
			continue
		}
		if enc.Type != "" && !strings.HasPrefix(enc.Type, "image/") {
			continue
		}
		out = append(out, domain.Enclosure{URL: strings.TrimSpace(enc.URL)})
	}

	if item.Image != nil && strings.TrimSpace(item.Image.URL) != "" {
		out = append(out, domain.Enclosure{URL: strings.TrimSpace(item.Image.URL)})
	}
	return out
}

// mediaExtensions reads media RSS elements of the given name.
func mediaExtensions(item *gofeed.Item, name string) []domain.Enclosure {
	media, ok := item.Extensions["media"]
	if !ok {
		return nil
	}

	var out []domain.Enclosure
	for _, e := range media[name] {
		out = append(out, mediaEnclosures(e)...)
	}
	return out
}

func mediaEnclosures(e ext.Extension) []domain.Enclosure {
	var out []domain.Enclosure
	if u := strings.TrimSpace(e.Attrs["url"]); u != "" {
		width, _ := strconv.Atoi(e.Attrs["width"])
		out = append(out, domain.Enclosure{URL: u, Width: width})
	}
	// media:group nests its candidates one level down
	for _, children := range e.Children {
		for _, child := range children {
			out = append(out, mediaEnclosures(child)...)
		}
	}
	return out
}

func itemCreator(item *gofeed.Item) string {
	for _, a := range item.Authors {
		if a != nil && strings.TrimSpace(a.Name) != "" {
			return strings.TrimSpace(a.Name)
		}
	}
	if item.Author != nil {
		return strings.TrimSpace(item.Author.Name)
	}
	return ""
}

// entityRef matches ampersands that were over-escaped by repairEntities but
// were in fact already valid references.
var entityRef = regexp.MustCompile(`&amp;([a-zA-Z][a-zA-Z0-9]{1,31};|#[0-9]{1,7};|#[xX][0-9a-fA-F]{1,6};)`)

// repairEntities escapes every bare ampersand in the document, then restores
// the ones that were legitimate entity references. Feeds hand-assembled from
// CMS titles break on "Q&A"-style text often enough to make this worthwhile.
func repairEntities(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	return entityRef.ReplaceAllString(s, "&$1")
}
