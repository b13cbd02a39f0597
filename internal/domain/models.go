package domain

import (
	"net/url"
	"strings"
	"time"
)

// Domain contains the core models shared by every pipeline stage.

// Fetch strategies a source can be ingested with.
const (
	ModeSyndication = "syndication"
	ModeExtraction  = "extraction"
)

// Source describes one configured origin, rebuilt from the registry sheet on
// every run and never persisted on its own.
type Source struct {
	Name           string
	CanonicalName  string
	Category       string
	Lang           string
	Scope          string
	SyndicationURL string
	ExtractionURL  string
	Description    string
	DarkLogo       bool
}

// Title returns the display identity used as the grouping and archive key.
// The canonical sheet name always wins over the raw feed name.
func (s Source) Title() string {
	if name := strings.TrimSpace(s.CanonicalName); name != "" {
		return name
	}
	return strings.TrimSpace(s.Name)
}

// Mode selects the fetch strategy. Syndication wins when both URLs are set.
func (s Source) Mode() string {
	if strings.TrimSpace(s.SyndicationURL) != "" {
		return ModeSyndication
	}
	return ModeExtraction
}

// URL returns the URL the selected fetch strategy operates on.
func (s Source) URL() string {
	if s.Mode() == ModeSyndication {
		return strings.TrimSpace(s.SyndicationURL)
	}
	return strings.TrimSpace(s.ExtractionURL)
}

// BaseURL returns the parsed origin used to resolve relative links and
// images. Returns nil when the source URL itself does not parse.
func (s Source) BaseURL() *url.URL {
	u, err := url.Parse(s.URL())
	if err != nil || u.Host == "" {
		return nil
	}
	return &url.URL{Scheme: u.Scheme, Host: u.Host}
}

// Enclosure is one structured image candidate carried by a feed item.
type Enclosure struct {
	URL   string
	Width int
}

// RawItem is the shared output contract of both fetch adapters. Everything
// in it is as delivered by the upstream source, before normalization.
type RawItem struct {
	Title        string
	Link         string
	PublishedRaw string
	HTMLBody     string
	Enclosures   []Enclosure
	Creator      string

	FeedTitle       string
	FeedDescription string
	FeedImage       string
}

// Article is the canonical, normalized news item. Immutable after creation;
// field names in JSON follow the reader front-end contract.
type Article struct {
	Title             string    `json:"title"`
	Link              string    `json:"link"`
	PubDate           time.Time `json:"pubDate"`
	Content           string    `json:"content"`
	Creator           string    `json:"creator,omitempty"`
	SourceTitle       string    `json:"sourceTitle"`
	SheetCategory     string    `json:"sheetCategory"`
	EnforcedImage     string    `json:"enforcedImage,omitempty"`
	SourceDescription string    `json:"sourceDescription,omitempty"`
	SourceLogo        string    `json:"sourceLogo,omitempty"`
	Lang              string    `json:"lang,omitempty"`
	Scope             string    `json:"scope,omitempty"`
	IsDarkLogo        bool      `json:"isDarkLogo,omitempty"`
	OriginalRSSURL    string    `json:"originalRssUrl,omitempty"`
}

// SourceFailure records one source that errored during a run. Diagnostic
// only, never consumed programmatically.
type SourceFailure struct {
	SourceTitle string
	URL         string
	Err         string
}
