package normalize

import (
	"net/url"
	"strings"
	"testing"

	"github.com/uutiskone-hq/uutiskone/internal/domain"
)

func TestResolveLink(t *testing.T) {
	base, _ := url.Parse("https://example.com")

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"absolute untouched", "https://example.com/a", "https://example.com/a"},
		{"relative resolved", "/articles/1", "https://example.com/articles/1"},
		{"collapsed protocol repaired", "https:/example.com/a", "https://example.com/a"},
		{"collapsed http repaired", "http:/example.com/a", "http://example.com/a"},
		{"empty stays empty", "", ""},
		{"whitespace trimmed", "  https://example.com/a  ", "https://example.com/a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveLink(tt.raw, base); got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNormalizeIdentity(t *testing.T) {
	src := domain.Source{
		Name:           "raw feed name",
		CanonicalName:  "Canonical Source",
		Category:       "Tech",
		Lang:           "fi",
		Scope:          "eu",
		SyndicationURL: "https://example.com/feed.xml",
		Description:    "Sheet description",
		DarkLogo:       true,
	}
	item := domain.RawItem{
		Title:           "An Article",
		Link:            "https://example.com/a",
		PublishedRaw:    "2025-06-02T10:30:00Z",
		HTMLBody:        "<p>A body with enough text to survive sanitization.</p>",
		FeedTitle:       "Self-Reported Feed Title",
		FeedDescription: "feed description",
	}

	a := New(nil, 600).Normalize(src, item)

	if a.SourceTitle != "Canonical Source" {
		t.Errorf("SourceTitle = %q, want registry canonical name", a.SourceTitle)
	}
	if a.SheetCategory != "Tech" {
		t.Errorf("SheetCategory = %q", a.SheetCategory)
	}
	if a.SourceDescription != "Sheet description" {
		t.Errorf("SourceDescription = %q, want sheet over feed", a.SourceDescription)
	}
	if !a.IsDarkLogo {
		t.Error("IsDarkLogo not carried")
	}
	if a.OriginalRSSURL != "https://example.com/feed.xml" {
		t.Errorf("OriginalRSSURL = %q", a.OriginalRSSURL)
	}
	if a.Lang != "fi" || a.Scope != "eu" {
		t.Errorf("Lang/Scope = %q/%q", a.Lang, a.Scope)
	}
}

func TestNormalizeLogoFallback(t *testing.T) {
	src := domain.Source{Name: "S", SyndicationURL: "https://news.example.org/feed"}
	n := New(nil, 600)

	withFeedImage := n.Normalize(src, domain.RawItem{
		Title: "t", Link: "https://news.example.org/a",
		FeedImage: "https://news.example.org/logo.png",
	})
	if withFeedImage.SourceLogo != "https://news.example.org/logo.png" {
		t.Errorf("SourceLogo = %q, want feed image", withFeedImage.SourceLogo)
	}

	withoutFeedImage := n.Normalize(src, domain.RawItem{
		Title: "t", Link: "https://news.example.org/a",
	})
	if !strings.Contains(withoutFeedImage.SourceLogo, "favicons?domain=news.example.org") {
		t.Errorf("SourceLogo = %q, want favicon fallback", withoutFeedImage.SourceLogo)
	}
}
