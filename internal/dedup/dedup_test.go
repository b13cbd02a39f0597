package dedup

import (
	"testing"
	"time"

	"github.com/uutiskone-hq/uutiskone/internal/domain"
)

var testNow = time.Date(2026, 8, 30, 15, 0, 0, 0, time.UTC)

func newTestFilter() *Filter {
	f := NewFilter()
	f.now = func() time.Time { return testNow }
	return f
}

func article(link, title, source string, at time.Time) domain.Article {
	return domain.Article{Link: link, Title: title, SourceTitle: source, PubDate: at}
}

func TestAdmitDuplicateLink(t *testing.T) {
	f := newTestFilter()
	at := testNow.Add(-time.Hour)

	if !f.Admit(article("https://example.com/a", "First", "S", at)) {
		t.Fatal("first article rejected")
	}
	if f.Admit(article("https://example.com/a", "Different Title", "T", at)) {
		t.Fatal("identical link admitted twice")
	}
}

func TestAdmitLinkNormalization(t *testing.T) {
	f := newTestFilter()
	at := testNow.Add(-time.Hour)

	if !f.Admit(article("https://example.com/a?utm_source=rss#section", "First", "S", at)) {
		t.Fatal("first article rejected")
	}
	if f.Admit(article("HTTPS://EXAMPLE.COM/a", "Second Title", "T", at)) {
		t.Fatal("same link with query/fragment/case variation admitted")
	}
}

func TestAdmitTitleSourceDayRepublish(t *testing.T) {
	f := newTestFilter()
	at := testNow.Add(-time.Hour)

	if !f.Admit(article("https://example.com/a", "Same Story", "S", at)) {
		t.Fatal("first article rejected")
	}
	// Same title, source and day under a fresh URL is a republish.
	if f.Admit(article("https://example.com/a-republished", "Same Story", "S", at.Add(time.Minute))) {
		t.Fatal("republish admitted")
	}
	// Same title on a different day is a new article.
	if !f.Admit(article("https://example.com/a-next-day", "Same Story", "S", at.Add(-24*time.Hour))) {
		t.Fatal("different-day article rejected")
	}
}

func TestAdmitFreshness(t *testing.T) {
	f := newTestFilter()

	tests := []struct {
		name string
		at   time.Time
		want bool
	}{
		{"past", testNow.Add(-time.Hour), true},
		{"slight skew tolerated", testNow.Add(5 * time.Minute), true},
		{"beyond tolerance", testNow.Add(time.Hour), false},
		{"days ahead", testNow.Add(48 * time.Hour), false},
		{"zero timestamp", time.Time{}, false},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := article("https://example.com/fresh-"+tt.name, "T", "S", tt.at)
			if got := f.Admit(a); got != tt.want {
				t.Fatalf("case %d: Admit = %v, want %v", i, got, tt.want)
			}
		})
	}
}

func TestSeed(t *testing.T) {
	f := newTestFilter()
	at := testNow.Add(-time.Hour)
	persisted := article("https://example.com/old", "Old Story", "S", at)

	f.Seed([]domain.Article{persisted})

	if f.Admit(persisted) {
		t.Fatal("seeded article admitted again")
	}
}

func TestSeedFingerprints(t *testing.T) {
	f := newTestFilter()
	at := testNow.Add(-time.Hour)
	a := article("https://example.com/stored", "Stored", "S", at)

	f.SeedFingerprints(Fingerprints(a))

	if f.Admit(a) {
		t.Fatal("article admitted despite durable fingerprint")
	}
}

func TestLinkFingerprint(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://Example.com/A?x=1#top", "https://example.com/a"},
		{"https://example.com/a", "https://example.com/a"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := LinkFingerprint(tt.in); got != tt.want {
			t.Errorf("LinkFingerprint(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
