package providers

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/uutiskone-hq/uutiskone/internal/domain"
)

func listingPage(items int) string {
	var b strings.Builder
	b.WriteString("<html><body>")
	for i := 0; i < items; i++ {
		fmt.Fprintf(&b, `<article><h2>Article %d</h2><a href="/articles/%d">read</a><p>Body %d</p><img src="/img/%d.jpg"></article>`, i, i, i, i)
	}
	b.WriteString("</body></html>")
	return b.String()
}

func scrapeSource(url string) domain.Source {
	return domain.Source{Name: "Scraped", ExtractionURL: url}
}

func TestExtractionGenericRule(t *testing.T) {
	client := &fakeClient{responses: map[string]fakeResponse{
		"https://unknown-host.example/news": {body: []byte(listingPage(3)), status: 200},
	}}
	f := NewExtractionFetcher(client, nil, Options{})

	items, err := f.Fetch(context.Background(), scrapeSource("https://unknown-host.example/news"))
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("got %d items, want 3", len(items))
	}

	first := items[0]
	if first.Title != "Article 0" {
		t.Errorf("Title = %q", first.Title)
	}
	if first.Link != "https://unknown-host.example/articles/0" {
		t.Errorf("Link = %q, want resolved against host", first.Link)
	}
	if len(first.Enclosures) != 1 || first.Enclosures[0].URL != "https://unknown-host.example/img/0.jpg" {
		t.Errorf("Enclosures = %+v", first.Enclosures)
	}
}

func TestExtractionItemCap(t *testing.T) {
	client := &fakeClient{responses: map[string]fakeResponse{
		"https://unknown-host.example/news": {body: []byte(listingPage(30)), status: 200},
	}}
	f := NewExtractionFetcher(client, nil, Options{ExtractionItemCap: 5})

	items, err := f.Fetch(context.Background(), scrapeSource("https://unknown-host.example/news"))
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(items) != 5 {
		t.Fatalf("got %d items, want cap of 5", len(items))
	}
}

func TestExtractionEntriesWithoutTitleSkipped(t *testing.T) {
	page := `<html><body>
<article><a href="/a">no heading</a></article>
<article><h2>Has Title</h2><a href="/b">link</a></article>
</body></html>`
	client := &fakeClient{responses: map[string]fakeResponse{
		"https://unknown-host.example/news": {body: []byte(page), status: 200},
	}}
	f := NewExtractionFetcher(client, nil, Options{})

	items, err := f.Fetch(context.Background(), scrapeSource("https://unknown-host.example/news"))
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(items) != 1 || items[0].Title != "Has Title" {
		t.Fatalf("items = %+v, want only the titled entry", items)
	}
}

func TestExtractionStatusError(t *testing.T) {
	client := &fakeClient{responses: map[string]fakeResponse{
		"https://unknown-host.example/news": {body: []byte("gone"), status: 500},
	}}
	f := NewExtractionFetcher(client, nil, Options{})

	if _, err := f.Fetch(context.Background(), scrapeSource("https://unknown-host.example/news")); err == nil {
		t.Fatal("expected error on non-200 listing page")
	}
}
