package interleave

import (
	"fmt"
	"testing"
	"time"

	"github.com/uutiskone-hq/uutiskone/internal/domain"
)

func dayArticles(source string, day time.Time, n int) []domain.Article {
	out := make([]domain.Article, n)
	for i := 0; i < n; i++ {
		out[i] = domain.Article{
			Title:       fmt.Sprintf("%s %d", source, i),
			Link:        fmt.Sprintf("https://example.com/%s/%d", source, i),
			SourceTitle: source,
			PubDate:     day.Add(time.Duration(i) * time.Minute),
		}
	}
	return out
}

func TestInterleaveFairness(t *testing.T) {
	day := time.Date(2026, 8, 29, 9, 0, 0, 0, time.UTC)
	articles := append(dayArticles("A", day, 20), dayArticles("B", day, 2)...)

	out := Interleave(articles, 0, 0)

	foundB := false
	for _, a := range out[:4] {
		if a.SourceTitle == "B" {
			foundB = true
			break
		}
	}
	if !foundB {
		t.Fatal("source B absent from first 4 positions; prolific source dominated")
	}
}

func TestInterleaveDayOrdering(t *testing.T) {
	newer := time.Date(2026, 8, 29, 9, 0, 0, 0, time.UTC)
	older := time.Date(2026, 8, 27, 9, 0, 0, 0, time.UTC)
	articles := append(dayArticles("A", older, 3), dayArticles("A", newer, 3)...)

	out := Interleave(articles, 0, 0)

	if len(out) != 6 {
		t.Fatalf("got %d articles, want 6", len(out))
	}
	for i := 0; i < 3; i++ {
		if !out[i].PubDate.After(older.Add(24 * time.Hour)) {
			t.Fatalf("position %d holds older-day article %v", i, out[i].PubDate)
		}
	}
}

func TestInterleavePerSourceDayCap(t *testing.T) {
	day := time.Date(2026, 8, 29, 9, 0, 0, 0, time.UTC)
	articles := append(dayArticles("A", day, 10), dayArticles("B", day, 1)...)

	out := Interleave(articles, 5, 0)

	countA := 0
	for _, a := range out {
		if a.SourceTitle == "A" {
			countA++
		}
	}
	if countA != 5 {
		t.Fatalf("source A contributed %d articles, want cap of 5", countA)
	}
}

func TestInterleaveBoundedOutput(t *testing.T) {
	day := time.Date(2026, 8, 29, 9, 0, 0, 0, time.UTC)
	articles := append(dayArticles("A", day, 50), dayArticles("B", day, 50)...)

	out := Interleave(articles, 0, 30)

	if len(out) != 30 {
		t.Fatalf("got %d articles, want truncation to 30", len(out))
	}
}

func TestInterleaveStable(t *testing.T) {
	day := time.Date(2026, 8, 29, 9, 0, 0, 0, time.UTC)
	articles := append(dayArticles("B", day, 5), dayArticles("A", day, 5)...)

	first := Interleave(articles, 0, 0)
	second := Interleave(articles, 0, 0)

	if len(first) != len(second) {
		t.Fatalf("lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Link != second[i].Link {
			t.Fatalf("position %d differs between identical runs: %q vs %q", i, first[i].Link, second[i].Link)
		}
	}
}

func TestInterleaveEmpty(t *testing.T) {
	if out := Interleave(nil, 5, 100); len(out) != 0 {
		t.Fatalf("got %d articles from empty input", len(out))
	}
}
