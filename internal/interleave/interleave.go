// Package interleave orders the final feed: newest day first, and within a
// day one article per source in rotation, so a prolific source cannot flood
// the bounded window.
package interleave

import (
	"sort"

	"github.com/uutiskone-hq/uutiskone/internal/domain"
)

// Interleave partitions articles by UTC calendar day in descending order,
// caps each source's contribution per day, and round-robins across sources
// within each day. The result is truncated to max when max > 0.
func Interleave(articles []domain.Article, perSourcePerDay, max int) []domain.Article {
	byDay := make(map[string][]domain.Article)
	for _, a := range articles {
		day := a.PubDate.UTC().Format("2006-01-02")
		byDay[day] = append(byDay[day], a)
	}

	days := make([]string, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(days)))

	out := make([]domain.Article, 0, len(articles))
	for _, day := range days {
		out = append(out, roundRobinDay(byDay[day], perSourcePerDay)...)
		if max > 0 && len(out) >= max {
			return out[:max]
		}
	}
	return out
}

// roundRobinDay groups one day's articles by source and takes one article
// per source in rotation. Groups are visited in stable source-name order so
// identical input yields identical output.
func roundRobinDay(articles []domain.Article, perSource int) []domain.Article {
	groups := make(map[string][]domain.Article)
	for _, a := range articles {
		groups[a.SourceTitle] = append(groups[a.SourceTitle], a)
	}

	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		group := groups[name]
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].PubDate.After(group[j].PubDate)
		})
		if perSource > 0 && len(group) > perSource {
			group = group[:perSource]
		}
		groups[name] = group
	}

	var out []domain.Article
	for round := 0; ; round++ {
		took := false
		for _, name := range names {
			if group := groups[name]; round < len(group) {
				out = append(out, group[round])
				took = true
			}
		}
		if !took {
			return out
		}
	}
}
