// Package dedup rejects repeat and future-dated articles. The primary
// fingerprint is the normalized link; a coarser title+source+day fingerprint
// additionally catches syndicated republishes under a fresh URL.
package dedup

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/uutiskone-hq/uutiskone/internal/domain"
)

// futureTolerance mirrors the normalizer's clock-skew allowance. Anything
// beyond it survived normalization with a bad clock and is dropped here.
const futureTolerance = 10 * time.Minute

// Filter tracks fingerprints seen during a run and across runs.
type Filter struct {
	seen map[string]bool
	now  func() time.Time
}

// NewFilter builds an empty filter.
func NewFilter() *Filter {
	return &Filter{
		seen: make(map[string]bool),
		now:  time.Now,
	}
}

// Seed marks already-persisted articles as seen so an accumulating run
// cannot readmit them.
func (f *Filter) Seed(articles []domain.Article) {
	for _, a := range articles {
		for _, fp := range fingerprints(a) {
			f.seen[fp] = true
		}
	}
}

// SeedFingerprints marks raw fingerprint keys as seen, typically loaded
// from the durable run state.
func (f *Filter) SeedFingerprints(keys []string) {
	for _, k := range keys {
		if k != "" {
			f.seen[k] = true
		}
	}
}

// Admit accepts an article exactly once. Rejections are duplicates, zero
// timestamps, or publish times beyond the future tolerance.
func (f *Filter) Admit(a domain.Article) bool {
	if a.PubDate.IsZero() {
		return false
	}
	if a.PubDate.After(f.now().Add(futureTolerance)) {
		return false
	}

	fps := fingerprints(a)
	for _, fp := range fps {
		if f.seen[fp] {
			return false
		}
	}
	for _, fp := range fps {
		f.seen[fp] = true
	}
	return true
}

// Fingerprints exposes the fingerprint keys of an article for durable
// storage between runs.
func Fingerprints(a domain.Article) []string {
	return fingerprints(a)
}

func fingerprints(a domain.Article) []string {
	var fps []string
	if fp := LinkFingerprint(a.Link); fp != "" {
		fps = append(fps, fp)
	}
	fps = append(fps, titleDayFingerprint(a))
	return fps
}

// LinkFingerprint lowercases a link and strips its query and fragment. The
// stored article keeps the full URL; only comparison uses this form.
func LinkFingerprint(link string) string {
	link = strings.TrimSpace(link)
	if link == "" {
		return ""
	}
	parsed, err := url.Parse(link)
	if err != nil {
		return strings.ToLower(link)
	}
	parsed.RawQuery = ""
	parsed.Fragment = ""
	parsed.RawFragment = ""
	return strings.ToLower(parsed.String())
}

func titleDayFingerprint(a domain.Article) string {
	return fmt.Sprintf("%s|%s|%s",
		strings.ToLower(strings.TrimSpace(a.Title)),
		strings.ToLower(strings.TrimSpace(a.SourceTitle)),
		a.PubDate.UTC().Format("2006-01-02"),
	)
}
