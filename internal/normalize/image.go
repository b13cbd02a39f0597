package normalize

import (
	"net/url"
	"regexp"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/uutiskone-hq/uutiskone/internal/domain"
)

// imageDenyRe rejects tracking pixels, spacers and identity images that
// feeds routinely smuggle into item bodies.
var imageDenyRe = regexp.MustCompile(`(?i)(pixel|tracker|tracking|spacer|blank|1x1|icon|favicon|avatar|gravatar|doubleclick|feedburner)`)

// resizeParams are query keys that only encode a server-side resize; the
// bare URL serves the full image.
var resizeParams = map[string]bool{
	"w": true, "h": true, "width": true, "height": true,
	"resize": true, "fit": true, "crop": true, "quality": true, "q": true,
}

// lazyAttrs are the src substitutes used by lazy-loading front ends, in
// preference order.
var lazyAttrs = []string{"src", "data-src", "data-lazy-src", "data-original"}

// ResolveImage picks one image URL for an item: widest structured enclosure
// first, then the first usable <img> in the HTML body. Returns "" when
// nothing survives the denylist.
func ResolveImage(item domain.RawItem, base *url.URL) string {
	candidates := make([]domain.Enclosure, len(item.Enclosures))
	copy(candidates, item.Enclosures)
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Width > candidates[j].Width
	})
	for _, c := range candidates {
		if img := cleanImageURL(c.URL, base); img != "" {
			return img
		}
	}

	for _, raw := range htmlImageCandidates(item.HTMLBody) {
		if img := cleanImageURL(raw, base); img != "" {
			return img
		}
	}
	return ""
}

// htmlImageCandidates scans the body's img tags for src, lazy-load
// attributes and the last (largest) srcset entry.
func htmlImageCandidates(htmlBody string) []string {
	if strings.TrimSpace(htmlBody) == "" {
		return nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlBody))
	if err != nil {
		return nil
	}

	var out []string
	doc.Find("img").Each(func(_ int, sel *goquery.Selection) {
		for _, name := range lazyAttrs {
			if v, ok := sel.Attr(name); ok && strings.TrimSpace(v) != "" {
				out = append(out, strings.TrimSpace(v))
				return
			}
		}
		if srcset, ok := sel.Attr("srcset"); ok {
			if v := lastSrcsetEntry(srcset); v != "" {
				out = append(out, v)
			}
		}
	})
	return out
}

// lastSrcsetEntry returns the URL of the final srcset candidate, which by
// convention declares the largest width.
func lastSrcsetEntry(srcset string) string {
	entries := strings.Split(srcset, ",")
	for i := len(entries) - 1; i >= 0; i-- {
		fields := strings.Fields(strings.TrimSpace(entries[i]))
		if len(fields) > 0 {
			return fields[0]
		}
	}
	return ""
}

// cleanImageURL applies the denylist, forces https on protocol-relative
// URLs, resolves relative paths against base and strips resize parameters.
func cleanImageURL(raw string, base *url.URL) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || imageDenyRe.MatchString(raw) {
		return ""
	}
	if strings.HasPrefix(raw, "//") {
		raw = "https:" + raw
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	if !parsed.IsAbs() {
		if base == nil {
			return ""
		}
		parsed = base.ResolveReference(parsed)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return ""
	}

	query := parsed.Query()
	for key := range query {
		if resizeParams[strings.ToLower(key)] {
			query.Del(key)
		}
	}
	parsed.RawQuery = query.Encode()
	return parsed.String()
}
