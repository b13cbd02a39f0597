package normalize

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// removedElements never survive sanitization; they either execute, load
// external resources or are useless in a text snippet.
const removedElements = "script, style, iframe, form, object, embed, video, audio, noscript"

// minContentRunes below which a snippet carries no information and the
// title serves better.
const minContentRunes = 10

// SanitizeContent strips active markup from a raw HTML body and bounds its
// length, keeping the markup well-formed. Unusable bodies fall back to the
// trimmed title.
func SanitizeContent(htmlBody, title string, limit int) string {
	fallback := strings.TrimSpace(title)
	body := strings.TrimSpace(htmlBody)
	if body == "" {
		return fallback
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return fallback
	}
	doc.Find(removedElements).Remove()
	stripUnsafeAttrs(doc)

	if len([]rune(strings.TrimSpace(doc.Text()))) < minContentRunes {
		return fallback
	}

	inner, err := doc.Find("body").Html()
	if err != nil {
		return fallback
	}
	inner = strings.TrimSpace(inner)
	if runes := []rune(inner); len(runes) > limit {
		inner = closeTruncatedMarkup(string(runes[:limit]))
	}
	if strings.TrimSpace(inner) == "" {
		return fallback
	}
	return inner
}

// stripUnsafeAttrs drops inline styles and every on* event handler from all
// remaining elements.
func stripUnsafeAttrs(doc *goquery.Document) {
	doc.Find("*").Each(func(_ int, sel *goquery.Selection) {
		for _, node := range sel.Nodes {
			kept := node.Attr[:0]
			for _, a := range node.Attr {
				key := strings.ToLower(a.Key)
				if key == "style" || strings.HasPrefix(key, "on") {
					continue
				}
				kept = append(kept, a)
			}
			node.Attr = kept
		}
	})
}

// closeTruncatedMarkup reparses a hard-truncated HTML fragment so dangling
// tags are closed and partial tags at the cut point are dropped.
func closeTruncatedMarkup(fragment string) string {
	bodyNode := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), bodyNode)
	if err != nil {
		return fragment
	}

	var buf bytes.Buffer
	for _, node := range nodes {
		if err := html.Render(&buf, node); err != nil {
			return fragment
		}
	}
	return buf.String()
}
