package normalize

import (
	"strings"
	"testing"
)

func TestSanitizeContentStripsActiveMarkup(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"script", `<p>A perfectly reasonable paragraph of text.</p><script>alert(1)</script>`},
		{"iframe", `<p>A perfectly reasonable paragraph of text.</p><iframe src="https://evil.example"></iframe>`},
		{"inline style", `<p style="color:red">A perfectly reasonable paragraph of text.</p>`},
		{"event handler", `<p onclick="steal()">A perfectly reasonable paragraph of text.</p>`},
		{"form", `<form action="/x"><input name="q"></form><p>A perfectly reasonable paragraph of text.</p>`},
		{"video embed", `<video src="v.mp4"></video><p>A perfectly reasonable paragraph of text.</p>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := SanitizeContent(tt.in, "fallback title", 600)
			for _, banned := range []string{"<script", "<iframe", "style=", "onclick", "<form", "<video"} {
				if strings.Contains(out, banned) {
					t.Errorf("output contains %q: %q", banned, out)
				}
			}
			if !strings.Contains(out, "reasonable paragraph") {
				t.Errorf("text content lost: %q", out)
			}
		})
	}
}

func TestSanitizeContentTruncationStaysWellFormed(t *testing.T) {
	in := "<p>" + strings.Repeat("word ", 300) + "</p>"
	out := SanitizeContent(in, "title", 200)

	if len([]rune(out)) > 250 {
		t.Errorf("output not bounded, len = %d", len([]rune(out)))
	}
	if strings.Count(out, "<p>") != strings.Count(out, "</p>") {
		t.Errorf("unbalanced tags after truncation: %q", out)
	}
}

func TestSanitizeContentFallsBackToTitle(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"empty body", ""},
		{"whitespace body", "   \n  "},
		{"markup only", "<script>x()</script>"},
		{"trivially short", "<p>ok</p>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeContent(tt.in, "The Title", 600); got != "The Title" {
				t.Errorf("got %q, want title fallback", got)
			}
		})
	}
}
