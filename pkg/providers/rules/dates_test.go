package rules

import (
	"testing"
	"time"
)

func TestParseDayDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"22 December 2025", "2025-12-22T12:00:00Z"},
		{"January 21, 2026", "2026-01-21T12:00:00Z"},
		{"3 Feb 2026", "2026-02-03T12:00:00Z"},
		{"2026-02-03", "2026-02-03T12:00:00Z"},
		{"not a date", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := parseDayDate(tt.in); got != tt.want {
			t.Errorf("parseDayDate(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseFinnishDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Julkaistu 5.3.2026", "2026-03-05T12:00:00Z"},
		{"15.12.2025", "2025-12-15T12:00:00Z"},
		{"no date here", ""},
	}

	for _, tt := range tests {
		if got := parseFinnishDate(tt.in); got != tt.want {
			t.Errorf("parseFinnishDate(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseSlashDate(t *testing.T) {
	if got := parseSlashDate("Published 04/02/2026 news"); got != "2026-02-04T12:00:00Z" {
		t.Errorf("parseSlashDate = %q", got)
	}
	if got := parseSlashDate("nothing"); got != "" {
		t.Errorf("parseSlashDate on junk = %q", got)
	}
}

func TestParseShortMonth(t *testing.T) {
	now := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		in   string
		want string
	}{
		{"06 Feb", "2026-02-06T12:00:00Z"},
		{"19 Dec 25", "2025-12-19T12:00:00Z"},
		{"19 Dec 2025", "2025-12-19T12:00:00Z"},
		{"Feb", ""},
		{"xx Feb", ""},
	}

	for _, tt := range tests {
		if got := parseShortMonth(tt.in, now); got != tt.want {
			t.Errorf("parseShortMonth(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeHost(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"www.ne-mo.org", "ne-mo.org"},
		{"EC.EUROPA.EU", "ec.europa.eu"},
		{" icann.org ", "icann.org"},
	}

	for _, tt := range tests {
		if got := NormalizeHost(tt.in); got != tt.want {
			t.Errorf("NormalizeHost(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRuleRegistry(t *testing.T) {
	if _, ok := For("coe.int"); !ok {
		t.Error("expected rule for coe.int")
	}
	if _, ok := For("www.opengovpartnership.org"); !ok {
		t.Error("expected rule for opengovpartnership.org via www prefix")
	}
	if _, ok := For("nosuchdomain.example"); ok {
		t.Error("unexpected rule for unregistered domain")
	}
	if Generic() == nil {
		t.Error("generic rule missing")
	}
}
