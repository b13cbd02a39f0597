package rules

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Scraped listing pages carry day-precision dates in a handful of local
// formats. Parsed dates are stamped at 12:00 UTC so same-day items stay
// clear of the normalizer's midnight handling. Failures return "" and the
// normalizer substitutes the run time.

var (
	finnishDateRe = regexp.MustCompile(`(\d{1,2})\.(\d{1,2})\.(\d{4})`)
	slashDateRe   = regexp.MustCompile(`(\d{2})/(\d{2})/(\d{4})`)
)

// dayLayouts cover "22 December 2025", "January 21, 2026" and friends.
var dayLayouts = []string{
	"2 January 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"Jan 2, 2006",
	"2006-01-02",
}

// parseDayDate tries the common long-form day layouts.
func parseDayDate(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	for _, layout := range dayLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return noon(t)
		}
	}
	return ""
}

// parseFinnishDate finds a d.m.yyyy date anywhere in the text.
func parseFinnishDate(raw string) string {
	m := finnishDateRe.FindStringSubmatch(raw)
	if m == nil {
		return ""
	}
	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	return noonDate(year, month, day)
}

// parseSlashDate finds a dd/mm/yyyy date anywhere in the text.
func parseSlashDate(raw string) string {
	m := slashDateRe.FindStringSubmatch(raw)
	if m == nil {
		return ""
	}
	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	return noonDate(year, month, day)
}

// parseShortMonth handles "06 Feb" and "19 Dec 25" style dates, defaulting
// the year to the current one when absent.
func parseShortMonth(raw string, now time.Time) string {
	parts := strings.Fields(strings.TrimSpace(raw))
	if len(parts) < 2 {
		return ""
	}

	day, err := strconv.Atoi(parts[0])
	if err != nil {
		return ""
	}
	month, err := time.Parse("Jan", parts[1])
	if err != nil {
		return ""
	}

	year := now.UTC().Year()
	if len(parts) >= 3 {
		y, err := strconv.Atoi(parts[2])
		if err != nil {
			return ""
		}
		if y < 100 {
			y += 2000
		}
		year = y
	}
	return noonDate(year, int(month.Month()), day)
}

func noon(t time.Time) string {
	return noonDate(t.Year(), int(t.Month()), t.Day())
}

func noonDate(year, month, day int) string {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return ""
	}
	return time.Date(year, time.Month(month), day, 12, 0, 0, 0, time.UTC).Format(time.RFC3339)
}
