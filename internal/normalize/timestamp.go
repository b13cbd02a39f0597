package normalize

import (
	"crypto/sha1"
	"encoding/binary"
	"strings"
	"time"
)

// timestampLayouts covers the date formats observed across real feeds, in
// rough order of frequency.
var timestampLayouts = []string{
	time.RFC1123Z,
	time.RFC1123,
	time.RFC3339,
	"2006-01-02T15:04:05Z0700",
	time.RFC822Z,
	time.RFC822,
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"Mon, 2 Jan 2006 15:04:05 MST",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ResolveTimestamp parses a raw publish time. Unparsable values collapse to
// now; future values pass through so the freshness filter can reject the
// whole item. A midnight-exact time is a feed-default artifact, not a real
// publish moment, so it is jittered backward by a link-derived offset;
// deriving the offset from the link keeps reruns idempotent.
func ResolveTimestamp(raw, link string, now time.Time) time.Time {
	parsed, ok := parseTimestamp(strings.TrimSpace(raw))
	if !ok {
		return now
	}
	if parsed.Hour() == 0 && parsed.Minute() == 0 {
		parsed = parsed.Add(-midnightJitter(link))
	}
	return parsed
}

func parseTimestamp(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// midnightJitter maps a link to a stable offset in (0, 12h]. Same-day items
// stamped at midnight spread out instead of all tying in the interleaver.
func midnightJitter(link string) time.Duration {
	sum := sha1.Sum([]byte(strings.ToLower(strings.TrimSpace(link))))
	seconds := binary.BigEndian.Uint32(sum[:4]) % uint32(12*60*60)
	return time.Duration(seconds+1) * time.Second
}
