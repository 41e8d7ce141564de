package changelog

import (
	"regexp"
	"time"
)

// TimestampLayout is the display layout of change-log timestamps
const TimestampLayout = "02-01-2006 · 15:04"

var reTimestamp = regexp.MustCompile(`^\s*(\d{2})-(\d{2})-(\d{4})\s*·\s*(\d{2}):(\d{2})\s*$`)

// ParseTimestamp reads DD-MM-YYYY · HH:MM in loc. Anything else, including impossible dates,
// reports false.
func ParseTimestamp(s string, loc *time.Location) (time.Time, bool) {
	m := reTimestamp.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation("02-01-2006 15:04", m[1]+"-"+m[2]+"-"+m[3]+" "+m[4]+":"+m[5], loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// FormatTimestamp renders t in loc using TimestampLayout
func FormatTimestamp(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(TimestampLayout)
}

// FixedZone returns the feed's zone for an hour offset from UTC
func FixedZone(offsetHours int) *time.Location {
	if offsetHours == 0 {
		return time.UTC
	}
	return time.FixedZone("feed", offsetHours*3600)
}
