// Package schedule parses opening-hours text into a weekly schedule and checks it against a
// second free-text source
package schedule

import (
	"regexp"
	"time"

	"branchsync/internal/core/textnorm"
)

// Interval is one opening span in HH:MM
type Interval struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// String renders the interval the way both feeds write it
func (i Interval) String() string { return i.From + "-" + i.To }

// Schedule is a weekly schedule. Is24x7 and an unparseable text both leave ByDay empty.
type Schedule struct {
	Is24x7 bool                        `json:"is_24x7"`
	ByDay  map[time.Weekday][]Interval `json:"by_day,omitempty"`
}

// Known reports whether the schedule carries anything to compare
func (s Schedule) Known() bool { return s.Is24x7 || len(s.ByDay) > 0 }

// FirstDay returns the intervals of the first non-empty weekday, Monday first
func (s Schedule) FirstDay() []Interval {
	for _, d := range week {
		if iv := s.ByDay[d]; len(iv) > 0 {
			return iv
		}
	}
	return nil
}

var week = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

// Daily applies one interval to all seven weekdays
func Daily(from, to string) Schedule {
	by := make(map[time.Weekday][]Interval, len(week))
	for _, d := range week {
		by[d] = []Interval{{From: from, To: to}}
	}
	return Schedule{ByDay: by}
}

// AlwaysOpen is the 24x7 schedule
func AlwaysOpen() Schedule { return Schedule{Is24x7: true} }

var (
	reDashGap   = regexp.MustCompile(`(\d)\s*-\s*(\d)`)
	reSingleH   = regexp.MustCompile(`(^|[^\d:])(\d):(\d{2})`)
	reFromTo    = regexp.MustCompile(`(^|[^\p{L}])с\s*(\d{1,2}:\d{2})\s*до\s*(\d{1,2}:\d{2})`)
	reEveryDay  = regexp.MustCompile(`(?:ежедневно|ежедн\.?|пн-вс|без выходных)[\s,:]*(\d{2}:\d{2})-(\d{2}:\d{2})`)
	reIntervals = regexp.MustCompile(`(\d{2}):(\d{2})-(\d{2}):(\d{2})`)
)

// alwaysOpenMarkers appear in the canonical feed
var alwaysOpenMarkers = []string{"круглосуточно"}

// externalAlwaysOpen are accepted from the scraped listing
var externalAlwaysOpen = []string{"круглосуточно", "24/7", "24 часа"}

// NormalizeText lower-cases, collapses whitespace, unifies dashes, rewrites "с 9:00 до 21:00" as
// "09:00-21:00", drops spaces around a dash between digits and zero pads single-digit hours
func NormalizeText(s string) string {
	s = textnorm.UnifyDashes(textnorm.Fold(s))
	s = reFromTo.ReplaceAllString(s, "${1}${2}-${3}")
	s = reDashGap.ReplaceAllString(s, "$1-$2")
	for {
		next := reSingleH.ReplaceAllString(s, "${1}0${2}:${3}")
		if next == s {
			return s
		}
		s = next
	}
}

// NormalizeXMLWorkingTime parses the canonical feed's working time. The feed only ever states one
// daily interval, so a recognized interval is applied to every weekday. Anything else yields the
// unknown schedule, which is not an error.
func NormalizeXMLWorkingTime(text string) Schedule {
	s := NormalizeText(text)
	if s == "" {
		return Schedule{}
	}
	if containsAny(s, alwaysOpenMarkers) {
		return AlwaysOpen()
	}
	if m := reEveryDay.FindStringSubmatch(s); m != nil {
		return Daily(m[1], m[2])
	}
	return Schedule{}
}

// ExpectedText is the human summary used in reports
func ExpectedText(s Schedule) string {
	if s.Is24x7 {
		return "круглосуточно"
	}
	if iv := s.FirstDay(); len(iv) > 0 {
		return "ежедневно " + iv[0].String()
	}
	return "нет данных"
}
