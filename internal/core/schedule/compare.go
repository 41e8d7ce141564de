package schedule

import (
	"strconv"
	"strings"
)

const (
	ReasonExpectAlwaysOpen = "ожидается: круглосуточно"
	ReasonUnrecognized     = "формат графика в источнике не распознан"
	reasonExpectPrefix     = "ожидается: "
)

// Discrepancy is the verdict for one pair of schedules
type Discrepancy struct {
	OK           bool     `json:"ok"`
	Reasons      []string `json:"reasons,omitempty"`
	ExpectedText string   `json:"expected"`
	ActualText   string   `json:"actual,omitempty"`
}

// Comparator checks a canonical schedule against scraped text.
// ToleranceMinutes only takes effect when ApplyTolerance is set; the default is exact containment.
type Comparator struct {
	ToleranceMinutes int
	ApplyTolerance   bool
}

// Compare returns the verdict. ActualText carries the external text as received.
func (c *Comparator) Compare(xml Schedule, external string) Discrepancy {
	d := Discrepancy{ExpectedText: ExpectedText(xml), ActualText: strings.TrimSpace(external)}
	ext := NormalizeText(external)

	if xml.Is24x7 {
		if containsAny(ext, externalAlwaysOpen) {
			d.OK = true
			return d
		}
		d.Reasons = append(d.Reasons, ReasonExpectAlwaysOpen)
		return d
	}

	day := xml.FirstDay()
	if len(day) == 0 {
		d.Reasons = append(d.Reasons, ReasonUnrecognized)
		return d
	}

	want := day[0]
	if strings.Contains(ext, want.String()) || (c != nil && c.ApplyTolerance && c.withinTolerance(want, ext)) {
		d.OK = true
		return d
	}
	d.Reasons = append(d.Reasons, reasonExpectPrefix+want.String())
	return d
}

// withinTolerance passes when any interval in ext has both bounds within ToleranceMinutes of want
func (c *Comparator) withinTolerance(want Interval, ext string) bool {
	wf, ok1 := minutes(want.From)
	wt, ok2 := minutes(want.To)
	if !ok1 || !ok2 {
		return false
	}
	for _, m := range reIntervals.FindAllStringSubmatch(ext, -1) {
		f := atoi(m[1])*60 + atoi(m[2])
		t := atoi(m[3])*60 + atoi(m[4])
		if abs(f-wf) <= c.ToleranceMinutes && abs(t-wt) <= c.ToleranceMinutes {
			return true
		}
	}
	return false
}

func minutes(hhmm string) (int, bool) {
	h, m, ok := strings.Cut(hhmm, ":")
	if !ok {
		return 0, false
	}
	hi, err1 := strconv.Atoi(h)
	mi, err2 := strconv.Atoi(m)
	if err1 != nil || err2 != nil {
		return 0, false
	}
	return hi*60 + mi, true
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func containsAny(s string, subs []string) bool {
	for _, x := range subs {
		if strings.Contains(s, x) {
			return true
		}
	}
	return false
}
