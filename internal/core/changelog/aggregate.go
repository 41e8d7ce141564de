package changelog

import (
	"math"
	"strconv"
	"time"
)

// Window holds counts restricted to entries at or after a cutoff
type Window struct {
	Changes    int              `json:"changes"`
	Locations  int              `json:"locations"`
	ByCategory map[Category]int `json:"by_category"`
}

// Stats is the aggregate over all locations
type Stats struct {
	GeneratedAt      time.Time          `json:"generated_at"`
	TotalLocations   int                `json:"total_locations"`
	ChangedLocations int                `json:"changed_locations"`
	TotalChanges     int                `json:"total_changes"`
	Unparseable      int                `json:"unparseable"`
	ByType           map[ChangeType]int `json:"by_type"`
	ByCategory       map[Category]int   `json:"by_category"`
	Last24h          Window             `json:"last_24h"`
	Last7d           Window             `json:"last_7d"`
	Last30d          Window             `json:"last_30d"`
	// AvgPerChangedLocation is rounded to 2 decimals, 0 without changed locations
	AvgPerChangedLocation float64 `json:"avg_per_changed_location"`
}

// Recency windows
const (
	Day   = 24 * time.Hour
	Week  = 7 * Day
	Month = 30 * Day
)

// Aggregator folds classified entries into Stats
type Aggregator struct {
	cat *Categorizer
	loc *time.Location
	now func() time.Time
}

// AggregatorOption customizes an Aggregator
type AggregatorOption func(*Aggregator)

// WithClock replaces time.Now
func WithClock(now func() time.Time) AggregatorOption {
	return func(a *Aggregator) {
		if now != nil {
			a.now = now
		}
	}
}

// WithLocation sets the zone timestamps are written in
func WithLocation(loc *time.Location) AggregatorOption {
	return func(a *Aggregator) {
		if loc != nil {
			a.loc = loc
		}
	}
}

// NewAggregator builds an aggregator; the default zone is UTC+3
func NewAggregator(cat *Categorizer, opts ...AggregatorOption) *Aggregator {
	if cat == nil {
		cat = NewCategorizer(nil)
	}
	a := &Aggregator{cat: cat, loc: FixedZone(3), now: time.Now}
	for _, o := range opts {
		o(a)
	}
	return a
}

type windowAcc struct {
	cutoff time.Time
	w      *Window
	seen   map[string]struct{}
}

// Aggregate reads the clock once so every entry is judged against the same cutoffs.
// Unparseable timestamps count toward totals and never toward a window.
func (a *Aggregator) Aggregate(locs []Location) Stats {
	now := a.now()
	st := Stats{
		GeneratedAt:    now,
		TotalLocations: len(locs),
		ByType:         map[ChangeType]int{},
		ByCategory:     map[Category]int{},
		Last24h:        Window{ByCategory: map[Category]int{}},
		Last7d:         Window{ByCategory: map[Category]int{}},
		Last30d:        Window{ByCategory: map[Category]int{}},
	}
	wins := []windowAcc{
		{cutoff: now.Add(-Day), w: &st.Last24h, seen: map[string]struct{}{}},
		{cutoff: now.Add(-Week), w: &st.Last7d, seen: map[string]struct{}{}},
		{cutoff: now.Add(-Month), w: &st.Last30d, seen: map[string]struct{}{}},
	}

	for i, l := range locs {
		if len(l.Changes) == 0 {
			continue
		}
		st.ChangedLocations++
		key := l.ID
		if key == "" {
			key = "#" + strconv.Itoa(i)
		}

		for _, e := range l.Changes {
			e = a.cat.Classify(e)
			st.TotalChanges++
			st.ByType[TypeOf(e)]++
			st.ByCategory[e.Category]++

			ts, ok := ParseTimestamp(e.Timestamp, a.loc)
			if !ok {
				st.Unparseable++
				continue
			}
			for _, w := range wins {
				if ts.Before(w.cutoff) {
					continue
				}
				w.w.Changes++
				w.w.ByCategory[e.Category]++
				if _, dup := w.seen[key]; !dup {
					w.seen[key] = struct{}{}
					w.w.Locations++
				}
			}
		}
	}

	if st.ChangedLocations > 0 {
		avg := float64(st.TotalChanges) / float64(st.ChangedLocations)
		st.AvgPerChangedLocation = math.Round(avg*100) / 100
	}
	return st
}
