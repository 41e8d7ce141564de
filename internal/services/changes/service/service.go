// Package service contains change-log workflows: categorize, aggregate and ingest
package service

import (
	"context"
	"time"

	"branchsync/internal/core/changelog"
	perr "branchsync/internal/platform/errors"
	"branchsync/internal/platform/logger"
	"branchsync/internal/services/changes/domain"
	"branchsync/internal/services/changes/repo"
)

// Config for the changes service
type Config struct {
	// TZOffsetHours is the zone the feed writes timestamps in
	TZOffsetHours int
	// Lookback bounds StoredStats
	Lookback time.Duration
}

// Service defines the changes service contract
type Service interface {
	domain.ServicePort
}

// Svc implements the changes service
type Svc struct {
	// Repo is nil when clickhouse is disabled; ingest and stored stats then report unavailable
	Repo repo.Repo
	Cfg  Config

	cat *changelog.Categorizer
	loc *time.Location
	now func() time.Time
}

// New constructs a changes service
func New(r repo.Repo, cfg Config) *Svc {
	if cfg.Lookback <= 0 {
		cfg.Lookback = changelog.Month
	}
	return &Svc{
		Repo: r,
		Cfg:  cfg,
		cat:  changelog.NewCategorizer(changelog.MustLoad()),
		loc:  changelog.FixedZone(cfg.TZOffsetHours),
		now:  time.Now,
	}
}

// Categorize classifies each title
func (s *Svc) Categorize(_ context.Context, in domain.CategorizeInput) ([]domain.Categorized, error) {
	out := make([]domain.Categorized, 0, len(in.Titles))
	for _, t := range in.Titles {
		out = append(out, domain.Categorized{Title: t, Category: s.cat.Categorize(t)})
	}
	return out, nil
}

// Stats aggregates the posted histories
func (s *Svc) Stats(_ context.Context, in domain.StatsInput) (changelog.Stats, error) {
	return s.aggregator().Aggregate(domain.ToLocations(in.Locations)), nil
}

// Ingest classifies every entry once and appends it to the change log
func (s *Svc) Ingest(ctx context.Context, in domain.IngestInput) (domain.IngestResult, error) {
	if s.Repo == nil {
		return domain.IngestResult{}, perr.Unavailablef("clickhouse is not configured")
	}

	res := domain.IngestResult{Locations: len(in.Locations)}
	var rows []repo.Row
	for _, l := range domain.ToLocations(in.Locations) {
		for _, e := range l.Changes {
			e = s.cat.Classify(e)
			row := repo.Row{
				LocationID:   l.ID,
				LocationName: l.Name,
				Title:        e.Title,
				Category:     e.Category,
				ChangeType:   changelog.TypeOf(e),
				OldValue:     e.OldValue,
				NewValue:     e.NewValue,
				Author:       e.Author,
				RawTimestamp: e.Timestamp,
			}
			if ts, ok := changelog.ParseTimestamp(e.Timestamp, s.loc); ok {
				row.ChangedAt = &ts
			} else {
				res.Unparseable++
			}
			rows = append(rows, row)
		}
	}

	if err := s.Repo.Insert(ctx, rows); err != nil {
		return domain.IngestResult{}, err
	}
	res.Rows = len(rows)

	logger.C(ctx).Info().
		Int("locations", res.Locations).
		Int("rows", res.Rows).
		Int("unparseable", res.Unparseable).
		Msg("change log ingested")
	return res, nil
}

// StoredStats aggregates what the change log holds for the lookback period
func (s *Svc) StoredStats(ctx context.Context) (changelog.Stats, error) {
	if s.Repo == nil {
		return changelog.Stats{}, perr.Unavailablef("clickhouse is not configured")
	}
	now := s.now()
	rows, err := s.Repo.Since(ctx, now.Add(-s.Cfg.Lookback))
	if err != nil {
		return changelog.Stats{}, err
	}

	// rows arrive ordered by location; keep first-seen order
	var locs []changelog.Location
	index := map[string]int{}
	for _, r := range rows {
		i, ok := index[r.LocationID]
		if !ok {
			i = len(locs)
			index[r.LocationID] = i
			locs = append(locs, changelog.Location{ID: r.LocationID, Name: r.LocationName})
		}
		locs[i].Changes = append(locs[i].Changes, changelog.Entry{
			Title:     r.Title,
			Timestamp: r.RawTimestamp,
			Category:  r.Category,
			OldValue:  r.OldValue,
			NewValue:  r.NewValue,
			Author:    r.Author,
		})
	}

	agg := changelog.NewAggregator(s.cat, changelog.WithLocation(s.loc), changelog.WithClock(func() time.Time { return now }))
	return agg.Aggregate(locs), nil
}

func (s *Svc) aggregator() *changelog.Aggregator {
	return changelog.NewAggregator(s.cat, changelog.WithLocation(s.loc), changelog.WithClock(s.now))
}
