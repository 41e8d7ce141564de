// Package service contains the reconcile workflow: match the canonical feed against the scraped
// listing, verify opening hours and report discrepancies
package service

import (
	"context"
	"sync"
	"time"

	"branchsync/internal/core/address"
	"branchsync/internal/core/idmap"
	"branchsync/internal/core/schedule"
	"branchsync/internal/modkit/repokit"
	perr "branchsync/internal/platform/errors"
	"branchsync/internal/platform/logger"
	"branchsync/internal/services/reconcile/domain"
	"branchsync/internal/services/reconcile/repo"

	"github.com/google/uuid"
)

// Config for the reconcile service
type Config struct {
	Workers          int
	Thresholds       address.Thresholds
	ToleranceMinutes int
	ApplyTolerance   bool
	TxAttempts       int
}

// Service defines the reconcile service contract
type Service interface {
	domain.ServicePort
}

// Svc implements the reconcile service
type Svc struct {
	Repo   repo.Repo
	binder repokit.Binder[repo.Repo]
	db     repokit.TxRunner

	cfg        Config
	matcher    *address.Matcher
	comparator *schedule.Comparator

	now   func() time.Time
	newID func() string
}

// New constructs a reconcile service. db may be nil, then runs are never persisted and the id
// map comes only from the request
func New(db repokit.TxRunner, binder repokit.Binder[repo.Repo], cfg Config) *Svc {
	if binder == nil {
		panic("reconcile.Service requires a non nil Repo binder")
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.TxAttempts <= 0 {
		cfg.TxAttempts = 3
	}
	if cfg.Thresholds == (address.Thresholds{}) {
		cfg.Thresholds = address.DefaultThresholds()
	}
	s := &Svc{
		binder:     binder,
		db:         db,
		cfg:        cfg,
		matcher:    address.NewMatcher(address.WithThresholds(cfg.Thresholds)),
		comparator: &schedule.Comparator{ToleranceMinutes: cfg.ToleranceMinutes, ApplyTolerance: cfg.ApplyTolerance},
		now:        time.Now,
		newID:      uuid.NewString,
	}
	if db != nil {
		s.Repo = binder.Bind(db)
	}
	return s
}

// Config returns the effective configuration
func (s *Svc) Config() Config { return s.cfg }

// Normalize returns the canonical form of one address
func (s *Svc) Normalize(_ context.Context, in domain.NormalizeInput) (address.Normalized, error) {
	return address.Normalize(in.Address), nil
}

// CheckSchedule parses the canonical hours and compares them when scraped hours are given
func (s *Svc) CheckSchedule(_ context.Context, in domain.ScheduleInput) (domain.ScheduleResult, error) {
	xml := schedule.NormalizeXMLWorkingTime(in.WorkingTime)
	out := domain.ScheduleResult{
		Schedule: xml,
		Known:    xml.Known(),
		Expected: schedule.ExpectedText(xml),
	}
	if in.HoursText != "" && xml.Known() {
		d := s.comparator.Compare(xml, in.HoursText)
		out.Discrepancy = &d
	}
	return out, nil
}

// outcome is the per canonical record result written by one worker
type outcome struct {
	match       address.MatchResult
	discrepancy *domain.Discrepancy
	unverified  bool
}

// Run reconciles the canonical feed against the listing
func (s *Svc) Run(ctx context.Context, in domain.RunInput) (domain.RunResult, error) {
	if in.Persist && s.db == nil {
		return domain.RunResult{}, perr.Unavailablef("persistence requested but postgres is not configured")
	}

	res := domain.RunResult{RunID: s.newID(), StartedAt: s.now().UTC()}
	ctx = logger.WithRun(ctx, res.RunID)
	log := logger.C(ctx)

	ids, err := s.loadIDMap(ctx, in.IDMap)
	if err != nil {
		return domain.RunResult{}, err
	}

	candidates := make([]address.Candidate, len(in.External))
	present := make(map[string]int, len(in.External))
	for i, e := range in.External {
		candidates[i] = address.Candidate{ID: e.ID, Address: address.Normalize(e.Address)}
		if _, dup := present[e.ID]; e.ID != "" && !dup {
			present[e.ID] = i
		}
	}

	out := make([]outcome, len(in.Canonical))

	sem := make(chan struct{}, s.cfg.Workers)
	wg := sync.WaitGroup{}

	for i := range in.Canonical {
		if err := ctx.Err(); err != nil {
			break
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(i int) {
			defer func() { <-sem; wg.Done() }()
			out[i] = s.reconcileOne(in.Canonical[i], in.External, candidates, present, ids)
		}(i)
	}
	wg.Wait()
	if err := ctx.Err(); err != nil {
		return domain.RunResult{}, err
	}

	res.Counts = domain.RunCounts{Canonical: len(in.Canonical), Candidates: len(in.External)}
	res.Matches = make([]address.MatchResult, 0, len(out))
	res.Discrepancies = []domain.Discrepancy{}
	learned := map[string]string{}
	learnedRows := make([]repo.IDMapRow, 0, len(out))

	for _, o := range out {
		res.Matches = append(res.Matches, o.match)
		switch {
		case !o.match.Matched():
			res.Counts.NotFound++
		case o.match.Method == address.MethodCached:
			res.Counts.Matched++
			res.Counts.Cached++
		default:
			res.Counts.Matched++
			if o.match.MatchedID != "" {
				learned[o.match.CanonicalID] = o.match.MatchedID
				learnedRows = append(learnedRows, repo.IDMapRow{
					CanonicalID: o.match.CanonicalID,
					ExternalID:  o.match.MatchedID,
					Method:      string(o.match.Method),
					Score:       o.match.Score,
				})
			}
		}
		if o.unverified {
			res.Counts.Unverifiable++
		}
		if o.discrepancy != nil {
			if o.discrepancy.Kind == domain.KindSchedule {
				res.Counts.Mismatched++
			}
			res.Discrepancies = append(res.Discrepancies, *o.discrepancy)
		}
	}
	res.IDMap = ids.With(learned).Pairs()
	res.FinishedAt = s.now().UTC()

	if in.Persist {
		if err := s.persist(ctx, res, learnedRows); err != nil {
			return domain.RunResult{}, err
		}
		res.Persisted = true
	}

	log.Info().
		Int("canonical", res.Counts.Canonical).
		Int("candidates", res.Counts.Candidates).
		Int("matched", res.Counts.Matched).
		Int("cached", res.Counts.Cached).
		Int("not_found", res.Counts.NotFound).
		Int("mismatched", res.Counts.Mismatched).
		Int("unverifiable", res.Counts.Unverifiable).
		Bool("persisted", res.Persisted).
		Dur("elapsed", res.FinishedAt.Sub(res.StartedAt)).
		Msg("reconcile run finished")

	return res, nil
}

// reconcileOne pairs one canonical record and checks its hours; pure, safe from any worker
func (s *Svc) reconcileOne(
	c domain.CanonicalRecord,
	external []domain.ExternalRecord,
	candidates []address.Candidate,
	present map[string]int,
	ids idmap.Map,
) outcome {
	var o outcome
	if ext, idx, ok := ids.Lookup(c.CompanyID, present); ok {
		o.match = address.MatchResult{
			CanonicalID: c.CompanyID,
			MatchedID:   ext,
			Index:       idx,
			Score:       1,
			Method:      address.MethodCached,
		}
	} else {
		o.match = s.matcher.Match(c.CompanyID, address.Normalize(c.Address), candidates)
	}

	if !o.match.Matched() {
		o.discrepancy = &domain.Discrepancy{
			Kind:      domain.KindNotFound,
			CompanyID: c.CompanyID,
			Name:      c.Name,
			Address:   c.Address,
			Expected:  "присутствует во внешнем источнике",
			Actual:    "не найдено",
		}
		return o
	}

	xml := schedule.NormalizeXMLWorkingTime(c.WorkingTime)
	if !xml.Known() {
		o.unverified = true
		return o
	}
	ext := external[o.match.Index]
	d := s.comparator.Compare(xml, ext.HoursText)
	if d.OK {
		return o
	}
	o.discrepancy = &domain.Discrepancy{
		Kind:      domain.KindSchedule,
		CompanyID: c.CompanyID,
		Name:      c.Name,
		Address:   c.Address,
		Expected:  d.ExpectedText,
		Actual:    d.ActualText,
		URL:       ext.URL,
		Reasons:   d.Reasons,
	}
	return o
}

func (s *Svc) loadIDMap(ctx context.Context, override map[string]string) (idmap.Map, error) {
	if override != nil || s.Repo == nil {
		return idmap.New(override), nil
	}
	pairs, err := s.Repo.LoadIDMap(ctx)
	if err != nil {
		return idmap.Map{}, err
	}
	return idmap.New(pairs), nil
}

// persist writes the run, its discrepancies and the learned pairings in one transaction
func (s *Svc) persist(ctx context.Context, res domain.RunResult, learned []repo.IDMapRow) error {
	run := repo.RunRow{
		ID:           res.RunID,
		StartedAt:    res.StartedAt,
		FinishedAt:   res.FinishedAt,
		Canonical:    res.Counts.Canonical,
		Candidates:   res.Counts.Candidates,
		Matched:      res.Counts.Matched,
		NotFound:     res.Counts.NotFound,
		Mismatched:   res.Counts.Mismatched,
		Unverifiable: res.Counts.Unverifiable,
	}
	rows := make([]repo.DiscrepancyRow, 0, len(res.Discrepancies))
	for _, d := range res.Discrepancies {
		rows = append(rows, repo.DiscrepancyRow{
			CompanyID: d.CompanyID,
			Kind:      d.Kind,
			Name:      d.Name,
			Address:   d.Address,
			Expected:  d.Expected,
			Actual:    d.Actual,
			URL:       d.URL,
		})
	}

	return repokit.WithRetryTx(ctx, s.db, s.cfg.TxAttempts, func(q repokit.Queryer) error {
		r := repokit.MustBind(s.binder, q)
		if err := r.InsertRun(ctx, run); err != nil {
			return err
		}
		if err := r.InsertDiscrepancies(ctx, run.ID, rows); err != nil {
			return err
		}
		return r.SaveIDMap(ctx, learned)
	})
}
