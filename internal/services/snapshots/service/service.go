// Package service contains snapshot workflows: diff the listing against the published snapshot
// and commit the next one
package service

import (
	"context"
	"time"

	"branchsync/internal/core/snapshot"
	"branchsync/internal/modkit/repokit"
	perr "branchsync/internal/platform/errors"
	"branchsync/internal/platform/logger"
	"branchsync/internal/services/snapshots/domain"
	"branchsync/internal/services/snapshots/repo"
)

// Config for the snapshots service
type Config struct {
	Published   []string
	LockTimeout time.Duration
	TxAttempts  int
}

// Service defines the snapshots service contract
type Service interface {
	domain.ServicePort
}

// Svc implements the snapshots service
type Svc struct {
	Repo   repo.Repo
	binder repokit.Binder[repo.Repo]
	db     repokit.TxRunner

	cfg    Config
	differ *snapshot.Differ
	now    func() time.Time
}

// New constructs a snapshots service; db may be nil, then only payload diffs work
func New(db repokit.TxRunner, binder repokit.Binder[repo.Repo], cfg Config) *Svc {
	if binder == nil {
		panic("snapshots.Service requires a non nil Repo binder")
	}
	if cfg.TxAttempts <= 0 {
		cfg.TxAttempts = 3
	}
	s := &Svc{
		binder: binder,
		cfg:    cfg,
		differ: snapshot.NewDiffer(cfg.Published...),
		now:    time.Now,
	}
	if db != nil {
		hooks := []repokit.BeginHook{}
		if cfg.LockTimeout > 0 {
			hooks = append(hooks, repokit.LockTimeout(cfg.LockTimeout))
		}
		s.db = repokit.WithBeginHooks(db, hooks...)
		s.Repo = binder.Bind(db)
	}
	return s
}

// Diff compares the current listing with the posted or stored snapshot
func (s *Svc) Diff(ctx context.Context, in domain.DiffInput) (domain.DiffResult, error) {
	prev, source := in.Previous, domain.SourcePayload
	if prev == nil {
		if s.Repo == nil {
			prev, source = []snapshot.Branch{}, domain.SourceEmpty
		} else {
			stored, err := s.Repo.Load(ctx)
			if err != nil {
				return domain.DiffResult{}, err
			}
			prev, source = stored, domain.SourceStore
		}
	}
	return domain.DiffResult{Result: s.differ.Diff(prev, in.Current), Source: source}, nil
}

// Commit diffs against the stored snapshot and replaces it in the same transaction
func (s *Svc) Commit(ctx context.Context, in domain.CommitInput) (domain.CommitResult, error) {
	if s.db == nil {
		return domain.CommitResult{}, perr.Unavailablef("postgres is not configured")
	}

	next := s.differ.FromCurrent(in.Current)
	at := s.now().UTC()

	var out domain.CommitResult
	err := repokit.WithRetryTx(ctx, s.db, s.cfg.TxAttempts, func(q repokit.Queryer) error {
		r := repokit.MustBind(s.binder, q)
		if err := r.Lock(ctx); err != nil {
			return err
		}
		prev, err := r.Load(ctx)
		if err != nil {
			return err
		}
		out = domain.CommitResult{
			Result:     s.differ.Diff(prev, in.Current),
			Stored:     len(next),
			CapturedAt: at,
		}
		return r.Replace(ctx, next, at)
	})
	if err != nil {
		return domain.CommitResult{}, err
	}

	logger.C(ctx).Info().
		Int("stored", out.Stored).
		Int("added", len(out.Added)).
		Int("removed", len(out.Removed)).
		Msg("snapshot committed")
	return out, nil
}

// Stored returns the published snapshot
func (s *Svc) Stored(ctx context.Context) ([]snapshot.Branch, error) {
	if s.Repo == nil {
		return nil, perr.Unavailablef("postgres is not configured")
	}
	return s.Repo.Load(ctx)
}
