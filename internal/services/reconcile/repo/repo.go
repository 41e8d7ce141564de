// Package repo provides postgres access for reconcile runs and the id map
package repo

import (
	"context"
	"time"

	"branchsync/internal/modkit/repokit"
	perr "branchsync/internal/platform/errors"
	"branchsync/internal/platform/store"
)

// Repo is the persistence surface for reconcile
type Repo interface {
	LoadIDMap(ctx context.Context) (map[string]string, error)
	SaveIDMap(ctx context.Context, rows []IDMapRow) error
	InsertRun(ctx context.Context, run RunRow) error
	InsertDiscrepancies(ctx context.Context, runID string, rows []DiscrepancyRow) error
}

// IDMapRow is one remembered pairing
type IDMapRow struct {
	CanonicalID string
	ExternalID  string
	Method      string
	Score       float64
}

// RunRow is the reconcile_run record
type RunRow struct {
	ID           string
	StartedAt    time.Time
	FinishedAt   time.Time
	Canonical    int
	Candidates   int
	Matched      int
	NotFound     int
	Mismatched   int
	Unverifiable int
}

// DiscrepancyRow is one schedule_discrepancy record
type DiscrepancyRow struct {
	CompanyID string
	Kind      string
	Name      string
	Address   string
	Expected  string
	Actual    string
	URL       string
}

type (
	// PG is a binder that can bind the repo to a Queryer or TxRunner
	PG struct{}
	// queries implements the Repo interface
	queries struct{ q repokit.Queryer }
)

// NewPG returns a binder that can bind the repo to a Queryer or TxRunner
func NewPG() repokit.Binder[Repo] { return PG{} }

// Bind wires a Queryer to the repo
func (PG) Bind(q repokit.Queryer) Repo { return &queries{q: q} }

func (r *queries) LoadIDMap(ctx context.Context) (map[string]string, error) {
	const sql = `
select canonical_id, external_id
from branch_id_map`

	type pair struct{ c, e string }
	rows, err := store.Many(ctx, r.q, func(row store.Row) (pair, error) {
		var p pair
		return p, row.Scan(&p.c, &p.e)
	}, sql)
	if err != nil {
		return nil, perr.FromPostgres(err, "load id map")
	}
	out := make(map[string]string, len(rows))
	for _, p := range rows {
		out[p.c] = p.e
	}
	return out, nil
}

func (r *queries) SaveIDMap(ctx context.Context, rows []IDMapRow) error {
	const sql = `
insert into branch_id_map (canonical_id, external_id, method, score, updated_at)
values ($1, $2, $3, $4, now())
on conflict (canonical_id) do update
set external_id = excluded.external_id,
    method = excluded.method,
    score = excluded.score,
    updated_at = excluded.updated_at`

	for _, x := range rows {
		if _, err := store.Exec(ctx, r.q, sql, x.CanonicalID, x.ExternalID, x.Method, x.Score); err != nil {
			return perr.FromPostgresf(err, "save id map %s", x.CanonicalID)
		}
	}
	return nil
}

func (r *queries) InsertRun(ctx context.Context, run RunRow) error {
	const sql = `
insert into reconcile_run
  (id, started_at, finished_at, canonical, candidates, matched, not_found, mismatched, unverifiable)
values ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	err := store.ExecOne(ctx, r.q, sql,
		run.ID, run.StartedAt, run.FinishedAt,
		run.Canonical, run.Candidates, run.Matched, run.NotFound, run.Mismatched, run.Unverifiable,
	)
	return perr.FromPostgres(err, "insert run")
}

func (r *queries) InsertDiscrepancies(ctx context.Context, runID string, rows []DiscrepancyRow) error {
	// the canonical feed is not deduplicated; the first report per company wins
	const sql = `
insert into schedule_discrepancy (run_id, company_id, kind, name, address, expected, actual, url)
values ($1, $2, $3, $4, $5, $6, $7, $8)
on conflict (run_id, company_id) do nothing`

	for _, x := range rows {
		_, err := store.Exec(ctx, r.q, sql,
			runID, x.CompanyID, x.Kind, x.Name, x.Address, x.Expected, x.Actual, x.URL)
		if err != nil {
			return perr.FromPostgresf(err, "insert discrepancy %s", x.CompanyID)
		}
	}
	return nil
}
