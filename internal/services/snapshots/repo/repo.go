// Package repo provides postgres access for the published snapshot
package repo

import (
	"context"
	"time"

	"branchsync/internal/core/snapshot"
	"branchsync/internal/modkit/repokit"
	perr "branchsync/internal/platform/errors"
	"branchsync/internal/platform/store"
)

// Repo is the persistence surface for snapshots
type Repo interface {
	Lock(ctx context.Context) error
	Load(ctx context.Context) ([]snapshot.Branch, error)
	Replace(ctx context.Context, next []snapshot.Branch, capturedAt time.Time) error
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

func (r *queries) Load(ctx context.Context) ([]snapshot.Branch, error) {
	const sql = `
select id, name, address
from branch_snapshot
order by id`

	out, err := store.Many(ctx, r.q, func(row store.Row) (snapshot.Branch, error) {
		var b snapshot.Branch
		return b, row.Scan(&b.ID, &b.Name, &b.Address)
	}, sql)
	if err != nil {
		return nil, perr.FromPostgres(err, "load snapshot")
	}
	if out == nil {
		out = []snapshot.Branch{}
	}
	return out, nil
}

// Lock serializes commits until the surrounding transaction ends; reads keep going
func (r *queries) Lock(ctx context.Context) error {
	if _, err := store.Exec(ctx, r.q, `lock table branch_snapshot in exclusive mode`); err != nil {
		return perr.FromPostgres(err, "lock snapshot")
	}
	return nil
}

// Replace must run inside a transaction holding Lock; the snapshot is replaced wholesale
func (r *queries) Replace(ctx context.Context, next []snapshot.Branch, capturedAt time.Time) error {
	const del = `delete from branch_snapshot`
	const ins = `
insert into branch_snapshot (id, name, address, captured_at)
select b.id, b.name, b.address, $4
from unnest($1::text[], $2::text[], $3::text[]) as b(id, name, address)`

	if _, err := store.Exec(ctx, r.q, del); err != nil {
		return perr.FromPostgres(err, "clear snapshot")
	}
	if len(next) == 0 {
		return nil
	}

	ids := make([]string, len(next))
	names := make([]string, len(next))
	addrs := make([]string, len(next))
	for i, b := range next {
		ids[i], names[i], addrs[i] = b.ID, b.Name, b.Address
	}
	if _, err := store.Exec(ctx, r.q, ins, ids, names, addrs, capturedAt); err != nil {
		return perr.FromPostgresf(err, "store snapshot of %d branches", len(next))
	}
	return nil
}
