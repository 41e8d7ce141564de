// Package guardrails keeps persisting reconcile runs from overlapping
package guardrails

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"branchsync/internal/modkit/repokit"
	perr "branchsync/internal/platform/errors"
	"branchsync/internal/platform/store"

	"github.com/jackc/pgx/v5"
)

// ErrLeaseHeld signals another process owns the lease already
var ErrLeaseHeld = perr.Conflictf("reconcile: run lease already held")

// Lease runs do while holding the named lease
type Lease func(ctx context.Context, do func(context.Context) error) error

// MakeLease claims the run_lease row for name; an expired lease is reclaimed.
// The lease is released when do returns
func MakeLease(db repokit.TxRunner, name, owner string, ttl time.Duration) Lease {
	owner = fmt.Sprintf("%s:%d", owner, os.Getpid())
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	interval := fmt.Sprintf("%d seconds", int64(ttl/time.Second))

	return func(ctx context.Context, do func(context.Context) error) (err error) {
		var claimed bool
		if err := repokit.WithTx(ctx, db, func(q repokit.Queryer) error {
			row := q.QueryRow(ctx, `
				INSERT INTO run_lease (name, owner, claimed_at, expires_at)
				VALUES ($1, $2, now(), now() + ($3)::interval)
				ON CONFLICT (name) DO UPDATE
				   SET owner = excluded.owner, claimed_at = now(), expires_at = excluded.expires_at
				 WHERE run_lease.expires_at <= now()
				RETURNING true
			`, name, owner, interval)
			if err := row.Scan(&claimed); err != nil {
				if errors.Is(err, pgx.ErrNoRows) {
					return nil // held by someone else
				}
				return perr.FromPostgres(err, "claim run lease")
			}
			return nil
		}); err != nil {
			return err
		}
		if !claimed {
			return ErrLeaseHeld
		}

		defer func() {
			// release even when ctx was cancelled mid run
			rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
			defer cancel()
			if _, rerr := store.Exec(rctx, db, `DELETE FROM run_lease WHERE name = $1 AND owner = $2`, name, owner); rerr != nil && err == nil {
				err = perr.FromPostgres(rerr, "release run lease")
			}
		}()
		return do(ctx)
	}
}
