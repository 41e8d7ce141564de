package repokit_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"branchsync/internal/modkit/repokit"
	"branchsync/internal/modkit/repokit/repotest"
	"branchsync/internal/platform/testkit"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestWithBeginHooks_RunsBeforeFn(t *testing.T) {
	db := &repotest.DB{}
	tx := repokit.WithBeginHooks(db, repokit.LockTimeout(5*time.Second), repokit.StatementTimeout(250*time.Millisecond))

	err := repokit.WithTx(context.Background(), tx, func(q repokit.Queryer) error {
		_, err := q.Exec(context.Background(), `DELETE FROM branch_snapshot`)
		return err
	})
	if err != nil {
		t.Fatalf("WithTx: %v", err)
	}

	calls := db.Calls()
	want := []string{
		"SET LOCAL lock_timeout = '5000ms'",
		"SET LOCAL statement_timeout = '250ms'",
		"DELETE FROM branch_snapshot",
	}
	if len(calls) != len(want) {
		t.Fatalf("calls = %+v", calls)
	}
	for i, w := range want {
		if calls[i].SQL != w || !calls[i].InTx {
			t.Fatalf("call %d = %+v, want %q in tx", i, calls[i], w)
		}
	}
}

func TestWithBeginHooks_HookErrorSkipsFn(t *testing.T) {
	boom := errors.New("permission denied")
	db := &repotest.DB{ExecErr: func(string) error { return boom }}
	tx := repokit.WithBeginHooks(db, repokit.LockTimeout(time.Second))

	ran := false
	err := tx.Tx(context.Background(), func(repokit.Queryer) error { ran = true; return nil })
	if !errors.Is(err, boom) || ran {
		t.Fatalf("err=%v ran=%v", err, ran)
	}
}

func TestWithRetryTx_RetriesSerialization(t *testing.T) {
	db := &repotest.DB{TxErrs: []error{&pgconn.PgError{Code: "40001"}}}
	tx := repokit.WithBeginHooks(db, repokit.LockTimeout(time.Second))

	if err := repokit.WithRetryTx(context.Background(), tx, 3, func(repokit.Queryer) error { return nil }); err != nil {
		t.Fatalf("WithRetryTx: %v", err)
	}
	if db.TxCalls() != 2 {
		t.Fatalf("tx calls = %d", db.TxCalls())
	}
}

type guard struct {
	err         error
	hadDeadline bool
}

func (g *guard) Guard(ctx context.Context) error {
	_, g.hadDeadline = ctx.Deadline()
	return g.err
}

func TestMustGuard(t *testing.T) {
	ok := &guard{}
	testkit.MustNotPanic(t, func() { repokit.MustGuard(context.Background(), ok) })
	if !ok.hadDeadline {
		t.Fatalf("default deadline not applied")
	}

	testkit.MustPanic(t, func() { repokit.MustGuard(context.Background(), &guard{err: errors.New("pg: refused")}) })
	testkit.MustPanic(t, func() { repokit.MustGuard(context.Background(), nil) })
}

type snapRepo struct{ q repokit.Queryer }

func TestBinder(t *testing.T) {
	b := repokit.BindFunc[snapRepo](func(q repokit.Queryer) snapRepo { return snapRepo{q: q} })
	db := &repotest.DB{}

	if r := repokit.MustBind[snapRepo](b, db); r.q != db {
		t.Fatalf("bound to wrong queryer")
	}
	testkit.MustPanic(t, func() { repokit.MustBind[snapRepo](b, nil) })
}
