package repotest

import (
	"context"
	"errors"
	"testing"

	"branchsync/internal/modkit/repokit"
	"branchsync/internal/platform/store"
)

func TestDB_RecordsAndScans(t *testing.T) {
	ctx := context.Background()
	db := &DB{QueryFn: func(string, []any) (repokit.Rows, error) {
		return NewRows([]string{"id", "score"}, []any{"b-1", 0.9}, []any{"b-2", nil}), nil
	}}

	type rec struct {
		ID    string
		Score float64
	}
	got, err := store.Many(ctx, db, func(r store.Row) (rec, error) {
		var x rec
		return x, r.Scan(&x.ID, &x.Score)
	}, `SELECT id, score FROM branch_id_map`)
	if err != nil {
		t.Fatalf("Many: %v", err)
	}
	if len(got) != 2 || got[0].Score != 0.9 || got[1].Score != 0 {
		t.Fatalf("rows = %+v", got)
	}

	err = db.Tx(ctx, func(q repokit.Queryer) error {
		_, err := q.Exec(ctx, `DELETE FROM branch_snapshot`)
		return err
	})
	if err != nil {
		t.Fatalf("Tx: %v", err)
	}
	del := db.Matching("DELETE")
	if len(del) != 1 || !del[0].InTx {
		t.Fatalf("delete calls = %+v", del)
	}
}

func TestDB_TxErrsAreConsumed(t *testing.T) {
	boom := errors.New("serialization")
	db := &DB{TxErrs: []error{boom}}
	ran := 0
	fn := func(repokit.Queryer) error { ran++; return nil }

	if err := db.Tx(context.Background(), fn); !errors.Is(err, boom) {
		t.Fatalf("first attempt = %v", err)
	}
	if err := db.Tx(context.Background(), fn); err != nil {
		t.Fatalf("second attempt = %v", err)
	}
	if ran != 1 || db.TxCalls() != 2 {
		t.Fatalf("ran=%d txCalls=%d", ran, db.TxCalls())
	}
}

func TestRowOf_PointerTargets(t *testing.T) {
	var status *string
	var n int
	if err := RowOf("published", int64(3)).Scan(&status, &n); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if status == nil || *status != "published" || n != 3 {
		t.Fatalf("status=%v n=%d", status, n)
	}
	if err := RowOf(1).Scan(&n, &n); err == nil {
		t.Fatalf("expected arity error")
	}
	if err := ErrRow(ErrNoRows).Scan(&n); !errors.Is(err, ErrNoRows) {
		t.Fatalf("ErrRow = %v", err)
	}
}
