// Package repotest is an in-memory repokit.TxRunner for service and repo tests
package repotest

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"branchsync/internal/modkit/repokit"

	"github.com/jackc/pgx/v5"
)

// Call is one recorded statement
type Call struct {
	SQL  string
	Args []any
	InTx bool
}

// DB records statements and answers reads from scripted functions
// zero value answers every exec with one affected row and every read with no rows
type DB struct {
	mu sync.Mutex

	calls   []Call
	txCalls int

	// Affected is the RowsAffected of every exec; 0 means 1
	Affected int64
	// ExecErr fails execs whose sql it returns an error for
	ExecErr func(sql string) error
	// QueryFn answers Query; nil yields empty rows
	QueryFn func(sql string, args []any) (repokit.Rows, error)
	// RowFn answers QueryRow; nil yields a row whose Scan fails with ErrNoRows
	RowFn func(sql string, args []any) repokit.Row
	// TxErrs are returned by successive Tx attempts before fn runs
	TxErrs []error
}

// ErrNoRows is what the default row scan returns, the same value pgx uses
var ErrNoRows = pgx.ErrNoRows

// Calls returns a copy of all recorded statements
func (d *DB) Calls() []Call {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Call(nil), d.calls...)
}

// Matching returns recorded statements containing substr
func (d *DB) Matching(substr string) []Call {
	var out []Call
	for _, c := range d.Calls() {
		if strings.Contains(c.SQL, substr) {
			out = append(out, c)
		}
	}
	return out
}

// TxCalls counts Tx invocations, failed attempts included
func (d *DB) TxCalls() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.txCalls
}

// Exec implements repokit.Queryer
func (d *DB) Exec(ctx context.Context, sql string, args ...any) (repokit.CommandTag, error) {
	return d.exec(sql, args, false)
}

// Query implements repokit.Queryer
func (d *DB) Query(ctx context.Context, sql string, args ...any) (repokit.Rows, error) {
	return d.query(sql, args, false)
}

// QueryRow implements repokit.Queryer
func (d *DB) QueryRow(ctx context.Context, sql string, args ...any) repokit.Row {
	return d.queryRow(sql, args, false)
}

// Tx runs fn against a tx view of d; statements are recorded with InTx set
func (d *DB) Tx(ctx context.Context, fn func(q repokit.Queryer) error) error {
	d.mu.Lock()
	d.txCalls++
	var err error
	if len(d.TxErrs) > 0 {
		err, d.TxErrs = d.TxErrs[0], d.TxErrs[1:]
	}
	d.mu.Unlock()
	if err != nil {
		return err
	}
	return fn(txView{d})
}

func (d *DB) record(sql string, args []any, inTx bool) {
	d.mu.Lock()
	d.calls = append(d.calls, Call{SQL: sql, Args: args, InTx: inTx})
	d.mu.Unlock()
}

func (d *DB) exec(sql string, args []any, inTx bool) (repokit.CommandTag, error) {
	d.record(sql, args, inTx)
	if d.ExecErr != nil {
		if err := d.ExecErr(sql); err != nil {
			return nil, err
		}
	}
	n := d.Affected
	if n == 0 {
		n = 1
	}
	return tag(n), nil
}

func (d *DB) query(sql string, args []any, inTx bool) (repokit.Rows, error) {
	d.record(sql, args, inTx)
	if d.QueryFn == nil {
		return NewRows(nil), nil
	}
	return d.QueryFn(sql, args)
}

func (d *DB) queryRow(sql string, args []any, inTx bool) repokit.Row {
	d.record(sql, args, inTx)
	if d.RowFn == nil {
		return ErrRow(ErrNoRows)
	}
	return d.RowFn(sql, args)
}

type txView struct{ d *DB }

func (t txView) Exec(_ context.Context, sql string, args ...any) (repokit.CommandTag, error) {
	return t.d.exec(sql, args, true)
}

func (t txView) Query(_ context.Context, sql string, args ...any) (repokit.Rows, error) {
	return t.d.query(sql, args, true)
}

func (t txView) QueryRow(_ context.Context, sql string, args ...any) repokit.Row {
	return t.d.queryRow(sql, args, true)
}

type tag int64

func (t tag) String() string      { return fmt.Sprintf("OK %d", int64(t)) }
func (t tag) RowsAffected() int64 { return int64(t) }

// Rows is a scripted result set
type Rows struct {
	cols   []string
	data   [][]any
	i      int
	err    error
	Closed bool
}

// NewRows builds rows; each record is scanned positionally into the dest pointers
func NewRows(cols []string, data ...[]any) *Rows {
	return &Rows{cols: cols, data: data, i: -1}
}

// WithErr makes Err report err after iteration
func (r *Rows) WithErr(err error) *Rows { r.err = err; return r }

func (r *Rows) Next() bool        { r.i++; return r.i < len(r.data) }
func (r *Rows) Err() error        { return r.err }
func (r *Rows) Close()            { r.Closed = true }
func (r *Rows) Columns() []string { return r.cols }

func (r *Rows) Scan(dest ...any) error {
	if r.i < 0 || r.i >= len(r.data) {
		return ErrNoRows
	}
	return assign(r.data[r.i], dest)
}

// RowOf is a single row scanning vals
func RowOf(vals ...any) repokit.Row { return row{vals: vals} }

// ErrRow is a single row whose Scan fails with err
func ErrRow(err error) repokit.Row { return row{err: err} }

type row struct {
	vals []any
	err  error
}

func (r row) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	return assign(r.vals, dest)
}

func assign(vals, dest []any) error {
	if len(vals) != len(dest) {
		return fmt.Errorf("repotest: scan %d values into %d targets", len(vals), len(dest))
	}
	for i, v := range vals {
		dv := reflect.ValueOf(dest[i])
		if dv.Kind() != reflect.Pointer || dv.IsNil() {
			return fmt.Errorf("repotest: target %d is not a pointer", i)
		}
		el := dv.Elem()
		if v == nil {
			el.Set(reflect.Zero(el.Type()))
			continue
		}
		sv := reflect.ValueOf(v)
		switch {
		case sv.Type().AssignableTo(el.Type()):
			el.Set(sv)
		case el.Kind() == reflect.Pointer && sv.Type().AssignableTo(el.Type().Elem()):
			p := reflect.New(el.Type().Elem())
			p.Elem().Set(sv)
			el.Set(p)
		case sv.Type().ConvertibleTo(el.Type()):
			el.Set(sv.Convert(el.Type()))
		default:
			return fmt.Errorf("repotest: cannot scan %T into %s", v, el.Type())
		}
	}
	return nil
}
