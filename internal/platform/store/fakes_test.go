package store

import (
	"context"
	"errors"
	"sync"
)

// fakeTag is a CommandTag with a fixed affected count
type fakeTag int64

func (f fakeTag) String() string      { return "FAKE" }
func (f fakeTag) RowsAffected() int64 { return int64(f) }

// fakeRows iterates over fixed values; each row scans into *string or *int destinations
type fakeRows struct {
	data   [][]any
	pos    int
	err    error
	closed bool
}

func (r *fakeRows) Next() bool {
	if r.pos >= len(r.data) {
		return false
	}
	r.pos++
	return true
}

func (r *fakeRows) Scan(dest ...any) error {
	row := r.data[r.pos-1]
	if len(dest) != len(row) {
		return errors.New("scan arity")
	}
	for i, d := range dest {
		switch p := d.(type) {
		case *string:
			*p = row[i].(string)
		case *int:
			*p = row[i].(int)
		default:
			return errors.New("unsupported dest")
		}
	}
	return nil
}

func (r *fakeRows) Err() error        { return r.err }
func (r *fakeRows) Close()            { r.closed = true }
func (r *fakeRows) Columns() []string { return nil }

// fakeRow scans a single value
type fakeRow struct {
	val any
	err error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	switch p := dest[0].(type) {
	case *int:
		*p = r.val.(int)
	case *string:
		*p = r.val.(string)
	}
	return nil
}

// fakeTx records statements and replays canned results
type fakeTx struct {
	mu       sync.Mutex
	execs    []string
	affected int64
	execErr  error
	rows     *fakeRows
	row      fakeRow
	txErrs   []error // popped per Tx call
	txCalls  int
	pingErr  error
	closed   bool
	closeErr error
}

func (f *fakeTx) Exec(_ context.Context, sql string, _ ...any) (CommandTag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.execs = append(f.execs, sql)
	return fakeTag(f.affected), f.execErr
}

func (f *fakeTx) Query(context.Context, string, ...any) (Rows, error) {
	if f.rows == nil {
		return &fakeRows{}, nil
	}
	return f.rows, nil
}

func (f *fakeTx) QueryRow(context.Context, string, ...any) Row { return f.row }

func (f *fakeTx) Tx(_ context.Context, fn func(q RowQuerier) error) error {
	f.mu.Lock()
	f.txCalls++
	var err error
	if len(f.txErrs) > 0 {
		err, f.txErrs = f.txErrs[0], f.txErrs[1:]
	}
	f.mu.Unlock()
	if err != nil {
		return err
	}
	return fn(f)
}

func (f *fakeTx) Ping(context.Context) error { return f.pingErr }
func (f *fakeTx) Close() error               { f.closed = true; return f.closeErr }

// fakeCH is a Clickhouse seam recording calls
type fakeCH struct {
	execs     []string
	inserts   map[string][][]any
	insertErr error
	pingErr   error
	closed    bool
}

func (f *fakeCH) Insert(_ context.Context, table string, rows [][]any) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	if f.inserts == nil {
		f.inserts = map[string][][]any{}
	}
	f.inserts[table] = append(f.inserts[table], rows...)
	return nil
}

func (f *fakeCH) Exec(_ context.Context, sql string, _ ...any) error {
	f.execs = append(f.execs, sql)
	return nil
}

func (f *fakeCH) Query(context.Context, string, ...any) (Rows, error) { return &fakeRows{}, nil }
func (f *fakeCH) Ping(context.Context) error                          { return f.pingErr }
func (f *fakeCH) Close() error                                        { f.closed = true; return nil }
