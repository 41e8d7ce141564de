package repotest

import (
	"context"
	"sync"

	"branchsync/internal/modkit/repokit"
)

// Insert is one recorded batch
type Insert struct {
	Table string
	Rows  [][]any
}

// CH is an in-memory repokit.Clickhouse
type CH struct {
	mu      sync.Mutex
	inserts []Insert
	queries []Call

	// Err fails every call when set
	Err error
	// QueryFn answers Query; nil yields empty rows
	QueryFn func(sql string, args []any) (repokit.Rows, error)
}

// Inserts returns a copy of all recorded batches
func (c *CH) Inserts() []Insert {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Insert(nil), c.inserts...)
}

// Queries returns a copy of all recorded reads
func (c *CH) Queries() []Call {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Call(nil), c.queries...)
}

func (c *CH) Insert(_ context.Context, table string, rows [][]any) error {
	if c.Err != nil {
		return c.Err
	}
	c.mu.Lock()
	c.inserts = append(c.inserts, Insert{Table: table, Rows: rows})
	c.mu.Unlock()
	return nil
}

func (c *CH) Exec(_ context.Context, sql string, args ...any) error {
	c.mu.Lock()
	c.queries = append(c.queries, Call{SQL: sql, Args: args})
	c.mu.Unlock()
	return c.Err
}

func (c *CH) Query(_ context.Context, sql string, args ...any) (repokit.Rows, error) {
	c.mu.Lock()
	c.queries = append(c.queries, Call{SQL: sql, Args: args})
	c.mu.Unlock()
	if c.Err != nil {
		return nil, c.Err
	}
	if c.QueryFn == nil {
		return NewRows(nil), nil
	}
	return c.QueryFn(sql, args)
}

func (c *CH) Ping(context.Context) error { return c.Err }
func (c *CH) Close() error               { return nil }
