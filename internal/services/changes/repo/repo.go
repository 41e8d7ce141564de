// Package repo provides clickhouse access for the change log
package repo

import (
	"context"
	"time"

	"branchsync/internal/core/changelog"
	"branchsync/internal/modkit/repokit"
	perr "branchsync/internal/platform/errors"
)

// Repo is the persistence surface for change-log entries
type Repo interface {
	Insert(ctx context.Context, rows []Row) error
	Since(ctx context.Context, since time.Time) ([]Row, error)
}

// Row is one branch_change_log record
type Row struct {
	LocationID   string
	LocationName string
	Title        string
	Category     changelog.Category
	ChangeType   changelog.ChangeType
	OldValue     string
	NewValue     string
	Author       string
	RawTimestamp string
	// ChangedAt is nil when RawTimestamp did not parse
	ChangedAt *time.Time
}

// table lists columns in the order rows are appended
const table = `branch_change_log (location_id, location_name, title, category, change_type, old_value, new_value, author, raw_timestamp, changed_at)`

// CH implements Repo on the clickhouse seam
type CH struct{ ch repokit.Clickhouse }

// NewCH returns the clickhouse repo
func NewCH(ch repokit.Clickhouse) *CH {
	if ch == nil {
		panic("changes.repo requires a non nil Clickhouse")
	}
	return &CH{ch: ch}
}

// Insert appends rows in one batch
func (r *CH) Insert(ctx context.Context, rows []Row) error {
	if len(rows) == 0 {
		return nil
	}
	batch := make([][]any, 0, len(rows))
	for _, x := range rows {
		batch = append(batch, []any{
			x.LocationID,
			x.LocationName,
			x.Title,
			string(x.Category),
			string(x.ChangeType),
			x.OldValue,
			x.NewValue,
			x.Author,
			x.RawTimestamp,
			x.ChangedAt,
		})
	}
	return perr.FromClickhousef(r.ch.Insert(ctx, table, batch), "insert %d change rows", len(rows))
}

// Since reads entries changed at or after since; entries without a parsed time count by ingestion
func (r *CH) Since(ctx context.Context, since time.Time) ([]Row, error) {
	const sql = `
SELECT location_id, location_name, title, category, change_type, old_value, new_value, author, raw_timestamp
FROM branch_change_log FINAL
WHERE changed_at >= ? OR (changed_at IS NULL AND ingested_at >= ?)
ORDER BY location_id, changed_at`

	rs, err := r.ch.Query(ctx, sql, since, since)
	if err != nil {
		return nil, perr.FromClickhouse(err, "read change log")
	}
	defer rs.Close()

	var out []Row
	for rs.Next() {
		var x Row
		var cat, typ string
		if err := rs.Scan(&x.LocationID, &x.LocationName, &x.Title, &cat, &typ,
			&x.OldValue, &x.NewValue, &x.Author, &x.RawTimestamp); err != nil {
			return nil, perr.FromClickhouse(err, "scan change log")
		}
		x.Category = changelog.Category(cat)
		x.ChangeType = changelog.ChangeType(typ)
		out = append(out, x)
	}
	if err := rs.Err(); err != nil {
		return nil, perr.FromClickhouse(err, "read change log")
	}
	return out, nil
}
