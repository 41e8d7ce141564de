package store

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
)

//go:embed migrations/postgres/*.sql migrations/clickhouse/*.sql
var migrationsFS embed.FS

// Migrate applies the embedded idempotent DDL to every configured backend
// Files run in name order; each file may hold several ;-terminated statements
func (s *Store) Migrate(ctx context.Context) error {
	if s == nil {
		return nil
	}
	if s.PG != nil {
		err := applyDir(ctx, "migrations/postgres", func(ctx context.Context, stmt string) error {
			_, err := s.PG.Exec(ctx, stmt)
			return err
		})
		if err != nil {
			return fmt.Errorf("pg migrate: %w", err)
		}
	}
	if s.CH != nil {
		err := applyDir(ctx, "migrations/clickhouse", func(ctx context.Context, stmt string) error {
			return s.CH.Exec(ctx, stmt)
		})
		if err != nil {
			return fmt.Errorf("ch migrate: %w", err)
		}
	}
	s.Log.Info().Bool("pg", s.PG != nil).Bool("ch", s.CH != nil).Msg("migrations applied")
	return nil
}

func applyDir(ctx context.Context, dir string, exec func(context.Context, string) error) error {
	names, err := fs.Glob(migrationsFS, dir+"/*.sql")
	if err != nil {
		return err
	}
	sort.Strings(names)
	for _, name := range names {
		b, err := migrationsFS.ReadFile(name)
		if err != nil {
			return err
		}
		for i, stmt := range splitStatements(string(b)) {
			if err := exec(ctx, stmt); err != nil {
				return fmt.Errorf("%s stmt %d: %w", name, i+1, err)
			}
		}
	}
	return nil
}

// splitStatements cuts a DDL file on semicolons; the files carry no string literals with ';'
func splitStatements(src string) []string {
	var out []string
	for _, part := range strings.Split(src, ";") {
		if stmt := strings.TrimSpace(part); stmt != "" {
			out = append(out, stmt)
		}
	}
	return out
}
