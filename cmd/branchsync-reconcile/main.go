package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"branchsync/internal/modkit/repokit"
	"branchsync/internal/platform/config"
	"branchsync/internal/platform/logger"
	"branchsync/internal/platform/net/http/bind"
	"branchsync/internal/platform/store"

	recdom "branchsync/internal/services/reconcile/domain"
	"branchsync/internal/services/reconcile/guardrails"
	recmod "branchsync/internal/services/reconcile/module"
	recrepo "branchsync/internal/services/reconcile/repo"
	recsvc "branchsync/internal/services/reconcile/service"
)

type flags struct {
	canonical string
	external  string
	idmap     string
	out       string
	workers   int
	persist   bool
	leaseTTL  time.Duration
}

func parseFlags(args []string) (flags, error) {
	var f flags
	fs := flag.NewFlagSet("branchsync-reconcile", flag.ContinueOnError)
	fs.StringVar(&f.canonical, "canonical", "", "canonical feed, a JSON array of records (required)")
	fs.StringVar(&f.external, "external", "", "scraped listing, a JSON array of records")
	fs.StringVar(&f.idmap, "idmap", "", "id map JSON object; read when present and rewritten after the run")
	fs.StringVar(&f.out, "out", "-", "where to write the run result, - for stdout")
	fs.IntVar(&f.workers, "workers", 0, "matching workers, 0 keeps CORE_RECONCILE_WORKERS")
	fs.BoolVar(&f.persist, "persist", false, "store the run report and id map in postgres")
	fs.DurationVar(&f.leaseTTL, "lease-ttl", 10*time.Minute, "how long a persisting run holds the run lease")
	if err := fs.Parse(args); err != nil {
		return f, err
	}
	if f.canonical == "" {
		return f, fmt.Errorf("-canonical is required")
	}
	return f, nil
}

func readJSON[T any](path string, into *T) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, into); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

func writeJSON(path string, stdout io.Writer, v any) error {
	w := stdout
	if path != "-" {
		fh, err := os.Create(path)
		if err != nil {
			return err
		}
		defer fh.Close()
		w = fh
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// loadInput reads the feed files named by f into a validated run input
func loadInput(f flags) (recdom.RunInput, error) {
	in := recdom.RunInput{Persist: f.persist}
	if err := readJSON(f.canonical, &in.Canonical); err != nil {
		return in, err
	}
	if f.external != "" {
		if err := readJSON(f.external, &in.External); err != nil {
			return in, err
		}
	}
	if f.idmap != "" {
		if _, err := os.Stat(f.idmap); err == nil {
			if err := readJSON(f.idmap, &in.IDMap); err != nil {
				return in, err
			}
			if in.IDMap == nil {
				in.IDMap = map[string]string{}
			}
		}
	}
	return in, bind.Struct(in)
}

// run executes one reconcile pass; db may be nil when nothing is persisted
func run(ctx context.Context, f flags, root config.Conf, db repokit.TxRunner, stdout io.Writer) (recdom.RunResult, error) {
	in, err := loadInput(f)
	if err != nil {
		return recdom.RunResult{}, err
	}

	cfg := recmod.FromConfig(root)
	if f.workers > 0 {
		cfg.Workers = f.workers
	}
	res, err := recsvc.New(db, recrepo.NewPG(), cfg).Run(ctx, in)
	if err != nil {
		return res, err
	}

	if f.idmap != "" {
		if err := writeJSON(f.idmap, stdout, res.IDMap); err != nil {
			return res, err
		}
	}
	return res, writeJSON(f.out, stdout, res)
}

// storeConfig reads the store settings; persisting needs postgres whatever SERVICE_PGSQL_ENABLED says
func storeConfig(root config.Conf, persist bool) store.Config {
	cfg := store.FromConfig(root, "reconcile")
	if persist && !cfg.PG.Enabled {
		cfg.PG = store.PGFromConfig(root, true)
	}
	return cfg
}

func main() {
	logger.Init(logger.FromEnv())
	l := logger.Get()

	f, err := parseFlags(os.Args[1:])
	if err != nil {
		l.Fatal().Err(err).Msg("bad flags")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := config.New()
	var db repokit.TxRunner
	if f.persist {
		st, err := store.Open(ctx, storeConfig(root, f.persist), store.WithLogger(*l))
		if err != nil {
			l.Fatal().Err(err).Msg("store.Open failed")
		}
		defer func() {
			if err := st.Close(context.Background()); err != nil {
				l.Error().Err(err).Msg("failed to close store")
			}
		}()
		repokit.MustGuard(ctx, st)
		db = st.PG
	}

	var res recdom.RunResult
	do := func(ctx context.Context) (err error) {
		res, err = run(ctx, f, root, db, os.Stdout)
		return err
	}
	if db != nil {
		// one persisting run at a time; the id map is read then rewritten
		err = guardrails.MakeLease(db, "reconcile", "branchsync-reconcile", f.leaseTTL)(ctx, do)
	} else {
		err = do(ctx)
	}
	if err != nil {
		l.Fatal().Err(err).Msg("reconcile failed")
	}
	l.Info().
		Str("run_id", res.RunID).
		Int("not_found", res.Counts.NotFound).
		Int("mismatched", res.Counts.Mismatched).
		Bool("persisted", res.Persisted).
		Msg("reconcile done")
}
