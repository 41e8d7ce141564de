package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"branchsync/internal/modkit/repokit"
	"branchsync/internal/platform/config"
	"branchsync/internal/platform/logger"
	phttp "branchsync/internal/platform/net/http"
	"branchsync/internal/platform/store"

	"branchsync/internal/services/api"
)

func main() {
	logger.Init(logger.FromEnv())
	l := logger.Get()

	root := config.New()
	// service-scoped config for HTTP etc (CORE_API_*)
	apiCfg := root.Prefix("CORE_API_")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// postgres and clickhouse are each optional (SERVICE_PGSQL_ENABLED / SERVICE_CLICKHOUSE_ENABLED)
	st, err := store.Open(ctx, store.FromConfig(root, "api"), store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	if root.Prefix("SERVICE_PGSQL_").MayBool("MIGRATE", false) {
		if err := st.Migrate(ctx); err != nil {
			l.Panic().Err(err).Msg("migrate failed")
		}
	}
	repokit.MustGuard(ctx, st)

	// http server (reads CORE_API_PORT etc)
	srv := phttp.NewServer(apiCfg)

	api.Mount(srv.Router(), api.Options{
		Config:         root,
		Store:          st,
		Logger:         l,
		EnableProfiler: apiCfg.MayBool("PROFILER", false),
	})

	if err := srv.Run(ctx); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
}
