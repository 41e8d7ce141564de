// Package api composes the branchsync HTTP API from its modules
package api

import (
	"branchsync/internal/platform/config"
	"branchsync/internal/platform/logger"
	phttp "branchsync/internal/platform/net/http"
	"branchsync/internal/platform/net/middleware"
	"branchsync/internal/platform/store"

	"branchsync/internal/modkit"
	"branchsync/internal/modkit/httpkit"
	"branchsync/internal/modkit/module"

	metamod "branchsync/internal/services/api/meta/module"
	changesmod "branchsync/internal/services/changes/module"
	reconcilemod "branchsync/internal/services/reconcile/module"
	snapshotsmod "branchsync/internal/services/snapshots/module"
)

// Options are the API options
type Options struct {
	// Config is the root view; modules read their own prefixes from it
	Config         config.Conf
	Store          *store.Store
	Logger         *logger.Logger
	EnableProfiler bool
}

// Mount mounts the API service onto the given router and returns the mounted modules
func Mount(r phttp.Router, opt Options) []modkit.Module {
	log := opt.Logger
	if log == nil {
		log = logger.Get()
	}

	// load balancer probe, answered before any routing
	r.Use(middleware.Heartbeat("/health"))

	// shared deps for modules
	deps := modkit.FromStore(*log, opt.Config, opt.Store)

	mods := []modkit.Module{
		metamod.New(deps),
		reconcilemod.New(deps),
		changesmod.New(deps),
		snapshotsmod.New(deps),
	}

	phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

	// versioned API with a common middleware stack
	httpkit.MountAPIV1(r, httpkit.CommonStackWith(httpkit.StackOptionsFromConfig(opt.Config)), func(api httpkit.Router) {
		for _, m := range mods {
			// register each module's ports under its own name (for cross-module lookups)
			module.Register(m.Name(), m.Ports())

			// mount module routes under its Prefix()
			m.MountRoutes(api)
		}
	})

	log.Info().
		Int("modules", len(mods)).
		Bool("pg", deps.PG != nil).
		Bool("ch", deps.CH != nil).
		Bool("profiler", opt.EnableProfiler).
		Msg("api mounted")
	return mods
}
