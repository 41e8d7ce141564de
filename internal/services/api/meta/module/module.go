// Package module wires meta endpoints into the API using a tiny module
package module

import (
	"net/http"
	"time"

	"branchsync/internal/core/changelog"
	modkit "branchsync/internal/modkit"
	"branchsync/internal/modkit/httpkit"
	str "branchsync/internal/platform/strings"

	metahttp "branchsync/internal/services/api/meta/http"
	recmod "branchsync/internal/services/reconcile/module"
	snapmod "branchsync/internal/services/snapshots/module"
)

// ServiceName is what meta reports for the API binary
const ServiceName = "branchsync-api"

// Module implements the modkit.Module interface
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string
	mws    []func(http.Handler) http.Handler

	subrouter func(httpkit.Router) httpkit.Router
	register  func(httpkit.Router)

	startedAt time.Time
}

// New constructs a meta module with the provided dependencies and options
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("meta"),
		modkit.WithPrefix("/meta"),
	}, opts...)...)

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		subrouter: b.Subrouter,
		startedAt: time.Now(),
	}

	hd := metahttp.Deps{
		ServiceName: ServiceName,
		StartedAt:   m.startedAt,
		PG:          deps.PG,
		CH:          deps.CH,
		Rules:       rulesFromConfig(deps),
	}

	external := b.Register
	m.register = func(r httpkit.Router) {
		metahttp.Register(r, hd)
		if external != nil {
			external(r)
		}
	}

	return m
}

func rulesFromConfig(deps modkit.Deps) metahttp.RulesResponse {
	rs := changelog.MustLoad()
	rc := recmod.FromConfig(deps.Cfg)
	sc := snapmod.FromConfig(deps.Cfg)

	cats := make([]string, 0, len(changelog.Categories()))
	for _, c := range changelog.Categories() {
		cats = append(cats, string(c))
	}
	return metahttp.RulesResponse{
		CategorizerVersion: rs.Version,
		Categories:         cats,
		StrictThreshold:    rc.Thresholds.Strict,
		WeakThreshold:      rc.Thresholds.Weak,
		ToleranceMinutes:   rc.ToleranceMinutes,
		ApplyTolerance:     rc.ApplyTolerance,
		PublishedStatuses:  sc.Published,
	}
}

// MountRoutes implements the modkit.Module interface
func (m *Module) MountRoutes(r httpkit.Router) {
	httpkit.MountUnder(r, m.prefix, m.mws, func(rr httpkit.Router) {
		if m.subrouter != nil {
			rr = m.subrouter(rr)
		}
		if m.register != nil {
			m.register(rr)
		}
	})
}

// Name implements the modkit.Module interface
func (m *Module) Name() string { return str.MustString(m.name, "meta") }

// Prefix implements the modkit.Module interface
func (m *Module) Prefix() string { return str.MustPrefix(m.prefix) }

// Middlewares implements the modkit.Module interface
func (m *Module) Middlewares() []func(http.Handler) http.Handler { return m.mws }

// Ports implements the modkit.Module interface
func (m *Module) Ports() any { return nil }
