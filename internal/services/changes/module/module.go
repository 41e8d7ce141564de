// Package module wires the change log into the API using modkit
package module

import (
	"net/http"

	modkit "branchsync/internal/modkit"
	"branchsync/internal/modkit/httpkit"
	str "branchsync/internal/platform/strings"
	chhttp "branchsync/internal/services/changes/http"
	chrepo "branchsync/internal/services/changes/repo"
	chsvc "branchsync/internal/services/changes/service"
)

// Module implements the changes module
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws   []func(http.Handler) http.Handler
	ports any

	subrouter func(httpkit.Router) httpkit.Router
	register  func(httpkit.Router)

	svc chsvc.Service
}

// New constructs the changes module. Without deps.CH only the stateless endpoints work
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("changes"), modkit.WithPrefix("/changes")}, opts...)...)

	var r chrepo.Repo
	if deps.CH != nil {
		r = chrepo.NewCH(deps.CH)
	}
	svc := chsvc.New(r, FromConfig(deps.Cfg))

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		subrouter: b.Subrouter,
		svc:       svc,
	}
	m.ports = Ports{Changes: svc}

	external := b.Register
	m.register = func(r httpkit.Router) {
		chhttp.Register(r, m.svc)
		if external != nil {
			external(r)
		}
	}
	return m
}

// MountRoutes mounts the module routes on the given router
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

// Name returns the module name
func (m *Module) Name() string { return str.MustString(m.name, "module name") }

// Prefix returns the module route prefix
func (m *Module) Prefix() string { return str.MustPrefix(m.prefix) }

// Middlewares returns the module middlewares
func (m *Module) Middlewares() []func(http.Handler) http.Handler { return m.mws }
