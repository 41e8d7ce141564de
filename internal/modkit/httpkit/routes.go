package httpkit

import (
	"net/http"
	"strings"
)

// MountUnder mounts a subrouter at prefix and applies per-module middlewares.
// An empty or "/" prefix mounts into a group on r itself
func MountUnder(r Router, prefix string, mw []func(http.Handler) http.Handler, mount func(Router)) {
	apply := func(sub Router) {
		if len(mw) > 0 {
			sub.Use(mw...)
		}
		mount(sub)
	}
	if p := strings.TrimRight(prefix, "/"); p != "" {
		r.Route(p, apply)
		return
	}
	r.Group(apply)
}
