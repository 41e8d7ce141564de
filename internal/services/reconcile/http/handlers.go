// Package http provides http transport for reconcile
package http

import (
	stdhttp "net/http"

	"branchsync/internal/modkit/httpkit"
	"branchsync/internal/services/reconcile/domain"
	svc "branchsync/internal/services/reconcile/service"
)

// MaxRunBody bounds a full feed plus listing upload
const MaxRunBody = 64 << 20

// Register mounts reconcile endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}

	// full pass over a feed and a listing
	httpkit.PostJSON[domain.RunInput](r, "/run", h.run, httpkit.BulkJSON(MaxRunBody))

	// single address canonical form
	httpkit.PostJSON[domain.NormalizeInput](r, "/normalize", h.normalize)

	// single hours text check
	httpkit.PostJSON[domain.ScheduleInput](r, "/schedule", h.schedule)
}

type handlers struct{ svc svc.Service }

func (h *handlers) run(r *stdhttp.Request, in domain.RunInput) (any, error) {
	return h.svc.Run(r.Context(), in)
}

func (h *handlers) normalize(r *stdhttp.Request, in domain.NormalizeInput) (any, error) {
	return h.svc.Normalize(r.Context(), in)
}

func (h *handlers) schedule(r *stdhttp.Request, in domain.ScheduleInput) (any, error) {
	return h.svc.CheckSchedule(r.Context(), in)
}
