// Package http provides http transport for snapshot diffs
package http

import (
	stdhttp "net/http"

	"branchsync/internal/modkit/httpkit"
	"branchsync/internal/services/snapshots/domain"
	svc "branchsync/internal/services/snapshots/service"
)

// MaxListingBody bounds posted listings
const MaxListingBody = 32 << 20

// Register mounts snapshot endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}
	bulk := httpkit.BulkJSON(MaxListingBody)

	httpkit.PostJSON[domain.DiffInput](r, "/diff", h.diff, bulk)
	httpkit.PostJSON[domain.CommitInput](r, "/commit", h.commit, bulk)
	httpkit.Get(r, "/stored", h.stored)
}

type handlers struct{ svc svc.Service }

func (h *handlers) diff(r *stdhttp.Request, in domain.DiffInput) (any, error) {
	return h.svc.Diff(r.Context(), in)
}

func (h *handlers) commit(r *stdhttp.Request, in domain.CommitInput) (any, error) {
	res, err := h.svc.Commit(r.Context(), in)
	if err != nil {
		return nil, err
	}
	return httpkit.Created(res), nil
}

func (h *handlers) stored(r *stdhttp.Request) (any, error) {
	return h.svc.Stored(r.Context())
}
