// Package http provides http transport for the change log
package http

import (
	stdhttp "net/http"

	"branchsync/internal/modkit/httpkit"
	"branchsync/internal/services/changes/domain"
	svc "branchsync/internal/services/changes/service"
)

// MaxHistoryBody bounds posted change histories
const MaxHistoryBody = 32 << 20

// Register mounts change-log endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}
	bulk := httpkit.BulkJSON(MaxHistoryBody)

	httpkit.PostJSON[domain.CategorizeInput](r, "/categorize", h.categorize)
	httpkit.PostJSON[domain.StatsInput](r, "/stats", h.stats, bulk)
	httpkit.PostJSON[domain.IngestInput](r, "/ingest", h.ingest, bulk)

	// aggregate over what the change log already holds
	httpkit.Get(r, "/stats/stored", h.storedStats)
}

type handlers struct{ svc svc.Service }

func (h *handlers) categorize(r *stdhttp.Request, in domain.CategorizeInput) (any, error) {
	return h.svc.Categorize(r.Context(), in)
}

func (h *handlers) stats(r *stdhttp.Request, in domain.StatsInput) (any, error) {
	return h.svc.Stats(r.Context(), in)
}

func (h *handlers) ingest(r *stdhttp.Request, in domain.IngestInput) (any, error) {
	res, err := h.svc.Ingest(r.Context(), in)
	if err != nil {
		return nil, err
	}
	return httpkit.Created(res), nil
}

func (h *handlers) storedStats(r *stdhttp.Request) (any, error) {
	return h.svc.StoredStats(r.Context())
}
