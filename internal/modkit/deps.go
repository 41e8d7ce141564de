// Package modkit provides module wiring and core deps
package modkit

import (
	"branchsync/internal/modkit/repokit"
	"branchsync/internal/platform/config"
	"branchsync/internal/platform/logger"
	"branchsync/internal/platform/store"
)

// Deps holds core dependencies passed to modules
// PG and CH are nil when the backend is disabled; modules degrade to stateless operations
type Deps struct {
	Log logger.Logger
	Cfg config.Conf
	PG  repokit.TxRunner
	CH  repokit.Clickhouse
}

// FromStore fills the backend seams from an opened store
func FromStore(log logger.Logger, cfg config.Conf, st *store.Store) Deps {
	d := Deps{Log: log, Cfg: cfg}
	if st != nil {
		d.PG = st.PG
		d.CH = st.CH
	}
	return d
}
