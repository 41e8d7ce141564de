package module

import (
	"time"

	"branchsync/internal/core/snapshot"
	"branchsync/internal/platform/config"
	"branchsync/internal/services/snapshots/service"
)

// FromConfig reads the CORE_SNAPSHOT_ settings
func FromConfig(cfg config.Conf) service.Config {
	c := cfg.Prefix("CORE_SNAPSHOT_")
	return service.Config{
		Published:   c.MayCSV("PUBLISHED_STATUSES", snapshot.DefaultPublished),
		LockTimeout: c.MayDuration("LOCK_TIMEOUT", 5*time.Second),
		TxAttempts:  c.MayInt("TX_ATTEMPTS", 3),
	}
}
