package module

import (
	"branchsync/internal/core/changelog"
	"branchsync/internal/platform/config"
	"branchsync/internal/services/changes/service"
)

// FromConfig reads the CORE_CHANGES_ settings
func FromConfig(cfg config.Conf) service.Config {
	c := cfg.Prefix("CORE_CHANGES_")
	return service.Config{
		TZOffsetHours: c.MayInt("TZ_OFFSET_HOURS", 3),
		Lookback:      c.MayDuration("LOOKBACK", changelog.Month),
	}
}
