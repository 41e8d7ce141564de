package module

import (
	"branchsync/internal/core/address"
	"branchsync/internal/platform/config"
	"branchsync/internal/services/reconcile/service"
)

// FromConfig reads the CORE_RECONCILE_, CORE_MATCH_ and CORE_SCHEDULE_ settings
func FromConfig(cfg config.Conf) service.Config {
	rc := cfg.Prefix("CORE_RECONCILE_")
	mc := cfg.Prefix("CORE_MATCH_")
	sc := cfg.Prefix("CORE_SCHEDULE_")

	def := address.DefaultThresholds()
	return service.Config{
		Workers:    rc.MayInt("WORKERS", 4),
		TxAttempts: rc.MayInt("TX_ATTEMPTS", 3),
		Thresholds: address.Thresholds{
			Strict: mc.MayFloat64("STRICT_THRESHOLD", def.Strict),
			Weak:   mc.MayFloat64("WEAK_THRESHOLD", def.Weak),
		},
		ToleranceMinutes: sc.MayInt("TOLERANCE_MINUTES", 0),
		ApplyTolerance:   sc.MayBool("APPLY_TOLERANCE", false),
	}
}
