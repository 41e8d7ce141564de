package store

import (
	"time"

	"branchsync/internal/platform/config"
)

// Config aggregates per backend configuration
type Config struct {
	AppName string

	PG PGConfig
	CH CHConfig
}

// PGConfig configures postgres connectivity and tracing
type PGConfig struct {
	Enabled     bool
	URL         string
	MaxConns    int32
	LogSQL      bool
	SlowQueryMs int

	// boot knobs, zero means the openPG defaults
	ConnectRetries int
	PingTimeout    time.Duration
}

// CHConfig configures clickhouse connectivity
type CHConfig struct {
	Enabled      bool
	URL          string
	MaxOpenConns int
	DialTimeout  time.Duration

	// ClientName and ClientTag end up in system.query_log client info
	ClientName string
	ClientTag  string
}

// FromConfig reads SERVICE_PGSQL_* and SERVICE_CLICKHOUSE_* under root
// role names the binary in client info, e.g. "api" or "reconcile"
func FromConfig(root config.Conf, role string) Config {
	pgc := root.Prefix("SERVICE_PGSQL_")
	chc := root.Prefix("SERVICE_CLICKHOUSE_")

	cfg := Config{AppName: "branchsync-" + role}

	cfg.PG = PGFromConfig(root, pgc.MayBool("ENABLED", false))

	cfg.CH = CHConfig{Enabled: chc.MayBool("ENABLED", false)}
	if cfg.CH.Enabled {
		cfg.CH.URL = chc.MustString("DBURL")
		cfg.CH.MaxOpenConns = chc.MayInt("MAX_OPEN_CONNS", 4)
		cfg.CH.DialTimeout = chc.MayDuration("DIAL_TIMEOUT", 5*time.Second)
		cfg.CH.ClientName = role
		cfg.CH.ClientTag = chc.MayString("CLIENT_TAG", "dev")
	}

	return cfg
}

// PGFromConfig reads SERVICE_PGSQL_* with the enabled flag decided by the caller.
// Commands that cannot run without postgres pass true regardless of SERVICE_PGSQL_ENABLED
func PGFromConfig(root config.Conf, enabled bool) PGConfig {
	if !enabled {
		return PGConfig{}
	}
	pgc := root.Prefix("SERVICE_PGSQL_")
	return PGConfig{
		Enabled:        true,
		URL:            pgc.MustString("DBURL"),
		MaxConns:       int32(pgc.MayInt("MAX_CONNS", 8)),
		LogSQL:         pgc.MayBool("LOG_SQL", false),
		SlowQueryMs:    pgc.MayInt("SLOW_MS", 250),
		ConnectRetries: pgc.MayInt("CONNECT_RETRIES", 20),
		PingTimeout:    pgc.MayDuration("PING_TIMEOUT", 3*time.Second),
	}
}
