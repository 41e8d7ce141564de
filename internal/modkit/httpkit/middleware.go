package httpkit

import (
	"compress/flate"
	"net/http"
	"time"

	"branchsync/internal/platform/config"
	"branchsync/internal/platform/net/middleware"
)

// StackOptions tunes CommonStackWith
type StackOptions struct {
	Timeout     time.Duration
	SlowRequest time.Duration
	// MaxInFlight caps concurrent requests; 0 disables throttling
	MaxInFlight int
	CORS        middleware.CORSOptions
}

// DefaultStackOptions is 30s timeout, 2s slow log, no throttle, open CORS
func DefaultStackOptions() StackOptions {
	return StackOptions{Timeout: 30 * time.Second, SlowRequest: 2 * time.Second}
}

// StackOptionsFromConfig reads CORE_API_* overrides on top of the defaults
func StackOptionsFromConfig(cfg config.Conf) StackOptions {
	c := cfg.Prefix("CORE_API_")
	o := DefaultStackOptions()
	o.Timeout = c.MayDuration("REQUEST_TIMEOUT", o.Timeout)
	o.SlowRequest = c.MayDuration("SLOW_REQUEST", o.SlowRequest)
	o.MaxInFlight = c.MayInt("MAX_IN_FLIGHT", o.MaxInFlight)
	o.CORS.AllowedOrigins = c.MayCSV("CORS_ORIGINS", nil)
	return o
}

// CommonStack is CommonStackWith(DefaultStackOptions())
func CommonStack() []func(http.Handler) http.Handler {
	return CommonStackWith(DefaultStackOptions())
}

// CommonStackWith returns the baseline API middleware slice, outermost first
// The heartbeat is mounted at the root router, not here
func CommonStackWith(o StackOptions) []func(http.Handler) http.Handler {
	stack := []func(http.Handler) http.Handler{
		// correlation
		middleware.RequestID(),
		middleware.LogContext(),
		middleware.RealIP(),

		// safety
		middleware.RecoverJSON,
		middleware.NoCache(),

		// observability
		middleware.AccessLogZerolog(middleware.AccessLogOptions{Slow: o.SlowRequest}),

		middleware.CORS(o.CORS),
		middleware.Compress(flate.BestSpeed),
		middleware.StripSlashes(),
	}
	if o.MaxInFlight > 0 {
		stack = append(stack, middleware.Throttle(o.MaxInFlight))
	}
	if o.Timeout > 0 {
		stack = append(stack, middleware.Timeout(o.Timeout))
	}
	return append(stack, middleware.AllowContentType("application/json"))
}
