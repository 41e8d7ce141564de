// Package version reports build information stamped in at link time
package version

// BuildInfo holds version information about a binary
type BuildInfo struct {
	Service string `json:"service"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Info returns the build information for the named binary, e.g. "branchsync-api".
// Set via -ldflags "-X 'branchsync/internal/core/version.version=v0.1.0'
// -X 'branchsync/internal/core/version.commit=abcd' -X 'branchsync/internal/core/version.date=2026-03-01'"
func Info(service string) BuildInfo {
	return BuildInfo{
		Service: service,
		Version: version,
		Commit:  commit,
		Date:    date,
	}
}

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)
