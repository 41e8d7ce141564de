// Package module looks up the ports other modules expose, either from a module value or by the
// name it was registered under while the API was composed
package module

import "branchsync/internal/modkit"

// Module is modkit.Module; the alias keeps call sites of this package free of the modkit import
type Module = modkit.Module
