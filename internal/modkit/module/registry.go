package module

import (
	"sort"
	"sync"
)

// process-wide port registry filled while the API is composed; lookups happen at request time
var (
	mu  sync.RWMutex
	reg = map[string]any{}
)

// Register stores the port set of a mounted module; a later call for the same name replaces it
func Register(name string, ports any) {
	mu.Lock()
	defer mu.Unlock()
	reg[name] = ports
}

// PortsAs fetches and type asserts a port set for name
func PortsAs[T any](name string) (T, bool) {
	mu.RLock()
	v, found := reg[name]
	mu.RUnlock()

	out, ok := v.(T)
	return out, found && ok
}

// Names lists the registered modules in name order
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(reg))
	for n := range reg {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Reset clears the registry for tests
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	clear(reg)
}
