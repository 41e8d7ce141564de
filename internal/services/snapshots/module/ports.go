package module

import "branchsync/internal/services/snapshots/domain"

// Ports is what the snapshots module exposes to other modules
type Ports struct {
	Snapshots domain.ServicePort
}

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }
