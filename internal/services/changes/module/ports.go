package module

import "branchsync/internal/services/changes/domain"

// Ports is what the changes module exposes to other modules
type Ports struct {
	Changes domain.ServicePort
}

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }
