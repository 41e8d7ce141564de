package module

import "branchsync/internal/services/reconcile/domain"

// Ports is what reconcile exposes to other modules
type Ports struct {
	Reconciler domain.ServicePort
}

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }
