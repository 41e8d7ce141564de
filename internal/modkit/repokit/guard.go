package repokit

import (
	"context"
	"fmt"
	"time"
)

// Guarder reports readiness of every configured backend, e.g. *store.Store
type Guarder interface {
	Guard(context.Context) error
}

// DefaultGuardTimeout bounds MustGuard when ctx carries no deadline
const DefaultGuardTimeout = 5 * time.Second

// MustGuard panics when a configured backend does not answer; used at process startup
func MustGuard(ctx context.Context, g Guarder) {
	if g == nil {
		panic("repokit: nil guarder")
	}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultGuardTimeout)
		defer cancel()
	}
	if err := g.Guard(ctx); err != nil {
		panic(fmt.Errorf("dependency guard failed: %w", err))
	}
}
