package domain

import (
	"context"

	"branchsync/internal/core/snapshot"
)

// ServicePort is consumed by handlers and other modules
type ServicePort interface {
	Diff(ctx context.Context, in DiffInput) (DiffResult, error)
	Commit(ctx context.Context, in CommitInput) (CommitResult, error)
	Stored(ctx context.Context) ([]snapshot.Branch, error)
}
