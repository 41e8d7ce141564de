package domain

import (
	"context"

	"branchsync/internal/core/address"
)

// ServicePort is consumed by handlers, the reconcile binary and other modules
type ServicePort interface {
	Run(ctx context.Context, in RunInput) (RunResult, error)
	Normalize(ctx context.Context, in NormalizeInput) (address.Normalized, error)
	CheckSchedule(ctx context.Context, in ScheduleInput) (ScheduleResult, error)
}
