package domain

import (
	"context"

	"branchsync/internal/core/changelog"
)

// ServicePort is consumed by handlers and other modules
type ServicePort interface {
	Categorize(ctx context.Context, in CategorizeInput) ([]Categorized, error)
	Stats(ctx context.Context, in StatsInput) (changelog.Stats, error)
	Ingest(ctx context.Context, in IngestInput) (IngestResult, error)
	StoredStats(ctx context.Context) (changelog.Stats, error)
}
