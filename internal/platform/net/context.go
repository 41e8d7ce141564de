// Package net holds transport-neutral request helpers: context ids and the reply envelope
package net

import (
	"context"

	"branchsync/internal/platform/logger"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// WithRequest stores reqID where both chi and the logger look for it
func WithRequest(ctx context.Context, reqID string) context.Context {
	if reqID == "" {
		return ctx
	}
	ctx = context.WithValue(ctx, chimw.RequestIDKey, reqID)
	return logger.WithRequest(ctx, reqID)
}

// RequestID returns the request id on ctx, or ""
func RequestID(ctx context.Context) string { return chimw.GetReqID(ctx) }

// WithRun tags ctx with a reconcile run id for logging and persistence
func WithRun(ctx context.Context, runID string) context.Context { return logger.WithRun(ctx, runID) }

// RunID returns the reconcile run id on ctx, or ""
func RunID(ctx context.Context) string { return logger.RunID(ctx) }
