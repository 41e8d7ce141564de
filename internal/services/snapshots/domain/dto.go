// Package domain holds DTOs for snapshot http and service contracts
package domain

import (
	"time"

	"branchsync/internal/core/snapshot"
)

// Where the previous snapshot of a diff came from
const (
	SourcePayload = "payload"
	SourceStore   = "store"
	SourceEmpty   = "empty"
)

// DiffInput compares the current listing with a previous snapshot
type DiffInput struct {
	Current []snapshot.Current `json:"current" validate:"required"`
	// Previous is used when present; otherwise the stored snapshot is
	Previous []snapshot.Branch `json:"previous,omitempty"`
}

// DiffResult is the diff plus where its baseline came from
type DiffResult struct {
	snapshot.Result
	Source string `json:"source"`
}

// CommitInput replaces the stored snapshot with the eligible current records
type CommitInput struct {
	Current []snapshot.Current `json:"current" validate:"required"`
}

// CommitResult is the diff against the replaced snapshot
type CommitResult struct {
	snapshot.Result
	Stored     int       `json:"stored"`
	CapturedAt time.Time `json:"captured_at"`
}
