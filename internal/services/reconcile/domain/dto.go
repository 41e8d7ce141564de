// Package domain holds DTOs for reconcile http and service contracts
package domain

import (
	"time"

	"branchsync/internal/core/address"
	"branchsync/internal/core/schedule"
)

// Record fields follow the feeds' own JSON, hence camelCase

// CanonicalRecord is one location from the canonical feed
type CanonicalRecord struct {
	CompanyID   string  `json:"companyId" validate:"required,notblank"`
	Name        string  `json:"name"`
	Address     string  `json:"address"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	WorkingTime string  `json:"workingTime"`
}

// ExternalRecord is one scraped listing entry; every field may be missing
type ExternalRecord struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Address   string  `json:"address"`
	HoursText string  `json:"hoursText"`
	Status    *string `json:"status,omitempty"`
	URL       string  `json:"url,omitempty"`
}

// RunInput is a full reconcile pass
type RunInput struct {
	Canonical []CanonicalRecord `json:"canonical" validate:"required,min=1,dive"`
	External  []ExternalRecord  `json:"external" validate:"omitempty,dive"`
	// IDMap overrides the stored canonical to external pairings; nil loads them from the store
	IDMap map[string]string `json:"id_map,omitempty"`
	// Persist writes the run report and the updated id map
	Persist bool `json:"persist"`
}

// Discrepancy kinds
const (
	KindNotFound = "not_found"
	KindSchedule = "schedule"
)

// Discrepancy is one reportable problem for a canonical location
type Discrepancy struct {
	Kind      string   `json:"kind"`
	CompanyID string   `json:"companyId"`
	Name      string   `json:"name"`
	Address   string   `json:"address"`
	Expected  string   `json:"expected"`
	Actual    string   `json:"actual,omitempty"`
	URL       string   `json:"url,omitempty"`
	Reasons   []string `json:"reasons,omitempty"`
}

// RunCounts summarizes a run
type RunCounts struct {
	Canonical    int `json:"canonical"`
	Candidates   int `json:"candidates"`
	Matched      int `json:"matched"`
	Cached       int `json:"cached"`
	NotFound     int `json:"not_found"`
	Mismatched   int `json:"mismatched"`
	Unverifiable int `json:"unverifiable"`
}

// RunResult is the outcome of Run
type RunResult struct {
	RunID         string                `json:"run_id"`
	StartedAt     time.Time             `json:"started_at"`
	FinishedAt    time.Time             `json:"finished_at"`
	Counts        RunCounts             `json:"counts"`
	Matches       []address.MatchResult `json:"matches"`
	Discrepancies []Discrepancy         `json:"discrepancies"`
	IDMap         map[string]string     `json:"id_map"`
	Persisted     bool                  `json:"persisted"`
}

// NormalizeInput asks for the canonical form of one address
type NormalizeInput struct {
	Address string `json:"address" validate:"required"`
}

// ScheduleInput checks one canonical hours text, optionally against a scraped one
type ScheduleInput struct {
	WorkingTime string `json:"workingTime" validate:"required"`
	HoursText   string `json:"hoursText,omitempty"`
}

// ScheduleResult is the parsed schedule plus the verdict when HoursText was given
type ScheduleResult struct {
	Schedule    schedule.Schedule     `json:"schedule"`
	Known       bool                  `json:"known"`
	Expected    string                `json:"expected"`
	Discrepancy *schedule.Discrepancy `json:"discrepancy,omitempty"`
}
