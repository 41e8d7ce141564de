// Package domain holds DTOs for the change-log http and service contracts
package domain

import "branchsync/internal/core/changelog"

// EntryInput is one scraped change-log line
type EntryInput struct {
	Title     string             `json:"title" validate:"required"`
	Timestamp string             `json:"timestamp"`
	Category  changelog.Category `json:"category,omitempty"`
	OldValue  string             `json:"old_value,omitempty"`
	NewValue  string             `json:"new_value,omitempty"`
	Author    string             `json:"author,omitempty"`
}

// LocationInput is the change history scraped for one location
type LocationInput struct {
	ID      string       `json:"id" validate:"required"`
	Name    string       `json:"name,omitempty"`
	Changes []EntryInput `json:"changes" validate:"dive"`
}

// CategorizeInput classifies bare titles
type CategorizeInput struct {
	Titles []string `json:"titles" validate:"required,min=1,dive,required"`
}

// Categorized is one classified title
type Categorized struct {
	Title    string             `json:"title"`
	Category changelog.Category `json:"category"`
}

// StatsInput aggregates the posted histories
type StatsInput struct {
	Locations []LocationInput `json:"locations" validate:"required,dive"`
}

// IngestInput stores categorized histories
type IngestInput struct {
	Locations []LocationInput `json:"locations" validate:"required,min=1,dive"`
}

// IngestResult reports what was written
type IngestResult struct {
	Locations   int `json:"locations"`
	Rows        int `json:"rows"`
	Unparseable int `json:"unparseable"`
}

// ToLocations converts inputs into core values
func ToLocations(in []LocationInput) []changelog.Location {
	out := make([]changelog.Location, 0, len(in))
	for _, l := range in {
		loc := changelog.Location{ID: l.ID, Name: l.Name, Changes: make([]changelog.Entry, 0, len(l.Changes))}
		for _, e := range l.Changes {
			loc.Changes = append(loc.Changes, changelog.Entry{
				Title:     e.Title,
				Timestamp: e.Timestamp,
				Category:  e.Category,
				OldValue:  e.OldValue,
				NewValue:  e.NewValue,
				Author:    e.Author,
			})
		}
		out = append(out, loc)
	}
	return out
}
