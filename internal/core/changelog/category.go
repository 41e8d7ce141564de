// Package changelog classifies change-log entries and folds them into recency statistics
package changelog

// Category is the closed set of change kinds
type Category string

const (
	CategoryCoordinates Category = "coordinates"
	CategoryEntrances   Category = "entrances"
	CategorySchedule    Category = "schedule"
	CategoryContacts    Category = "contacts"
	CategoryNaming      Category = "naming"
	CategoryActivities  Category = "activities"
	CategoryServices    Category = "services"
	CategoryMedia       Category = "media"
	CategoryStatus      Category = "status"
	CategoryLinks       Category = "links"
	CategoryAddress     Category = "address"
	CategoryDescription Category = "description"
	CategoryPrices      Category = "prices"
	CategoryOther       Category = "other"
)

// Categories lists every key in rule order, other last
func Categories() []Category {
	return []Category{
		CategoryCoordinates, CategoryEntrances, CategorySchedule, CategoryContacts,
		CategoryNaming, CategoryActivities, CategoryServices, CategoryMedia,
		CategoryStatus, CategoryLinks, CategoryAddress, CategoryDescription,
		CategoryPrices, CategoryOther,
	}
}

// Valid reports whether c belongs to the closed set
func (c Category) Valid() bool {
	for _, k := range Categories() {
		if c == k {
			return true
		}
	}
	return false
}
