package changelog

// Entry is one scraped change-log line. Entries are never mutated after capture.
type Entry struct {
	Title     string   `json:"title"`
	Timestamp string   `json:"timestamp"` // DD-MM-YYYY · HH:MM
	Category  Category `json:"category,omitempty"`
	OldValue  string   `json:"old_value,omitempty"`
	NewValue  string   `json:"new_value,omitempty"`
	Author    string   `json:"author,omitempty"`
}

// Location is a branch with its change history
type Location struct {
	ID      string  `json:"id"`
	Name    string  `json:"name,omitempty"`
	Changes []Entry `json:"changes"`
}

// ChangeType is derived from which values an entry carries
type ChangeType string

const (
	TypeAdded    ChangeType = "added"
	TypeRemoved  ChangeType = "removed"
	TypeModified ChangeType = "modified"
	TypeUnknown  ChangeType = "unknown"
)

// TypeOf derives the change type from the old and new values
func TypeOf(e Entry) ChangeType {
	switch {
	case e.OldValue == "" && e.NewValue != "":
		return TypeAdded
	case e.OldValue != "" && e.NewValue == "":
		return TypeRemoved
	case e.OldValue != "" && e.OldValue != e.NewValue:
		return TypeModified
	default:
		return TypeUnknown
	}
}

// Classify fills in the category once; an already valid category is kept
func (c *Categorizer) Classify(e Entry) Entry {
	if !e.Category.Valid() {
		e.Category = c.Categorize(e.Title)
	}
	return e
}
