package models

import "time"

// NoteStatus tracks how far a meeting note has been processed
type NoteStatus string

const (
	NoteStatusRaw      NoteStatus = "raw"
	NoteStatusEnhanced NoteStatus = "enhanced"
)

// Note represents a past meeting record; source of truth for meeting history.
// Tags are opaque strings supplied by the note source, no vocabulary is assumed.
type Note struct {
	ID                    string     `json:"id"`
	Title                 string     `json:"title"`
	Attendees             []Person   `json:"attendees"`
	CreatedAt             time.Time  `json:"created_at"`
	LinkedCalendarEventID string     `json:"linked_calendar_event_id,omitempty"`
	Status                NoteStatus `json:"status"`
	Tags                  []string   `json:"tags,omitempty"`
}

// IsEnhanced reports whether the note participates in dossiers and insights
func (n *Note) IsEnhanced() bool {
	return n.Status == NoteStatusEnhanced
}
