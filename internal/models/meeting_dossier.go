package models

// MeetingDossier bundles cross-referenced history, correspondence and
// commitments for one upcoming meeting. Lists are capped at 5 entries and are
// always non-nil, so a first meeting with a group renders as empty sections.
type MeetingDossier struct {
	Event         CalendarEvent `json:"event"`
	PriorMeetings []Note        `json:"prior_meetings"`
	RecentThreads []MailThread  `json:"recent_threads"`
	OpenTodos     []TodoItem    `json:"open_todos"`
}
