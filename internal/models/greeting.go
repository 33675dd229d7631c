package models

// GreetingVariant names which greeting template was selected
type GreetingVariant string

const (
	GreetingRecording   GreetingVariant = "recording"
	GreetingWelcomeBack GreetingVariant = "welcome_back"
	GreetingClearDay    GreetingVariant = "clear_day"
	GreetingAllDone     GreetingVariant = "all_done"
	GreetingMorning     GreetingVariant = "morning"
	GreetingAfternoon   GreetingVariant = "afternoon"
	GreetingEvening     GreetingVariant = "evening"
	GreetingNight       GreetingVariant = "night"
)

// Greeting is the selected template plus its variant tag for the UI
type Greeting struct {
	Variant GreetingVariant `json:"variant"`
	Text    string          `json:"text"`
}

// MomentumStats are small summary counts derived from the snapshot.
// They partition the same todo and meeting sets the scoring engine ranks
// over, so the two surfaces never disagree on totals.
type MomentumStats struct {
	RemainingEventsToday    int `json:"remaining_events_today"`
	TotalEventsToday        int `json:"total_events_today"`
	PendingTodos            int `json:"pending_todos"`
	OverdueTodos            int `json:"overdue_todos"`
	CompletedToday          int `json:"completed_today"`
	UnreadActionableThreads int `json:"unread_actionable_threads"`
}
