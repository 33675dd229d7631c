package models

import "time"

// TodoSourceType identifies where a todo item came from
type TodoSourceType string

const (
	TodoSourceMeeting TodoSourceType = "meeting"
	TodoSourceEmail   TodoSourceType = "email"
	TodoSourceManual  TodoSourceType = "manual"
)

// TodoPriority is the user-assigned priority of a todo item
type TodoPriority string

const (
	TodoPriorityLow    TodoPriority = "low"
	TodoPriorityMedium TodoPriority = "medium"
	TodoPriorityHigh   TodoPriority = "high"
)

// TodoItem represents a single action item
type TodoItem struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	DueDate     *time.Time     `json:"due_date,omitempty"`
	IsCompleted bool           `json:"is_completed"`
	CreatedAt   time.Time      `json:"created_at"`
	SourceType  TodoSourceType `json:"source_type"`
	SourceID    string         `json:"source_id,omitempty"`
	SenderEmail string         `json:"sender_email,omitempty"`
	Priority    TodoPriority   `json:"priority"`
	IsSeen      bool           `json:"is_seen"`
}

// IsOverdue reports whether the todo's due date has passed
func (t *TodoItem) IsOverdue(now time.Time) bool {
	return t.DueDate != nil && t.DueDate.Before(now)
}
