package models

import "time"

// ThreadCategory classifies a mail thread; classification is done by the mail source
type ThreadCategory string

const (
	ThreadCategoryActionable   ThreadCategory = "actionable"
	ThreadCategoryNewsletter   ThreadCategory = "newsletter"
	ThreadCategoryNotification ThreadCategory = "notification"
)

// MailThread represents an email conversation
type MailThread struct {
	ID                string         `json:"id"`
	Subject           string         `json:"subject"`
	Participants      []Person       `json:"participants"`
	LatestMessageTime time.Time      `json:"latest_message_time"`
	IsUnread          bool           `json:"is_unread"`
	Category          ThreadCategory `json:"category"`
}

// IsActionable reports whether the thread participates in ranking and insights
func (t *MailThread) IsActionable() bool {
	return t.Category == ThreadCategoryActionable
}
