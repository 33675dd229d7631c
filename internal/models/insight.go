package models

import "time"

// InsightKind identifies which correlation rule produced an insight.
// Kinds are ordered by priority: A > B > C > D.
type InsightKind string

const (
	InsightEmailMeetingConvergence InsightKind = "A"
	InsightStaleCommitment         InsightKind = "B"
	InsightRecurringMeetingDelta   InsightKind = "C"
	InsightTopicConvergence        InsightKind = "D"
)

// Priority returns the rule priority, lower is more important
func (k InsightKind) Priority() int {
	switch k {
	case InsightEmailMeetingConvergence:
		return 0
	case InsightStaleCommitment:
		return 1
	case InsightRecurringMeetingDelta:
		return 2
	case InsightTopicConvergence:
		return 3
	}
	return 4
}

// InsightCandidate is a rule-detected correlation between sources.
// Key is a stable hash so the same finding maps to the same suppression entry
// across refresh cycles.
type InsightCandidate struct {
	Kind          InsightKind `json:"kind"`
	Key           string      `json:"key"`
	SubjectPerson *Person     `json:"subject_person,omitempty"`
	Text          string      `json:"text"`
	ActionRef     string      `json:"action_ref,omitempty"`
	DetectedAt    time.Time   `json:"detected_at"`
}
