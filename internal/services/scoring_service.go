package services

import (
	"sort"
	"time"

	"github.com/alimgiray/daybrief/internal/models"
)

// Urgency weights. Scoring is additive and deterministic, there are no
// learned parameters. Due-date tiers are mutually exclusive, highest first.
const (
	weightOverdue        = 40
	weightDueToday       = 25
	weightDueThisWeek    = 10
	weightSenderInToday  = 30
	weightSharedAttendee = 25
	weightUnseen         = 15
	weightFresh          = 10
	weightSourceMeeting  = 10
	weightSourceEmail    = 5
	weightSourceManual   = 3
	weightPriorityHigh   = 15
	weightPriorityMedium = 5
)

// ScoreContext is the snapshot-derived context a todo is scored against.
// Events holds the remaining meetings the todo competes with; dossiers narrow
// it to a single event's attendee set.
type ScoreContext struct {
	Now    time.Time
	Events []models.CalendarEvent
	Index  *Index
}

type ScoringService struct{}

func NewScoringService() *ScoringService {
	return &ScoringService{}
}

// Score computes the urgency score for one todo. Reasons record which
// weighted clauses fired; a non-zero score always carries at least one reason.
func (s *ScoringService) Score(todo models.TodoItem, ctx *ScoreContext) models.RankedTodo {
	ranked := models.RankedTodo{Todo: todo, Reasons: []string{}}

	add := func(points int, reason string) {
		ranked.Score += points
		ranked.Reasons = append(ranked.Reasons, reason)
	}

	// Due-date tier, highest matching only
	if todo.DueDate != nil {
		due := *todo.DueDate
		switch {
		case due.Before(ctx.Now):
			add(weightOverdue, "overdue")
		case sameDay(due, ctx.Now):
			add(weightDueToday, "due today")
		case due.Sub(ctx.Now) <= 7*24*time.Hour:
			add(weightDueThisWeek, "due this week")
		}
	}

	if s.senderInEvents(todo, ctx) {
		add(weightSenderInToday, "sender in today's meeting")
	}

	if s.sourceNoteSharesAttendee(todo, ctx) {
		add(weightSharedAttendee, "attendee in today's meeting")
	}

	if !todo.IsSeen {
		add(weightUnseen, "not seen yet")
	}
	if ctx.Now.Sub(todo.CreatedAt) <= 24*time.Hour {
		add(weightFresh, "recently added")
	}

	switch todo.SourceType {
	case models.TodoSourceMeeting:
		add(weightSourceMeeting, "meeting follow-up")
	case models.TodoSourceEmail:
		add(weightSourceEmail, "email follow-up")
	case models.TodoSourceManual:
		add(weightSourceManual, "added manually")
	}

	switch todo.Priority {
	case models.TodoPriorityHigh:
		add(weightPriorityHigh, "high priority")
	case models.TodoPriorityMedium:
		add(weightPriorityMedium, "medium priority")
	}

	return ranked
}

// Rank scores and orders open todos, descending by score with dueDate then
// createdAt tie-breaks. Completed todos are excluded. topN caps the output,
// 0 means no cap.
func (s *ScoringService) Rank(todos []models.TodoItem, ctx *ScoreContext, topN int) []models.RankedTodo {
	ranked := []models.RankedTodo{}
	for _, todo := range todos {
		if todo.IsCompleted {
			continue
		}
		ranked = append(ranked, s.Score(todo, ctx))
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		if before, decided := earlierDue(ranked[i].Todo.DueDate, ranked[j].Todo.DueDate); decided {
			return before
		}
		return ranked[i].Todo.CreatedAt.Before(ranked[j].Todo.CreatedAt)
	})

	if topN > 0 && len(ranked) > topN {
		ranked = ranked[:topN]
	}
	return ranked
}

// senderInEvents checks whether the todo's sender attends any context event
func (s *ScoringService) senderInEvents(todo models.TodoItem, ctx *ScoreContext) bool {
	if todo.SenderEmail == "" || ctx.Index == nil {
		return false
	}
	senderKey, ok := ctx.Index.Resolution.KeyForEmail(todo.SenderEmail)
	if !ok {
		return false
	}

	for _, event := range ctx.Events {
		if ctx.Index.AttendeeKeys(event)[senderKey] {
			return true
		}
	}
	return false
}

// sourceNoteSharesAttendee checks whether the todo's source note shares at
// least one attendee with any context event
func (s *ScoringService) sourceNoteSharesAttendee(todo models.TodoItem, ctx *ScoreContext) bool {
	if todo.SourceID == "" || ctx.Index == nil {
		return false
	}
	note, ok := ctx.Index.NoteByID[todo.SourceID]
	if !ok {
		return false
	}

	for _, event := range ctx.Events {
		attendees := ctx.Index.AttendeeKeys(event)
		for _, noteAttendee := range note.Attendees {
			if key, ok := ctx.Index.Resolution.KeyFor(noteAttendee); ok && attendees[key] {
				return true
			}
		}
	}
	return false
}

func sameDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// earlierDue orders two optional due dates; a todo with a due date sorts
// before one without
func earlierDue(a, b *time.Time) (bool, bool) {
	switch {
	case a == nil && b == nil:
		return false, false
	case a == nil:
		return false, true
	case b == nil:
		return true, true
	case a.Equal(*b):
		return false, false
	}
	return a.Before(*b), true
}
