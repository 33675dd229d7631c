package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/alimgiray/daybrief/internal/models"
)

func emptyScoreContext() *ScoreContext {
	snapshot := snapshotAt(baseTime)
	return &ScoreContext{Now: baseTime, Index: buildIndex(snapshot)}
}

func TestScoreWeights(t *testing.T) {
	service := NewScoringService()

	overdue := baseTime.Add(-24 * time.Hour)
	dueToday := baseTime.Add(2 * time.Hour)
	dueThisWeek := baseTime.Add(3 * 24 * time.Hour)
	old := baseTime.Add(-10 * 24 * time.Hour)

	testCases := []struct {
		name          string
		todo          models.TodoItem
		expectedScore int
	}{
		{
			name:          "Bare manual todo",
			todo:          models.TodoItem{ID: "t1", CreatedAt: old, IsSeen: true, SourceType: models.TodoSourceManual, Priority: models.TodoPriorityLow},
			expectedScore: 3,
		},
		{
			name:          "Overdue tier",
			todo:          models.TodoItem{ID: "t2", CreatedAt: old, IsSeen: true, DueDate: &overdue, SourceType: models.TodoSourceManual, Priority: models.TodoPriorityLow},
			expectedScore: 40 + 3,
		},
		{
			name:          "Due today tier",
			todo:          models.TodoItem{ID: "t3", CreatedAt: old, IsSeen: true, DueDate: &dueToday, SourceType: models.TodoSourceManual, Priority: models.TodoPriorityLow},
			expectedScore: 25 + 3,
		},
		{
			name:          "Due this week tier",
			todo:          models.TodoItem{ID: "t4", CreatedAt: old, IsSeen: true, DueDate: &dueThisWeek, SourceType: models.TodoSourceManual, Priority: models.TodoPriorityLow},
			expectedScore: 10 + 3,
		},
		{
			name:          "Unseen and fresh email todo",
			todo:          models.TodoItem{ID: "t5", CreatedAt: baseTime.Add(-time.Hour), IsSeen: false, SourceType: models.TodoSourceEmail, Priority: models.TodoPriorityLow},
			expectedScore: 15 + 10 + 5,
		},
		{
			name:          "High priority meeting todo",
			todo:          models.TodoItem{ID: "t6", CreatedAt: old, IsSeen: true, SourceType: models.TodoSourceMeeting, Priority: models.TodoPriorityHigh},
			expectedScore: 10 + 15,
		},
		{
			name:          "Medium priority",
			todo:          models.TodoItem{ID: "t7", CreatedAt: old, IsSeen: true, SourceType: models.TodoSourceManual, Priority: models.TodoPriorityMedium},
			expectedScore: 3 + 5,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ranked := service.Score(tc.todo, emptyScoreContext())
			assert.Equal(t, tc.expectedScore, ranked.Score)
			assert.GreaterOrEqual(t, ranked.Score, 0)
			if ranked.Score > 0 {
				assert.NotEmpty(t, ranked.Reasons, "Non-zero score must carry reasons")
			}
		})
	}
}

func TestScoreDueTierMonotonicity(t *testing.T) {
	// Increasing urgency tier strictly increases the score, all else equal
	service := NewScoringService()
	ctx := emptyScoreContext()
	old := baseTime.Add(-10 * 24 * time.Hour)

	base := models.TodoItem{ID: "t1", CreatedAt: old, IsSeen: true, SourceType: models.TodoSourceManual, Priority: models.TodoPriorityLow}

	noDue := service.Score(base, ctx).Score

	dueThisWeek := baseTime.Add(5 * 24 * time.Hour)
	base.DueDate = &dueThisWeek
	weekScore := service.Score(base, ctx).Score

	dueToday := baseTime.Add(time.Hour)
	base.DueDate = &dueToday
	todayScore := service.Score(base, ctx).Score

	overdue := baseTime.Add(-time.Hour)
	base.DueDate = &overdue
	overdueScore := service.Score(base, ctx).Score

	assert.Greater(t, weekScore, noDue)
	assert.Greater(t, todayScore, weekScore)
	assert.Greater(t, overdueScore, todayScore)
}

func TestRankOrderingAndTieBreaks(t *testing.T) {
	service := NewScoringService()
	ctx := emptyScoreContext()
	old := baseTime.Add(-10 * 24 * time.Hour)

	dueSoon := baseTime.Add(2 * 24 * time.Hour)
	dueLater := baseTime.Add(5 * 24 * time.Hour)

	todos := []models.TodoItem{
		{ID: "later", CreatedAt: old, IsSeen: true, DueDate: &dueLater, SourceType: models.TodoSourceManual, Priority: models.TodoPriorityLow},
		{ID: "sooner", CreatedAt: old, IsSeen: true, DueDate: &dueSoon, SourceType: models.TodoSourceManual, Priority: models.TodoPriorityLow},
		{ID: "older", CreatedAt: old.Add(-time.Hour), IsSeen: true, SourceType: models.TodoSourceManual, Priority: models.TodoPriorityLow},
		{ID: "newer", CreatedAt: old, IsSeen: true, SourceType: models.TodoSourceManual, Priority: models.TodoPriorityLow},
	}

	t.Run("Equal scores break ties by due date then created date", func(t *testing.T) {
		ranked := service.Rank(todos, ctx, 0)

		ids := []string{}
		for _, entry := range ranked {
			ids = append(ids, entry.Todo.ID)
		}
		// Both due-date todos score 13, both undated score 3; within each
		// score group the earlier due date / earlier createdAt wins
		assert.Equal(t, []string{"sooner", "later", "older", "newer"}, ids)
	})

	t.Run("Ranking is deterministic across repeated runs", func(t *testing.T) {
		first := service.Rank(todos, ctx, 0)
		second := service.Rank(todos, ctx, 0)
		assert.Equal(t, first, second)
	})

	t.Run("Completed todos are excluded", func(t *testing.T) {
		completed := models.TodoItem{ID: "done", CreatedAt: old, IsCompleted: true, SourceType: models.TodoSourceManual}
		ranked := service.Rank(append(todos, completed), ctx, 0)
		for _, entry := range ranked {
			assert.NotEqual(t, "done", entry.Todo.ID)
		}
	})

	t.Run("TopN caps the output", func(t *testing.T) {
		ranked := service.Rank(todos, ctx, 2)
		assert.Len(t, ranked, 2)
	})
}

func TestScoreSendDeckScenario(t *testing.T) {
	// Event "Product Review" at T+45min with Tom and Alex; note "Q1 Sync"
	// with the same pair two days ago is the source of an overdue "Send deck"
	tom := person("Tom", "tom@example.com")
	alex := person("Alex", "alex@example.com")

	dueDate := baseTime.Add(-3 * 24 * time.Hour)
	sendDeck := models.TodoItem{
		ID:          "send-deck",
		Title:       "Send deck",
		DueDate:     &dueDate,
		CreatedAt:   baseTime.Add(-2 * 24 * time.Hour),
		SourceType:  models.TodoSourceMeeting,
		SourceID:    "q1-sync",
		Priority:    models.TodoPriorityLow,
		IsSeen:      true,
		IsCompleted: false,
	}

	snapshot := snapshotAt(baseTime)
	snapshot.Events = []models.CalendarEvent{
		event("product-review", "Product Review", baseTime.Add(45*time.Minute), tom, alex),
	}
	snapshot.Notes = []models.Note{
		enhancedNote("q1-sync", "Q1 Sync", baseTime.Add(-2*24*time.Hour), tom, alex),
	}
	snapshot.PendingTodos = []models.TodoItem{sendDeck}

	index := buildIndex(snapshot)
	ctx := &ScoreContext{Now: baseTime, Events: index.RemainingToday, Index: index}

	ranked := NewScoringService().Score(sendDeck, ctx)

	assert.GreaterOrEqual(t, ranked.Score, 75, "overdue + shared attendee + meeting source")
	assert.Contains(t, ranked.Reasons, "overdue")
	assert.Contains(t, ranked.Reasons, "attendee in today's meeting")
}
