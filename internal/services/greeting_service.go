package services

import (
	"time"

	"github.com/alimgiray/daybrief/internal/models"
	"github.com/alimgiray/daybrief/internal/sources"
)

// longAbsence is how long the user must be away before the welcome-back
// greeting overrides the time-of-day default
const longAbsence = 4 * time.Hour

// GreetingOptions are the externally supplied override signals
type GreetingOptions struct {
	ActiveRecording bool
	LastActiveAt    time.Time
}

// GreetingService derives the greeting and momentum counts from the snapshot.
// It shares the scoring engine's todo and meeting partitions so the two
// surfaces never disagree on totals.
type GreetingService struct{}

func NewGreetingService() *GreetingService {
	return &GreetingService{}
}

// Compose selects exactly one greeting and computes the momentum stats.
// Override conditions win over the time-of-day default, first match wins.
func (s *GreetingService) Compose(snapshot *sources.Snapshot, index *Index, opts GreetingOptions) (models.Greeting, models.MomentumStats) {
	stats := s.momentum(snapshot, index)

	switch {
	case opts.ActiveRecording:
		return greeting(models.GreetingRecording, "Recording in progress"), stats
	case !opts.LastActiveAt.IsZero() && snapshot.Now.Sub(opts.LastActiveAt) > longAbsence:
		return greeting(models.GreetingWelcomeBack, "Welcome back, here's what you missed"), stats
	case stats.TotalEventsToday == 0:
		return greeting(models.GreetingClearDay, "No meetings today, your calendar is clear"), stats
	case stats.RemainingEventsToday == 0 && stats.PendingTodos == 0:
		return greeting(models.GreetingAllDone, "All done for today"), stats
	}

	switch hour := snapshot.Now.Hour(); {
	case hour >= 5 && hour < 12:
		return greeting(models.GreetingMorning, "Good morning"), stats
	case hour >= 12 && hour < 17:
		return greeting(models.GreetingAfternoon, "Good afternoon"), stats
	case hour >= 17 && hour < 22:
		return greeting(models.GreetingEvening, "Good evening"), stats
	}
	return greeting(models.GreetingNight, "Working late"), stats
}

func (s *GreetingService) momentum(snapshot *sources.Snapshot, index *Index) models.MomentumStats {
	stats := models.MomentumStats{
		RemainingEventsToday: len(index.RemainingToday),
		CompletedToday:       len(snapshot.CompletedTodos),
	}

	for _, event := range snapshot.Events {
		if event.IsToday(snapshot.Now) {
			stats.TotalEventsToday++
		}
	}

	for _, todo := range snapshot.PendingTodos {
		if todo.IsCompleted {
			continue
		}
		stats.PendingTodos++
		if todo.IsOverdue(snapshot.Now) {
			stats.OverdueTodos++
		}
	}

	for _, thread := range snapshot.Threads {
		if thread.IsActionable() && thread.IsUnread {
			stats.UnreadActionableThreads++
		}
	}

	return stats
}

func greeting(variant models.GreetingVariant, text string) models.Greeting {
	return models.Greeting{Variant: variant, Text: text}
}
