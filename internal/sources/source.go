package sources

import (
	"context"
	"time"

	"github.com/alimgiray/daybrief/internal/models"
)

// TimeRange is a half-open [Start, End) query window
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// CalendarSource exposes a read-only snapshot of calendar events.
// Implementations must compute IsPast against the wall clock at call time.
type CalendarSource interface {
	Snapshot(ctx context.Context, window TimeRange) ([]models.CalendarEvent, error)
}

// MailSource exposes a read-only snapshot of mail threads.
// Implementations must include a category classification; the engine does not classify.
type MailSource interface {
	Snapshot(ctx context.Context, since time.Time, limit int) ([]models.MailThread, error)
}

// NoteSource exposes a read-only snapshot of meeting notes
type NoteSource interface {
	Snapshot(ctx context.Context, since time.Time) ([]models.Note, error)
}

// TodoSource exposes pending and recently completed todo items
type TodoSource interface {
	Pending(ctx context.Context) ([]models.TodoItem, error)
	CompletedSince(ctx context.Context, since time.Time) ([]models.TodoItem, error)
}
