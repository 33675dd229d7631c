package sources

import (
	"context"
	"sync"
	"time"

	"github.com/alimgiray/daybrief/internal/models"
	"github.com/alimgiray/daybrief/pkg/logger"
)

// Snapshot is the immutable set of source records fetched at the start of one
// refresh cycle. A source that errored or timed out contributes an empty
// slice and is listed in Degraded.
type Snapshot struct {
	Now            time.Time
	Events         []models.CalendarEvent
	Threads        []models.MailThread
	Notes          []models.Note
	PendingTodos   []models.TodoItem
	CompletedTodos []models.TodoItem
	Degraded       []string
}

// FullyDegraded reports whether every source failed this cycle
func (s *Snapshot) FullyDegraded() bool {
	return len(s.Degraded) >= 4
}

const (
	mailThreadLimit   = 200
	calendarLookBack  = 24 * time.Hour
	calendarLookAhead = 24 * time.Hour
	noteLookBack      = 30 * 24 * time.Hour
)

// Fetcher gathers one snapshot from all four sources concurrently,
// applying a per-adapter timeout
type Fetcher struct {
	calendar CalendarSource
	mail     MailSource
	notes    NoteSource
	todos    TodoSource
	timeout  time.Duration
}

// NewFetcher creates a new snapshot fetcher
func NewFetcher(calendar CalendarSource, mail MailSource, notes NoteSource, todos TodoSource, timeout time.Duration) *Fetcher {
	return &Fetcher{
		calendar: calendar,
		mail:     mail,
		notes:    notes,
		todos:    todos,
		timeout:  timeout,
	}
}

// Fetch queries all four sources in parallel and assembles a snapshot.
// A failing adapter degrades to an empty slice, it never fails the cycle.
func (f *Fetcher) Fetch(ctx context.Context) *Snapshot {
	now := time.Now()
	snapshot := &Snapshot{Now: now}

	var mu sync.Mutex
	var wg sync.WaitGroup

	degrade := func(source string, err error) {
		logger.WithError(err).Warnf("Source %s unavailable, using empty snapshot", source)
		mu.Lock()
		snapshot.Degraded = append(snapshot.Degraded, source)
		mu.Unlock()
	}

	wg.Add(4)

	go func() {
		defer wg.Done()
		fetchCtx, cancel := context.WithTimeout(ctx, f.timeout)
		defer cancel()

		window := TimeRange{Start: now.Add(-calendarLookBack), End: now.Add(calendarLookAhead)}
		events, err := f.calendar.Snapshot(fetchCtx, window)
		if err != nil {
			degrade("calendar", err)
			return
		}
		mu.Lock()
		snapshot.Events = events
		mu.Unlock()
	}()

	go func() {
		defer wg.Done()
		fetchCtx, cancel := context.WithTimeout(ctx, f.timeout)
		defer cancel()

		threads, err := f.mail.Snapshot(fetchCtx, now.Add(-noteLookBack), mailThreadLimit)
		if err != nil {
			degrade("mail", err)
			return
		}
		mu.Lock()
		snapshot.Threads = threads
		mu.Unlock()
	}()

	go func() {
		defer wg.Done()
		fetchCtx, cancel := context.WithTimeout(ctx, f.timeout)
		defer cancel()

		notes, err := f.notes.Snapshot(fetchCtx, now.Add(-noteLookBack))
		if err != nil {
			degrade("notes", err)
			return
		}
		mu.Lock()
		snapshot.Notes = notes
		mu.Unlock()
	}()

	go func() {
		defer wg.Done()
		fetchCtx, cancel := context.WithTimeout(ctx, f.timeout)
		defer cancel()

		pending, err := f.todos.Pending(fetchCtx)
		if err != nil {
			degrade("todos", err)
			return
		}

		midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		completed, err := f.todos.CompletedSince(fetchCtx, midnight)
		if err != nil {
			degrade("todos", err)
			return
		}

		mu.Lock()
		snapshot.PendingTodos = pending
		snapshot.CompletedTodos = completed
		mu.Unlock()
	}()

	wg.Wait()

	logger.WithFields(map[string]interface{}{
		"events":   len(snapshot.Events),
		"threads":  len(snapshot.Threads),
		"notes":    len(snapshot.Notes),
		"pending":  len(snapshot.PendingTodos),
		"degraded": len(snapshot.Degraded),
	}).Debugf("Snapshot fetched")

	return snapshot
}
