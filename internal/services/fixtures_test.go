package services

import (
	"context"
	"sync"
	"time"

	"github.com/alimgiray/daybrief/internal/models"
	"github.com/alimgiray/daybrief/internal/sources"
)

// baseTime is the fixed "now" all fixture-based tests score against,
// mid-morning on a Wednesday
var baseTime = time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC)

func person(name, email string) models.Person {
	return models.Person{DisplayName: name, PrimaryEmail: email}
}

func event(id, title string, start time.Time, attendees ...models.Person) models.CalendarEvent {
	return models.CalendarEvent{
		ID:        id,
		Title:     title,
		StartTime: start,
		EndTime:   start.Add(30 * time.Minute),
		Attendees: attendees,
		IsPast:    start.Add(30 * time.Minute).Before(baseTime),
	}
}

func enhancedNote(id, title string, createdAt time.Time, attendees ...models.Person) models.Note {
	return models.Note{
		ID:        id,
		Title:     title,
		Attendees: attendees,
		CreatedAt: createdAt,
		Status:    models.NoteStatusEnhanced,
	}
}

func actionableThread(id, subject string, latest time.Time, unread bool, participants ...models.Person) models.MailThread {
	return models.MailThread{
		ID:                id,
		Subject:           subject,
		Participants:      participants,
		LatestMessageTime: latest,
		IsUnread:          unread,
		Category:          models.ThreadCategoryActionable,
	}
}

func snapshotAt(now time.Time) *sources.Snapshot {
	return &sources.Snapshot{Now: now}
}

func buildIndex(snapshot *sources.Snapshot) *Index {
	resolver := NewPersonResolverService(nil)
	crossref := NewCrossRefService(NewTitleSimilarityService())
	return crossref.Build(snapshot, resolver.Resolve(snapshot))
}

// fakeSuppressionStore is an in-memory SuppressionStore for tests
type fakeSuppressionStore struct {
	mu      sync.Mutex
	entries map[string]time.Time
	failing bool
}

func newFakeSuppressionStore() *fakeSuppressionStore {
	return &fakeSuppressionStore{entries: make(map[string]time.Time)}
}

func (f *fakeSuppressionStore) IsSuppressed(kind models.InsightKind, key string, now time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	dismissedAt, ok := f.entries[string(kind)+":"+key]
	if !ok {
		return false, nil
	}
	return now.Sub(dismissedAt) < models.SuppressionCooldown, nil
}

func (f *fakeSuppressionStore) Suppress(kind models.InsightKind, key string, now time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[string(kind)+":"+key] = now
	return nil
}

// fake sources for refresh-cycle tests

type fakeCalendarSource struct {
	events []models.CalendarEvent
	err    error
}

func (f *fakeCalendarSource) Snapshot(ctx context.Context, window sources.TimeRange) ([]models.CalendarEvent, error) {
	return f.events, f.err
}

type fakeMailSource struct {
	threads []models.MailThread
	err     error
}

func (f *fakeMailSource) Snapshot(ctx context.Context, since time.Time, limit int) ([]models.MailThread, error) {
	return f.threads, f.err
}

type fakeNoteSource struct {
	notes []models.Note
	err   error
}

func (f *fakeNoteSource) Snapshot(ctx context.Context, since time.Time) ([]models.Note, error) {
	return f.notes, f.err
}

type fakeTodoSource struct {
	pending   []models.TodoItem
	completed []models.TodoItem
	err       error
}

func (f *fakeTodoSource) Pending(ctx context.Context) ([]models.TodoItem, error) {
	return f.pending, f.err
}

func (f *fakeTodoSource) CompletedSince(ctx context.Context, since time.Time) ([]models.TodoItem, error) {
	return f.completed, f.err
}
