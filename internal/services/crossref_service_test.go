package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/alimgiray/daybrief/internal/models"
)

func TestBuildNoteIndex(t *testing.T) {
	tom := person("Tom", "tom@example.com")

	t.Run("Enhanced notes index by attendee, newest first", func(t *testing.T) {
		snapshot := snapshotAt(baseTime)
		snapshot.Notes = []models.Note{
			enhancedNote("n1", "Sync", baseTime.Add(-72*time.Hour), tom),
			enhancedNote("n2", "Sync", baseTime.Add(-24*time.Hour), tom),
		}

		index := buildIndex(snapshot)
		key, _ := index.Resolution.KeyForEmail("tom@example.com")

		notes := index.NotesByPerson[key]
		assert.Len(t, notes, 2)
		assert.Equal(t, "n2", notes[0].ID)
	})

	t.Run("Raw notes are ignored", func(t *testing.T) {
		snapshot := snapshotAt(baseTime)
		raw := enhancedNote("n1", "Sync", baseTime.Add(-24*time.Hour), tom)
		raw.Status = models.NoteStatusRaw
		snapshot.Notes = []models.Note{raw}

		index := buildIndex(snapshot)
		key, ok := index.Resolution.KeyForEmail("tom@example.com")
		if ok {
			assert.Empty(t, index.NotesByPerson[key])
		}
	})
}

func TestBuildThreadIndex(t *testing.T) {
	tom := person("Tom", "tom@example.com")

	t.Run("Only actionable threads are indexed", func(t *testing.T) {
		snapshot := snapshotAt(baseTime)
		newsletter := actionableThread("m1", "Weekly digest", baseTime.Add(-time.Hour), true, tom)
		newsletter.Category = models.ThreadCategoryNewsletter
		snapshot.Threads = []models.MailThread{newsletter}

		index := buildIndex(snapshot)
		key, _ := index.Resolution.KeyForEmail("tom@example.com")
		assert.Empty(t, index.ThreadsByPerson[key])
	})

	t.Run("Threads older than the last shared meeting are filtered", func(t *testing.T) {
		snapshot := snapshotAt(baseTime)
		snapshot.Notes = []models.Note{
			enhancedNote("n1", "Sync", baseTime.Add(-24*time.Hour), tom),
		}
		snapshot.Threads = []models.MailThread{
			actionableThread("old", "Before the sync", baseTime.Add(-48*time.Hour), true, tom),
			actionableThread("new", "After the sync", baseTime.Add(-time.Hour), true, tom),
		}

		index := buildIndex(snapshot)
		key, _ := index.Resolution.KeyForEmail("tom@example.com")

		threads := index.ThreadsByPerson[key]
		assert.Len(t, threads, 1)
		assert.Equal(t, "new", threads[0].ID)
	})

	t.Run("No shared meeting means no lower bound", func(t *testing.T) {
		snapshot := snapshotAt(baseTime)
		snapshot.Threads = []models.MailThread{
			actionableThread("m1", "Intro", baseTime.Add(-200*time.Hour), false, tom),
		}

		index := buildIndex(snapshot)
		key, _ := index.Resolution.KeyForEmail("tom@example.com")
		assert.Len(t, index.ThreadsByPerson[key], 1)
	})
}

func TestBuildTodoIndex(t *testing.T) {
	tom := person("Tom", "tom@example.com")
	alex := person("Alex", "alex@example.com")

	t.Run("Todos index by sender email", func(t *testing.T) {
		snapshot := snapshotAt(baseTime)
		snapshot.Events = []models.CalendarEvent{
			event("e1", "Sync", baseTime.Add(time.Hour), tom),
		}
		snapshot.PendingTodos = []models.TodoItem{
			{ID: "t1", Title: "Reply", SenderEmail: "tom@example.com", CreatedAt: baseTime},
		}

		index := buildIndex(snapshot)
		key, _ := index.Resolution.KeyForEmail("tom@example.com")
		assert.Len(t, index.TodosByPerson[key], 1)
	})

	t.Run("Todos index via source note attendees", func(t *testing.T) {
		snapshot := snapshotAt(baseTime)
		snapshot.Notes = []models.Note{
			enhancedNote("n1", "Sync", baseTime.Add(-24*time.Hour), tom, alex),
		}
		snapshot.PendingTodos = []models.TodoItem{
			{ID: "t1", Title: "Send deck", SourceID: "n1", SourceType: models.TodoSourceMeeting, CreatedAt: baseTime},
		}

		index := buildIndex(snapshot)

		tomKey, _ := index.Resolution.KeyForEmail("tom@example.com")
		alexKey, _ := index.Resolution.KeyForEmail("alex@example.com")
		assert.Len(t, index.TodosByPerson[tomKey], 1)
		assert.Len(t, index.TodosByPerson[alexKey], 1)
	})
}

func TestBuildTitleBuckets(t *testing.T) {
	tom := person("Tom", "tom@example.com")

	t.Run("Similar titles share a bucket", func(t *testing.T) {
		snapshot := snapshotAt(baseTime)
		snapshot.Events = []models.CalendarEvent{
			event("e1", "Weekly Sync", baseTime.Add(time.Hour), tom),
		}
		snapshot.Notes = []models.Note{
			enhancedNote("n1", "Weekly Sync - Mar 5", baseTime.Add(-7*24*time.Hour), tom),
		}

		index := buildIndex(snapshot)

		bucket := index.BucketForTitle("Weekly Sync")
		assert.NotNil(t, bucket)
		assert.Len(t, bucket.Events, 1)
		assert.Len(t, bucket.Notes, 1)
	})

	t.Run("Notes outside the recurrence window are excluded", func(t *testing.T) {
		snapshot := snapshotAt(baseTime)
		snapshot.Notes = []models.Note{
			enhancedNote("n1", "Weekly Sync", baseTime.Add(-20*24*time.Hour), tom),
		}

		index := buildIndex(snapshot)
		assert.Nil(t, index.BucketForTitle("Weekly Sync"))
	})

	t.Run("Linked notes join their event's bucket despite a different title", func(t *testing.T) {
		snapshot := snapshotAt(baseTime)
		snapshot.Events = []models.CalendarEvent{
			event("sync-mar-5", "Weekly Sync", baseTime.Add(-7*24*time.Hour), tom),
		}
		linked := enhancedNote("n1", "Follow-ups and decisions", baseTime.Add(-7*24*time.Hour), tom)
		linked.LinkedCalendarEventID = "sync-mar-5"
		snapshot.Notes = []models.Note{linked}

		index := buildIndex(snapshot)

		bucket := index.BucketForTitle("Weekly Sync")
		assert.NotNil(t, bucket)
		assert.Len(t, bucket.Notes, 1)
		assert.Nil(t, index.BucketForTitle("Follow-ups and decisions"))
	})

	t.Run("Unrelated titles get separate buckets", func(t *testing.T) {
		snapshot := snapshotAt(baseTime)
		snapshot.Events = []models.CalendarEvent{
			event("e1", "Weekly Sync", baseTime.Add(time.Hour), tom),
			event("e2", "Architecture Review", baseTime.Add(2*time.Hour), tom),
		}

		index := buildIndex(snapshot)
		assert.Len(t, index.TitleBuckets, 2)
	})
}

func TestRemainingToday(t *testing.T) {
	tom := person("Tom", "tom@example.com")

	snapshot := snapshotAt(baseTime)
	past := event("past", "Standup", baseTime.Add(-2*time.Hour), tom)
	upcoming := event("upcoming", "Review", baseTime.Add(time.Hour), tom)
	tomorrow := event("tomorrow", "Planning", baseTime.Add(26*time.Hour), tom)
	snapshot.Events = []models.CalendarEvent{past, upcoming, tomorrow}

	index := buildIndex(snapshot)

	assert.Len(t, index.RemainingToday, 1)
	assert.Equal(t, "upcoming", index.RemainingToday[0].ID)
}
