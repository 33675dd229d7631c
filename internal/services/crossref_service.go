package services

import (
	"sort"
	"time"

	"github.com/alimgiray/daybrief/internal/models"
	"github.com/alimgiray/daybrief/internal/sources"
)

// recurrenceWindow bounds how far back title-similarity buckets look for
// detecting recurring meetings
const recurrenceWindow = 14 * 24 * time.Hour

// TitleBucket groups calendar events and notes whose titles belong to the
// same recurring meeting
type TitleBucket struct {
	Key    string
	Events []models.CalendarEvent
	Notes  []models.Note
}

// Index is the per-cycle working set: canonical persons plus the maps joining
// them to notes, threads and todos. Built once per refresh, read-only after.
type Index struct {
	Resolution      *Resolution
	NotesByPerson   map[string][]models.Note
	ThreadsByPerson map[string][]models.MailThread
	TodosByPerson   map[string][]models.TodoItem
	NoteByID        map[string]models.Note
	TitleBuckets    []*TitleBucket
	RemainingToday  []models.CalendarEvent

	similarity *TitleSimilarityService
}

// CrossRefService builds the per-cycle cross-reference index
type CrossRefService struct {
	similarity *TitleSimilarityService
}

func NewCrossRefService(similarity *TitleSimilarityService) *CrossRefService {
	return &CrossRefService{similarity: similarity}
}

// Build assembles the index from one snapshot and its resolved persons
func (s *CrossRefService) Build(snapshot *sources.Snapshot, resolution *Resolution) *Index {
	index := &Index{
		Resolution:      resolution,
		NotesByPerson:   make(map[string][]models.Note),
		ThreadsByPerson: make(map[string][]models.MailThread),
		TodosByPerson:   make(map[string][]models.TodoItem),
		NoteByID:        make(map[string]models.Note),
		similarity:      s.similarity,
	}

	for _, note := range snapshot.Notes {
		index.NoteByID[note.ID] = note
	}

	for _, event := range snapshot.Events {
		if event.IsToday(snapshot.Now) && !event.IsPast {
			index.RemainingToday = append(index.RemainingToday, event)
		}
	}
	sort.SliceStable(index.RemainingToday, func(i, j int) bool {
		return index.RemainingToday[i].StartTime.Before(index.RemainingToday[j].StartTime)
	})

	lastShared := s.buildNoteIndex(snapshot, resolution, index)
	s.buildThreadIndex(snapshot, resolution, index, lastShared)
	s.buildTodoIndex(snapshot, resolution, index)
	s.buildTitleBuckets(snapshot, index)

	return index
}

// buildNoteIndex maps persons to their shared meeting history and returns the
// most recent shared note time per person. Raw notes are ignored, only
// enhanced notes count as meeting history.
func (s *CrossRefService) buildNoteIndex(snapshot *sources.Snapshot, resolution *Resolution, index *Index) map[string]time.Time {
	lastShared := make(map[string]time.Time)

	for _, note := range snapshot.Notes {
		if !note.IsEnhanced() {
			continue
		}
		for _, attendee := range note.Attendees {
			key, ok := resolution.KeyFor(attendee)
			if !ok {
				continue
			}
			index.NotesByPerson[key] = append(index.NotesByPerson[key], note)
			if note.CreatedAt.After(lastShared[key]) {
				lastShared[key] = note.CreatedAt
			}
		}
	}

	for key := range index.NotesByPerson {
		notes := index.NotesByPerson[key]
		sort.SliceStable(notes, func(i, j int) bool {
			return notes[i].CreatedAt.After(notes[j].CreatedAt)
		})
	}

	return lastShared
}

// buildThreadIndex maps persons to actionable threads newer than the last
// meeting shared with them
func (s *CrossRefService) buildThreadIndex(snapshot *sources.Snapshot, resolution *Resolution, index *Index, lastShared map[string]time.Time) {
	for _, thread := range snapshot.Threads {
		if !thread.IsActionable() {
			continue
		}
		for _, participant := range thread.Participants {
			key, ok := resolution.KeyFor(participant)
			if !ok {
				continue
			}
			if shared, hasShared := lastShared[key]; hasShared && !thread.LatestMessageTime.After(shared) {
				continue
			}
			index.ThreadsByPerson[key] = append(index.ThreadsByPerson[key], thread)
		}
	}

	for key := range index.ThreadsByPerson {
		threads := index.ThreadsByPerson[key]
		sort.SliceStable(threads, func(i, j int) bool {
			return threads[i].LatestMessageTime.After(threads[j].LatestMessageTime)
		})
	}
}

// buildTodoIndex maps persons to open todos, via the sender email or via the
// source note's attendees
func (s *CrossRefService) buildTodoIndex(snapshot *sources.Snapshot, resolution *Resolution, index *Index) {
	seen := make(map[string]map[string]bool)

	add := func(key string, todo models.TodoItem) {
		if seen[key] == nil {
			seen[key] = make(map[string]bool)
		}
		if seen[key][todo.ID] {
			return
		}
		seen[key][todo.ID] = true
		index.TodosByPerson[key] = append(index.TodosByPerson[key], todo)
	}

	for _, todo := range snapshot.PendingTodos {
		if todo.SenderEmail != "" {
			if key, ok := resolution.KeyForEmail(todo.SenderEmail); ok {
				add(key, todo)
			}
		}
		if todo.SourceID != "" {
			if note, ok := index.NoteByID[todo.SourceID]; ok {
				for _, attendee := range note.Attendees {
					if key, ok := resolution.KeyFor(attendee); ok {
						add(key, todo)
					}
				}
			}
		}
	}
}

// buildTitleBuckets groups recent events and enhanced notes into recurrence
// buckets. A note linked to an event in the snapshot joins that event's bucket
// directly; title similarity is the fallback for unlinked notes.
func (s *CrossRefService) buildTitleBuckets(snapshot *sources.Snapshot, index *Index) {
	cutoff := snapshot.Now.Add(-recurrenceWindow)

	place := func(title string) *TitleBucket {
		normalized := s.similarity.NormalizeTitle(title)
		if normalized == "" {
			return nil
		}
		for _, bucket := range index.TitleBuckets {
			if s.similarity.SameBucket(bucket.Key, normalized) {
				return bucket
			}
		}
		bucket := &TitleBucket{Key: normalized}
		index.TitleBuckets = append(index.TitleBuckets, bucket)
		return bucket
	}

	bucketByEventID := make(map[string]*TitleBucket)
	for _, event := range snapshot.Events {
		if event.StartTime.Before(cutoff) {
			continue
		}
		if bucket := place(event.Title); bucket != nil {
			bucket.Events = append(bucket.Events, event)
			bucketByEventID[event.ID] = bucket
		}
	}

	for _, note := range snapshot.Notes {
		if !note.IsEnhanced() || note.CreatedAt.Before(cutoff) {
			continue
		}
		if bucket, ok := bucketByEventID[note.LinkedCalendarEventID]; ok && note.LinkedCalendarEventID != "" {
			bucket.Notes = append(bucket.Notes, note)
			continue
		}
		if bucket := place(note.Title); bucket != nil {
			bucket.Notes = append(bucket.Notes, note)
		}
	}
}

// BucketForTitle finds the recurrence bucket a title belongs to, if any
func (idx *Index) BucketForTitle(title string) *TitleBucket {
	normalized := idx.similarity.NormalizeTitle(title)
	if normalized == "" {
		return nil
	}
	for _, bucket := range idx.TitleBuckets {
		if idx.similarity.SameBucket(bucket.Key, normalized) {
			return bucket
		}
	}
	return nil
}

// AttendeeKeys resolves an event's attendees to their canonical keys
func (idx *Index) AttendeeKeys(event models.CalendarEvent) map[string]bool {
	keys := make(map[string]bool, len(event.Attendees))
	for _, attendee := range event.Attendees {
		if key, ok := idx.Resolution.KeyFor(attendee); ok {
			keys[key] = true
		}
	}
	return keys
}
