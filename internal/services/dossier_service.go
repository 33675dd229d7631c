package services

import (
	"sort"
	"time"

	"github.com/alimgiray/daybrief/internal/models"
	"github.com/alimgiray/daybrief/internal/sources"
)

const (
	// dossierHorizon is how far ahead a meeting must start to get a dossier
	dossierHorizon = 2 * time.Hour
	// maxDossierEntries caps each dossier section
	maxDossierEntries = 5
)

// DossierService joins meeting history, correspondence and open commitments
// for each near-term meeting by shared attendees
type DossierService struct {
	scoring *ScoringService
}

func NewDossierService(scoring *ScoringService) *DossierService {
	return &DossierService{scoring: scoring}
}

// BuildAll builds dossiers for every event starting within the horizon.
// The horizon is pure clock distance, a meeting shortly after midnight still
// gets its dossier late in the evening.
func (s *DossierService) BuildAll(snapshot *sources.Snapshot, index *Index) []models.MeetingDossier {
	dossiers := []models.MeetingDossier{}
	for _, event := range snapshot.Events {
		if !event.StartsWithin(snapshot.Now, dossierHorizon) {
			continue
		}
		dossiers = append(dossiers, s.Build(event, snapshot.Now, index))
	}
	return dossiers
}

// Build assembles one dossier. A meeting with no shared history still gets a
// dossier with empty lists, never nil.
func (s *DossierService) Build(event models.CalendarEvent, now time.Time, index *Index) models.MeetingDossier {
	attendeeKeys := index.AttendeeKeys(event)

	priorMeetings := s.priorMeetings(attendeeKeys, index)

	var sinceLastMeeting time.Time
	if len(priorMeetings) > 0 {
		sinceLastMeeting = priorMeetings[0].CreatedAt
	}

	return models.MeetingDossier{
		Event:         event,
		PriorMeetings: priorMeetings,
		RecentThreads: s.recentThreads(attendeeKeys, sinceLastMeeting, index),
		OpenTodos:     s.openTodos(event, now, attendeeKeys, index),
	}
}

// priorMeetings collects notes sharing at least one attendee, newest first
func (s *DossierService) priorMeetings(attendeeKeys map[string]bool, index *Index) []models.Note {
	seen := make(map[string]bool)
	notes := []models.Note{}

	for key := range attendeeKeys {
		for _, note := range index.NotesByPerson[key] {
			if seen[note.ID] {
				continue
			}
			seen[note.ID] = true
			notes = append(notes, note)
		}
	}

	sort.SliceStable(notes, func(i, j int) bool {
		return notes[i].CreatedAt.After(notes[j].CreatedAt)
	})

	if len(notes) > maxDossierEntries {
		notes = notes[:maxDossierEntries]
	}
	return notes
}

// recentThreads collects threads with a shared participant, limited to those
// newer than the most recent prior meeting (unbounded when there is none)
func (s *DossierService) recentThreads(attendeeKeys map[string]bool, sinceLastMeeting time.Time, index *Index) []models.MailThread {
	seen := make(map[string]bool)
	threads := []models.MailThread{}

	for key := range attendeeKeys {
		for _, thread := range index.ThreadsByPerson[key] {
			if seen[thread.ID] {
				continue
			}
			if !sinceLastMeeting.IsZero() && !thread.LatestMessageTime.After(sinceLastMeeting) {
				continue
			}
			seen[thread.ID] = true
			threads = append(threads, thread)
		}
	}

	sort.SliceStable(threads, func(i, j int) bool {
		return threads[i].LatestMessageTime.After(threads[j].LatestMessageTime)
	})

	if len(threads) > maxDossierEntries {
		threads = threads[:maxDossierEntries]
	}
	return threads
}

// openTodos collects open todos for the attendee set, ranked with the same
// scoring the action stream uses, restricted to this one event
func (s *DossierService) openTodos(event models.CalendarEvent, now time.Time, attendeeKeys map[string]bool, index *Index) []models.TodoItem {
	seen := make(map[string]bool)
	var todos []models.TodoItem

	for key := range attendeeKeys {
		for _, todo := range index.TodosByPerson[key] {
			if seen[todo.ID] || todo.IsCompleted {
				continue
			}
			seen[todo.ID] = true
			todos = append(todos, todo)
		}
	}

	ctx := &ScoreContext{
		Now:    now,
		Events: []models.CalendarEvent{event},
		Index:  index,
	}
	ranked := s.scoring.Rank(todos, ctx, maxDossierEntries)

	result := []models.TodoItem{}
	for _, entry := range ranked {
		result = append(result, entry.Todo)
	}
	return result
}
