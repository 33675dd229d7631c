package services

import (
	"fmt"
	"hash/fnv"
	"sort"
	"strings"
	"time"

	"github.com/alimgiray/daybrief/internal/models"
	"github.com/alimgiray/daybrief/internal/sources"
	"github.com/alimgiray/daybrief/pkg/logger"
)

const (
	// maxInsights caps how many insights surface per cycle
	maxInsights = 3
	// staleCommitmentAge is when an open meeting todo counts as stale
	staleCommitmentAge = 7 * 24 * time.Hour
	// topicConvergenceWindow bounds the note lookback for rule D
	topicConvergenceWindow = 30 * 24 * time.Hour
)

// SuppressionStore is the durable dismissal record. Writes must be applied
// before the next cycle's detection pass reads them.
type SuppressionStore interface {
	IsSuppressed(kind models.InsightKind, key string, now time.Time) (bool, error)
	Suppress(kind models.InsightKind, key string, now time.Time) error
}

// InsightService runs the fixed battery of correlation rules over the index
// and filters candidates through the suppression store
type InsightService struct {
	suppressions SuppressionStore
}

func NewInsightService(suppressions SuppressionStore) *InsightService {
	return &InsightService{suppressions: suppressions}
}

// Detect evaluates all four rules, drops suppressed candidates, and returns
// at most three insights ordered by rule priority then recency
func (s *InsightService) Detect(snapshot *sources.Snapshot, index *Index) []models.InsightCandidate {
	var candidates []models.InsightCandidate
	candidates = append(candidates, s.detectEmailMeetingConvergence(snapshot, index)...)
	candidates = append(candidates, s.detectStaleCommitments(snapshot)...)
	candidates = append(candidates, s.detectRecurringMeetingDeltas(snapshot, index)...)
	candidates = append(candidates, s.detectTopicConvergence(snapshot, index)...)

	kept := []models.InsightCandidate{}
	for _, candidate := range candidates {
		suppressed, err := s.suppressions.IsSuppressed(candidate.Kind, candidate.Key, snapshot.Now)
		if err != nil {
			logger.WithError(err).Warnf("Suppression lookup failed for insight %s/%s", candidate.Kind, candidate.Key)
			continue
		}
		if !suppressed {
			kept = append(kept, candidate)
		}
	}

	sort.SliceStable(kept, func(i, j int) bool {
		if kept[i].Kind.Priority() != kept[j].Kind.Priority() {
			return kept[i].Kind.Priority() < kept[j].Kind.Priority()
		}
		return kept[i].DetectedAt.After(kept[j].DetectedAt)
	})

	if len(kept) > maxInsights {
		kept = kept[:maxInsights]
	}
	return kept
}

// Suppress durably records a dismissal. A write failure is surfaced to the
// caller, never swallowed.
func (s *InsightService) Suppress(kind models.InsightKind, key string, now time.Time) error {
	return s.suppressions.Suppress(kind, key, now)
}

// Rule A: a person in a remaining today-meeting has unread actionable mail
// newer than the last meeting shared with them
func (s *InsightService) detectEmailMeetingConvergence(snapshot *sources.Snapshot, index *Index) []models.InsightCandidate {
	var candidates []models.InsightCandidate
	seenPersons := make(map[string]bool)

	for _, event := range index.RemainingToday {
		for _, attendee := range event.Attendees {
			key, ok := index.Resolution.KeyFor(attendee)
			if !ok || seenPersons[key] {
				continue
			}

			for _, thread := range index.ThreadsByPerson[key] {
				if !thread.IsUnread {
					continue
				}
				seenPersons[key] = true
				person := index.Resolution.Persons[key]
				candidates = append(candidates, models.InsightCandidate{
					Kind:          models.InsightEmailMeetingConvergence,
					Key:           hashKey(key),
					SubjectPerson: person,
					Text:          fmt.Sprintf("Unread email from %s before your %q meeting", personLabel(person), event.Title),
					ActionRef:     thread.ID,
					DetectedAt:    thread.LatestMessageTime,
				})
				break
			}
		}
	}
	return candidates
}

// Rule B: an open meeting commitment older than a week
func (s *InsightService) detectStaleCommitments(snapshot *sources.Snapshot) []models.InsightCandidate {
	var candidates []models.InsightCandidate

	for _, todo := range snapshot.PendingTodos {
		if todo.SourceType != models.TodoSourceMeeting || todo.IsCompleted {
			continue
		}
		age := snapshot.Now.Sub(todo.CreatedAt)
		if age <= staleCommitmentAge {
			continue
		}
		candidates = append(candidates, models.InsightCandidate{
			Kind:       models.InsightStaleCommitment,
			Key:        hashKey(todo.ID),
			Text:       fmt.Sprintf("%q has been open for %d days since its meeting", todo.Title, int(age.Hours()/24)),
			ActionRef:  todo.ID,
			DetectedAt: todo.CreatedAt,
		})
	}
	return candidates
}

// Rule C: a recurring meeting today whose previous occurrence left pending todos
func (s *InsightService) detectRecurringMeetingDeltas(snapshot *sources.Snapshot, index *Index) []models.InsightCandidate {
	pendingBySource := make(map[string]int)
	for _, todo := range snapshot.PendingTodos {
		if !todo.IsCompleted && todo.SourceID != "" {
			pendingBySource[todo.SourceID]++
		}
	}

	var candidates []models.InsightCandidate
	seenBuckets := make(map[string]bool)
	year, week := snapshot.Now.ISOWeek()

	for _, event := range index.RemainingToday {
		bucket := index.BucketForTitle(event.Title)
		if bucket == nil || seenBuckets[bucket.Key] {
			continue
		}

		for _, note := range bucket.Notes {
			pending := pendingBySource[note.ID]
			if pending == 0 {
				continue
			}
			seenBuckets[bucket.Key] = true
			candidates = append(candidates, models.InsightCandidate{
				Kind:       models.InsightRecurringMeetingDelta,
				Key:        hashKey(bucket.Key, fmt.Sprintf("%d-%02d", year, week)),
				Text:       fmt.Sprintf("%d open item(s) from the last %q before today's occurrence", pending, note.Title),
				ActionRef:  note.ID,
				DetectedAt: note.CreatedAt,
			})
			break
		}
	}
	return candidates
}

// Rule D: three or more recent notes share a tag across at least two
// distinct attendee sets
func (s *InsightService) detectTopicConvergence(snapshot *sources.Snapshot, index *Index) []models.InsightCandidate {
	cutoff := snapshot.Now.Add(-topicConvergenceWindow)
	notesByTag := make(map[string][]models.Note)

	for _, note := range snapshot.Notes {
		if !note.IsEnhanced() || note.CreatedAt.Before(cutoff) {
			continue
		}
		for _, tag := range note.Tags {
			notesByTag[tag] = append(notesByTag[tag], note)
		}
	}

	var candidates []models.InsightCandidate
	for tag, notes := range notesByTag {
		if len(notes) < 3 {
			continue
		}

		groups := make(map[string]bool)
		latest := time.Time{}
		for _, note := range notes {
			groups[attendeeSignature(note, index.Resolution)] = true
			if note.CreatedAt.After(latest) {
				latest = note.CreatedAt
			}
		}
		if len(groups) < 2 {
			continue
		}

		candidates = append(candidates, models.InsightCandidate{
			Kind:       models.InsightTopicConvergence,
			Key:        hashKey(tag),
			Text:       fmt.Sprintf("%q came up in %d recent meetings across %d different groups", tag, len(notes), len(groups)),
			ActionRef:  tag,
			DetectedAt: latest,
		})
	}
	return candidates
}

// hashKey derives a stable suppression key from its parts
func hashKey(parts ...string) string {
	h := fnv.New64a()
	for _, part := range parts {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return fmt.Sprintf("%016x", h.Sum64())
}

// attendeeSignature is a stable fingerprint of a note's resolved attendee set
func attendeeSignature(note models.Note, resolution *Resolution) string {
	var keys []string
	for _, attendee := range note.Attendees {
		if key, ok := resolution.KeyFor(attendee); ok {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return strings.Join(keys, "|")
}

func personLabel(person *models.Person) string {
	if person == nil {
		return "someone"
	}
	if person.DisplayName != "" {
		return person.DisplayName
	}
	return person.PrimaryEmail
}
