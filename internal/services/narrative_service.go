package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/alimgiray/daybrief/internal/models"
	"github.com/alimgiray/daybrief/pkg/logger"
)

// NarrativeStateStore persists the briefing dismissal timestamp across restarts
type NarrativeStateStore interface {
	GetNarrativeDismissedAt() (*time.Time, error)
	SetNarrativeDismissedAt(dismissedAt time.Time) error
}

// Briefing is the short-lived narrative summary artifact
type Briefing struct {
	Text        string    `json:"text"`
	GeneratedAt time.Time `json:"generated_at"`
}

// NarrativeService owns the briefing lifecycle: at most one generation in
// flight, decoupled from the refresh cycle, cancellable, and never blocking
// delivery of the other artifacts.
type NarrativeService struct {
	client NarrativeClient
	state  NarrativeStateStore
	ttl    time.Duration

	mu         sync.Mutex
	current    *Briefing
	generating bool
	cancel     context.CancelFunc
	wg         sync.WaitGroup
}

func NewNarrativeService(client NarrativeClient, state NarrativeStateStore, ttl time.Duration) *NarrativeService {
	return &NarrativeService{
		client: client,
		state:  state,
		ttl:    ttl,
	}
}

// Current returns the briefing if it is still live: within TTL and not
// dismissed since it was generated. Returns nil otherwise.
func (s *NarrativeService) Current(now time.Time) *Briefing {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil || now.Sub(s.current.GeneratedAt) > s.ttl {
		return nil
	}

	dismissedAt, err := s.state.GetNarrativeDismissedAt()
	if err != nil {
		logger.WithError(err).Warnf("Could not read narrative dismissal state")
		return s.current
	}
	if dismissedAt != nil && !dismissedAt.Before(s.current.GeneratedAt) {
		return nil
	}

	return s.current
}

// EnsureFresh starts an async generation if no live briefing exists and none
// is in flight. A recent dismissal also holds off regeneration until its TTL
// passes. Failure or slowness never delays the caller.
func (s *NarrativeService) EnsureFresh(ctx context.Context, contextBundle string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.generating {
		return
	}

	now := time.Now()
	if s.current != nil && now.Sub(s.current.GeneratedAt) <= s.ttl {
		return
	}

	if dismissedAt, err := s.state.GetNarrativeDismissedAt(); err == nil && dismissedAt != nil {
		if now.Sub(*dismissedAt) <= s.ttl {
			return
		}
	}

	genCtx, cancel := context.WithCancel(ctx)
	s.generating = true
	s.cancel = cancel

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.generate(genCtx, contextBundle)
	}()
}

// Dismiss durably records a briefing dismissal
func (s *NarrativeService) Dismiss(now time.Time) error {
	return s.state.SetNarrativeDismissedAt(now)
}

// Stop cancels any in-flight generation and waits for it to finish
func (s *NarrativeService) Stop() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Unlock()
	s.wg.Wait()
}

func (s *NarrativeService) generate(ctx context.Context, contextBundle string) {
	defer func() {
		s.mu.Lock()
		s.generating = false
		s.cancel = nil
		s.mu.Unlock()
	}()

	chunks, err := s.client.Summarize(ctx, contextBundle)
	if err != nil {
		// NarrativeUnavailable: omit the briefing this cycle, no retry
		logger.WithError(err).Warnf("Narrative generation failed")
		return
	}

	var builder strings.Builder
	for chunk := range chunks {
		builder.WriteString(chunk)
	}

	text := strings.TrimSpace(builder.String())
	if text == "" {
		logger.Warnf("Narrative generation produced no text")
		return
	}

	s.mu.Lock()
	s.current = &Briefing{Text: text, GeneratedAt: time.Now()}
	s.mu.Unlock()
}

// BuildContextBundle serializes the cycle's artifacts into the source-agnostic
// text blob the narrative client consumes
func BuildContextBundle(greeting models.Greeting, stats models.MomentumStats, actions []models.RankedTodo, dossiers []models.MeetingDossier, insights []models.InsightCandidate) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Meetings today: %d total, %d remaining.\n", stats.TotalEventsToday, stats.RemainingEventsToday)
	fmt.Fprintf(&b, "Todos: %d pending, %d overdue, %d completed today.\n", stats.PendingTodos, stats.OverdueTodos, stats.CompletedToday)
	fmt.Fprintf(&b, "Unread actionable threads: %d.\n", stats.UnreadActionableThreads)

	if len(actions) > 0 {
		b.WriteString("Top actions:\n")
		for _, action := range actions {
			fmt.Fprintf(&b, "- %s (score %d: %s)\n", action.Todo.Title, action.Score, strings.Join(action.Reasons, ", "))
		}
	}

	for _, dossier := range dossiers {
		fmt.Fprintf(&b, "Upcoming meeting %q at %s: %d prior meetings, %d recent threads, %d open todos.\n",
			dossier.Event.Title, dossier.Event.StartTime.Format("15:04"),
			len(dossier.PriorMeetings), len(dossier.RecentThreads), len(dossier.OpenTodos))
	}

	for _, insight := range insights {
		fmt.Fprintf(&b, "Insight: %s\n", insight.Text)
	}

	return b.String()
}
