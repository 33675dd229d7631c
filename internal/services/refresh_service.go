package services

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/alimgiray/daybrief/internal/models"
	"github.com/alimgiray/daybrief/internal/sources"
	"github.com/alimgiray/daybrief/pkg/logger"
)

// RefreshOptions tunes the refresh loop and the per-artifact TTLs
type RefreshOptions struct {
	Interval   time.Duration
	TopActions int
	DossierTTL time.Duration
	InsightTTL time.Duration
}

type dossierEntry struct {
	dossier   models.MeetingDossier
	expiresAt time.Time
}

// RefreshService drives the periodic refresh cycle and owns the TTL'd caches.
// Readers are always served from the last successful cycle; a refresh already
// in flight coalesces new triggers into a no-op.
type RefreshService struct {
	fetcher   *sources.Fetcher
	resolver  *PersonResolverService
	crossref  *CrossRefService
	scoring   *ScoringService
	dossiers  *DossierService
	insights  *InsightService
	greetings *GreetingService
	narrative *NarrativeService
	opts      RefreshOptions

	mu            sync.RWMutex
	actionCache   []models.RankedTodo
	dossierCache  []dossierEntry
	insightCache  []models.InsightCandidate
	insightExpiry time.Time
	greetingCache models.Greeting
	momentumCache models.MomentumStats
	lastSuccess   time.Time
	hasCache      bool

	refreshing   int32
	lastActiveAt atomic.Value
	recording    atomic.Bool

	// baseCtx bounds the service lifetime. Background tasks spawned by a
	// cycle run under it, never under the context that triggered the cycle.
	baseCtx  context.Context
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

func NewRefreshService(
	fetcher *sources.Fetcher,
	resolver *PersonResolverService,
	crossref *CrossRefService,
	scoring *ScoringService,
	dossiers *DossierService,
	insights *InsightService,
	greetings *GreetingService,
	narrative *NarrativeService,
	opts RefreshOptions,
) *RefreshService {
	return &RefreshService{
		fetcher:   fetcher,
		resolver:  resolver,
		crossref:  crossref,
		scoring:   scoring,
		dossiers:  dossiers,
		insights:  insights,
		greetings: greetings,
		narrative: narrative,
		opts:      opts,
		baseCtx:   context.Background(),
		stopChan:  make(chan struct{}),
	}
}

// Start runs an immediate refresh and then the periodic loop
func (s *RefreshService) Start(ctx context.Context) {
	s.baseCtx = ctx
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		s.TryRefresh(ctx)

		ticker := time.NewTicker(s.opts.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.TryRefresh(ctx)
			case <-s.stopChan:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop halts the refresh loop and any in-flight narrative generation
func (s *RefreshService) Stop() {
	s.stopOnce.Do(func() { close(s.stopChan) })
	s.wg.Wait()
	if s.narrative != nil {
		s.narrative.Stop()
	}
}

// TryRefresh runs one refresh cycle unless one is already in flight, in which
// case the trigger is coalesced into a no-op. Returns whether a cycle ran.
func (s *RefreshService) TryRefresh(ctx context.Context) bool {
	if !atomic.CompareAndSwapInt32(&s.refreshing, 0, 1) {
		return false
	}
	defer atomic.StoreInt32(&s.refreshing, 0)

	s.refresh(ctx)
	return true
}

// TriggerRefresh starts a refresh cycle in the background unless one is
// already in flight. The cycle runs under the service lifetime, so a
// short-lived caller context cannot cancel it.
func (s *RefreshService) TriggerRefresh() bool {
	if !atomic.CompareAndSwapInt32(&s.refreshing, 0, 1) {
		return false
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer atomic.StoreInt32(&s.refreshing, 0)
		s.refresh(s.baseCtx)
	}()
	return true
}

// refresh runs one full cycle: fetch, resolve, index, build all four
// artifacts in parallel, swap the caches
func (s *RefreshService) refresh(ctx context.Context) {
	started := time.Now()
	snapshot := s.fetcher.Fetch(ctx)

	// Stale-but-available beats empty: when every source failed this cycle,
	// keep serving the last successful cache
	if snapshot.FullyDegraded() && s.hasLastGood() {
		logger.Warnf("All sources degraded, keeping last successful cache")
		return
	}

	resolution := s.resolver.Resolve(snapshot)
	index := s.crossref.Build(snapshot, resolution)

	scoreCtx := &ScoreContext{Now: snapshot.Now, Events: index.RemainingToday, Index: index}

	var (
		wg       sync.WaitGroup
		actions  []models.RankedTodo
		dossiers []models.MeetingDossier
		insights []models.InsightCandidate
		greeting models.Greeting
		momentum models.MomentumStats
	)

	// The four builders read the same immutable snapshot and index, no
	// shared mutable state, so they run in parallel without locks
	wg.Add(4)
	go func() {
		defer wg.Done()
		actions = s.scoring.Rank(snapshot.PendingTodos, scoreCtx, s.opts.TopActions)
	}()
	go func() {
		defer wg.Done()
		dossiers = s.dossiers.BuildAll(snapshot, index)
	}()
	go func() {
		defer wg.Done()
		insights = s.insights.Detect(snapshot, index)
	}()
	go func() {
		defer wg.Done()
		greeting, momentum = s.greetings.Compose(snapshot, index, s.greetingOptions())
	}()
	wg.Wait()

	now := time.Now()
	entries := make([]dossierEntry, 0, len(dossiers))
	for _, dossier := range dossiers {
		// A dossier expires 10 minutes after construction or at meeting
		// start, whichever comes sooner
		expiresAt := now.Add(s.opts.DossierTTL)
		if dossier.Event.StartTime.Before(expiresAt) {
			expiresAt = dossier.Event.StartTime
		}
		entries = append(entries, dossierEntry{dossier: dossier, expiresAt: expiresAt})
	}

	s.mu.Lock()
	s.actionCache = actions
	s.dossierCache = entries
	s.insightCache = insights
	s.insightExpiry = now.Add(s.opts.InsightTTL)
	s.greetingCache = greeting
	s.momentumCache = momentum
	s.lastSuccess = now
	s.hasCache = true
	s.mu.Unlock()

	if s.narrative != nil {
		// The narrative task outlives the cycle that spawned it, so it runs
		// under the service lifetime rather than the cycle's context
		bundle := BuildContextBundle(greeting, momentum, actions, dossiers, insights)
		s.narrative.EnsureFresh(s.baseCtx, bundle)
	}

	logger.WithFields(map[string]interface{}{
		"actions":  len(actions),
		"dossiers": len(dossiers),
		"insights": len(insights),
		"took":     time.Since(started).String(),
	}).Infof("Refresh cycle complete")
}

// Actions returns the ranked action stream from the last successful cycle
func (s *RefreshService) Actions() []models.RankedTodo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.RankedTodo{}, s.actionCache...)
}

// Dossiers returns the unexpired meeting dossiers
func (s *RefreshService) Dossiers(now time.Time) []models.MeetingDossier {
	s.mu.RLock()
	defer s.mu.RUnlock()

	dossiers := []models.MeetingDossier{}
	for _, entry := range s.dossierCache {
		if now.Before(entry.expiresAt) {
			dossiers = append(dossiers, entry.dossier)
		}
	}
	return dossiers
}

// Insights returns the cached insights, or none once the cache expired
func (s *RefreshService) Insights(now time.Time) []models.InsightCandidate {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if now.After(s.insightExpiry) {
		return []models.InsightCandidate{}
	}
	return append([]models.InsightCandidate{}, s.insightCache...)
}

// Greeting returns the cached greeting and momentum stats
func (s *RefreshService) Greeting() (models.Greeting, models.MomentumStats) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.greetingCache, s.momentumCache
}

// Briefing returns the live narrative briefing, or nil
func (s *RefreshService) Briefing(now time.Time) *Briefing {
	if s.narrative == nil {
		return nil
	}
	return s.narrative.Current(now)
}

// LastSuccess returns when the cache was last rebuilt
func (s *RefreshService) LastSuccess() (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastSuccess, s.hasCache
}

// MarkActive records user activity for the long-absence greeting override
func (s *RefreshService) MarkActive(now time.Time) {
	s.lastActiveAt.Store(now)
}

// SetRecording toggles the active-recording greeting override
func (s *RefreshService) SetRecording(active bool) {
	s.recording.Store(active)
}

func (s *RefreshService) greetingOptions() GreetingOptions {
	opts := GreetingOptions{ActiveRecording: s.recording.Load()}
	if lastActive, ok := s.lastActiveAt.Load().(time.Time); ok {
		opts.LastActiveAt = lastActive
	}
	return opts
}

func (s *RefreshService) hasLastGood() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hasCache
}
