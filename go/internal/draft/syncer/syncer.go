package syncer

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/alexmeckes/draftagent/go/internal/draft"
	"github.com/alexmeckes/draftagent/go/internal/draft/events"
	"github.com/alexmeckes/draftagent/go/internal/draft/gateway"
	"github.com/alexmeckes/draftagent/go/internal/effect"
	"github.com/alexmeckes/draftagent/go/internal/models"
)

const (
	DefaultPollInterval = 2 * time.Second
	MinPollInterval     = 250 * time.Millisecond
	DefaultFetchTimeout = 10 * time.Second
)

// Source is the read API the syncer polls.
type Source interface {
	GetDraftWithPicks(ctx context.Context, draftID string) (*models.Draft, []models.DraftPick, error)
}

// SessionRecorder persists per-user snapshots of a draft. Failures are logged.
type SessionRecorder interface {
	RecordDraft(ctx context.Context, d *models.Draft, picks []models.DraftPick) error
}

// DraftState is the on-demand view of a draft returned by GetDraftState.
type DraftState struct {
	Draft *models.Draft      `json:"draft"`
	Picks []models.DraftPick `json:"picks"`
	draft.Turn
}

// Syncer owns one polling task per watched draft.
type Syncer struct {
	source       Source
	broadcaster  gateway.Broadcaster
	sessions     SessionRecorder
	clock        clockwork.Clock
	interval     time.Duration
	fetchTimeout time.Duration

	mu    sync.Mutex
	tasks map[string]*task
	wg    sync.WaitGroup
}

type task struct {
	draftID  string
	interval time.Duration
	ctx      context.Context
	cancel   context.CancelFunc
	stopped  atomic.Bool
	done     chan struct{}

	// only touched by the goroutine currently polling this task
	lastKnownPickCount int
}

func (t *task) stop() {
	t.stopped.Store(true)
	t.cancel()
}

type Option func(*Syncer)

func WithClock(clock clockwork.Clock) Option {
	return func(s *Syncer) { s.clock = clock }
}

func WithSessionRecorder(r SessionRecorder) Option {
	return func(s *Syncer) { s.sessions = r }
}

func WithDefaultInterval(d time.Duration) Option {
	return func(s *Syncer) {
		if d > 0 {
			s.interval = d
		}
	}
}

func WithFetchTimeout(d time.Duration) Option {
	return func(s *Syncer) {
		if d > 0 {
			s.fetchTimeout = d
		}
	}
}

func New(source Source, broadcaster gateway.Broadcaster, opts ...Option) *Syncer {
	s := &Syncer{
		source:       source,
		broadcaster:  broadcaster,
		clock:        clockwork.NewRealClock(),
		interval:     DefaultPollInterval,
		fetchTimeout: DefaultFetchTimeout,
		tasks:        make(map[string]*task),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// StartSync (re)starts polling draftID. Any existing task for the draft is
// replaced. One poll runs before StartSync returns; if that poll sees a
// finished draft no recurring task is scheduled.
func (s *Syncer) StartSync(ctx context.Context, draftID string, interval time.Duration) {
	if interval <= 0 {
		interval = s.interval
	}
	interval = max(interval, MinPollInterval)

	taskCtx, cancel := context.WithCancel(context.Background())
	t := &task{
		draftID:  draftID,
		interval: interval,
		ctx:      taskCtx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}

	s.mu.Lock()
	if old, ok := s.tasks[draftID]; ok {
		old.stop()
		log.Debug().Str("draft_id", draftID).Msg("replaced existing sync task")
	}
	s.tasks[draftID] = t
	s.mu.Unlock()

	log.Info().Str("draft_id", draftID).Dur("interval", interval).Msg("starting draft sync")

	if finished := s.poll(ctx, t); finished {
		close(t.done)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tasks[draftID] != t || t.stopped.Load() {
		close(t.done)
		return
	}
	s.wg.Add(1)
	go s.run(t)
}

// StopSync cancels polling for draftID. It is a no-op when nothing is running.
func (s *Syncer) StopSync(draftID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[draftID]
	if !ok {
		return
	}
	delete(s.tasks, draftID)
	t.stop()
	log.Info().Str("draft_id", draftID).Msg("stopped draft sync")
}

// StopAllSyncs cancels every task and waits for their goroutines to exit.
func (s *Syncer) StopAllSyncs() {
	s.mu.Lock()
	for id, t := range s.tasks {
		t.stop()
		delete(s.tasks, id)
	}
	s.mu.Unlock()

	s.wg.Wait()
	log.Info().Msg("stopped all draft syncs")
}

// ActiveSyncs lists drafts with a running task.
func (s *Syncer) ActiveSyncs() []string {
	s.mu.Lock()
	ids := make([]string, 0, len(s.tasks))
	for id := range s.tasks {
		ids = append(ids, id)
	}
	s.mu.Unlock()

	slices.Sort(ids)
	return ids
}

// GetDraftState fetches the draft and recomputes turn order from scratch.
// It does not depend on a running task.
func (s *Syncer) GetDraftState(ctx context.Context, draftID string) (*DraftState, error) {
	d, picks, err := s.source.GetDraftWithPicks(ctx, draftID)
	if err != nil {
		return nil, err
	}
	turn, err := draft.ComputeTurn(d, len(picks))
	if err != nil {
		return nil, err
	}
	return &DraftState{Draft: d, Picks: picks, Turn: turn}, nil
}

func (s *Syncer) run(t *task) {
	defer s.wg.Done()
	defer close(t.done)

	ticker := s.clock.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-t.ctx.Done():
			return
		case <-ticker.Chan():
			if t.stopped.Load() {
				return
			}
			if finished := s.poll(t.ctx, t); finished {
				return
			}
		}
	}
}

// poll runs one reconciliation tick. It reports whether the task is over,
// either because it was stopped or because the draft finished.
func (s *Syncer) poll(ctx context.Context, t *task) bool {
	fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.fetchTimeout)
	d, picks, err := s.source.GetDraftWithPicks(fetchCtx, t.draftID)
	cancel()

	if t.stopped.Load() {
		log.Debug().Str("draft_id", t.draftID).Msg("discarding poll result for stopped sync")
		return true
	}

	topic := gateway.DraftTopic(t.draftID)
	if err != nil {
		log.Error().Err(err).Str("draft_id", t.draftID).Msg("error syncing draft")
		s.publish(ctx, topic, events.DraftError, events.SyncFailed(err))
		return false
	}

	count := len(picks)
	if count > t.lastKnownPickCount {
		newPicks := picks[t.lastKnownPickCount:]
		log.Info().
			Str("draft_id", t.draftID).
			Int("new_picks", len(newPicks)).
			Int("total_picks", count).
			Msg("new picks detected")

		s.publish(ctx, topic, events.DraftUpdate, events.NewPicks(d, picks, newPicks))

		if s.sessions != nil {
			effect.BestEffort(ctx, "record draft session", func(ctx context.Context) error {
				return s.sessions.RecordDraft(ctx, d, picks)
			})
		}
	}
	t.lastKnownPickCount = max(t.lastKnownPickCount, count)

	if d.Status.IsTerminal() {
		log.Info().Str("draft_id", t.draftID).Msg("draft is complete, stopping sync")
		s.publish(ctx, topic, events.DraftUpdate, events.DraftComplete(d, picks))
		s.finish(t)
		return true
	}
	return false
}

// finish removes t from the registry unless it has already been replaced.
func (s *Syncer) finish(t *task) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.tasks[t.draftID] == t {
		delete(s.tasks, t.draftID)
	}
	t.stop()
}

func (s *Syncer) publish(ctx context.Context, topic, name string, payload any) {
	ev, err := gateway.NewEvent(topic, name, payload)
	if err != nil {
		log.Error().Err(err).Str("topic", topic).Msg("failed to build event")
		return
	}
	if err := s.broadcaster.Publish(context.WithoutCancel(ctx), topic, ev); err != nil {
		log.Error().Err(err).Str("topic", topic).Str("event", name).Msg("failed to broadcast")
	}
}
