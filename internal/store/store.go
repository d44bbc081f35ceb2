package store

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"tradelink/internal/domain/entity"
	"tradelink/internal/domain/repository"
)

const defaultPersistTimeout = 10 * time.Second

// Observer receives every published state. Observers run synchronously
// inside Dispatch, before the remote write starts.
type Observer func(State)

// NotificationObserver receives the notifications synthesized by one
// transition. It runs asynchronously; push fan-out hangs off it.
type NotificationObserver func([]entity.Notification)

// Store owns the state tree and is its only writer. Every transition funnels
// through Dispatch under one mutex, so the reducer itself needs no locking.
type Store struct {
	mu     sync.Mutex
	state  State
	logger *slog.Logger

	// pub serializes observer publication. It is acquired before mu is
	// released, so observers receive states in commit order even when
	// dispatches race.
	pub sync.Mutex

	// gateway is nil in offline/demo mode; Dispatch then skips the remote
	// write entirely, which is logged distinctly from a failed write.
	gateway        repository.RemoteGateway
	persistTimeout time.Duration

	observers             []Observer
	notificationObservers []NotificationObserver

	recorder Recorder

	writes  sync.WaitGroup
	results chan<- WriteResult // optional sink for tests and metrics
}

// Recorder observes dispatch and write outcomes for instrumentation. A nil
// recorder is valid and records nothing.
type Recorder interface {
	ActionDispatched(action string, notFound bool)
	RemoteWrite(action string, status WriteStatus)
}

// Option configures a Store.
type Option func(*Store)

// WithRecorder attaches an instrumentation recorder.
func WithRecorder(r Recorder) Option {
	return func(s *Store) { s.recorder = r }
}

// WithGateway enables dual-write against the remote gateway.
func WithGateway(gw repository.RemoteGateway) Option {
	return func(s *Store) { s.gateway = gw }
}

// WithPersistTimeout bounds each asynchronous remote write.
func WithPersistTimeout(d time.Duration) Option {
	return func(s *Store) { s.persistTimeout = d }
}

// WithWriteResults routes every remote write result to the given channel in
// addition to the log sink. The channel must be drained by the receiver.
func WithWriteResults(ch chan<- WriteResult) Option {
	return func(s *Store) { s.results = ch }
}

// New constructs a store with an empty state tree and default settings.
func New(logger *slog.Logger, opts ...Option) *Store {
	s := &Store{
		state:          NewState(),
		logger:         logger,
		persistTimeout: defaultPersistTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Subscribe registers a state observer. Must be called before dispatching.
func (s *Store) Subscribe(ob Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, ob)
}

// OnNotifications registers a notification observer.
func (s *Store) OnNotifications(ob NotificationObserver) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notificationObservers = append(s.notificationObservers, ob)
}

// State returns the current state tree. The returned value shares its
// slices with the store but they are never mutated after publication.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

// Dispatch applies the action locally, publishes the new state to all
// observers, and then persists the equivalent change to the gateway in the
// background. The caller only ever observes the synchronous local update:
// remote failures are logged and counted, never raised, and the local state
// is not rolled back (accepted inconsistency window).
func (s *Store) Dispatch(action Action) Outcome {
	name := ActionName(action)

	s.mu.Lock()
	next, outcome := Reduce(s.state, action)
	s.state = next
	observers := make([]Observer, len(s.observers))
	copy(observers, s.observers)
	notificationObservers := make([]NotificationObserver, len(s.notificationObservers))
	copy(notificationObservers, s.notificationObservers)
	s.pub.Lock()
	s.mu.Unlock()

	for _, ob := range observers {
		ob(next)
	}
	s.pub.Unlock()

	if s.recorder != nil {
		s.recorder.ActionDispatched(name, outcome.NotFound)
	}

	if outcome.NotFound {
		s.logger.Warn("action referenced unknown id, state unchanged",
			slog.String("action", name))
	}

	if len(outcome.Notifications) > 0 && len(notificationObservers) > 0 {
		ns := outcome.Notifications
		for _, ob := range notificationObservers {
			go ob(ns)
		}
	}

	s.persist(action, next)

	return outcome
}

// persist runs the remote half of the dual-write in the background.
func (s *Store) persist(action Action, after State) {
	if s.gateway == nil {
		// Offline/demo mode. Deliberately a different log channel than a
		// failed write so the two are distinguishable downstream.
		s.logger.Debug("offline mode, remote persistence skipped",
			slog.String("action", ActionName(action)))

		return
	}

	s.writes.Add(1)
	go func() {
		defer s.writes.Done()

		ctx, cancel := context.WithTimeout(context.Background(), s.persistTimeout)
		defer cancel()

		result := persistAction(ctx, s.gateway, action, after)
		switch result.Status {
		case WriteFailed:
			s.logger.Error("remote write failed, local state retained",
				slog.String("action", result.Action),
				slog.Any("error", result.Err))
		case WriteApplied:
			s.logger.Debug("remote write applied", slog.String("action", result.Action))
		case WriteNoEffect:
			// Defined no-op translation; nothing to log at error level.
		}

		if s.recorder != nil {
			s.recorder.RemoteWrite(result.Action, result.Status)
		}
		if s.results != nil {
			s.results <- result
		}
	}()
}

// Wait blocks until every in-flight remote write has finished. Used by
// shutdown and tests.
func (s *Store) Wait() {
	s.writes.Wait()
}
