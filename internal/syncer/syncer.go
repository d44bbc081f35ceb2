// Package syncer keeps the local store aligned with the remote gateway.
// It performs one bulk fetch on startup, mirrors row-level change events
// into sync actions, and probes gateway liveness on a fixed interval.
package syncer

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"tradelink/internal/domain/entity"
	"tradelink/internal/domain/repository"
	"tradelink/internal/store"
)

const (
	defaultFetchTimeout  = 15 * time.Second
	defaultProbeInterval = 30 * time.Second
)

// Refetcher rebuilds an aggregate collection after a child-table change.
// Child rows never carry a complete parent record, so the whole collection
// is re-read. Incremental merge can replace this without touching the
// event loop.
type Refetcher interface {
	RefetchOrders(ctx context.Context) error
	RefetchReturnRequests(ctx context.Context) error
}

// Recorder receives synchronization telemetry. Implementations must be
// safe for concurrent use.
type Recorder interface {
	SyncEvent(table string, action string)
	ProbeResult(ok bool)
}

// Syncer owns the subscriptions and the liveness probe. All remote state
// flows into the store through Dispatch, never by direct mutation.
type Syncer struct {
	gateway   repository.RemoteGateway
	store     *store.Store
	logger    *slog.Logger
	refetcher Refetcher
	recorder  Recorder

	fetchTimeout  time.Duration
	probeInterval time.Duration
	now           func() time.Time

	connected atomic.Bool
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

// Option configures a Syncer.
type Option func(*Syncer)

// WithFetchTimeout bounds the initial bulk fetch and every re-fetch.
func WithFetchTimeout(d time.Duration) Option {
	return func(s *Syncer) { s.fetchTimeout = d }
}

// WithProbeInterval sets how often the liveness probe runs.
func WithProbeInterval(d time.Duration) Option {
	return func(s *Syncer) { s.probeInterval = d }
}

// WithRefetcher replaces the default full-collection refetcher.
func WithRefetcher(r Refetcher) Option {
	return func(s *Syncer) { s.refetcher = r }
}

// WithRecorder attaches synchronization telemetry.
func WithRecorder(r Recorder) Option {
	return func(s *Syncer) { s.recorder = r }
}

// WithClock overrides the time source for action metadata.
func WithClock(now func() time.Time) Option {
	return func(s *Syncer) { s.now = now }
}

// New builds a Syncer. Start must be called before any state flows.
func New(gateway repository.RemoteGateway, st *store.Store, logger *slog.Logger, opts ...Option) *Syncer {
	s := &Syncer{
		gateway:       gateway,
		store:         st,
		logger:        logger,
		fetchTimeout:  defaultFetchTimeout,
		probeInterval: defaultProbeInterval,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.refetcher == nil {
		s.refetcher = &gatewayRefetcher{syncer: s}
	}

	return s
}

// Connected reports whether the last interaction with the gateway
// succeeded. A false value only degrades freshness; the last known
// collections stay served.
func (s *Syncer) Connected() bool {
	return s.connected.Load()
}

// Start performs the initial bulk fetch, opens one subscription per
// tracked table and launches the probe loop. A failed initial fetch
// leaves the syncer disconnected without failing startup.
func (s *Syncer) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	if err := s.initialLoad(ctx); err != nil {
		s.connected.Store(false)
		s.logger.Error("initial sync failed, serving without remote data", slog.Any("error", err))

		s.wg.Add(1)
		go s.probeLoop(ctx)

		return nil
	}
	s.connected.Store(true)

	tables := []repository.Table{
		repository.TableUsers,
		repository.TablePendingUsers,
		repository.TableProducts,
		repository.TableOrders,
		repository.TableOrderItems,
		repository.TableSupportTickets,
		repository.TablePromotions,
		repository.TableReturnRequests,
		repository.TableReturnItems,
		repository.TablePlatformSettings,
	}
	for _, table := range tables {
		events, err := s.gateway.Subscribe(ctx, table)
		if err != nil {
			s.logger.Error("table subscription failed",
				slog.String("table", string(table)), slog.Any("error", err))

			continue
		}

		s.wg.Add(1)
		go s.consume(ctx, table, events)
	}

	s.wg.Add(1)
	go s.probeLoop(ctx)

	return nil
}

// Stop cancels all subscriptions and waits for their goroutines.
func (s *Syncer) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

// Reset empties every externally tracked collection and marks the syncer
// disconnected. Callers invoke it on a hard gateway error, when stale
// data must not be presented as authoritative.
func (s *Syncer) Reset() {
	s.connected.Store(false)
	s.store.Dispatch(store.SyncReset{Meta: store.NewMeta(s.now())})
	s.logger.Warn("sync state reset after hard gateway error")
}

func (s *Syncer) initialLoad(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	users, err := s.gateway.FetchUsers(ctx)
	if err != nil {
		return err
	}
	pending, err := s.gateway.FetchPendingUsers(ctx)
	if err != nil {
		return err
	}
	products, err := s.gateway.FetchProducts(ctx)
	if err != nil {
		return err
	}
	orders, err := s.gateway.FetchOrders(ctx)
	if err != nil {
		return err
	}
	promotions, err := s.gateway.FetchPromotions(ctx)
	if err != nil {
		return err
	}
	tickets, err := s.gateway.FetchSupportTickets(ctx)
	if err != nil {
		return err
	}
	returns, err := s.gateway.FetchReturnRequests(ctx)
	if err != nil {
		return err
	}
	settings, err := s.gateway.FetchPlatformSettings(ctx)
	if err != nil {
		return err
	}

	s.store.Dispatch(store.SyncSnapshot{
		Meta:           store.NewMeta(s.now()),
		Users:          users,
		PendingUsers:   pending,
		Products:       products,
		Orders:         orders,
		Promotions:     promotions,
		SupportTickets: tickets,
		ReturnRequests: returns,
		Settings:       settings,
	})

	s.logger.Info("initial sync complete",
		slog.Int("users", len(users)),
		slog.Int("products", len(products)),
		slog.Int("orders", len(orders)))

	return nil
}

func (s *Syncer) consume(ctx context.Context, table repository.Table, events <-chan repository.ChangeEvent) {
	defer s.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, open := <-events:
			if !open {
				s.logger.Warn("change stream closed", slog.String("table", string(table)))

				return
			}
			s.apply(ctx, ev)
		}
	}
}

func (s *Syncer) apply(ctx context.Context, ev repository.ChangeEvent) {
	if s.recorder != nil {
		s.recorder.SyncEvent(string(ev.Table), string(ev.Action))
	}

	// Aggregate tables are rebuilt wholesale. A row event on the parent
	// table alone never carries the joined child rows either, so parent
	// and child events take the same path.
	switch ev.Table.Parent() {
	case repository.TableOrders:
		s.refetch(ctx, ev.Table, s.refetcher.RefetchOrders)

		return
	case repository.TableReturnRequests:
		s.refetch(ctx, ev.Table, s.refetcher.RefetchReturnRequests)

		return
	}

	action, ok := s.translate(ev)
	if !ok {
		s.logger.Warn("unusable change event dropped",
			slog.String("table", string(ev.Table)),
			slog.String("action", string(ev.Action)))

		return
	}
	s.store.Dispatch(action)
}

func (s *Syncer) refetch(ctx context.Context, table repository.Table, fn func(context.Context) error) {
	ctx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	if err := fn(ctx); err != nil {
		// The stale collection stays in place until the next event or
		// probe recovery.
		s.logger.Error("aggregate refetch failed",
			slog.String("table", string(table)), slog.Any("error", err))
	}
}

// translate maps a single-table change event onto its sync action. Delete
// events only need the row ID; create and update events need the decoded
// record.
func (s *Syncer) translate(ev repository.ChangeEvent) (store.Action, bool) {
	meta := store.NewMeta(s.now())

	switch ev.Table {
	case repository.TableUsers:
		if ev.Action == repository.ChangeDelete {
			return store.SyncRemoveUser{Meta: meta, UserID: ev.ID}, true
		}
		if user, ok := ev.Entity.(*entity.User); ok {
			return store.SyncUpsertUser{Meta: meta, User: *user}, true
		}

	case repository.TablePendingUsers:
		if ev.Action == repository.ChangeDelete {
			return store.SyncRemovePendingUser{Meta: meta, PendingID: ev.ID}, true
		}
		if pending, ok := ev.Entity.(*entity.PendingUser); ok {
			return store.SyncUpsertPendingUser{Meta: meta, Pending: *pending}, true
		}

	case repository.TableProducts:
		if ev.Action == repository.ChangeDelete {
			return store.SyncRemoveProduct{Meta: meta, ProductID: ev.ID}, true
		}
		if product, ok := ev.Entity.(*entity.Product); ok {
			return store.SyncUpsertProduct{Meta: meta, Product: *product}, true
		}

	case repository.TablePromotions:
		if ev.Action == repository.ChangeDelete {
			return store.SyncRemovePromotion{Meta: meta, PromotionID: ev.ID}, true
		}
		if promotion, ok := ev.Entity.(*entity.Promotion); ok {
			return store.SyncUpsertPromotion{Meta: meta, Promotion: *promotion}, true
		}

	case repository.TableSupportTickets:
		if ev.Action == repository.ChangeDelete {
			return store.SyncRemoveSupportTicket{Meta: meta, TicketID: ev.ID}, true
		}
		if ticket, ok := ev.Entity.(*entity.SupportTicket); ok {
			return store.SyncUpsertSupportTicket{Meta: meta, Ticket: *ticket}, true
		}

	case repository.TablePlatformSettings:
		// Settings deletes are ignored; the local defaults keep serving.
		if ev.Action == repository.ChangeDelete {
			return nil, false
		}
		if settings, ok := ev.Entity.(*entity.PlatformSettings); ok {
			return store.SyncSettings{Meta: meta, Settings: *settings}, true
		}
	}

	return nil, false
}

func (s *Syncer) probeLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.probeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.probe(ctx)
		}
	}
}

func (s *Syncer) probe(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	err := s.gateway.Ping(ctx)
	ok := err == nil
	if s.recorder != nil {
		s.recorder.ProbeResult(ok)
	}

	was := s.connected.Swap(ok)
	switch {
	case ok && !was:
		s.logger.Info("gateway connection recovered")
	case !ok && was:
		s.logger.Warn("gateway probe failed, serving last known data", slog.Any("error", err))
	}
}

// gatewayRefetcher is the default Refetcher: a full aggregate fetch
// followed by a collection replacement.
type gatewayRefetcher struct {
	syncer *Syncer
}

func (r *gatewayRefetcher) RefetchOrders(ctx context.Context) error {
	orders, err := r.syncer.gateway.FetchOrders(ctx)
	if err != nil {
		return err
	}
	r.syncer.store.Dispatch(store.SyncReplaceOrders{
		Meta:   store.NewMeta(r.syncer.now()),
		Orders: orders,
	})

	return nil
}

func (r *gatewayRefetcher) RefetchReturnRequests(ctx context.Context) error {
	requests, err := r.syncer.gateway.FetchReturnRequests(ctx)
	if err != nil {
		return err
	}
	r.syncer.store.Dispatch(store.SyncReplaceReturnRequests{
		Meta:     store.NewMeta(r.syncer.now()),
		Requests: requests,
	})

	return nil
}
