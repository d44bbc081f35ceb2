package store

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradelink/internal/domain/entity"
	"tradelink/internal/domain/repository"
)

// fakeGateway records write calls in order. Unlisted interface methods come
// from the embedded nil interface and panic if reached, which keeps the fake
// honest about what a dispatch is allowed to touch.
type fakeGateway struct {
	repository.RemoteGateway

	mu    sync.Mutex
	calls []string
	err   error
}

func (f *fakeGateway) record(call string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)

	return f.err
}

func (f *fakeGateway) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]string(nil), f.calls...)
}

func (f *fakeGateway) CreateUser(context.Context, entity.User) error       { return f.record("CreateUser") }
func (f *fakeGateway) UpdateUser(context.Context, entity.User) error       { return f.record("UpdateUser") }
func (f *fakeGateway) CreatePendingUser(context.Context, entity.PendingUser) error {
	return f.record("CreatePendingUser")
}
func (f *fakeGateway) DeletePendingUser(context.Context, uuid.UUID) error {
	return f.record("DeletePendingUser")
}
func (f *fakeGateway) CreateProduct(context.Context, entity.Product) error {
	return f.record("CreateProduct")
}
func (f *fakeGateway) UpdateOrder(context.Context, entity.Order) error { return f.record("UpdateOrder") }
func (f *fakeGateway) CreateOrder(context.Context, entity.Order) error { return f.record("CreateOrder") }
func (f *fakeGateway) CreatePromotion(context.Context, entity.Promotion) error {
	return f.record("CreatePromotion")
}
func (f *fakeGateway) SavePlatformSettings(context.Context, entity.PlatformSettings) error {
	return f.record("SavePlatformSettings")
}

type fakeRecorder struct {
	mu         sync.Mutex
	dispatched []string
	writes     map[WriteStatus]int
}

func newFakeRecorder() *fakeRecorder {
	return &fakeRecorder{writes: map[WriteStatus]int{}}
}

func (r *fakeRecorder) ActionDispatched(action string, _ bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dispatched = append(r.dispatched, action)
}

func (r *fakeRecorder) RemoteWrite(_ string, status WriteStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writes[status]++
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestStore_DispatchOfflineSkipsPersistence(t *testing.T) {
	results := make(chan WriteResult, 1)
	s := New(testLogger(), WithWriteResults(results))

	outcome := s.Dispatch(AddProduct{Meta: testMeta(t), Product: entity.Product{ID: uuid.New(), Name: "Crates"}})
	s.Wait()

	require.False(t, outcome.NotFound)
	assert.Len(t, s.State().Products, 1)
	select {
	case r := <-results:
		t.Fatalf("no write result expected without a gateway, got %+v", r)
	default:
	}
}

func TestStore_DispatchPersistsInBackground(t *testing.T) {
	gw := &fakeGateway{}
	results := make(chan WriteResult, 1)
	s := New(testLogger(), WithGateway(gw), WithWriteResults(results))

	s.Dispatch(AddProduct{Meta: testMeta(t), Product: entity.Product{ID: uuid.New()}})
	s.Wait()

	r := <-results
	assert.Equal(t, "AddProduct", r.Action)
	assert.Equal(t, WriteApplied, r.Status)
	assert.Equal(t, []string{"CreateProduct"}, gw.Calls())
}

func TestStore_RemoteFailureKeepsLocalState(t *testing.T) {
	gw := &fakeGateway{err: repository.ErrGatewayUnavailable}
	results := make(chan WriteResult, 1)
	s := New(testLogger(), WithGateway(gw), WithWriteResults(results))

	product := entity.Product{ID: uuid.New(), Name: "Sacks"}
	s.Dispatch(AddProduct{Meta: testMeta(t), Product: product})
	s.Wait()

	r := <-results
	assert.Equal(t, WriteFailed, r.Status)
	assert.ErrorIs(t, r.Err, repository.ErrGatewayUnavailable)

	// The local write is never rolled back.
	require.Len(t, s.State().Products, 1)
	assert.Equal(t, product.ID, s.State().Products[0].ID)
}

func TestStore_ApproveUserWritesUserBeforeDeletingPending(t *testing.T) {
	gw := &fakeGateway{}
	results := make(chan WriteResult, 1)
	s := New(testLogger(), WithGateway(gw), WithWriteResults(results))

	pending := testPending(entity.RoleRetailer)
	s.Dispatch(SyncUpsertPendingUser{Meta: testMeta(t), Pending: pending})
	s.Wait()
	<-results

	s.Dispatch(ApproveUser{Meta: testMeta(t), PendingID: pending.ID, NewUserID: uuid.New(), ReviewedBy: uuid.New()})
	s.Wait()

	r := <-results
	assert.Equal(t, WriteApplied, r.Status)
	assert.Equal(t, []string{"CreateUser", "DeletePendingUser"}, gw.Calls())
}

func TestStore_NotFoundDispatchSkipsRemoteWrite(t *testing.T) {
	gw := &fakeGateway{}
	results := make(chan WriteResult, 1)
	s := New(testLogger(), WithGateway(gw), WithWriteResults(results))

	outcome := s.Dispatch(SuspendUser{Meta: testMeta(t), UserID: uuid.New()})
	s.Wait()

	assert.True(t, outcome.NotFound)
	r := <-results
	assert.Equal(t, WriteNoEffect, r.Status)
	assert.Empty(t, gw.Calls())
}

func TestStore_NotificationActionsAreLocalOnly(t *testing.T) {
	gw := &fakeGateway{}
	results := make(chan WriteResult, 2)
	s := New(testLogger(), WithGateway(gw), WithWriteResults(results))

	u := entity.User{ID: uuid.New(), Role: entity.RoleRetailer}
	s.Dispatch(SyncUpsertUser{Meta: testMeta(t), User: u})
	s.Dispatch(BroadcastAnnouncement{Meta: testMeta(t), SenderID: uuid.New(), Title: "Notice", Message: "hi"})
	s.Wait()

	for range 2 {
		r := <-results
		assert.Equal(t, WriteNoEffect, r.Status)
	}
	assert.Empty(t, gw.Calls())
}

func TestStore_ObserversSeeEveryPublishedState(t *testing.T) {
	s := New(testLogger())

	var states []State
	s.Subscribe(func(st State) { states = append(states, st) })

	s.Dispatch(AddProduct{Meta: testMeta(t), Product: entity.Product{ID: uuid.New()}})
	s.Dispatch(AddProduct{Meta: testMeta(t), Product: entity.Product{ID: uuid.New()}})

	require.Len(t, states, 2)
	assert.Len(t, states[0].Products, 1)
	assert.Len(t, states[1].Products, 2)
}

func TestStore_ConcurrentDispatchesPublishInCommitOrder(t *testing.T) {
	s := New(testLogger())

	// Publication is serialized, so appending without a lock is safe here.
	var sizes []int
	s.Subscribe(func(st State) { sizes = append(sizes, len(st.Products)) })

	const dispatches = 32
	var wg sync.WaitGroup
	for range dispatches {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Dispatch(SyncUpsertProduct{Meta: testMeta(t), Product: entity.Product{ID: uuid.New()}})
		}()
	}
	wg.Wait()

	require.Len(t, sizes, dispatches)
	for i, size := range sizes {
		assert.Equal(t, i+1, size, "observer saw a state out of commit order")
	}
}

func TestStore_NotificationObserverReceivesDerived(t *testing.T) {
	s := New(testLogger())

	received := make(chan []entity.Notification, 1)
	s.OnNotifications(func(ns []entity.Notification) { received <- ns })

	order := entity.Order{ID: uuid.New(), WholesalerID: uuid.New(), Total: 250}
	s.Dispatch(AddOrder{Meta: testMeta(t), Order: order})

	select {
	case ns := <-received:
		require.Len(t, ns, 1)
		assert.Equal(t, entity.RecipientUser(order.WholesalerID), ns[0].UserID)
	case <-time.After(time.Second):
		t.Fatal("notification observer was not invoked")
	}
}

func TestStore_RecorderCountsDispatchesAndWrites(t *testing.T) {
	gw := &fakeGateway{}
	rec := newFakeRecorder()
	results := make(chan WriteResult, 2)
	s := New(testLogger(), WithGateway(gw), WithRecorder(rec), WithWriteResults(results))

	s.Dispatch(AddProduct{Meta: testMeta(t), Product: entity.Product{ID: uuid.New()}})
	s.Dispatch(MarkAllNotificationsRead{Meta: testMeta(t), UserID: uuid.New(), Role: entity.RoleRetailer})
	s.Wait()
	<-results
	<-results

	rec.mu.Lock()
	defer rec.mu.Unlock()
	assert.Equal(t, []string{"AddProduct", "MarkAllNotificationsRead"}, rec.dispatched)
	assert.Equal(t, 1, rec.writes[WriteApplied])
	assert.Equal(t, 1, rec.writes[WriteNoEffect])
}

func TestActionName(t *testing.T) {
	assert.Equal(t, "AddOrder", ActionName(AddOrder{}))
	assert.Equal(t, "SyncReset", ActionName(SyncReset{}))
}
