package notification

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradelink/internal/domain/entity"
	"tradelink/internal/infra/cache"
)

type delivery struct {
	tokens       []string
	notification entity.Notification
}

type fakeDeliverer struct {
	err        error
	deliveries []delivery
}

func (f *fakeDeliverer) Deliver(_ context.Context, tokens []string, n entity.Notification) error {
	f.deliveries = append(f.deliveries, delivery{tokens: tokens, notification: n})
	return f.err
}

func newForwarderForTest(t *testing.T, deliverer *fakeDeliverer) (*Forwarder, *cache.SessionCache) {
	t.Helper()

	sessions := cache.NewSessionCache(time.Hour, time.Minute)
	t.Cleanup(sessions.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if deliverer == nil {
		return NewForwarder(nil, sessions, logger), sessions
	}

	return NewForwarder(deliverer, sessions, logger), sessions
}

func session(userID uuid.UUID, role entity.Role, pushToken string) cache.Session {
	return cache.Session{
		UserID:       userID,
		Role:         role,
		RefreshToken: uuid.NewString(),
		PushToken:    pushToken,
	}
}

func TestForwarder_DeliversToVisibleSessions(t *testing.T) {
	deliverer := &fakeDeliverer{}
	fwd, sessions := newForwarderForTest(t, deliverer)

	recipient := uuid.New()
	bystander := uuid.New()
	sessions.Put(session(recipient, entity.RoleRetailer, "fcm-recipient"))
	sessions.Put(session(bystander, entity.RoleWholesaler, "fcm-bystander"))

	fwd.Forward([]entity.Notification{{
		ID:     uuid.New(),
		UserID: entity.RecipientUser(recipient),
		Type:   entity.NotificationTypeOrder,
		Title:  "New order",
	}})

	require.Len(t, deliverer.deliveries, 1)
	assert.Equal(t, []string{"fcm-recipient"}, deliverer.deliveries[0].tokens)
	assert.Equal(t, "New order", deliverer.deliveries[0].notification.Title)
}

func TestForwarder_ChannelNotificationFansOutByRole(t *testing.T) {
	deliverer := &fakeDeliverer{}
	fwd, sessions := newForwarderForTest(t, deliverer)

	sessions.Put(session(uuid.New(), entity.RoleAdmin, "fcm-admin"))
	sessions.Put(session(uuid.New(), entity.RoleSupport, "fcm-support"))
	sessions.Put(session(uuid.New(), entity.RoleRetailer, "fcm-retailer"))

	fwd.Forward([]entity.Notification{{
		ID:     uuid.New(),
		UserID: entity.ChannelSupport,
		Type:   entity.NotificationTypeSupport,
	}})

	require.Len(t, deliverer.deliveries, 1)
	assert.ElementsMatch(t, []string{"fcm-admin", "fcm-support"}, deliverer.deliveries[0].tokens)
}

func TestForwarder_SkipsTokenlessAndDuplicateSessions(t *testing.T) {
	deliverer := &fakeDeliverer{}
	fwd, sessions := newForwarderForTest(t, deliverer)

	userID := uuid.New()
	// Two devices sharing one registration token plus a session without push.
	sessions.Put(session(userID, entity.RoleRetailer, "fcm-shared"))
	sessions.Put(session(userID, entity.RoleRetailer, "fcm-shared"))
	sessions.Put(session(userID, entity.RoleRetailer, ""))

	fwd.Forward([]entity.Notification{{
		ID:     uuid.New(),
		UserID: entity.ChannelAll,
	}})

	require.Len(t, deliverer.deliveries, 1)
	assert.Equal(t, []string{"fcm-shared"}, deliverer.deliveries[0].tokens)
}

func TestForwarder_NoMatchingSessionSkipsDelivery(t *testing.T) {
	deliverer := &fakeDeliverer{}
	fwd, sessions := newForwarderForTest(t, deliverer)

	sessions.Put(session(uuid.New(), entity.RoleRetailer, "fcm-retailer"))

	fwd.Forward([]entity.Notification{{
		ID:     uuid.New(),
		UserID: entity.ChannelAdmin,
	}})

	assert.Empty(t, deliverer.deliveries)
}

func TestForwarder_DeliveryFailureIsSwallowed(t *testing.T) {
	deliverer := &fakeDeliverer{err: errors.New("fcm unreachable")}
	fwd, sessions := newForwarderForTest(t, deliverer)

	sessions.Put(session(uuid.New(), entity.RoleRetailer, "fcm-a"))

	assert.NotPanics(t, func() {
		fwd.Forward([]entity.Notification{
			{ID: uuid.New(), UserID: entity.ChannelAll},
			{ID: uuid.New(), UserID: entity.ChannelAll},
		})
	})
	assert.Len(t, deliverer.deliveries, 2)
}

func TestForwarder_NilDelivererDisablesPush(t *testing.T) {
	fwd, sessions := newForwarderForTest(t, nil)

	sessions.Put(session(uuid.New(), entity.RoleRetailer, "fcm-a"))

	assert.NotPanics(t, func() {
		fwd.Forward([]entity.Notification{{ID: uuid.New(), UserID: entity.ChannelAll}})
	})
}
