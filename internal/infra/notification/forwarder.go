package notification

import (
	"context"
	"log/slog"
	"time"

	"tradelink/internal/domain/entity"
	"tradelink/internal/domain/service"
	"tradelink/internal/infra/cache"
)

const deliverTimeout = 10 * time.Second

// Forwarder resolves the recipients of synthesized notifications against
// the live sessions and hands the push tokens to the deliverer. Delivery
// failures are logged and never surfaced to the dispatching caller.
type Forwarder struct {
	deliverer service.PushDeliverer
	sessions  *cache.SessionCache
	logger    *slog.Logger
}

// NewForwarder builds a Forwarder. A nil deliverer disables push entirely.
func NewForwarder(deliverer service.PushDeliverer, sessions *cache.SessionCache, logger *slog.Logger) *Forwarder {
	return &Forwarder{deliverer: deliverer, sessions: sessions, logger: logger}
}

// Forward is a store.NotificationObserver. The store invokes it off the
// dispatch path, so blocking on the push backend is acceptable here.
func (f *Forwarder) Forward(notifications []entity.Notification) {
	if f.deliverer == nil {
		return
	}

	for _, n := range notifications {
		tokens := f.resolveTokens(n)
		if len(tokens) == 0 {
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), deliverTimeout)
		err := f.deliverer.Deliver(ctx, tokens, n)
		cancel()
		if err != nil {
			f.logger.Warn("push delivery failed",
				slog.String("notification", n.ID.String()),
				slog.Int("tokens", len(tokens)),
				slog.Any("error", err))
		}
	}
}

// resolveTokens maps the recipient token onto the push tokens of the
// sessions whose user the notification is visible to.
func (f *Forwarder) resolveTokens(n entity.Notification) []string {
	seen := make(map[string]struct{})
	var tokens []string
	for _, session := range f.sessions.Sessions() {
		if session.PushToken == "" {
			continue
		}
		if !n.VisibleTo(session.UserID, session.Role) {
			continue
		}
		if _, dup := seen[session.PushToken]; dup {
			continue
		}
		seen[session.PushToken] = struct{}{}
		tokens = append(tokens, session.PushToken)
	}

	return tokens
}
