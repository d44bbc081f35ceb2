package service

import (
	"context"

	"tradelink/internal/domain/entity"
)

// PushDeliverer forwards synthesized notifications to an on-device delivery
// mechanism. The core only produces to it; delivery and display are out of
// scope and failures are logged, never surfaced.
type PushDeliverer interface {
	// Deliver sends one notification to the devices registered for the tokens.
	Deliver(ctx context.Context, tokens []string, notification entity.Notification) error
}
