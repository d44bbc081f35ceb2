package service

import (
	"context"

	"github.com/google/uuid"
)

// PaymentOutcome is one of the three terminal results of a payment flow.
type PaymentOutcome string

const (
	// PaymentOutcomeSuccess indicates the amount was paid.
	PaymentOutcomeSuccess PaymentOutcome = "success"
	// PaymentOutcomeFailure indicates the payment was rejected.
	PaymentOutcomeFailure PaymentOutcome = "failure"
	// PaymentOutcomeCancelled indicates the payer abandoned the flow.
	PaymentOutcomeCancelled PaymentOutcome = "cancelled"
)

// PaymentResult is reported back by the provider's return/cancel callbacks.
type PaymentResult struct {
	OrderID uuid.UUID      // The order the payment belongs to.
	Outcome PaymentOutcome // Terminal result of the flow.
	Amount  float64        // Amount paid, zero unless Outcome is success.
	Reason  string         // Failure reason, empty unless Outcome is failure.
}

// PaymentProvider starts an opaque hosted payment flow for an order. The
// core only consumes the three outcomes to drive order transitions.
type PaymentProvider interface {
	// Begin opens a payment flow and returns the URL the payer is sent to.
	Begin(ctx context.Context, orderID uuid.UUID, amount float64) (string, error)
}
