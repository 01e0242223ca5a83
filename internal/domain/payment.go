package domain

import (
	"context"
	"time"

	"github.com/stripe/stripe-go/v82"
)

type PaymentOutcome string

const (
	PaymentOutcomePaid    PaymentOutcome = "paid"
	PaymentOutcomeFailed  PaymentOutcome = "failed"
	PaymentOutcomeExpired PaymentOutcome = "expired"
)

// PaymentOutcomeEvent is the message published by the webhook handler and
// consumed by the reconciler. BookingReference correlates the checkout
// session back to the booking that created it.
type PaymentOutcomeEvent struct {
	BookingReference  string         `json:"booking_reference"`
	CheckoutSessionID string         `json:"checkout_session_id"`
	Outcome           PaymentOutcome `json:"outcome"`
	// Email collected by the payment provider during checkout, used for the
	// confirmation receipt. Empty for failed and expired outcomes.
	CustomerEmail string    `json:"customer_email,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

type PaymentProvider interface {
	CreateCheckoutSession(booking *Booking, show *Show, movie *Movie) (*stripe.CheckoutSession, error)
}

// PaymentOutcomePublisher hands payment outcomes to the reconciliation queue.
type PaymentOutcomePublisher interface {
	Publish(ctx context.Context, event PaymentOutcomeEvent) error
}
