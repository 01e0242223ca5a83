package app

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/quickshow/booking-api/internal/domain"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
)

const webhookMaxBodyBytes = 65536

// StripeWebhookHandler turns Stripe checkout events into payment-outcome
// events on the reconciliation queue. It only acknowledges an event once it
// is safely queued, so Stripe retries anything we failed to hand off.
func (app *Application) StripeWebhookHandler(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)

	r.Body = http.MaxBytesReader(w, r.Body, webhookMaxBodyBytes)

	payload, err := io.ReadAll(r.Body)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	event, err := webhook.ConstructEvent(payload, r.Header.Get("Stripe-Signature"), app.config.Stripe.WebhookSecret)
	if err != nil {
		logger.Warn("rejected webhook with invalid signature", "error", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	outcome, session, ok := app.mapStripeEvent(logger, event)
	if !ok {
		// Unrecognized or not-yet-final events are acknowledged so Stripe
		// stops resending them.
		w.WriteHeader(http.StatusOK)
		return
	}

	reference := session.ClientReferenceID
	if reference == "" {
		reference = session.Metadata["booking_reference"]
	}

	if reference == "" {
		logger.Error("checkout session carries no booking reference", "checkout_session_id", session.ID)
		w.WriteHeader(http.StatusOK)
		return
	}

	outcomeEvent := domain.PaymentOutcomeEvent{
		BookingReference:  reference,
		CheckoutSessionID: session.ID,
		Outcome:           outcome,
		OccurredAt:        time.Now(),
	}

	if outcome == domain.PaymentOutcomePaid && session.CustomerDetails != nil {
		outcomeEvent.CustomerEmail = session.CustomerDetails.Email
	}

	err = app.outcomePublisher.Publish(r.Context(), outcomeEvent)
	if err != nil {
		// Non-2xx makes Stripe redeliver; the reconciler is idempotent so
		// the eventual duplicate is fine.
		app.serverErrorResponse(w, r, err)
		return
	}

	logger.Info(
		"payment outcome queued",
		"booking_reference", reference,
		"outcome", outcome,
		"checkout_session_id", session.ID,
	)

	w.WriteHeader(http.StatusOK)
}

func (app *Application) mapStripeEvent(
	logger *slog.Logger,
	event stripe.Event) (domain.PaymentOutcome, *stripe.CheckoutSession, bool) {

	var session stripe.CheckoutSession

	switch string(event.Type) {
	case "checkout.session.completed",
		"checkout.session.async_payment_succeeded",
		"checkout.session.async_payment_failed",
		"checkout.session.expired":

		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			logger.Warn("failed to parse checkout session from webhook", "event_type", event.Type, "error", err)
			return "", nil, false
		}
	default:
		return "", nil, false
	}

	switch string(event.Type) {
	case "checkout.session.completed":
		// Delayed payment methods complete the session before the money
		// moves; the async events below settle those later.
		if session.PaymentStatus == stripe.CheckoutSessionPaymentStatusUnpaid {
			return "", nil, false
		}
		return domain.PaymentOutcomePaid, &session, true

	case "checkout.session.async_payment_succeeded":
		return domain.PaymentOutcomePaid, &session, true

	case "checkout.session.async_payment_failed":
		return domain.PaymentOutcomeFailed, &session, true

	case "checkout.session.expired":
		return domain.PaymentOutcomeExpired, &session, true
	}

	return "", nil, false
}
