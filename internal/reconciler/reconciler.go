// Package reconciler finalizes or reverses pending bookings based on payment
// outcomes. Both hooks are idempotent so redelivered events are harmless.
package reconciler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/quickshow/booking-api/internal/cache"
	"github.com/quickshow/booking-api/internal/domain"
	"github.com/quickshow/booking-api/internal/mailer"
	"github.com/redis/go-redis/v9"
)

type Reconciler struct {
	bookingRepo domain.BookingRepository
	showRepo    domain.ShowRepository
	movieRepo   domain.MovieRepository
	redis       redis.UniversalClient
	mailer      mailer.Mailer
	logger      *slog.Logger
	wg          sync.WaitGroup
}

func New(
	bookingRepo domain.BookingRepository,
	showRepo domain.ShowRepository,
	movieRepo domain.MovieRepository,
	redisClient redis.UniversalClient,
	mailer mailer.Mailer,
	logger *slog.Logger) *Reconciler {

	return &Reconciler{
		bookingRepo: bookingRepo,
		showRepo:    showRepo,
		movieRepo:   movieRepo,
		redis:       redisClient,
		mailer:      mailer,
		logger:      logger,
	}
}

func (r *Reconciler) HandlePaymentOutcome(ctx context.Context, event domain.PaymentOutcomeEvent) error {
	switch event.Outcome {
	case domain.PaymentOutcomePaid:
		return r.OnPaymentConfirmed(ctx, event)
	case domain.PaymentOutcomeFailed, domain.PaymentOutcomeExpired:
		return r.OnPaymentFailedOrExpired(ctx, event)
	default:
		r.logger.Error("unknown payment outcome", "outcome", event.Outcome, "booking_reference", event.BookingReference)
		return nil
	}
}

// OnPaymentConfirmed transitions the booking to confirmed. Repeat events are
// no-ops. A payment that lands after the booking was cancelled is logged and
// swallowed: the seats are gone and the charge has to be resolved by support,
// retrying cannot fix it.
func (r *Reconciler) OnPaymentConfirmed(ctx context.Context, event domain.PaymentOutcomeEvent) error {
	err := r.bookingRepo.Confirm(ctx, event.BookingReference)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			r.logger.Warn("payment confirmed for unknown booking", "booking_reference", event.BookingReference)
			return nil
		case errors.Is(err, domain.ErrBookingCancelled):
			r.logger.Warn(
				"payment confirmed after booking was cancelled, needs manual refund",
				"booking_reference", event.BookingReference,
				"checkout_session_id", event.CheckoutSessionID,
			)
			return nil
		default:
			return fmt.Errorf("confirm booking %s: %w", event.BookingReference, err)
		}
	}

	r.logger.Info("booking confirmed", "booking_reference", event.BookingReference)

	if event.CustomerEmail != "" {
		r.sendConfirmationMail(event.BookingReference, event.CustomerEmail)
	}

	return nil
}

// OnPaymentFailedOrExpired releases every seat the booking held and marks it
// cancelled. Without this reversal, seats claimed by abandoned payments would
// stay locked forever.
func (r *Reconciler) OnPaymentFailedOrExpired(ctx context.Context, event domain.PaymentOutcomeEvent) error {
	booking, err := r.bookingRepo.GetByReference(ctx, event.BookingReference)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			r.logger.Warn("payment outcome for unknown booking", "booking_reference", event.BookingReference)
			return nil
		}

		return fmt.Errorf("load booking %s: %w", event.BookingReference, err)
	}

	err = r.bookingRepo.CancelAndRelease(ctx, event.BookingReference)
	if err != nil {
		return fmt.Errorf("cancel booking %s: %w", event.BookingReference, err)
	}

	if err := r.redis.Del(ctx, cache.OccupiedSeatsKey(booking.ShowID)).Err(); err != nil {
		r.logger.Error("failed to invalidate seat cache", "show_id", booking.ShowID, "error", err)
	}

	r.logger.Info(
		"booking cancelled and seats released",
		"booking_reference", event.BookingReference,
		"outcome", event.Outcome,
		"seats", booking.Seats,
	)

	return nil
}

func (r *Reconciler) sendConfirmationMail(reference, recipient string) {
	r.wg.Add(1)

	go func() {
		defer r.wg.Done()

		defer func() {
			if err := recover(); err != nil {
				r.logger.Error("panic while sending confirmation mail", "error", fmt.Sprintf("%v", err))
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		booking, err := r.bookingRepo.GetByReference(ctx, reference)
		if err != nil {
			r.logger.Error("failed to load booking for confirmation mail", "booking_reference", reference, "error", err)
			return
		}

		show, err := r.showRepo.GetById(ctx, booking.ShowID)
		if err != nil {
			r.logger.Error("failed to load show for confirmation mail", "booking_reference", reference, "error", err)
			return
		}

		movie, err := r.movieRepo.GetById(ctx, show.MovieID)
		if err != nil {
			r.logger.Error("failed to load movie for confirmation mail", "booking_reference", reference, "error", err)
			return
		}

		data := map[string]any{
			"Reference":  booking.Reference,
			"MovieTitle": movie.Title,
			"StartsAt":   show.StartsAt.Format("Mon, Jan 2 2006 at 15:04"),
			"Seats":      strings.Join(booking.Seats, ", "),
			"Amount":     booking.Amount,
		}

		if err := r.mailer.Send(recipient, "booking_confirmation.tmpl", data); err != nil {
			r.logger.Error("failed to send confirmation mail", "booking_reference", reference, "error", err)
		}
	}()
}

// Wait blocks until in-flight confirmation mails are done. Called on
// shutdown.
func (r *Reconciler) Wait() {
	r.wg.Wait()
}
