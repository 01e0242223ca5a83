package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type BookingStatus string

const (
	BookingStatusCreated   BookingStatus = "created"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Booking is a user's claim on a set of seats for one show. Amount is fixed
// at creation time as show price times seat count. Reference is the
// client-facing identifier and the correlation id carried through the
// payment provider.
type Booking struct {
	ID                int
	Reference         string
	UserID            string
	ShowID            int
	Seats             []string
	Amount            decimal.Decimal
	Status            BookingStatus
	CheckoutSessionID *string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// BookingSummary is a row of the user's booking history.
type BookingSummary struct {
	Reference      string
	MovieTitle     string
	MoviePosterUrl string
	ShowStartsAt   time.Time
	Seats          []string
	Amount         decimal.Decimal
	Status         BookingStatus
	CreatedAt      time.Time
}

type BookingRepository interface {
	// Create persists the booking and claims every seat in booking.Seats
	// atomically. It returns ErrSeatsUnavailable if any seat is already
	// claimed, without leaving any partial claim behind, and
	// ErrRecordNotFound if the show does not exist.
	Create(ctx context.Context, booking *Booking) error

	GetByReference(ctx context.Context, reference string) (*Booking, error)
	GetByShowId(ctx context.Context, showID int) ([]Booking, error)
	GetSummariesByUserId(ctx context.Context, userID string, filters ShowFilters) ([]BookingSummary, *Metadata, error)

	SetCheckoutSession(ctx context.Context, reference, checkoutSessionID string) error

	// Confirm transitions a created booking to confirmed. It is a no-op for
	// a booking that is already confirmed and never resurrects a cancelled
	// one.
	Confirm(ctx context.Context, reference string) error

	// CancelAndRelease marks the booking cancelled and removes every seat it
	// holds from the show's occupancy, in one transaction. Confirmed
	// bookings are left untouched.
	CancelAndRelease(ctx context.Context, reference string) error
}
