package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Show is a scheduled screening of a movie. Its occupancy lives in the
// show_seats table: a row per claimed seat, keyed by (show_id, seat_label).
// That table is the single source of truth for seat availability; bookings
// are derived records.
type Show struct {
	ID          int
	MovieID     int
	StartsAt    time.Time
	Price       decimal.Decimal
	SeatRows    int
	SeatsPerRow int
	CreatedAt   time.Time
}

// ShowDetail is a show joined with its movie for listing pages.
type ShowDetail struct {
	Show
	MovieTitle     string
	MoviePosterUrl string
	MovieRuntime   int
}

// OccupiedSeat is one claimed seat of a show together with its holder.
type OccupiedSeat struct {
	SeatLabel string
	UserID    string
	BookingID int
}

// ContainsSeat reports whether a seat label falls inside the show's hall
// layout. Labels are a single row letter followed by a 1-based seat number,
// e.g. "A1" or "C12".
func (s Show) ContainsSeat(label string) bool {
	if len(label) < 2 {
		return false
	}

	row := label[0]
	if row < 'A' || row >= byte('A'+s.SeatRows) {
		return false
	}

	num := 0
	for i := 1; i < len(label); i++ {
		ch := label[i]
		if ch < '0' || ch > '9' {
			return false
		}
		num = num*10 + int(ch-'0')
	}

	return num >= 1 && num <= s.SeatsPerRow
}

type ShowFilters struct {
	Page     int
	PageSize int
}

func (f ShowFilters) Limit() int {
	return f.PageSize
}

func (f ShowFilters) Offset() int {
	return (f.Page - 1) * f.PageSize
}

type ShowRepository interface {
	GetAll(ctx context.Context, filters ShowFilters) ([]*ShowDetail, *Metadata, error)
	GetById(ctx context.Context, id int) (*Show, error)
	GetByIdWithMovie(ctx context.Context, id int) (*ShowDetail, error)
	GetOccupiedSeats(ctx context.Context, showID int) ([]OccupiedSeat, error)
}
