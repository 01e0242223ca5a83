// Package api holds the request and response types of the booking API.
package api

import (
	"time"

	"github.com/shopspring/decimal"
)

type ErrorResponse struct {
	Message   string    `json:"message"`
	RequestId string    `json:"requestId,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type ValidationError struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

type ValidationErrorResponse struct {
	Message          string            `json:"message"`
	ValidationErrors []ValidationError `json:"validationErrors"`
	RequestId        string            `json:"requestId,omitempty"`
	Timestamp        time.Time         `json:"timestamp"`
}

type SystemInfo struct {
	Version     string `json:"version"`
	Environment string `json:"environment"`
}

type HealthcheckResponse struct {
	Status     string     `json:"status"`
	SystemInfo SystemInfo `json:"systemInfo"`
}

type CreateBookingRequest struct {
	Seats []string `json:"seats" validate:"required,min=1,max=10,unique,dive,seat_label"`
}

type CreateBookingResponse struct {
	Success     bool            `json:"success"`
	BookingId   string          `json:"bookingId"`
	Amount      decimal.Decimal `json:"amount"`
	Seats       []string        `json:"seats"`
	CheckoutUrl string          `json:"checkoutUrl,omitempty"`
}

type OccupiedSeatsResponse struct {
	Success       bool     `json:"success"`
	OccupiedSeats []string `json:"occupiedSeats"`
}

type Movie struct {
	Id          int       `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Genres      []string  `json:"genres"`
	ReleaseDate time.Time `json:"releaseDate"`
	Runtime     int       `json:"runtime"`
	PosterUrl   string    `json:"posterUrl"`
	Rating      *float64  `json:"rating,omitempty"`
}

type MoviesResponse struct {
	Movies []Movie `json:"movies"`
}

type Show struct {
	Id          int             `json:"id"`
	MovieId     int             `json:"movieId"`
	MovieTitle  string          `json:"movieTitle"`
	PosterUrl   string          `json:"posterUrl"`
	StartsAt    time.Time       `json:"startsAt"`
	Price       decimal.Decimal `json:"price"`
	SeatRows    int             `json:"seatRows"`
	SeatsPerRow int             `json:"seatsPerRow"`
}

type Metadata struct {
	CurrentPage  int `json:"currentPage"`
	FirstPage    int `json:"firstPage"`
	LastPage     int `json:"lastPage"`
	PageSize     int `json:"pageSize"`
	TotalRecords int `json:"totalRecords"`
}

type ShowsResponse struct {
	Shows    []Show   `json:"shows"`
	Metadata Metadata `json:"metadata"`
}

type ShowResponse struct {
	Show Show `json:"show"`
}

type BookingSummary struct {
	Reference  string          `json:"reference"`
	MovieTitle string          `json:"movieTitle"`
	PosterUrl  string          `json:"posterUrl"`
	StartsAt   time.Time       `json:"startsAt"`
	Seats      []string        `json:"seats"`
	Amount     decimal.Decimal `json:"amount"`
	Status     string          `json:"status"`
	CreatedAt  time.Time       `json:"createdAt"`
}

type UserBookingsResponse struct {
	Bookings []BookingSummary `json:"bookings"`
	Metadata Metadata         `json:"metadata"`
}

// Absent query params are filled with defaults before validation, so zero is
// always a client-supplied value and always invalid.
type GetShowsParams struct {
	Page     int `validate:"min=1"`
	PageSize int `validate:"min=1,max=100"`
}

type GetUserBookingsParams struct {
	Page     int `validate:"min=1"`
	PageSize int `validate:"min=1,max=100"`
}
