package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/quickshow/booking-api/api"
	"github.com/quickshow/booking-api/internal/cache"
	"github.com/quickshow/booking-api/internal/domain"
	"github.com/shopspring/decimal"
)

// checkSeatsAvailability reports whether every requested seat is still free.
// A missing show or a storage failure counts as unavailable: guessing
// "available" on bad data is how seats get oversold.
func (app *Application) checkSeatsAvailability(ctx context.Context, showID int, seats []string) bool {
	occupied, err := app.showRepo.GetOccupiedSeats(ctx, showID)
	if err != nil {
		if !errors.Is(err, domain.ErrRecordNotFound) {
			app.logger.Error("availability check failed, treating seats as unavailable", "show_id", showID, "error", err)
		}

		return false
	}

	occupiedSet := make(map[string]bool, len(occupied))
	for _, seat := range occupied {
		occupiedSet[seat.SeatLabel] = true
	}

	for _, seat := range seats {
		if occupiedSet[seat] {
			return false
		}
	}

	return true
}

func (app *Application) CreateBookingHandler(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)

	showID, err := app.readIDParam(r, "showID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var input api.CreateBookingRequest

	err = app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	show, err := app.showRepo.GetById(r.Context(), showID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			app.notFoundResponse(w, r)
		} else {
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	for _, seat := range input.Seats {
		if !show.ContainsSeat(seat) {
			app.badRequestResponse(w, r, fmt.Errorf("seat %s does not exist in this hall", seat))
			return
		}
	}

	movie, err := app.movieRepo.GetById(r.Context(), show.MovieID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	if !app.checkSeatsAvailability(r.Context(), showID, input.Seats) {
		app.conflictResponse(w, r, ErrSeatsNotAvailable)
		return
	}

	userId := app.contextGetUserId(r)

	booking := &domain.Booking{
		Reference: uuid.New().String(),
		UserID:    userId,
		ShowID:    showID,
		Seats:     input.Seats,
		Amount:    show.Price.Mul(decimal.NewFromInt(int64(len(input.Seats)))),
		Status:    domain.BookingStatusCreated,
	}

	// The availability check above is advisory only; the claim itself is the
	// conditional insert inside Create, so two requests racing for the same
	// seat cannot both get it.
	err = app.bookingRepo.Create(r.Context(), booking)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrSeatsUnavailable):
			logger.Warn("booking lost the race for its seats", "show_id", showID, "seats", input.Seats)
			app.conflictResponse(w, r, ErrSeatsNotAvailable)
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	app.invalidateSeatCache(r.Context(), showID)

	checkoutSession, err := app.paymentProvider.CreateCheckoutSession(booking, show, movie)
	if err != nil {
		// Without a checkout session the booking can never be paid, so undo
		// the claim instead of leaving the seats locked until expiry.
		logger.Error("checkout session creation failed, releasing booking", "booking_reference", booking.Reference, "error", err)

		if releaseErr := app.bookingRepo.CancelAndRelease(r.Context(), booking.Reference); releaseErr != nil {
			logger.Error("failed to release booking after checkout failure", "booking_reference", booking.Reference, "error", releaseErr)
		}
		app.invalidateSeatCache(r.Context(), showID)

		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.bookingRepo.SetCheckoutSession(r.Context(), booking.Reference, checkoutSession.ID)
	if err != nil {
		// The webhook correlates by booking reference, not session id, so a
		// failure here loses bookkeeping detail but not correctness.
		logger.Error("failed to store checkout session id", "booking_reference", booking.Reference, "error", err)
	}

	logger.Info(
		"booking created",
		"booking_reference", booking.Reference,
		"show_id", showID,
		"seats", booking.Seats,
		"amount", booking.Amount,
	)

	resp := api.CreateBookingResponse{
		Success:     true,
		BookingId:   booking.Reference,
		Amount:      booking.Amount,
		Seats:       booking.Seats,
		CheckoutUrl: checkoutSession.URL,
	}

	err = app.writeJSON(w, http.StatusCreated, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetUserBookingsHandler(w http.ResponseWriter, r *http.Request) {
	page, pageSize := app.readPageParams(r)

	params := api.GetUserBookingsParams{Page: page, PageSize: pageSize}

	err := app.validator.Struct(params)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	userId := app.contextGetUserId(r)
	filters := domain.ShowFilters{Page: page, PageSize: pageSize}

	summaries, metadata, err := app.bookingRepo.GetSummariesByUserId(r.Context(), userId, filters)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.UserBookingsResponse{
		Bookings: toBookingSummaries(summaries),
		Metadata: toApiMetadata(metadata),
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) invalidateSeatCache(ctx context.Context, showID int) {
	err := app.redis.Del(ctx, cache.OccupiedSeatsKey(showID)).Err()
	if err != nil {
		app.logger.Error("failed to invalidate seat cache", "show_id", showID, "error", err)
	}
}

func toBookingSummaries(summaries []domain.BookingSummary) []api.BookingSummary {
	apiSummaries := make([]api.BookingSummary, len(summaries))

	for i, v := range summaries {
		apiSummaries[i] = api.BookingSummary{
			Reference:  v.Reference,
			MovieTitle: v.MovieTitle,
			PosterUrl:  v.MoviePosterUrl,
			StartsAt:   v.ShowStartsAt,
			Seats:      v.Seats,
			Amount:     v.Amount,
			Status:     string(v.Status),
			CreatedAt:  v.CreatedAt,
		}
	}

	return apiSummaries
}

func toApiMetadata(metadata *domain.Metadata) api.Metadata {
	if metadata == nil {
		return api.Metadata{}
	}

	return api.Metadata{
		CurrentPage:  metadata.CurrentPage,
		FirstPage:    metadata.FirstPage,
		LastPage:     metadata.LastPage,
		PageSize:     metadata.PageSize,
		TotalRecords: metadata.TotalRecords,
	}
}
