package app

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/quickshow/booking-api/api"
	"github.com/quickshow/booking-api/internal/cache"
	"github.com/quickshow/booking-api/internal/domain"
	"github.com/redis/go-redis/v9"
)

// GetOccupiedSeatsHandler serves the seat map the booking page renders.
// Results come from a short-lived Redis cache; a stale entry is bounded by
// the cache TTL plus one in-flight write, which the seat-picking UI
// tolerates (the claim itself is still checked at booking time).
func (app *Application) GetOccupiedSeatsHandler(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)

	showID, err := app.readIDParam(r, "showID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	cacheKey := cache.OccupiedSeatsKey(showID)

	cached, err := app.redis.Get(r.Context(), cacheKey).Bytes()
	if err == nil {
		var labels []string
		if err := json.Unmarshal(cached, &labels); err == nil {
			app.writeOccupiedSeats(w, r, labels)
			return
		}

		logger.Warn("dropping corrupt seat cache entry", "key", cacheKey)
		app.redis.Del(r.Context(), cacheKey)
	} else if !errors.Is(err, redis.Nil) {
		// Cache trouble is not a reason to fail the read, fall through to
		// the database.
		logger.Error("seat cache read failed", "key", cacheKey, "error", err)
	}

	occupied, err := app.showRepo.GetOccupiedSeats(r.Context(), showID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			app.notFoundResponse(w, r)
		} else {
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	labels := make([]string, len(occupied))
	for i, seat := range occupied {
		labels[i] = seat.SeatLabel
	}

	if encoded, err := json.Marshal(labels); err == nil {
		err = app.redis.Set(r.Context(), cacheKey, encoded, cache.OccupiedSeatsTTL).Err()
		if err != nil {
			logger.Error("seat cache write failed", "key", cacheKey, "error", err)
		}
	}

	app.writeOccupiedSeats(w, r, labels)
}

func (app *Application) writeOccupiedSeats(w http.ResponseWriter, r *http.Request, labels []string) {
	resp := api.OccupiedSeatsResponse{
		Success:       true,
		OccupiedSeats: labels,
	}

	err := app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
