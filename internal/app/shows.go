package app

import (
	"errors"
	"net/http"

	"github.com/quickshow/booking-api/api"
	"github.com/quickshow/booking-api/internal/domain"
)

func (app *Application) GetShowsHandler(w http.ResponseWriter, r *http.Request) {
	page, pageSize := app.readPageParams(r)

	params := api.GetShowsParams{Page: page, PageSize: pageSize}

	err := app.validator.Struct(params)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	filters := domain.ShowFilters{Page: page, PageSize: pageSize}

	shows, metadata, err := app.showRepo.GetAll(r.Context(), filters)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	apiShows := make([]api.Show, len(shows))
	for i, show := range shows {
		apiShows[i] = toApiShow(show)
	}

	resp := api.ShowsResponse{
		Shows:    apiShows,
		Metadata: toApiMetadata(metadata),
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetShowHandler(w http.ResponseWriter, r *http.Request) {
	showID, err := app.readIDParam(r, "showID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	show, err := app.showRepo.GetByIdWithMovie(r.Context(), showID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			app.notFoundResponse(w, r)
		} else {
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	resp := api.ShowResponse{
		Show: toApiShow(show),
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func toApiShow(show *domain.ShowDetail) api.Show {
	return api.Show{
		Id:          show.ID,
		MovieId:     show.MovieID,
		MovieTitle:  show.MovieTitle,
		PosterUrl:   show.MoviePosterUrl,
		StartsAt:    show.StartsAt,
		Price:       show.Price,
		SeatRows:    show.SeatRows,
		SeatsPerRow: show.SeatsPerRow,
	}
}
