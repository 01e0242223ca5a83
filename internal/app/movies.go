package app

import (
	"net/http"

	"github.com/quickshow/booking-api/api"
	"github.com/quickshow/booking-api/internal/domain"
)

// GetMoviesHandler lists the catalog the show listings hang off. The catalog
// is small and changes rarely, so it is served unpaginated.
func (app *Application) GetMoviesHandler(w http.ResponseWriter, r *http.Request) {
	movies, err := app.movieRepo.GetAll(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	apiMovies := make([]api.Movie, len(movies))
	for i, movie := range movies {
		apiMovies[i] = toApiMovie(movie)
	}

	resp := api.MoviesResponse{
		Movies: apiMovies,
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func toApiMovie(movie *domain.Movie) api.Movie {
	apiMovie := api.Movie{
		Id:          movie.ID,
		Title:       movie.Title,
		Description: movie.Description,
		Genres:      movie.Genres,
		ReleaseDate: movie.ReleaseDate,
		Runtime:     movie.Runtime,
		PosterUrl:   movie.PosterUrl,
	}

	if movie.Rating.Valid {
		if v, err := movie.Rating.Float64Value(); err == nil && v.Valid {
			apiMovie.Rating = &v.Float64
		}
	}

	return apiMovie
}
