package app

import (
	"errors"
	"net/http"

	"github.com/cinemaster/cinemaster-api/api"
	"github.com/cinemaster/cinemaster-api/internal/domain"
)

func (app *Application) GetMovies(w http.ResponseWriter, r *http.Request) {
	filters := domain.MovieFilters{
		Pagination: app.readPagination(r),
		Status:     domain.MovieStatus(r.URL.Query().Get("status")),
		Genre:      r.URL.Query().Get("genre"),
	}

	movies, metadata, err := app.movieRepo.GetAll(r.Context(), filters)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.MovieListResponse{
		Movies:   make([]api.MovieResponse, 0, len(movies)),
		Metadata: toMetadata(metadata),
	}

	for _, movie := range movies {
		resp.Movies = append(resp.Movies, toMovieResponse(movie))
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetMovieById(w http.ResponseWriter, r *http.Request) {
	movieId, err := app.readIDParam(r, "movieId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	movie, err := app.movieRepo.GetById(r.Context(), movieId)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	showtimes, err := app.showtimeRepo.GetUpcomingByMovie(r.Context(), movieId)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.MovieDetailResponse{
		MovieResponse: toMovieResponse(movie),
		Showtimes:     make([]api.ShowtimeSummaryResponse, 0, len(showtimes)),
	}

	for _, st := range showtimes {
		resp.Showtimes = append(resp.Showtimes, api.ShowtimeSummaryResponse{
			Id:             st.ID,
			StartTime:      st.StartTime,
			Price:          st.Price,
			TheaterName:    st.TheaterName,
			AvailableSeats: st.AvailableSeats,
		})
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetGenres(w http.ResponseWriter, r *http.Request) {
	genres, err := app.movieRepo.GetAllGenres(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := make([]api.GenreResponse, 0, len(genres))
	for _, genre := range genres {
		resp = append(resp, api.GenreResponse{Id: genre.ID, Name: genre.Name})
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetTheaters(w http.ResponseWriter, r *http.Request) {
	theaters, err := app.theaterRepo.GetAll(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := make([]api.TheaterResponse, 0, len(theaters))
	for _, theater := range theaters {
		resp = append(resp, api.TheaterResponse{
			Id:          theater.ID,
			Name:        theater.Name,
			RowsCount:   theater.RowsCount,
			SeatsPerRow: theater.SeatsPerRow,
			TotalSeats:  theater.TotalSeats(),
		})
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func toMovieResponse(movie *domain.Movie) api.MovieResponse {
	return api.MovieResponse{
		Id:              movie.ID,
		Title:           movie.Title,
		Description:     movie.Description,
		Genres:          movie.Genres,
		DurationMinutes: movie.Duration,
		Rating:          movie.Rating,
		PosterUrl:       movie.PosterUrl,
		ReleaseDate:     movie.ReleaseDate,
		Status:          string(movie.Status),
		CreatedAt:       movie.CreatedAt,
	}
}
