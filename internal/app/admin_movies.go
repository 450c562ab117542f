package app

import (
	"errors"
	"net/http"

	"github.com/cinemaster/cinemaster-api/api"
	"github.com/cinemaster/cinemaster-api/internal/domain"
)

func (app *Application) CreateMovie(w http.ResponseWriter, r *http.Request) {
	adminId := app.contextGetUserId(r)

	var input api.CreateMovieRequest

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	movie := domain.Movie{
		Title:       input.Title,
		Description: input.Description,
		Genres:      input.Genres,
		Duration:    input.DurationMinutes,
		Rating:      input.Rating,
		PosterUrl:   input.PosterUrl,
		ReleaseDate: input.ReleaseDate,
		Status:      domain.MovieStatus(input.Status),
	}

	err = app.movieRepo.Create(r.Context(), &movie)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	app.audit(r, &domain.AuditLog{
		UserID:  &adminId,
		Action:  "Created movie: " + movie.Title,
		Type:    domain.AuditTypeAdmin,
		Details: map[string]any{"movie_id": movie.ID},
	})

	err = app.writeJSON(w, http.StatusCreated, toMovieResponse(&movie), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) UpdateMovie(w http.ResponseWriter, r *http.Request) {
	adminId := app.contextGetUserId(r)

	movieId, err := app.readIDParam(r, "movieId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var input api.CreateMovieRequest

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

	movie := domain.Movie{
		ID:          movieId,
		Title:       input.Title,
		Description: input.Description,
		Genres:      input.Genres,
		Duration:    input.DurationMinutes,
		Rating:      input.Rating,
		PosterUrl:   input.PosterUrl,
		ReleaseDate: input.ReleaseDate,
		Status:      domain.MovieStatus(input.Status),
	}

	err = app.movieRepo.Update(r.Context(), &movie)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	app.audit(r, &domain.AuditLog{
		UserID:  &adminId,
		Action:  "Updated movie: " + movie.Title,
		Type:    domain.AuditTypeAdmin,
		Details: map[string]any{"movie_id": movie.ID},
	})

	err = app.writeJSON(w, http.StatusOK, toMovieResponse(&movie), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) DeleteMovie(w http.ResponseWriter, r *http.Request) {
	adminId := app.contextGetUserId(r)

	movieId, err := app.readIDParam(r, "movieId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.movieRepo.Delete(r.Context(), movieId)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		case errors.Is(err, domain.ErrMovieHasShowtimes):
			app.errorResponse(w, r, http.StatusConflict, "The movie has scheduled showtimes and cannot be deleted")
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	app.audit(r, &domain.AuditLog{
		UserID:  &adminId,
		Action:  "Deleted movie",
		Type:    domain.AuditTypeAdmin,
		Details: map[string]any{"movie_id": movieId},
	})

	w.WriteHeader(http.StatusNoContent)
}
