package app

import (
	"errors"
	"net/http"

	"github.com/cinemaster/cinemaster-api/api"
	"github.com/cinemaster/cinemaster-api/internal/booking"
	"github.com/cinemaster/cinemaster-api/internal/domain"
)

func (app *Application) CreateShowtime(w http.ResponseWriter, r *http.Request) {
	adminId := app.contextGetUserId(r)

	var input api.CreateShowtimeRequest

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

	showtime, err := app.engine.ScheduleShowtime(r.Context(), booking.ScheduleParams{
		MovieID:   input.MovieId,
		TheaterID: input.TheaterId,
		Date:      input.Date,
		Time:      input.Time,
		Price:     input.Price,
		ActorID:   adminId,
		Meta:      app.auditMeta(r),
	})
	if err != nil {
		var conflict *domain.SchedulingConflictError
		switch {
		case errors.As(err, &conflict):
			app.schedulingConflictResponse(w, r, conflict.MovieTitle, conflict.StartTime)
		case errors.Is(err, domain.ErrRecordNotFound):
			app.badRequestResponse(w, r, errors.New("the movie or theater does not exist"))
		case errors.Is(err, domain.ErrInvalidSchedule):
			app.badRequestResponse(w, r, err)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	resp := api.ShowtimeResponse{
		Id:        showtime.ID,
		MovieId:   showtime.MovieID,
		TheaterId: showtime.TheaterID,
		StartTime: showtime.StartTime,
		Price:     showtime.Price,
	}

	err = app.writeJSON(w, http.StatusCreated, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) UpdateShowtimePrice(w http.ResponseWriter, r *http.Request) {
	adminId := app.contextGetUserId(r)

	showtimeId, err := app.readIDParam(r, "showtimeId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var input api.UpdateShowtimePriceRequest

	err = app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if !input.Price.IsPositive() {
		app.badRequestResponse(w, r, errors.New("price must be greater than zero"))
		return
	}

	err = app.showtimeRepo.UpdatePrice(r.Context(), showtimeId, input.Price)
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
		Action:  "Updated showtime price",
		Type:    domain.AuditTypeAdmin,
		Details: map[string]any{"showtime_id": showtimeId, "price": input.Price},
	})

	w.WriteHeader(http.StatusNoContent)
}

func (app *Application) DeleteShowtime(w http.ResponseWriter, r *http.Request) {
	adminId := app.contextGetUserId(r)

	showtimeId, err := app.readIDParam(r, "showtimeId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.engine.DeleteShowtime(r.Context(), showtimeId, adminId, app.auditMeta(r))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrShowtimeHasBookings):
			app.errorResponse(w, r, http.StatusConflict, "The showtime has bookings and cannot be deleted")
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	w.WriteHeader(http.StatusNoContent)
}
