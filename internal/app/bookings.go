package app

import (
	"errors"
	"net/http"

	"github.com/cinemaster/cinemaster-api/api"
	"github.com/cinemaster/cinemaster-api/internal/domain"
	"github.com/go-chi/chi/v5"
)

func (app *Application) GetUserBookings(w http.ResponseWriter, r *http.Request) {
	userId := app.contextGetUserId(r)

	summaries, metadata, err := app.bookingRepo.GetSummariesByUserId(r.Context(), userId, app.readPagination(r))
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.BookingListResponse{
		Bookings: make([]api.BookingSummaryResponse, 0, len(summaries)),
		Metadata: toMetadata(metadata),
	}

	for _, summary := range summaries {
		resp.Bookings = append(resp.Bookings, toBookingSummaryResponse(summary, false))
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetUserBookingByReference(w http.ResponseWriter, r *http.Request) {
	userId := app.contextGetUserId(r)
	reference := chi.URLParam(r, "reference")

	bkg, err := app.bookingRepo.GetByReference(r.Context(), reference)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	// A booking is only visible to its owner.
	if bkg.UserID != userId {
		app.notFoundResponse(w, r)
		return
	}

	err = app.writeJSON(w, http.StatusOK, toBookingResponse(bkg), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) CancelUserBooking(w http.ResponseWriter, r *http.Request) {
	userId := app.contextGetUserId(r)

	bookingId, err := app.readIDParam(r, "bookingId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	bkg, err := app.bookingRepo.GetById(r.Context(), bookingId)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	if bkg.UserID != userId {
		app.notFoundResponse(w, r)
		return
	}

	err = app.engine.CancelBooking(r.Context(), bookingId, userId, app.auditMeta(r))
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func toBookingSummaryResponse(summary domain.BookingSummary, includeUser bool) api.BookingSummaryResponse {
	resp := api.BookingSummaryResponse{
		Id:          summary.ID,
		Reference:   summary.Reference,
		MovieTitle:  summary.MovieTitle,
		PosterUrl:   summary.PosterUrl,
		TheaterName: summary.TheaterName,
		StartTime:   summary.StartTime,
		Seats:       summary.Seats,
		TotalAmount: summary.TotalAmount,
		Status:      string(summary.Status),
		CreatedAt:   summary.CreatedAt,
	}

	if includeUser {
		resp.UserName = summary.UserName
		resp.UserEmail = summary.UserEmail
	}

	return resp
}
