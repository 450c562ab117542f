package app

import (
	"errors"
	"net/http"
	"time"

	"github.com/cinemaster/cinemaster-api/api"
	"github.com/cinemaster/cinemaster-api/internal/domain"
)

func (app *Application) GetDashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := app.reportRepo.GetDashboardStats(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.DashboardResponse{
		TotalUsers:        stats.TotalUsers,
		TotalMovies:       stats.TotalMovies,
		TotalBookings:     stats.TotalBookings,
		TotalRevenue:      stats.TotalRevenue,
		BookingsThisMonth: stats.BookingsThisMonth,
		RecentBookings:    make([]api.BookingSummaryResponse, 0, len(stats.RecentBookings)),
	}

	for _, summary := range stats.RecentBookings {
		resp.RecentBookings = append(resp.RecentBookings, toBookingSummaryResponse(summary, true))
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetAllBookings(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	filters := domain.BookingFilters{
		Pagination: app.readPagination(r),
		Status:     domain.BookingStatus(query.Get("status")),
		Term:       query.Get("term"),
	}

	if dateStr := query.Get("date"); dateStr != "" {
		date, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			app.badRequestResponse(w, r, errors.New("date must be in YYYY-MM-DD format"))
			return
		}
		filters.Date = &date
	}

	summaries, metadata, err := app.bookingRepo.GetAll(r.Context(), filters)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.BookingListResponse{
		Bookings: make([]api.BookingSummaryResponse, 0, len(summaries)),
		Metadata: toMetadata(metadata),
	}

	for _, summary := range summaries {
		resp.Bookings = append(resp.Bookings, toBookingSummaryResponse(summary, true))
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) CancelAnyBooking(w http.ResponseWriter, r *http.Request) {
	adminId := app.contextGetUserId(r)

	bookingId, err := app.readIDParam(r, "bookingId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.engine.CancelBooking(r.Context(), bookingId, adminId, app.auditMeta(r))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ConfirmBooking reconciles a booking stuck in pending, typically when the
// process died between collecting the charge and recording it. Confirming an
// already completed booking is a no-op.
func (app *Application) ConfirmBooking(w http.ResponseWriter, r *http.Request) {
	bookingId, err := app.readIDParam(r, "bookingId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var input api.ConfirmBookingRequest

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

	bkg, err := app.engine.ConfirmPayment(r.Context(), bookingId, input.PaymentRef, app.auditMeta(r))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		case errors.Is(err, domain.ErrEditConflict):
			app.editConflictResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	err = app.writeJSON(w, http.StatusOK, toBookingResponse(bkg), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetAllUsers(w http.ResponseWriter, r *http.Request) {
	users, metadata, err := app.userRepo.GetAll(r.Context(), app.readPagination(r))
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.UserListResponse{
		Users:    make([]api.UserResponse, 0, len(users)),
		Metadata: toMetadata(metadata),
	}

	for _, user := range users {
		resp.Users = append(resp.Users, toUserResponse(user))
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// DeleteUser removes a customer account. Admin accounts cannot be deleted
// through this endpoint.
func (app *Application) DeleteUser(w http.ResponseWriter, r *http.Request) {
	adminId := app.contextGetUserId(r)

	userId, err := app.readIDParam(r, "userId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if userId == adminId {
		app.badRequestResponse(w, r, errors.New("you cannot delete your own account"))
		return
	}

	err = app.userRepo.Delete(r.Context(), userId)
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
		Action:  "Deleted user account",
		Type:    domain.AuditTypeAdmin,
		Details: map[string]any{"deleted_user_id": userId},
	})

	w.WriteHeader(http.StatusNoContent)
}

func (app *Application) GetAuditLogs(w http.ResponseWriter, r *http.Request) {
	entries, metadata, err := app.auditRepo.GetAll(r.Context(), app.readPagination(r))
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.AuditLogListResponse{
		Logs:     make([]api.AuditLogResponse, 0, len(entries)),
		Metadata: toMetadata(metadata),
	}

	for _, entry := range entries {
		resp.Logs = append(resp.Logs, api.AuditLogResponse{
			Id:        entry.ID,
			UserId:    entry.UserID,
			Action:    entry.Action,
			Type:      string(entry.Type),
			IPAddress: entry.IPAddress,
			UserAgent: entry.UserAgent,
			Details:   entry.Details,
			CreatedAt: entry.CreatedAt,
		})
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
