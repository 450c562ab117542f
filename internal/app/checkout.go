package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/cinemaster/cinemaster-api/api"
	"github.com/cinemaster/cinemaster-api/internal/booking"
	"github.com/cinemaster/cinemaster-api/internal/domain"
)

func (app *Application) QuoteBooking(w http.ResponseWriter, r *http.Request) {
	var input api.QuoteRequest

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

	total, err := app.engine.QuoteSeats(r.Context(), input.ShowtimeId, input.Seats)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		case errors.Is(err, domain.ErrInvalidSeatLabel):
			app.badRequestResponse(w, r, err)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	resp := api.QuoteResponse{
		ShowtimeId:    input.ShowtimeId,
		Seats:         input.Seats,
		SeatsSubtotal: total.Sub(booking.BookingFee),
		BookingFee:    booking.BookingFee,
		Total:         total,
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// Checkout charges the payment method and claims the seats. The charge runs
// first so no booking row ever exists without a successful payment behind it.
// If the reservation then fails, the charge is not rolled back automatically:
// the failure is audited with the payment reference so support can refund it.
func (app *Application) Checkout(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)
	userId := app.contextGetUserId(r)

	var input api.CheckoutRequest

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

	detail, err := app.showtimeRepo.GetDetail(r.Context(), input.ShowtimeId)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	total, err := app.engine.QuoteSeats(r.Context(), input.ShowtimeId, input.Seats)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidSeatLabel):
			app.badRequestResponse(w, r, err)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	if input.ExpectedTotal.Sub(total).Abs().GreaterThan(booking.PriceTolerance) {
		app.priceMismatchResponse(w, r)
		return
	}

	// A cheap availability pre-check before money moves. The reservation
	// transaction below remains the authoritative one.
	available, err := app.engine.AvailableSeats(r.Context(), input.ShowtimeId)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	availableSet := make(map[string]bool, len(available))
	for _, seat := range available {
		availableSet[seat] = true
	}

	var taken []string
	for _, seat := range input.Seats {
		if !availableSet[seat] {
			taken = append(taken, seat)
		}
	}

	if len(taken) > 0 {
		app.seatConflictResponse(w, r, taken)
		return
	}

	charge, err := app.paymentProvider.Charge(r.Context(), domain.ChargeRequest{
		Token:       input.PaymentToken,
		Amount:      total,
		Currency:    "usd",
		Description: fmt.Sprintf("%s at %s, seats %s", detail.MovieTitle, detail.TheaterName, strings.Join(input.Seats, ", ")),
		Metadata: map[string]string{
			"showtime_id": strconv.Itoa(input.ShowtimeId),
			"user_id":     strconv.Itoa(userId),
		},
	})
	if err != nil {
		if errors.Is(err, domain.ErrPaymentFailed) {
			logger.Warn("payment declined", "error", err)
			app.paymentFailedResponse(w, r, err)
			return
		}

		app.serverErrorResponse(w, r, err)
		return
	}

	bkg, err := app.engine.ReserveSeats(r.Context(), booking.ReserveParams{
		UserID:      userId,
		ShowtimeID:  input.ShowtimeId,
		Seats:       input.Seats,
		QuotedTotal: total,
		Status:      domain.BookingStatusCompleted,
		PaymentRef:  &charge.Reference,
		Meta:        app.auditMeta(r),
	})
	if err != nil {
		logger.Error("reservation failed after successful charge", "paymentRef", charge.Reference, "error", err)

		app.audit(r, &domain.AuditLog{
			UserID: &userId,
			Action: "Charge succeeded but reservation failed",
			Type:   domain.AuditTypeError,
			Details: map[string]any{
				"payment_ref": charge.Reference,
				"showtime_id": input.ShowtimeId,
				"seats":       input.Seats,
				"amount":      total,
				"error":       err.Error(),
			},
		})

		var seatConflict *domain.SeatConflictError
		switch {
		case errors.As(err, &seatConflict):
			app.seatConflictResponse(w, r, seatConflict.Seats)
		case errors.Is(err, domain.ErrShowtimePassed):
			app.badRequestResponse(w, r, err)
		case errors.Is(err, domain.ErrPriceMismatch):
			app.priceMismatchResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	go func(ctx context.Context) {
		gLogger := app.contextGetLogger(r.WithContext(ctx))

		defer func() {
			if err := recover(); err != nil {
				gLogger.Error("panic occurred during sending booking confirmation mail", "panic", err)
			}
		}()

		user, err := app.userRepo.GetById(ctx, userId)
		if err != nil {
			gLogger.Error("failed to load user for confirmation email", "error", err)
			return
		}

		data := map[string]any{
			"Name":        user.Name,
			"Reference":   bkg.Reference,
			"MovieTitle":  detail.MovieTitle,
			"TheaterName": detail.TheaterName,
			"StartTime":   detail.StartTime.Format("Mon, Jan 2 2006 at 15:04"),
			"Seats":       strings.Join(bkg.Seats, ", "),
			"TotalAmount": bkg.TotalAmount.StringFixed(2),
		}

		err = app.mailer.Send(user.Email, "booking_confirmation.tmpl", data)
		if err != nil {
			gLogger.Error("failed to send booking confirmation email", "error", err)
		}
	}(context.WithoutCancel(r.Context()))

	resp := toBookingResponse(bkg)

	err = app.writeJSON(w, http.StatusCreated, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func toBookingResponse(bkg *domain.Booking) api.BookingResponse {
	return api.BookingResponse{
		Id:          bkg.ID,
		Reference:   bkg.Reference,
		ShowtimeId:  bkg.ShowtimeID,
		Seats:       bkg.Seats,
		TotalAmount: bkg.TotalAmount,
		Status:      string(bkg.Status),
		PaymentRef:  bkg.PaymentRef,
		CreatedAt:   bkg.CreatedAt,
	}
}
