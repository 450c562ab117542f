package app

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/cinemaster/cinemaster-api/api"
	"github.com/cinemaster/cinemaster-api/internal/domain"
	"github.com/cinemaster/cinemaster-api/internal/mocks"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

func TestGetUserBookings(t *testing.T) {
	bookingRepo := &mocks.MockBookingRepo{}

	app := newTestApplication(func(a *Application) {
		a.bookingRepo = bookingRepo
	})

	summaries := []domain.BookingSummary{
		{
			ID:          42,
			Reference:   "CM-3F9A07B1",
			MovieTitle:  "Inception",
			TheaterName: "Studio",
			StartTime:   time.Now().Add(24 * time.Hour),
			Seats:       []string{"C3", "C4"},
			TotalAmount: decimal.RequireFromString("27.48"),
			Status:      domain.BookingStatusCompleted,
			UserName:    "Freddie Mercury",
			UserEmail:   "freddie@example.com",
		},
	}
	metadata := domain.NewMetadata(1, 1, 20)

	bookingRepo.On("GetSummariesByUserId", mock.Anything, 7, mock.Anything).
		Return(summaries, metadata, nil)

	w, r := executeRequest(t, http.MethodGet, "/users/me/bookings", nil)
	r = setupTestSession(t, app, r, 7)

	app.GetUserBookings(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("GetUserBookings() status = %v, want %v", w.Code, http.StatusOK)
	}

	var response api.BookingListResponse
	err := json.NewDecoder(w.Body).Decode(&response)
	if err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if len(response.Bookings) != 1 {
		t.Fatalf("got %d bookings, want 1", len(response.Bookings))
	}

	if response.Bookings[0].Reference != "CM-3F9A07B1" {
		t.Errorf("Reference = %v, want CM-3F9A07B1", response.Bookings[0].Reference)
	}

	// Customers don't get the user columns the admin listing carries.
	if response.Bookings[0].UserEmail != "" {
		t.Error("Expected the user email to be omitted from the customer listing")
	}
}

func TestGetUserBookingByReference(t *testing.T) {
	booking := &domain.Booking{
		ID:         42,
		Reference:  "CM-3F9A07B1",
		UserID:     7,
		ShowtimeID: 1,
		Seats:      []string{"C3", "C4"},
		Status:     domain.BookingStatusCompleted,
	}

	tests := []struct {
		name       string
		userId     int
		wantStatus int
	}{
		{"owner can read the booking", 7, http.StatusOK},
		{"other users get not found", 8, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bookingRepo := &mocks.MockBookingRepo{}

			app := newTestApplication(func(a *Application) {
				a.bookingRepo = bookingRepo
			})

			bookingRepo.On("GetByReference", mock.Anything, "CM-3F9A07B1").Return(booking, nil)

			w, r := executeRequest(t, http.MethodGet, "/users/me/bookings/CM-3F9A07B1", nil)
			r = withURLParam(r, "reference", "CM-3F9A07B1")
			r = setupTestSession(t, app, r, tt.userId)

			app.GetUserBookingByReference(w, r)

			if w.Code != tt.wantStatus {
				t.Errorf("GetUserBookingByReference() status = %v, want %v", w.Code, tt.wantStatus)
			}
		})
	}
}

func TestCancelUserBooking(t *testing.T) {
	t.Run("owner cancels a booking", func(t *testing.T) {
		bookingRepo := &mocks.MockBookingRepo{}

		app := newTestApplication(func(a *Application) {
			a.bookingRepo = bookingRepo
		})

		bookingRepo.On("GetById", mock.Anything, 42).Return(&domain.Booking{
			ID:     42,
			UserID: 7,
			Seats:  []string{"C3", "C4"},
			Status: domain.BookingStatusCompleted,
		}, nil)
		bookingRepo.On("Cancel", mock.Anything, 42).Return(nil)

		w, r := executeRequest(t, http.MethodDelete, "/users/me/bookings/42", nil)
		r = withURLParam(r, "bookingId", "42")
		r = setupTestSession(t, app, r, 7)

		app.CancelUserBooking(w, r)

		if w.Code != http.StatusNoContent {
			t.Errorf("CancelUserBooking() status = %v, want %v", w.Code, http.StatusNoContent)
		}

		bookingRepo.AssertCalled(t, "Cancel", mock.Anything, 42)
	})

	t.Run("other users cannot cancel it", func(t *testing.T) {
		bookingRepo := &mocks.MockBookingRepo{}

		app := newTestApplication(func(a *Application) {
			a.bookingRepo = bookingRepo
		})

		bookingRepo.On("GetById", mock.Anything, 42).Return(&domain.Booking{
			ID:     42,
			UserID: 7,
			Status: domain.BookingStatusCompleted,
		}, nil)

		w, r := executeRequest(t, http.MethodDelete, "/users/me/bookings/42", nil)
		r = withURLParam(r, "bookingId", "42")
		r = setupTestSession(t, app, r, 8)

		app.CancelUserBooking(w, r)

		if w.Code != http.StatusNotFound {
			t.Errorf("CancelUserBooking() status = %v, want %v", w.Code, http.StatusNotFound)
		}

		bookingRepo.AssertNotCalled(t, "Cancel", mock.Anything, mock.Anything)
	})
}
