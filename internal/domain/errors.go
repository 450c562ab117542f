package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrRecordNotFound      = errors.New("record not found")
	ErrEditConflict        = errors.New("edit conflict")
	ErrUserAlreadyExists   = errors.New("user already exists")
	ErrPriceMismatch       = errors.New("price verification failed")
	ErrShowtimeHasBookings = errors.New("showtime has existing bookings")
	ErrMovieHasShowtimes   = errors.New("movie has scheduled showtimes")
	ErrShowtimePassed      = errors.New("showtime has already passed")
	ErrInvalidSchedule     = errors.New("invalid showtime parameters")
	ErrPaymentFailed       = errors.New("payment was declined")
	ErrAccountNotVerified  = errors.New("account email is not verified")
	ErrAccountLocked       = errors.New("account locked due to too many failed attempts")
	ErrInvalidSeatLabel    = errors.New("invalid seat label")
)

// SeatConflictError reports which requested seats are already claimed by
// another booking, so the client can deselect exactly those and retry.
type SeatConflictError struct {
	Seats []string
}

func (e *SeatConflictError) Error() string {
	if len(e.Seats) == 0 {
		return "seat(s) are no longer available"
	}

	return fmt.Sprintf("seat(s) no longer available: %s", strings.Join(e.Seats, ", "))
}

// SchedulingConflictError names the showtime whose playback window overlaps
// the one being scheduled.
type SchedulingConflictError struct {
	ShowtimeID int
	MovieTitle string
	StartTime  time.Time
}

func (e *SchedulingConflictError) Error() string {
	return fmt.Sprintf(
		"scheduling conflict with showtime %d (%s at %s)",
		e.ShowtimeID,
		e.MovieTitle,
		e.StartTime.Format("Jan 2 15:04"),
	)
}
