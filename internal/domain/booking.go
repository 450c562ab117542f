package domain

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Booking is a purchase of one or more seats for a showtime. Seats holds
// the human-facing labels ("C7") in the order the customer picked them;
// each label is also persisted as its own row so the store can enforce
// per-showtime uniqueness.
type Booking struct {
	ID          int
	Reference   string
	UserID      int
	ShowtimeID  int
	Seats       []string
	TotalAmount decimal.Decimal
	Status      BookingStatus
	PaymentRef  *string
	CreatedAt   time.Time
}

// NewBookingReference returns a customer-facing reference like "CM-3F9A07B1".
// Drawn from crypto/rand so references can be generated without coordination;
// the unique index on bookings.reference catches the rare collision.
func NewBookingReference() (string, error) {
	b := make([]byte, 4)
	_, err := rand.Read(b)
	if err != nil {
		return "", err
	}

	return "CM-" + strings.ToUpper(hex.EncodeToString(b)), nil
}

type BookingSummary struct {
	ID          int
	Reference   string
	MovieTitle  string
	PosterUrl   string
	TheaterName string
	StartTime   time.Time
	Seats       []string
	TotalAmount decimal.Decimal
	Status      BookingStatus
	CreatedAt   time.Time
	UserName    string
	UserEmail   string
}

type BookingFilters struct {
	Pagination
	Status BookingStatus
	Date   *time.Time
	Term   string
}

type BookingRepository interface {
	// CreateWithSeats inserts the booking and one row per seat claim in a
	// single transaction. It re-reads the claimed seat set inside the
	// transaction and returns *SeatConflictError if any requested seat is
	// already taken; the unique index on (showtime_id, seat_number) backs
	// this check against races the read cannot see.
	CreateWithSeats(ctx context.Context, booking *Booking) error
	GetById(ctx context.Context, id int) (*Booking, error)
	GetByReference(ctx context.Context, reference string) (*Booking, error)
	GetClaimedSeats(ctx context.Context, showtimeID int) ([]string, error)
	MarkCompleted(ctx context.Context, id int, paymentRef string) error
	// Cancel flips the booking to cancelled and deletes its seat rows in
	// one transaction, releasing the seats for future reservations.
	Cancel(ctx context.Context, id int) error
	CountByShowtime(ctx context.Context, showtimeID int) (int, error)
	GetSummariesByUserId(ctx context.Context, userId int, pagination Pagination) ([]BookingSummary, *Metadata, error)
	GetAll(ctx context.Context, filters BookingFilters) ([]BookingSummary, *Metadata, error)
}
