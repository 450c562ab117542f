// Package booking holds the seat-inventory and booking consistency rules:
// seat availability, price quoting, the reservation transaction, the
// payment-confirmation state machine and showtime schedule conflicts.
package booking

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cinemaster/cinemaster-api/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	// TurnaroundBuffer is the idle time a theater needs after a screening
	// before the next one can start.
	TurnaroundBuffer = 20 * time.Minute

	MaxSeatsPerBooking = 10
)

var (
	// BookingFee is the fixed per-transaction surcharge on top of the
	// per-seat price.
	BookingFee = decimal.NewFromFloat(1.50)

	// PriceTolerance bounds the float drift accepted between a
	// client-submitted total and the server-recomputed one.
	PriceTolerance = decimal.NewFromFloat(0.01)
)

// Engine enforces the booking invariants on top of the repositories. It holds
// no state of its own; all consistency comes from the store's transactions
// plus the unique seat-claim index.
type Engine struct {
	showtimes domain.ShowtimeRepository
	bookings  domain.BookingRepository
	movies    domain.MovieRepository
	theaters  domain.TheaterRepository
	audit     domain.AuditLogRepository
	logger    *slog.Logger
}

func NewEngine(
	showtimes domain.ShowtimeRepository,
	bookings domain.BookingRepository,
	movies domain.MovieRepository,
	theaters domain.TheaterRepository,
	audit domain.AuditLogRepository,
	logger *slog.Logger,
) *Engine {
	return &Engine{
		showtimes: showtimes,
		bookings:  bookings,
		movies:    movies,
		theaters:  theaters,
		audit:     audit,
		logger:    logger,
	}
}

// AuditMeta carries the request facts worth keeping in the audit trail.
type AuditMeta struct {
	IPAddress string
	UserAgent string
}

// Quote computes the total for seatCount seats at the given per-seat price:
// seatCount * price + BookingFee.
func Quote(price decimal.Decimal, seatCount int) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(seatCount))).Add(BookingFee)
}

// AvailableSeats returns every seat label of the showtime's grid that no
// non-cancelled booking has claimed. The result reflects the store at the
// time of the read; ReserveSeats re-checks inside its transaction.
func (e *Engine) AvailableSeats(ctx context.Context, showtimeID int) ([]string, error) {
	detail, err := e.showtimes.GetDetail(ctx, showtimeID)
	if err != nil {
		return nil, err
	}

	claimed, err := e.bookings.GetClaimedSeats(ctx, showtimeID)
	if err != nil {
		return nil, err
	}

	claimedSet := make(map[string]bool, len(claimed))
	for _, seat := range claimed {
		claimedSet[seat] = true
	}

	all := SeatLabels(detail.RowsCount, detail.SeatsPerRow)
	available := make([]string, 0, len(all)-len(claimed))

	for _, seat := range all {
		if !claimedSet[seat] {
			available = append(available, seat)
		}
	}

	return available, nil
}

// QuoteSeats validates the seat selection against the showtime's grid and
// returns the server-side total for it.
func (e *Engine) QuoteSeats(ctx context.Context, showtimeID int, seats []string) (decimal.Decimal, error) {
	detail, err := e.showtimes.GetDetail(ctx, showtimeID)
	if err != nil {
		return decimal.Zero, err
	}

	err = validateSeatSelection(seats, detail.RowsCount, detail.SeatsPerRow)
	if err != nil {
		return decimal.Zero, err
	}

	return Quote(detail.Price, len(seats)), nil
}

type ReserveParams struct {
	UserID      int
	ShowtimeID  int
	Seats       []string
	QuotedTotal decimal.Decimal
	Status      domain.BookingStatus // defaults to pending
	PaymentRef  *string
	Meta        AuditMeta
}

// ReserveSeats atomically claims a seat set for a user. The client's quoted
// total is never trusted: the server recomputes it and rejects anything
// outside PriceTolerance. Conflicting seats surface as *SeatConflictError
// naming the offending seats, with no partial state left behind.
func (e *Engine) ReserveSeats(ctx context.Context, p ReserveParams) (*domain.Booking, error) {
	detail, err := e.showtimes.GetDetail(ctx, p.ShowtimeID)
	if err != nil {
		return nil, err
	}

	if !detail.StartTime.After(time.Now()) {
		return nil, domain.ErrShowtimePassed
	}

	err = validateSeatSelection(p.Seats, detail.RowsCount, detail.SeatsPerRow)
	if err != nil {
		return nil, err
	}

	expected := Quote(detail.Price, len(p.Seats))
	if p.QuotedTotal.Sub(expected).Abs().GreaterThan(PriceTolerance) {
		return nil, domain.ErrPriceMismatch
	}

	reference, err := domain.NewBookingReference()
	if err != nil {
		return nil, err
	}

	status := p.Status
	if status == "" {
		status = domain.BookingStatusPending
	}

	bkg := &domain.Booking{
		Reference:   reference,
		UserID:      p.UserID,
		ShowtimeID:  p.ShowtimeID,
		Seats:       p.Seats,
		TotalAmount: expected,
		Status:      status,
		PaymentRef:  p.PaymentRef,
	}

	err = e.bookings.CreateWithSeats(ctx, bkg)
	if err != nil {
		return nil, err
	}

	e.append(ctx, &domain.AuditLog{
		UserID:    &p.UserID,
		Action:    fmt.Sprintf("Booking created: %s", bkg.Reference),
		Type:      domain.AuditTypeBooking,
		IPAddress: p.Meta.IPAddress,
		UserAgent: p.Meta.UserAgent,
		Details: map[string]any{
			"booking_id":  bkg.ID,
			"showtime_id": bkg.ShowtimeID,
			"seats":       bkg.Seats,
			"amount":      bkg.TotalAmount,
		},
	})

	return bkg, nil
}

// ConfirmPayment moves a pending booking to completed and records the
// external payment reference. Confirming an already-completed booking is a
// no-op success so at-least-once delivery from the payment collaborator is
// harmless. A cancelled booking cannot be confirmed.
func (e *Engine) ConfirmPayment(ctx context.Context, bookingID int, paymentRef string, meta AuditMeta) (*domain.Booking, error) {
	bkg, err := e.bookings.GetById(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	switch bkg.Status {
	case domain.BookingStatusCompleted:
		return bkg, nil
	case domain.BookingStatusCancelled:
		return nil, domain.ErrEditConflict
	}

	err = e.bookings.MarkCompleted(ctx, bookingID, paymentRef)
	if err != nil {
		// A concurrent confirmation may have won; that still counts as
		// success if the booking ended up completed.
		bkg, rerr := e.bookings.GetById(ctx, bookingID)
		if rerr == nil && bkg.Status == domain.BookingStatusCompleted {
			return bkg, nil
		}

		return nil, err
	}

	bkg.Status = domain.BookingStatusCompleted
	bkg.PaymentRef = &paymentRef

	e.append(ctx, &domain.AuditLog{
		UserID:    &bkg.UserID,
		Action:    fmt.Sprintf("Payment completed for booking %s", bkg.Reference),
		Type:      domain.AuditTypePayment,
		IPAddress: meta.IPAddress,
		UserAgent: meta.UserAgent,
		Details: map[string]any{
			"booking_id":  bkg.ID,
			"amount":      bkg.TotalAmount,
			"payment_ref": paymentRef,
		},
	})

	return bkg, nil
}

// CancelBooking flips the booking to cancelled and deletes its seat claims
// in one transaction, so the seats immediately return to the available set.
// actorID is whoever requested the cancellation (customer or admin).
// Cancelling an already-cancelled booking is a no-op.
func (e *Engine) CancelBooking(ctx context.Context, bookingID int, actorID int, meta AuditMeta) error {
	bkg, err := e.bookings.GetById(ctx, bookingID)
	if err != nil {
		return err
	}

	if bkg.Status == domain.BookingStatusCancelled {
		return nil
	}

	err = e.bookings.Cancel(ctx, bookingID)
	if err != nil {
		return err
	}

	e.append(ctx, &domain.AuditLog{
		UserID:    &actorID,
		Action:    fmt.Sprintf("Cancelled booking %s", bkg.Reference),
		Type:      domain.AuditTypeBooking,
		IPAddress: meta.IPAddress,
		UserAgent: meta.UserAgent,
		Details: map[string]any{
			"booking_id":     bkg.ID,
			"released_seats": bkg.Seats,
		},
	})

	return nil
}

type ScheduleParams struct {
	MovieID   int
	TheaterID int
	Date      string // 2006-01-02
	Time      string // 15:04
	Price     decimal.Decimal
	ActorID   int
	Meta      AuditMeta
}

// ScheduleShowtime validates the slot against the theater's schedule for
// that day and inserts it. A showtime occupies [start, start + runtime +
// TurnaroundBuffer); any overlap with an existing window is rejected naming
// the colliding showtime. The check is read-then-write: the unique index on
// (theater_id, start_time) only catches exact-slot races, which is accepted
// for this admin-only, low-concurrency path.
func (e *Engine) ScheduleShowtime(ctx context.Context, p ScheduleParams) (*domain.Showtime, error) {
	if !p.Price.IsPositive() {
		return nil, fmt.Errorf("%w: price must be greater than zero", domain.ErrInvalidSchedule)
	}

	startTime, err := time.ParseInLocation("2006-01-02 15:04", p.Date+" "+p.Time, time.Local)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed date or time", domain.ErrInvalidSchedule)
	}

	movie, err := e.movies.GetById(ctx, p.MovieID)
	if err != nil {
		return nil, fmt.Errorf("movie lookup failed: %w", err)
	}

	_, err = e.theaters.GetById(ctx, p.TheaterID)
	if err != nil {
		return nil, fmt.Errorf("theater lookup failed: %w", err)
	}

	existing, err := e.showtimes.GetAllByTheaterAndDate(ctx, p.TheaterID, startTime)
	if err != nil {
		return nil, err
	}

	newEnd := startTime.Add(time.Duration(movie.Duration)*time.Minute + TurnaroundBuffer)

	for _, st := range existing {
		existingEnd := st.StartTime.Add(time.Duration(st.Duration)*time.Minute + TurnaroundBuffer)

		if startTime.Before(existingEnd) && newEnd.After(st.StartTime) {
			return nil, &domain.SchedulingConflictError{
				ShowtimeID: st.ID,
				MovieTitle: st.MovieTitle,
				StartTime:  st.StartTime,
			}
		}
	}

	showtime := &domain.Showtime{
		MovieID:   p.MovieID,
		TheaterID: p.TheaterID,
		StartTime: startTime,
		Price:     p.Price,
		IsActive:  true,
	}

	err = e.showtimes.Create(ctx, showtime)
	if err != nil {
		return nil, err
	}

	e.append(ctx, &domain.AuditLog{
		UserID:    &p.ActorID,
		Action:    fmt.Sprintf("Added showtime for movie ID: %d", p.MovieID),
		Type:      domain.AuditTypeAdmin,
		IPAddress: p.Meta.IPAddress,
		UserAgent: p.Meta.UserAgent,
		Details: map[string]any{
			"showtime_id": showtime.ID,
			"theater_id":  p.TheaterID,
			"start_time":  startTime,
		},
	})

	return showtime, nil
}

// DeleteShowtime removes a showtime that no booking, in any status,
// references. Cancelled bookings still count: they keep their row for the
// customer's history even after their seats are released.
func (e *Engine) DeleteShowtime(ctx context.Context, showtimeID int, actorID int, meta AuditMeta) error {
	count, err := e.bookings.CountByShowtime(ctx, showtimeID)
	if err != nil {
		return err
	}

	if count > 0 {
		return domain.ErrShowtimeHasBookings
	}

	err = e.showtimes.Delete(ctx, showtimeID)
	if err != nil {
		return err
	}

	e.append(ctx, &domain.AuditLog{
		UserID:    &actorID,
		Action:    fmt.Sprintf("Deleted showtime ID: %d", showtimeID),
		Type:      domain.AuditTypeAdmin,
		IPAddress: meta.IPAddress,
		UserAgent: meta.UserAgent,
	})

	return nil
}

func validateSeatSelection(seats []string, rows, seatsPerRow int) error {
	if len(seats) == 0 {
		return fmt.Errorf("%w: no seats selected", domain.ErrInvalidSeatLabel)
	}

	if len(seats) > MaxSeatsPerBooking {
		return fmt.Errorf("%w: at most %d seats per booking", domain.ErrInvalidSeatLabel, MaxSeatsPerBooking)
	}

	seen := make(map[string]bool, len(seats))

	for _, seat := range seats {
		if seen[seat] {
			return fmt.Errorf("%w: duplicate seat %q", domain.ErrInvalidSeatLabel, seat)
		}
		seen[seat] = true

		if err := ValidateSeatLabel(seat, rows, seatsPerRow); err != nil {
			return err
		}
	}

	return nil
}

// append writes an audit entry outside the booking transaction. Failures are
// logged and swallowed: the audit trail is best-effort and must never undo a
// committed booking. The entry is written even if the request context was
// cancelled after commit.
func (e *Engine) append(ctx context.Context, entry *domain.AuditLog) {
	err := e.audit.Insert(context.WithoutCancel(ctx), entry)
	if err != nil {
		e.logger.Error("failed to append audit log entry", "action", entry.Action, "error", err)
	}
}
