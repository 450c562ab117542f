package repository

import (
	"context"
	"errors"

	"github.com/cinemaster/cinemaster-api/internal/domain"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresBookingRepository struct {
	db *pgxpool.Pool
}

func NewPostgresBookingRepository(db *pgxpool.Pool) *PostgresBookingRepository {
	return &PostgresBookingRepository{
		db: db,
	}
}

// CreateWithSeats runs the reservation as one transaction: lock and re-read
// the claimed seats for the showtime, reject any intersection with the
// requested set, then insert the booking row and one row per seat claim.
// The unique index on booking_seats(showtime_id, seat_number) rejects any
// concurrent claim the locked read could not observe.
func (p *PostgresBookingRepository) CreateWithSeats(ctx context.Context, booking *domain.Booking) error {
	return runInTx(ctx, p.db, func(tx pgx.Tx) error {
		query := `
			SELECT seat_number
			FROM booking_seats
			WHERE showtime_id = $1
			FOR UPDATE
		`

		rows, err := tx.Query(ctx, query, booking.ShowtimeID)
		if err != nil {
			return err
		}

		claimed := make(map[string]bool)

		for rows.Next() {
			var seat string
			if err := rows.Scan(&seat); err != nil {
				rows.Close()
				return err
			}
			claimed[seat] = true
		}
		rows.Close()

		if err = rows.Err(); err != nil {
			return err
		}

		var conflicts []string
		for _, seat := range booking.Seats {
			if claimed[seat] {
				conflicts = append(conflicts, seat)
			}
		}

		if len(conflicts) > 0 {
			return &domain.SeatConflictError{Seats: conflicts}
		}

		query = `
			INSERT INTO bookings (reference, user_id, showtime_id, total_amount, status, payment_ref)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, created_at
		`

		err = tx.QueryRow(
			ctx,
			query,
			booking.Reference,
			booking.UserID,
			booking.ShowtimeID,
			booking.TotalAmount,
			booking.Status,
			booking.PaymentRef,
		).Scan(&booking.ID, &booking.CreatedAt)

		if err != nil {
			return err
		}

		seatRows := make([][]any, 0, len(booking.Seats))
		for _, seat := range booking.Seats {
			seatRows = append(seatRows, []any{booking.ID, booking.ShowtimeID, seat})
		}

		_, err = tx.CopyFrom(
			ctx,
			pgx.Identifier{"booking_seats"},
			[]string{"booking_id", "showtime_id", "seat_number"},
			pgx.CopyFromRows(seatRows),
		)

		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
				// A commit slipped in between our locked read and the
				// insert; the index caught it. Seats are not named here,
				// the client has to re-read availability.
				return &domain.SeatConflictError{}
			}

			return err
		}

		return nil
	})
}

func (p *PostgresBookingRepository) GetById(ctx context.Context, id int) (*domain.Booking, error) {
	return p.getOne(ctx, "b.id = $1", id)
}

func (p *PostgresBookingRepository) GetByReference(ctx context.Context, reference string) (*domain.Booking, error) {
	return p.getOne(ctx, "b.reference = $1", reference)
}

func (p *PostgresBookingRepository) getOne(ctx context.Context, where string, arg any) (*domain.Booking, error) {
	query := `
		SELECT
			b.id,
			b.reference,
			b.user_id,
			b.showtime_id,
			b.total_amount,
			b.status,
			b.payment_ref,
			b.created_at,
			COALESCE(
				(SELECT array_agg(bs.seat_number ORDER BY bs.seat_number)
				 FROM booking_seats bs
				 WHERE bs.booking_id = b.id),
				'{}'
			)
		FROM bookings b
		WHERE ` + where

	var booking domain.Booking

	err := p.db.QueryRow(ctx, query, arg).Scan(
		&booking.ID,
		&booking.Reference,
		&booking.UserID,
		&booking.ShowtimeID,
		&booking.TotalAmount,
		&booking.Status,
		&booking.PaymentRef,
		&booking.CreatedAt,
		&booking.Seats,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	return &booking, nil
}

func (p *PostgresBookingRepository) GetClaimedSeats(ctx context.Context, showtimeID int) ([]string, error) {
	query := `
		SELECT seat_number
		FROM booking_seats
		WHERE showtime_id = $1
		ORDER BY seat_number
	`

	rows, err := p.db.Query(ctx, query, showtimeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	seats := make([]string, 0)

	for rows.Next() {
		var seat string

		err = rows.Scan(&seat)
		if err != nil {
			return nil, err
		}

		seats = append(seats, seat)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return seats, nil
}

func (p *PostgresBookingRepository) MarkCompleted(ctx context.Context, id int, paymentRef string) error {
	query := `
		UPDATE bookings
		SET status = 'completed', payment_ref = $1
		WHERE id = $2 AND status = 'pending'
	`

	tag, err := p.db.Exec(ctx, query, paymentRef, id)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrEditConflict
	}

	return nil
}

// Cancel releases the booking's seats by deleting their claim rows in the
// same transaction that flips the status, so no window exists where a
// cancelled booking still blocks a seat.
func (p *PostgresBookingRepository) Cancel(ctx context.Context, id int) error {
	return runInTx(ctx, p.db, func(tx pgx.Tx) error {
		query := `
			UPDATE bookings
			SET status = 'cancelled'
			WHERE id = $1
		`

		tag, err := tx.Exec(ctx, query, id)
		if err != nil {
			return err
		}

		if tag.RowsAffected() == 0 {
			return domain.ErrRecordNotFound
		}

		query = `DELETE FROM booking_seats WHERE booking_id = $1`

		_, err = tx.Exec(ctx, query, id)
		return err
	})
}

func (p *PostgresBookingRepository) CountByShowtime(ctx context.Context, showtimeID int) (int, error) {
	query := `SELECT COUNT(*) FROM bookings WHERE showtime_id = $1`

	var count int
	err := p.db.QueryRow(ctx, query, showtimeID).Scan(&count)

	return count, err
}

func (p *PostgresBookingRepository) GetSummariesByUserId(
	ctx context.Context,
	userId int,
	pagination domain.Pagination) ([]domain.BookingSummary, *domain.Metadata, error) {

	query := `
		SELECT
			COUNT(*) OVER(),
			b.id,
			b.reference,
			m.title,
			m.poster_url,
			t.name,
			s.start_time,
			b.total_amount,
			b.status,
			b.created_at,
			COALESCE(
				(SELECT array_agg(bs.seat_number ORDER BY bs.seat_number)
				 FROM booking_seats bs
				 WHERE bs.booking_id = b.id),
				'{}'
			)
		FROM bookings b
		JOIN showtimes s ON b.showtime_id = s.id
		JOIN movies m ON s.movie_id = m.id
		JOIN theaters t ON s.theater_id = t.id
		WHERE b.user_id = $1
		ORDER BY b.created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := p.db.Query(ctx, query, userId, pagination.Limit(), pagination.Offset())
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	bookings := make([]domain.BookingSummary, 0)
	totalRecords := 0

	for rows.Next() {
		var b domain.BookingSummary

		err := rows.Scan(
			&totalRecords,
			&b.ID,
			&b.Reference,
			&b.MovieTitle,
			&b.PosterUrl,
			&b.TheaterName,
			&b.StartTime,
			&b.TotalAmount,
			&b.Status,
			&b.CreatedAt,
			&b.Seats,
		)
		if err != nil {
			return nil, nil, err
		}

		bookings = append(bookings, b)
	}

	if err = rows.Err(); err != nil {
		return nil, nil, err
	}

	metadata := domain.NewMetadata(totalRecords, pagination.Page, pagination.PageSize)

	return bookings, metadata, nil
}

func (p *PostgresBookingRepository) GetAll(
	ctx context.Context,
	filters domain.BookingFilters) ([]domain.BookingSummary, *domain.Metadata, error) {

	query := `
		SELECT
			COUNT(*) OVER(),
			b.id,
			b.reference,
			m.title,
			m.poster_url,
			t.name,
			s.start_time,
			b.total_amount,
			b.status,
			b.created_at,
			u.name,
			u.email,
			COALESCE(
				(SELECT array_agg(bs.seat_number ORDER BY bs.seat_number)
				 FROM booking_seats bs
				 WHERE bs.booking_id = b.id),
				'{}'
			)
		FROM bookings b
		JOIN users u ON b.user_id = u.id
		JOIN showtimes s ON b.showtime_id = s.id
		JOIN movies m ON s.movie_id = m.id
		JOIN theaters t ON s.theater_id = t.id
		WHERE ($1 = '' OR b.status = $1::booking_status)
		AND ($2::date IS NULL OR s.start_time::date = $2::date)
		AND ($3 = '' OR b.reference ILIKE '%' || $3 || '%' OR u.email ILIKE '%' || $3 || '%')
		ORDER BY b.created_at DESC
		LIMIT $4 OFFSET $5
	`

	rows, err := p.db.Query(
		ctx,
		query,
		string(filters.Status),
		filters.Date,
		filters.Term,
		filters.Limit(),
		filters.Offset(),
	)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	bookings := make([]domain.BookingSummary, 0)
	totalRecords := 0

	for rows.Next() {
		var b domain.BookingSummary

		err := rows.Scan(
			&totalRecords,
			&b.ID,
			&b.Reference,
			&b.MovieTitle,
			&b.PosterUrl,
			&b.TheaterName,
			&b.StartTime,
			&b.TotalAmount,
			&b.Status,
			&b.CreatedAt,
			&b.UserName,
			&b.UserEmail,
			&b.Seats,
		)
		if err != nil {
			return nil, nil, err
		}

		bookings = append(bookings, b)
	}

	if err = rows.Err(); err != nil {
		return nil, nil, err
	}

	metadata := domain.NewMetadata(totalRecords, filters.Page, filters.PageSize)

	return bookings, metadata, nil
}
