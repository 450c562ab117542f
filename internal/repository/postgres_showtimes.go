package repository

import (
	"context"
	"errors"
	"time"

	"github.com/cinemaster/cinemaster-api/internal/domain"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PostgresShowtimeRepository struct {
	db *pgxpool.Pool
}

func NewPostgresShowtimeRepository(db *pgxpool.Pool) *PostgresShowtimeRepository {
	return &PostgresShowtimeRepository{
		db: db,
	}
}

func (p *PostgresShowtimeRepository) GetDetail(ctx context.Context, id int) (*domain.ShowtimeDetail, error) {
	query := `
		SELECT
			s.id,
			s.movie_id,
			s.theater_id,
			s.start_time,
			s.price,
			s.is_active,
			s.created_at,
			m.title,
			m.duration_minutes,
			t.name,
			t.rows_count,
			t.seats_per_row
		FROM showtimes s
		JOIN movies m ON s.movie_id = m.id
		JOIN theaters t ON s.theater_id = t.id
		WHERE s.id = $1
	`

	var detail domain.ShowtimeDetail

	err := p.db.QueryRow(ctx, query, id).Scan(
		&detail.ID,
		&detail.MovieID,
		&detail.TheaterID,
		&detail.StartTime,
		&detail.Price,
		&detail.IsActive,
		&detail.CreatedAt,
		&detail.MovieTitle,
		&detail.MovieDuration,
		&detail.TheaterName,
		&detail.RowsCount,
		&detail.SeatsPerRow,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	return &detail, nil
}

func (p *PostgresShowtimeRepository) GetAllByTheaterAndDate(
	ctx context.Context,
	theaterID int,
	date time.Time) ([]domain.ScheduledShowtime, error) {

	query := `
		SELECT s.id, s.movie_id, m.title, s.start_time, m.duration_minutes
		FROM showtimes s
		JOIN movies m ON s.movie_id = m.id
		WHERE s.theater_id = $1 AND s.start_time::date = $2::date
		ORDER BY s.start_time
	`

	rows, err := p.db.Query(ctx, query, theaterID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	showtimes := make([]domain.ScheduledShowtime, 0)

	for rows.Next() {
		var st domain.ScheduledShowtime

		err = rows.Scan(&st.ID, &st.MovieID, &st.MovieTitle, &st.StartTime, &st.Duration)
		if err != nil {
			return nil, err
		}

		showtimes = append(showtimes, st)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return showtimes, nil
}

func (p *PostgresShowtimeRepository) GetUpcomingByMovie(ctx context.Context, movieID int) ([]domain.ShowtimeSummary, error) {
	query := `
		SELECT
			s.id,
			s.start_time,
			s.price,
			t.name,
			t.rows_count * t.seats_per_row - COALESCE(booked.booked_seats, 0)
		FROM showtimes s
		JOIN theaters t ON s.theater_id = t.id
		LEFT JOIN (
			SELECT showtime_id, COUNT(*) AS booked_seats
			FROM booking_seats
			GROUP BY showtime_id
		) booked ON s.id = booked.showtime_id
		WHERE s.movie_id = $1 AND s.start_time > NOW() AND s.is_active
		ORDER BY s.start_time
	`

	rows, err := p.db.Query(ctx, query, movieID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	showtimes := make([]domain.ShowtimeSummary, 0)

	for rows.Next() {
		var st domain.ShowtimeSummary

		err = rows.Scan(&st.ID, &st.StartTime, &st.Price, &st.TheaterName, &st.AvailableSeats)
		if err != nil {
			return nil, err
		}

		showtimes = append(showtimes, st)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return showtimes, nil
}

func (p *PostgresShowtimeRepository) Create(ctx context.Context, showtime *domain.Showtime) error {
	query := `
		INSERT INTO showtimes (movie_id, theater_id, start_time, price, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := p.db.QueryRow(
		ctx,
		query,
		showtime.MovieID,
		showtime.TheaterID,
		showtime.StartTime,
		showtime.Price,
		showtime.IsActive,
	).Scan(&showtime.ID, &showtime.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			// Exact-slot race caught by the (theater_id, start_time) index.
			return &domain.SchedulingConflictError{StartTime: showtime.StartTime}
		}

		return err
	}

	return nil
}

func (p *PostgresShowtimeRepository) UpdatePrice(ctx context.Context, id int, price decimal.Decimal) error {
	query := `UPDATE showtimes SET price = $1 WHERE id = $2`

	tag, err := p.db.Exec(ctx, query, price, id)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrRecordNotFound
	}

	return nil
}

func (p *PostgresShowtimeRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM showtimes WHERE id = $1`

	tag, err := p.db.Exec(ctx, query, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return domain.ErrShowtimeHasBookings
		}

		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrRecordNotFound
	}

	return nil
}
