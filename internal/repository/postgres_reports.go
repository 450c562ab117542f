package repository

import (
	"context"

	"github.com/cinemaster/cinemaster-api/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresReportRepository struct {
	db *pgxpool.Pool
}

func NewPostgresReportRepository(db *pgxpool.Pool) *PostgresReportRepository {
	return &PostgresReportRepository{
		db: db,
	}
}

func (p *PostgresReportRepository) GetDashboardStats(ctx context.Context) (*domain.DashboardStats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM movies),
			(SELECT COUNT(*) FROM bookings),
			(SELECT COALESCE(SUM(total_amount), 0) FROM bookings WHERE status = 'completed'),
			(SELECT COUNT(*) FROM bookings WHERE created_at >= date_trunc('month', now()))
	`

	var stats domain.DashboardStats

	err := p.db.QueryRow(ctx, query).Scan(
		&stats.TotalUsers,
		&stats.TotalMovies,
		&stats.TotalBookings,
		&stats.TotalRevenue,
		&stats.BookingsThisMonth,
	)
	if err != nil {
		return nil, err
	}

	recentQuery := `
		SELECT
			b.id,
			b.reference,
			m.title,
			t.name,
			s.start_time,
			(SELECT COALESCE(array_agg(bs.seat_number ORDER BY bs.id), '{}')
			 FROM booking_seats bs WHERE bs.booking_id = b.id),
			b.total_amount,
			b.status,
			b.created_at,
			u.name,
			u.email
		FROM bookings b
		JOIN showtimes s ON b.showtime_id = s.id
		JOIN movies m ON s.movie_id = m.id
		JOIN theaters t ON s.theater_id = t.id
		JOIN users u ON b.user_id = u.id
		ORDER BY b.created_at DESC, b.id DESC
		LIMIT 5
	`

	rows, err := p.db.Query(ctx, recentQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats.RecentBookings = make([]domain.BookingSummary, 0)

	for rows.Next() {
		var summary domain.BookingSummary

		err = rows.Scan(
			&summary.ID,
			&summary.Reference,
			&summary.MovieTitle,
			&summary.TheaterName,
			&summary.StartTime,
			&summary.Seats,
			&summary.TotalAmount,
			&summary.Status,
			&summary.CreatedAt,
			&summary.UserName,
			&summary.UserEmail,
		)
		if err != nil {
			return nil, err
		}

		stats.RecentBookings = append(stats.RecentBookings, summary)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return &stats, nil
}
