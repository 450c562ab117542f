package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type Showtime struct {
	ID        int
	MovieID   int
	TheaterID int
	StartTime time.Time
	Price     decimal.Decimal
	IsActive  bool
	CreatedAt time.Time
}

// ShowtimeDetail joins a showtime with the movie and theater facts the
// booking path needs: the runtime for conflict windows and the seat grid
// for availability.
type ShowtimeDetail struct {
	Showtime
	MovieTitle    string
	MovieDuration int
	TheaterName   string
	RowsCount     int
	SeatsPerRow   int
}

// ScheduledShowtime is the slice of a showtime needed for overlap checks
// against a theater's existing schedule.
type ScheduledShowtime struct {
	ID         int
	MovieID    int
	MovieTitle string
	StartTime  time.Time
	Duration   int // minutes
}

type ShowtimeSummary struct {
	ID             int
	StartTime      time.Time
	Price          decimal.Decimal
	TheaterName    string
	AvailableSeats int
}

type ShowtimeRepository interface {
	GetDetail(ctx context.Context, id int) (*ShowtimeDetail, error)
	GetAllByTheaterAndDate(ctx context.Context, theaterID int, date time.Time) ([]ScheduledShowtime, error)
	GetUpcomingByMovie(ctx context.Context, movieID int) ([]ShowtimeSummary, error)
	Create(ctx context.Context, showtime *Showtime) error
	UpdatePrice(ctx context.Context, id int, price decimal.Decimal) error
	Delete(ctx context.Context, id int) error
}
