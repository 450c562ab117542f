package mocks

import (
	"context"
	"time"

	"github.com/cinemaster/cinemaster-api/internal/domain"
	"github.com/shopspring/decimal"
)

type MockShowtimeRepo struct {
	domain.ShowtimeRepository
	GetDetailFunc              func(ctx context.Context, id int) (*domain.ShowtimeDetail, error)
	GetAllByTheaterAndDateFunc func(ctx context.Context, theaterID int, date time.Time) ([]domain.ScheduledShowtime, error)
	GetUpcomingByMovieFunc     func(ctx context.Context, movieID int) ([]domain.ShowtimeSummary, error)
	CreateFunc                 func(ctx context.Context, showtime *domain.Showtime) error
	UpdatePriceFunc            func(ctx context.Context, id int, price decimal.Decimal) error
	DeleteFunc                 func(ctx context.Context, id int) error
}

func (m *MockShowtimeRepo) GetDetail(ctx context.Context, id int) (*domain.ShowtimeDetail, error) {
	return m.GetDetailFunc(ctx, id)
}

func (m *MockShowtimeRepo) GetAllByTheaterAndDate(
	ctx context.Context,
	theaterID int,
	date time.Time) ([]domain.ScheduledShowtime, error) {

	return m.GetAllByTheaterAndDateFunc(ctx, theaterID, date)
}

func (m *MockShowtimeRepo) GetUpcomingByMovie(ctx context.Context, movieID int) ([]domain.ShowtimeSummary, error) {
	return m.GetUpcomingByMovieFunc(ctx, movieID)
}

func (m *MockShowtimeRepo) Create(ctx context.Context, showtime *domain.Showtime) error {
	return m.CreateFunc(ctx, showtime)
}

func (m *MockShowtimeRepo) UpdatePrice(ctx context.Context, id int, price decimal.Decimal) error {
	return m.UpdatePriceFunc(ctx, id, price)
}

func (m *MockShowtimeRepo) Delete(ctx context.Context, id int) error {
	return m.DeleteFunc(ctx, id)
}
