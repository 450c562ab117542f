package mocks

import (
	"context"

	"github.com/cinemaster/cinemaster-api/internal/domain"
)

type MockTheaterRepo struct {
	domain.TheaterRepository
	GetAllFunc  func(ctx context.Context) ([]domain.Theater, error)
	GetByIdFunc func(ctx context.Context, id int) (*domain.Theater, error)
}

func (m *MockTheaterRepo) GetAll(ctx context.Context) ([]domain.Theater, error) {
	return m.GetAllFunc(ctx)
}

func (m *MockTheaterRepo) GetById(ctx context.Context, id int) (*domain.Theater, error) {
	return m.GetByIdFunc(ctx, id)
}
