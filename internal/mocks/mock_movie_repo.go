package mocks

import (
	"context"

	"github.com/cinemaster/cinemaster-api/internal/domain"
)

type MockMovieRepo struct {
	domain.MovieRepository
	GetAllFunc       func(ctx context.Context, filters domain.MovieFilters) ([]*domain.Movie, *domain.Metadata, error)
	GetByIdFunc      func(ctx context.Context, id int) (*domain.Movie, error)
	CreateFunc       func(ctx context.Context, movie *domain.Movie) error
	UpdateFunc       func(ctx context.Context, movie *domain.Movie) error
	DeleteFunc       func(ctx context.Context, id int) error
	GetAllGenresFunc func(ctx context.Context) ([]domain.Genre, error)
}

func (m *MockMovieRepo) GetAll(ctx context.Context, filters domain.MovieFilters) ([]*domain.Movie, *domain.Metadata, error) {
	return m.GetAllFunc(ctx, filters)
}

func (m *MockMovieRepo) GetById(ctx context.Context, id int) (*domain.Movie, error) {
	return m.GetByIdFunc(ctx, id)
}

func (m *MockMovieRepo) Create(ctx context.Context, movie *domain.Movie) error {
	return m.CreateFunc(ctx, movie)
}

func (m *MockMovieRepo) Update(ctx context.Context, movie *domain.Movie) error {
	return m.UpdateFunc(ctx, movie)
}

func (m *MockMovieRepo) Delete(ctx context.Context, id int) error {
	return m.DeleteFunc(ctx, id)
}

func (m *MockMovieRepo) GetAllGenres(ctx context.Context) ([]domain.Genre, error) {
	return m.GetAllGenresFunc(ctx)
}
