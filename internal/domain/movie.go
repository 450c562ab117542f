package domain

import (
	"context"
	"time"
)

type MovieStatus string

const (
	MovieStatusNowShowing MovieStatus = "now_showing"
	MovieStatusComingSoon MovieStatus = "coming_soon"
)

type Movie struct {
	ID          int
	Title       string
	Description string
	Genres      []string
	Duration    int // minutes
	Rating      string
	PosterUrl   string
	ReleaseDate time.Time
	Status      MovieStatus
	CreatedAt   time.Time
}

type Genre struct {
	ID   int
	Name string
}

type MovieFilters struct {
	Pagination
	Status MovieStatus
	Genre  string
}

type MovieRepository interface {
	GetAll(ctx context.Context, filters MovieFilters) ([]*Movie, *Metadata, error)
	GetById(ctx context.Context, id int) (*Movie, error)
	Create(ctx context.Context, movie *Movie) error
	Update(ctx context.Context, movie *Movie) error
	Delete(ctx context.Context, id int) error
	GetAllGenres(ctx context.Context) ([]Genre, error)
}
