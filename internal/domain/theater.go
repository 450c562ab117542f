package domain

import "context"

// Theater describes an auditorium with a fixed rectangular seat grid.
// Rows are labeled alphabetically from "A"; seats are numbered from 1
// within each row.
type Theater struct {
	ID          int
	Name        string
	RowsCount   int
	SeatsPerRow int
	IsActive    bool
}

func (t Theater) TotalSeats() int {
	return t.RowsCount * t.SeatsPerRow
}

type TheaterRepository interface {
	GetAll(ctx context.Context) ([]Theater, error)
	GetById(ctx context.Context, id int) (*Theater, error)
}
