package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/cinemaster/cinemaster-api/internal/domain"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresMovieRepository struct {
	db *pgxpool.Pool
}

func NewPostgresMovieRepository(db *pgxpool.Pool) *PostgresMovieRepository {
	return &PostgresMovieRepository{
		db: db,
	}
}

func (p *PostgresMovieRepository) GetAll(
	ctx context.Context,
	filters domain.MovieFilters) ([]*domain.Movie, *domain.Metadata, error) {

	sortColumn := "release_date"
	switch filters.SortColumn() {
	case "title", "release_date", "created_at":
		sortColumn = filters.SortColumn()
	}

	query := fmt.Sprintf(`
		SELECT
			COUNT(*) OVER(),
			m.id,
			m.title,
			m.description,
			m.duration_minutes,
			m.rating,
			m.poster_url,
			m.release_date,
			m.status,
			m.created_at,
			COALESCE(
				(SELECT array_agg(g.name ORDER BY g.name)
				 FROM movie_genres mg
				 JOIN genres g ON mg.genre_id = g.id
				 WHERE mg.movie_id = m.id),
				'{}'
			)
		FROM movies m
		WHERE ($1 = '' OR m.status = $1::movie_status)
		AND ($2 = '' OR m.title ILIKE '%%' || $2 || '%%' OR EXISTS (
			SELECT 1 FROM movie_genres mg
			JOIN genres g ON mg.genre_id = g.id
			WHERE mg.movie_id = m.id AND g.name ILIKE '%%' || $2 || '%%'
		))
		AND ($3 = '' OR EXISTS (
			SELECT 1 FROM movie_genres mg
			JOIN genres g ON mg.genre_id = g.id
			WHERE mg.movie_id = m.id AND g.name = $3
		))
		ORDER BY m.%s %s, m.id
		LIMIT $4 OFFSET $5
	`, sortColumn, filters.SortDirection())

	rows, err := p.db.Query(
		ctx,
		query,
		string(filters.Status),
		filters.Term,
		filters.Genre,
		filters.Limit(),
		filters.Offset(),
	)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	movies := make([]*domain.Movie, 0)
	totalRecords := 0

	for rows.Next() {
		var movie domain.Movie

		err := rows.Scan(
			&totalRecords,
			&movie.ID,
			&movie.Title,
			&movie.Description,
			&movie.Duration,
			&movie.Rating,
			&movie.PosterUrl,
			&movie.ReleaseDate,
			&movie.Status,
			&movie.CreatedAt,
			&movie.Genres,
		)
		if err != nil {
			return nil, nil, err
		}

		movies = append(movies, &movie)
	}

	if err = rows.Err(); err != nil {
		return nil, nil, err
	}

	metadata := domain.NewMetadata(totalRecords, filters.Page, filters.PageSize)

	return movies, metadata, nil
}

func (p *PostgresMovieRepository) GetById(ctx context.Context, id int) (*domain.Movie, error) {
	query := `
		SELECT
			m.id,
			m.title,
			m.description,
			m.duration_minutes,
			m.rating,
			m.poster_url,
			m.release_date,
			m.status,
			m.created_at,
			COALESCE(
				(SELECT array_agg(g.name ORDER BY g.name)
				 FROM movie_genres mg
				 JOIN genres g ON mg.genre_id = g.id
				 WHERE mg.movie_id = m.id),
				'{}'
			)
		FROM movies m
		WHERE m.id = $1
	`

	var movie domain.Movie

	err := p.db.QueryRow(ctx, query, id).Scan(
		&movie.ID,
		&movie.Title,
		&movie.Description,
		&movie.Duration,
		&movie.Rating,
		&movie.PosterUrl,
		&movie.ReleaseDate,
		&movie.Status,
		&movie.CreatedAt,
		&movie.Genres,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	return &movie, nil
}

func (p *PostgresMovieRepository) Create(ctx context.Context, movie *domain.Movie) error {
	return runInTx(ctx, p.db, func(tx pgx.Tx) error {
		query := `
			INSERT INTO movies (title, description, duration_minutes, rating, poster_url, release_date, status)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id, created_at
		`

		err := tx.QueryRow(
			ctx,
			query,
			movie.Title,
			movie.Description,
			movie.Duration,
			movie.Rating,
			movie.PosterUrl,
			movie.ReleaseDate,
			movie.Status,
		).Scan(&movie.ID, &movie.CreatedAt)

		if err != nil {
			return err
		}

		return p.replaceGenres(ctx, tx, movie.ID, movie.Genres)
	})
}

func (p *PostgresMovieRepository) Update(ctx context.Context, movie *domain.Movie) error {
	return runInTx(ctx, p.db, func(tx pgx.Tx) error {
		query := `
			UPDATE movies
			SET title = $1, description = $2, duration_minutes = $3, rating = $4,
				poster_url = $5, release_date = $6, status = $7
			WHERE id = $8
		`

		tag, err := tx.Exec(
			ctx,
			query,
			movie.Title,
			movie.Description,
			movie.Duration,
			movie.Rating,
			movie.PosterUrl,
			movie.ReleaseDate,
			movie.Status,
			movie.ID,
		)
		if err != nil {
			return err
		}

		if tag.RowsAffected() == 0 {
			return domain.ErrRecordNotFound
		}

		return p.replaceGenres(ctx, tx, movie.ID, movie.Genres)
	})
}

func (p *PostgresMovieRepository) replaceGenres(ctx context.Context, tx pgx.Tx, movieID int, genres []string) error {
	_, err := tx.Exec(ctx, `DELETE FROM movie_genres WHERE movie_id = $1`, movieID)
	if err != nil {
		return err
	}

	for _, genre := range genres {
		query := `
			INSERT INTO movie_genres (movie_id, genre_id)
			SELECT $1, id FROM genres WHERE name = $2
			ON CONFLICT DO NOTHING
		`

		_, err = tx.Exec(ctx, query, movieID, genre)
		if err != nil {
			return err
		}
	}

	return nil
}

func (p *PostgresMovieRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM movies WHERE id = $1`

	tag, err := p.db.Exec(ctx, query, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return domain.ErrMovieHasShowtimes
		}

		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrRecordNotFound
	}

	return nil
}

func (p *PostgresMovieRepository) GetAllGenres(ctx context.Context) ([]domain.Genre, error) {
	query := `SELECT id, name FROM genres ORDER BY name`

	rows, err := p.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	genres := make([]domain.Genre, 0)

	for rows.Next() {
		var genre domain.Genre

		err = rows.Scan(&genre.ID, &genre.Name)
		if err != nil {
			return nil, err
		}

		genres = append(genres, genre)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return genres, nil
}
