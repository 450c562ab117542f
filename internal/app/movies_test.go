package app

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/cinemaster/cinemaster-api/api"
	"github.com/cinemaster/cinemaster-api/internal/domain"
	"github.com/cinemaster/cinemaster-api/internal/mocks"
	"github.com/shopspring/decimal"
)

func TestGetMovies(t *testing.T) {
	var gotFilters domain.MovieFilters

	app := newTestApplication(func(a *Application) {
		a.movieRepo = &mocks.MockMovieRepo{
			GetAllFunc: func(ctx context.Context, filters domain.MovieFilters) ([]*domain.Movie, *domain.Metadata, error) {
				gotFilters = filters

				return []*domain.Movie{
					{ID: 1, Title: "Inception", Duration: 148, Genres: []string{"Sci-Fi", "Thriller"}, Status: domain.MovieStatusNowShowing},
				}, domain.NewMetadata(1, 1, 20), nil
			},
		}
	})

	w, r := executeRequest(t, http.MethodGet, "/movies?status=now_showing&genre=Sci-Fi&page=2", nil)

	app.GetMovies(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("GetMovies() status = %v, want %v", w.Code, http.StatusOK)
	}

	if gotFilters.Status != domain.MovieStatusNowShowing {
		t.Errorf("Status filter = %v, want now_showing", gotFilters.Status)
	}
	if gotFilters.Genre != "Sci-Fi" {
		t.Errorf("Genre filter = %v, want Sci-Fi", gotFilters.Genre)
	}
	if gotFilters.Page != 2 {
		t.Errorf("Page = %v, want 2", gotFilters.Page)
	}

	var response api.MovieListResponse
	err := json.NewDecoder(w.Body).Decode(&response)
	if err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if len(response.Movies) != 1 {
		t.Fatalf("got %d movies, want 1", len(response.Movies))
	}
	if response.Movies[0].Title != "Inception" {
		t.Errorf("Title = %v, want Inception", response.Movies[0].Title)
	}
}

func TestGetMovieById(t *testing.T) {
	t.Run("movie with upcoming showtimes", func(t *testing.T) {
		app := newTestApplication(func(a *Application) {
			a.movieRepo = &mocks.MockMovieRepo{
				GetByIdFunc: func(ctx context.Context, id int) (*domain.Movie, error) {
					return &domain.Movie{ID: id, Title: "Inception", Duration: 148}, nil
				},
			}
			a.showtimeRepo = &mocks.MockShowtimeRepo{
				GetUpcomingByMovieFunc: func(ctx context.Context, movieID int) ([]domain.ShowtimeSummary, error) {
					return []domain.ShowtimeSummary{
						{
							ID:             5,
							StartTime:      time.Now().Add(24 * time.Hour),
							Price:          decimal.RequireFromString("12.99"),
							TheaterName:    "Studio",
							AvailableSeats: 38,
						},
					}, nil
				},
			}
		})

		w, r := executeRequest(t, http.MethodGet, "/movies/1", nil)
		r = withURLParam(r, "movieId", "1")

		app.GetMovieById(w, r)

		if w.Code != http.StatusOK {
			t.Fatalf("GetMovieById() status = %v, want %v", w.Code, http.StatusOK)
		}

		var response api.MovieDetailResponse
		err := json.NewDecoder(w.Body).Decode(&response)
		if err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}

		if response.Title != "Inception" {
			t.Errorf("Title = %v, want Inception", response.Title)
		}
		if len(response.Showtimes) != 1 {
			t.Fatalf("got %d showtimes, want 1", len(response.Showtimes))
		}
		if response.Showtimes[0].AvailableSeats != 38 {
			t.Errorf("AvailableSeats = %v, want 38", response.Showtimes[0].AvailableSeats)
		}
	})

	t.Run("unknown movie", func(t *testing.T) {
		app := newTestApplication(func(a *Application) {
			a.movieRepo = &mocks.MockMovieRepo{
				GetByIdFunc: func(ctx context.Context, id int) (*domain.Movie, error) {
					return nil, domain.ErrRecordNotFound
				},
			}
		})

		w, r := executeRequest(t, http.MethodGet, "/movies/99", nil)
		r = withURLParam(r, "movieId", "99")

		app.GetMovieById(w, r)

		if w.Code != http.StatusNotFound {
			t.Errorf("GetMovieById() status = %v, want %v", w.Code, http.StatusNotFound)
		}
	})
}

func TestDeleteMovie(t *testing.T) {
	t.Run("movie with scheduled showtimes", func(t *testing.T) {
		app := newTestApplication(func(a *Application) {
			a.movieRepo = &mocks.MockMovieRepo{
				DeleteFunc: func(ctx context.Context, id int) error {
					return domain.ErrMovieHasShowtimes
				},
			}
		})

		w, r := executeRequest(t, http.MethodDelete, "/admin/movies/1", nil)
		r = withURLParam(r, "movieId", "1")
		r = setupTestSession(t, app, r, 3)

		app.DeleteMovie(w, r)

		if w.Code != http.StatusConflict {
			t.Errorf("DeleteMovie() status = %v, want %v", w.Code, http.StatusConflict)
		}

		checkErrorResponse(t, w, http.StatusConflict, "The movie has scheduled showtimes and cannot be deleted")
	})

	t.Run("movie without showtimes", func(t *testing.T) {
		app := newTestApplication(func(a *Application) {
			a.movieRepo = &mocks.MockMovieRepo{
				DeleteFunc: func(ctx context.Context, id int) error {
					return nil
				},
			}
		})

		w, r := executeRequest(t, http.MethodDelete, "/admin/movies/1", nil)
		r = withURLParam(r, "movieId", "1")
		r = setupTestSession(t, app, r, 3)

		app.DeleteMovie(w, r)

		if w.Code != http.StatusNoContent {
			t.Errorf("DeleteMovie() status = %v, want %v", w.Code, http.StatusNoContent)
		}
	})
}
