package app

import (
	"errors"
	"net/http"

	"github.com/cinemaster/cinemaster-api/api"
	"github.com/cinemaster/cinemaster-api/internal/domain"
)

// GetSeatMapByShowtime returns the showtime's seat grid with the currently
// claimed seats. The set reflects the store at read time; checkout re-checks
// inside its transaction.
func (app *Application) GetSeatMapByShowtime(w http.ResponseWriter, r *http.Request) {
	showtimeId, err := app.readIDParam(r, "showtimeId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	detail, err := app.showtimeRepo.GetDetail(r.Context(), showtimeId)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	claimed, err := app.bookingRepo.GetClaimedSeats(r.Context(), showtimeId)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.SeatMapResponse{
		ShowtimeId:  detail.ID,
		MovieTitle:  detail.MovieTitle,
		TheaterName: detail.TheaterName,
		StartTime:   detail.StartTime,
		Price:       detail.Price,
		RowsCount:   detail.RowsCount,
		SeatsPerRow: detail.SeatsPerRow,
		BookedSeats: claimed,
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
