package app

import (
	"errors"
	"net/http"
	"time"

	"github.com/GNANESWARARAO24/revticket-aws/internal/domain"
)

// ProvisionSeatsHandler creates the full seat grid for a showtime using the
// reference layout. Provisioning the same showtime twice is rejected so the
// operation stays safe to retry.
func (app *Application) ProvisionSeatsHandler(w http.ResponseWriter, r *http.Request) {
	showtimeID, err := app.readIntParam(r, "showtimeID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	layout := domain.DefaultSeatLayout()

	err = app.seatRepo.ProvisionSeats(r.Context(), showtimeID, layout)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrShowtimeNotFound):
			app.notFoundResponseWithErr(w, r, err)
		case errors.Is(err, domain.ErrAlreadyProvisioned):
			app.editConflictResponseWithErr(w, r, err)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	app.contextGetLogger(r).Info("seats provisioned", "showtime_id", showtimeID, "total_seats", layout.TotalSeats())

	resp := ProvisionSeatsResponse{
		ShowtimeId: showtimeID,
		TotalSeats: layout.TotalSeats(),
	}

	err = app.writeJSON(w, http.StatusCreated, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetSeatMapByShowtime(w http.ResponseWriter, r *http.Request) {
	showtimeID, err := app.readIntParam(r, "showtimeID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	seats, now, err := app.availability.SeatMap(r.Context(), showtimeID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	if len(seats) == 0 {
		app.contextGetLogger(r).Warn("seat map not found for showtime", "showtime_id", showtimeID)
		app.notFoundResponse(w, r)
		return
	}

	resp := SeatMapResponse{
		ShowtimeId: showtimeID,
		SeatRows:   toSeatRows(seats, now),
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetSeatAvailabilityHandler(w http.ResponseWriter, r *http.Request) {
	showtimeID, err := app.readIntParam(r, "showtimeID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	count, err := app.availability.AvailableSeatCount(r.Context(), showtimeID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrShowtimeNotFound):
			app.notFoundResponseWithErr(w, r, err)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	resp := SeatAvailabilityResponse{
		ShowtimeId:     showtimeID,
		AvailableSeats: count,
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func toSeatRows(seats []domain.Seat, now time.Time) []SeatRow {
	// Seats are pre-sorted by row and number, so a single pass suffices.

	var seatRows []SeatRow
	currentRow := SeatRow{Row: seats[0].Row}

	for _, v := range seats {
		if v.Row != currentRow.Row {
			seatRows = append(seatRows, currentRow)
			currentRow = SeatRow{Row: v.Row}
		}

		currentRow.Seats = append(currentRow.Seats, Seat{
			Id:     v.ID,
			Row:    v.Row,
			Number: v.Number,
			Label:  v.Label(),
			Class:  string(v.Class),
			Price:  v.Price,
			State:  string(v.StateAt(now)),
		})
	}

	seatRows = append(seatRows, currentRow)

	return seatRows
}
