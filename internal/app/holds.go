package app

import (
	"errors"
	"net/http"

	"github.com/GNANESWARARAO24/revticket-aws/internal/domain"
)

// CreateHoldHandler puts a time-boxed hold on the requested seats for the
// caller's session. Holding again with the same session extends the expiry;
// any seat that is booked or held by another session fails the whole request.
func (app *Application) CreateHoldHandler(w http.ResponseWriter, r *http.Request) {
	showtimeID, err := app.readIntParam(r, "showtimeID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var req HoldSeatsRequest

	err = app.readJSON(w, r, &req)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(req)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	sessionID := app.contextGetSessionId(r)

	expiresAt, err := app.holds.HoldSeats(r.Context(), showtimeID, req.SeatIdList, sessionID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidSeatSet):
			app.badRequestResponse(w, r, err)
		case errors.Is(err, domain.ErrSeatNotFound), errors.Is(err, domain.ErrShowtimeNotFound):
			app.notFoundResponseWithErr(w, r, err)
		case errors.Is(err, domain.ErrSeatAlreadyBooked), errors.Is(err, domain.ErrSeatAlreadyHeld),
			errors.Is(err, domain.ErrSeatUnavailable):
			app.editConflictResponseWithErr(w, r, err)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	resp := HoldSeatsResponse{
		ShowtimeId:    showtimeID,
		SeatIdList:    req.SeatIdList,
		HoldExpiresAt: expiresAt,
		HoldSeconds:   int(app.holds.TTL().Seconds()),
	}

	err = app.writeJSON(w, http.StatusCreated, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// ReleaseHoldHandler gives back the caller's holds on the requested seats.
// Seats that are already free are skipped; a live hold owned by a different
// session is rejected.
func (app *Application) ReleaseHoldHandler(w http.ResponseWriter, r *http.Request) {
	showtimeID, err := app.readIntParam(r, "showtimeID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var req ReleaseSeatsRequest

	err = app.readJSON(w, r, &req)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(req)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	sessionID := app.contextGetSessionId(r)

	err = app.holds.ReleaseSeats(r.Context(), showtimeID, req.SeatIdList, sessionID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidSeatSet):
			app.badRequestResponse(w, r, err)
		case errors.Is(err, domain.ErrSeatNotFound), errors.Is(err, domain.ErrShowtimeNotFound):
			app.notFoundResponseWithErr(w, r, err)
		case errors.Is(err, domain.ErrForbidden):
			app.forbiddenResponse(w, r, err)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
