package app

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/GNANESWARARAO24/revticket-aws/internal/domain"
)

// CheckConflictHandler reports whether a proposed screening slot would
// overlap an existing non-cancelled showtime on the same screen.
func (app *Application) CheckConflictHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	screenID, err := strconv.Atoi(query.Get("screenId"))
	if err != nil || screenID < 1 {
		app.badRequestResponse(w, r, errors.New("invalid screenId parameter"))
		return
	}

	start, err := time.Parse(time.RFC3339, query.Get("showDateTime"))
	if err != nil {
		app.badRequestResponse(w, r, errors.New("showDateTime must be a RFC 3339 timestamp"))
		return
	}

	durationMinutes, err := strconv.Atoi(query.Get("durationMinutes"))
	if err != nil || durationMinutes < 1 {
		app.badRequestResponse(w, r, errors.New("invalid durationMinutes parameter"))
		return
	}

	excludeShowtimeID := 0
	if raw := query.Get("excludeShowtimeId"); raw != "" {
		excludeShowtimeID, err = strconv.Atoi(raw)
		if err != nil || excludeShowtimeID < 1 {
			app.badRequestResponse(w, r, errors.New("invalid excludeShowtimeId parameter"))
			return
		}
	}

	duration := time.Duration(durationMinutes) * time.Minute

	conflict, err := app.bookings.CheckConflict(r.Context(), screenID, start, duration, excludeShowtimeID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidSeatSet):
			app.badRequestResponse(w, r, err)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	resp := ConflictCheckResponse{Conflict: conflict}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// GetShowtimeStatsHandler serves the reporting view of a showtime's seat
// inventory. The showtime repository may answer from a short-lived cache,
// so stats can lag committed state slightly; the seat read path never does.
func (app *Application) GetShowtimeStatsHandler(w http.ResponseWriter, r *http.Request) {
	showtimeID, err := app.readIntParam(r, "showtimeID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	stats, err := app.showtimeRepo.Stats(r.Context(), showtimeID, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrShowtimeNotFound):
			app.notFoundResponseWithErr(w, r, err)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, stats, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
