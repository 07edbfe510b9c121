package app

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GNANESWARARAO24/revticket-aws/internal/domain"
	"github.com/GNANESWARARAO24/revticket-aws/internal/inventory"
)

// CreateBookingHandler atomically books the requested seats and persists a
// PENDING booking. Seats held by the caller's own session are consumed; a
// seat booked or held by anyone else fails the whole request.
func (app *Application) CreateBookingHandler(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest

	err := app.readJSON(w, r, &req)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(req)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	params := inventory.CreateBookingParams{
		UserID:     req.UserId,
		ShowtimeID: req.ShowtimeId,
		SeatIDs:    req.SeatIdList,
		SessionID:  app.contextGetSessionId(r),
		Customer: domain.Customer{
			Name:  req.Customer.Name,
			Email: req.Customer.Email,
			Phone: req.Customer.Phone,
		},
		TotalAmount: req.TotalAmount,
	}

	booking, err := app.bookings.CreateBooking(r.Context(), params)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidSeatSet), errors.Is(err, domain.ErrAmountMismatch):
			app.badRequestResponse(w, r, err)
		case errors.Is(err, domain.ErrShowtimeNotFound), errors.Is(err, domain.ErrSeatNotFound):
			app.notFoundResponseWithErr(w, r, err)
		case errors.Is(err, domain.ErrShowtimeInactive), errors.Is(err, domain.ErrSeatUnavailable):
			app.editConflictResponseWithErr(w, r, err)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	resp := BookingResponse{Booking: toBookingDTO(booking)}

	err = app.writeJSON(w, http.StatusCreated, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetBookingHandler(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "bookingID")

	booking, err := app.bookings.GetBooking(r.Context(), bookingID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	resp := BookingResponse{Booking: toBookingDTO(booking)}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// CancelBookingHandler cancels a booking, frees its seats and records the
// refund. Cancelling an already cancelled booking is a conflict.
func (app *Application) CancelBookingHandler(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "bookingID")

	var req CancelBookingRequest

	err := app.readJSON(w, r, &req)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(req)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	booking, err := app.bookings.CancelBooking(r.Context(), bookingID, req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		case errors.Is(err, domain.ErrAlreadyCancelled):
			app.editConflictResponseWithErr(w, r, err)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	resp := BookingResponse{Booking: toBookingDTO(booking)}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetUserBookingsHandler(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		app.badRequestResponse(w, r, errors.New("invalid userID parameter"))
		return
	}

	bookings, err := app.bookings.GetUserBookings(r.Context(), userID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := UserBookingsResponse{Bookings: make([]Booking, 0, len(bookings))}
	for i := range bookings {
		resp.Bookings = append(resp.Bookings, toBookingDTO(&bookings[i]))
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func toBookingDTO(b *domain.Booking) Booking {
	return Booking{
		Id:                 b.ID,
		UserId:             b.UserID,
		ShowtimeId:         b.ShowtimeID,
		TicketNumber:       b.TicketNumber,
		QrToken:            b.QRToken,
		SeatIdList:         b.SeatIDs,
		TotalAmount:        b.TotalAmount,
		Status:             string(b.Status),
		CancellationReason: b.CancellationReason,
		RefundAmount:       b.RefundAmount,
		RefundDate:         b.RefundDate,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}
}
