package domain

import "errors"

var (
	ErrRecordNotFound     = errors.New("record not found")
	ErrShowtimeNotFound   = errors.New("showtime not found")
	ErrSeatNotFound       = errors.New("seat does not exist for this showtime")
	ErrSeatAlreadyBooked  = errors.New("seat is already booked")
	ErrSeatAlreadyHeld    = errors.New("seat is held by another session")
	ErrSeatUnavailable    = errors.New("seat is not available")
	ErrForbidden          = errors.New("seat hold belongs to another session")
	ErrAlreadyCancelled   = errors.New("booking is already cancelled")
	ErrAlreadyProvisioned = errors.New("seats are already provisioned for this showtime")
	ErrShowtimeInactive   = errors.New("showtime is not open for booking")
	ErrInvalidSeatSet     = errors.New("invalid seat selection")
	ErrAmountMismatch     = errors.New("booking amount does not match seat prices")
)
