package app

import (
	"time"

	"github.com/shopspring/decimal"
)

type ErrorResponse struct {
	Message   string    `json:"message"`
	RequestId string    `json:"requestId"`
	Timestamp time.Time `json:"timestamp"`
}

type ValidationIssue struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

type ValidationErrorResponse struct {
	Message          string            `json:"message"`
	RequestId        string            `json:"requestId"`
	Timestamp        time.Time         `json:"timestamp"`
	ValidationErrors []ValidationIssue `json:"validationErrors"`
}

type SystemInfo struct {
	Version     string `json:"version"`
	Environment string `json:"environment"`
}

type HealthcheckResponse struct {
	Status     string     `json:"status"`
	SystemInfo SystemInfo `json:"systemInfo"`
}

type Seat struct {
	Id     int             `json:"id"`
	Row    string          `json:"row"`
	Number int             `json:"number"`
	Label  string          `json:"label"`
	Class  string          `json:"class"`
	Price  decimal.Decimal `json:"price"`
	State  string          `json:"state"`
}

type SeatRow struct {
	Row   string `json:"row"`
	Seats []Seat `json:"seats"`
}

type SeatMapResponse struct {
	ShowtimeId int       `json:"showtimeId"`
	SeatRows   []SeatRow `json:"seatRows"`
}

type ProvisionSeatsResponse struct {
	ShowtimeId int `json:"showtimeId"`
	TotalSeats int `json:"totalSeats"`
}

type SeatAvailabilityResponse struct {
	ShowtimeId     int `json:"showtimeId"`
	AvailableSeats int `json:"availableSeats"`
}

type HoldSeatsRequest struct {
	SeatIdList []int `json:"seatIdList" validate:"required,min=1,max=8,unique,dive,gt=0"`
}

type HoldSeatsResponse struct {
	ShowtimeId    int       `json:"showtimeId"`
	SeatIdList    []int     `json:"seatIdList"`
	HoldExpiresAt time.Time `json:"holdExpiresAt"`
	HoldSeconds   int       `json:"holdSeconds"`
}

type ReleaseSeatsRequest struct {
	SeatIdList []int `json:"seatIdList" validate:"required,min=1,max=8,unique,dive,gt=0"`
}

type BookingCustomer struct {
	Name  string `json:"name" validate:"required,max=100"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone" validate:"max=20"`
}

type CreateBookingRequest struct {
	UserId      string          `json:"userId" validate:"required"`
	ShowtimeId  int             `json:"showtimeId" validate:"required,gt=0"`
	SeatIdList  []int           `json:"seatIdList" validate:"required,min=1,max=8,unique,dive,gt=0"`
	Customer    BookingCustomer `json:"customer" validate:"required"`
	TotalAmount decimal.Decimal `json:"totalAmount" validate:"required"`
}

type Booking struct {
	Id                 string           `json:"id"`
	UserId             string           `json:"userId"`
	ShowtimeId         int              `json:"showtimeId"`
	TicketNumber       string           `json:"ticketNumber"`
	QrToken            string           `json:"qrToken"`
	SeatIdList         []int            `json:"seatIdList"`
	TotalAmount        decimal.Decimal  `json:"totalAmount"`
	Status             string           `json:"status"`
	CancellationReason string           `json:"cancellationReason,omitempty"`
	RefundAmount       *decimal.Decimal `json:"refundAmount,omitempty"`
	RefundDate         *time.Time       `json:"refundDate,omitempty"`
	CreatedAt          time.Time        `json:"createdAt"`
	UpdatedAt          time.Time        `json:"updatedAt"`
}

type BookingResponse struct {
	Booking Booking `json:"booking"`
}

type UserBookingsResponse struct {
	Bookings []Booking `json:"bookings"`
}

type CancelBookingRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

type ConflictCheckResponse struct {
	Conflict bool `json:"conflict"`
}
