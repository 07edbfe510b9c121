package domain

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
)

type Customer struct {
	Name  string
	Email string
	Phone string
}

type Booking struct {
	ID         string
	UserID     string
	ShowtimeID int

	// SessionID is the checkout session attempting the booking. It is not
	// persisted; it only decides which live holds the booking may consume.
	SessionID string

	SeatIDs            []int
	TicketNumber       string
	QRToken            string
	Customer           Customer
	TotalAmount        decimal.Decimal
	Status             BookingStatus
	CancellationReason string
	RefundAmount       *decimal.Decimal
	RefundDate         *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// BookingSeat is a detail row for presenting the seats of a booking.
type BookingSeat struct {
	SeatID int
	Row    string
	Number int
	Class  SeatClass
	Price  decimal.Decimal
}

// NewTicketNumber generates a human-presentable ticket number, e.g. TKT1A2B3C4D.
func NewTicketNumber() string {
	raw := strings.ReplaceAll(uuid.New().String(), "-", "")
	return "TKT" + strings.ToUpper(raw[:8])
}

// NewQRToken generates the opaque token encoded into the ticket QR code.
func NewQRToken() string {
	return "QR_" + uuid.New().String()
}

// RefundPolicy computes the amount returned to the customer when a booking
// is cancelled. Implementations must be pure: same booking, same answer.
type RefundPolicy interface {
	RefundAmount(booking *Booking, at time.Time) decimal.Decimal
}

// FlatRateRefundPolicy refunds a fixed fraction of the booking total
// regardless of how close the cancellation is to the showtime.
type FlatRateRefundPolicy struct {
	Rate decimal.Decimal
}

func NewFlatRateRefundPolicy(rate decimal.Decimal) (FlatRateRefundPolicy, error) {
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
		return FlatRateRefundPolicy{}, fmt.Errorf("refund rate must be within [0, 1], got %s", rate)
	}
	return FlatRateRefundPolicy{Rate: rate}, nil
}

func (p FlatRateRefundPolicy) RefundAmount(booking *Booking, _ time.Time) decimal.Decimal {
	return booking.TotalAmount.Mul(p.Rate).Round(2)
}

type BookingRepository interface {
	Create(ctx context.Context, booking *Booking, now time.Time) error
	Cancel(ctx context.Context, bookingID, reason string, refundAmount decimal.Decimal, now time.Time) (*Booking, error)
	GetByID(ctx context.Context, bookingID string) (*Booking, error)
	GetByUserID(ctx context.Context, userID string) ([]Booking, error)
}
