package domain

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type SeatClass string

const (
	SeatClassRegular SeatClass = "REGULAR"
	SeatClassPremium SeatClass = "PREMIUM"
	SeatClassVIP     SeatClass = "VIP"
)

type SeatState string

const (
	SeatStateAvailable SeatState = "available"
	SeatStateHeld      SeatState = "held"
	SeatStateBooked    SeatState = "booked"
)

type Seat struct {
	ID            int
	ShowtimeID    int
	Row           string
	Number        int
	Class         SeatClass
	Price         decimal.Decimal
	Booked        bool
	HoldSessionID string
	HoldExpiresAt *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Label returns the human-facing seat name, e.g. "A7".
func (s *Seat) Label() string {
	return fmt.Sprintf("%s%d", s.Row, s.Number)
}

// HeldAt reports whether the seat carries a live hold at the given instant.
// Expired holds are dead: they are never honored, only reaped.
func (s *Seat) HeldAt(now time.Time) bool {
	return !s.Booked && s.HoldExpiresAt != nil && s.HoldExpiresAt.After(now)
}

// HeldByAt reports whether the given session owns a live hold on the seat.
func (s *Seat) HeldByAt(sessionID string, now time.Time) bool {
	return s.HeldAt(now) && s.HoldSessionID == sessionID
}

func (s *Seat) AvailableAt(now time.Time) bool {
	return !s.Booked && !s.HeldAt(now)
}

func (s *Seat) StateAt(now time.Time) SeatState {
	switch {
	case s.Booked:
		return SeatStateBooked
	case s.HeldAt(now):
		return SeatStateHeld
	default:
		return SeatStateAvailable
	}
}

// SeatLayout describes the physical seat grid provisioned for a showtime.
type SeatLayout struct {
	Rows        []string
	SeatsPerRow int
}

// DefaultSeatLayout is the reference deployment layout: 8 rows of 12 seats.
func DefaultSeatLayout() SeatLayout {
	return SeatLayout{
		Rows:        []string{"A", "B", "C", "D", "E", "F", "G", "H"},
		SeatsPerRow: 12,
	}
}

func (l SeatLayout) TotalSeats() int {
	return len(l.Rows) * l.SeatsPerRow
}

// SeatPricing assigns class and price by row band. Front rows are the
// cheapest, back rows the most expensive.
func SeatPricing(row string) (SeatClass, decimal.Decimal) {
	switch row {
	case "A", "B":
		return SeatClassRegular, decimal.NewFromInt(150)
	case "C", "D", "E":
		return SeatClassPremium, decimal.NewFromInt(200)
	default:
		return SeatClassVIP, decimal.NewFromInt(300)
	}
}

type SeatRepository interface {
	GetSeatsByShowtime(ctx context.Context, showtimeID int) ([]Seat, error)
	GetSeat(ctx context.Context, seatID int) (*Seat, error)
	ProvisionSeats(ctx context.Context, showtimeID int, layout SeatLayout) error
	HoldSeats(ctx context.Context, showtimeID int, seatIDs []int, sessionID string, expiresAt, now time.Time) error
	ReleaseSeats(ctx context.Context, showtimeID int, seatIDs []int, sessionID string, now time.Time) error
	ReapExpiredHolds(ctx context.Context, now time.Time, batchSize int) (int, error)
	SeatsByState(ctx context.Context, showtimeID int, state SeatState, now time.Time) ([]Seat, error)
	AvailableSeatCount(ctx context.Context, showtimeID int, now time.Time) (int, error)
}
