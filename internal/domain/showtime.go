package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type ShowtimeStatus string

const (
	ShowtimeStatusActive    ShowtimeStatus = "ACTIVE"
	ShowtimeStatusCancelled ShowtimeStatus = "CANCELLED"
)

// Showtime is the aggregate the booking core mutates but does not own.
// Scheduling CRUD lives with an external collaborator; the core only
// reads scheduling fields and maintains the available seat counter.
type Showtime struct {
	ID             int
	MovieTitle     string
	ScreenID       int
	StartTime      time.Time
	Duration       time.Duration
	TicketPrice    decimal.Decimal
	TotalSeats     int
	AvailableSeats int
	Status         ShowtimeStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// EndTime is the exclusive end of the screening interval [StartTime, EndTime).
func (s *Showtime) EndTime() time.Time {
	return s.StartTime.Add(s.Duration)
}

// ShowtimeStats is the reporting view of a showtime's seat inventory.
// Unlike the seat read path it may be served from a short-lived cache.
type ShowtimeStats struct {
	ShowtimeID     int       `json:"showtimeId"`
	TotalSeats     int       `json:"totalSeats"`
	AvailableSeats int       `json:"availableSeats"`
	HeldSeats      int       `json:"heldSeats"`
	BookedSeats    int       `json:"bookedSeats"`
	GeneratedAt    time.Time `json:"generatedAt"`
}

type ShowtimeRepository interface {
	GetByID(ctx context.Context, id int) (*Showtime, error)
	Update(ctx context.Context, showtime *Showtime) error
	HasConflict(ctx context.Context, screenID int, start time.Time, duration time.Duration, excludeShowtimeID int) (bool, error)
	Stats(ctx context.Context, showtimeID int, now time.Time) (*ShowtimeStats, error)
}
