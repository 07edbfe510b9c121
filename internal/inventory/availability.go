package inventory

import (
	"context"
	"time"

	"github.com/GNANESWARARAO24/revticket-aws/internal/domain"
)

// AvailabilityService is the pure read path over seat state. It always
// reads committed storage directly; the only caching allowed for seat data
// lives in the reporting endpoints, never here.
type AvailabilityService struct {
	seats domain.SeatRepository
	now   Clock
}

func NewAvailabilityService(seats domain.SeatRepository, clock Clock) *AvailabilityService {
	return &AvailabilityService{
		seats: seats,
		now:   orSystemClock(clock),
	}
}

func (s *AvailabilityService) AvailableSeatCount(ctx context.Context, showtimeID int) (int, error) {
	return s.seats.AvailableSeatCount(ctx, showtimeID, s.now())
}

func (s *AvailabilityService) SeatsByState(
	ctx context.Context,
	showtimeID int,
	state domain.SeatState) ([]domain.Seat, error) {

	return s.seats.SeatsByState(ctx, showtimeID, state, s.now())
}

// SeatMap returns all seats of a showtime in row/number order with expired
// holds already treated as free.
func (s *AvailabilityService) SeatMap(ctx context.Context, showtimeID int) ([]domain.Seat, time.Time, error) {
	now := s.now()

	seats, err := s.seats.GetSeatsByShowtime(ctx, showtimeID)
	if err != nil {
		return nil, now, err
	}

	return seats, now, nil
}
