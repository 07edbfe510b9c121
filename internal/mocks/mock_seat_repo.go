package mocks

import (
	"context"
	"time"

	"github.com/GNANESWARARAO24/revticket-aws/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockSeatRepo struct {
	mock.Mock
	domain.SeatRepository
}

func (m *MockSeatRepo) GetSeatsByShowtime(ctx context.Context, showtimeID int) ([]domain.Seat, error) {
	args := m.Called(ctx, showtimeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Seat), args.Error(1)
}

func (m *MockSeatRepo) GetSeat(ctx context.Context, seatID int) (*domain.Seat, error) {
	args := m.Called(ctx, seatID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Seat), args.Error(1)
}

func (m *MockSeatRepo) ProvisionSeats(ctx context.Context, showtimeID int, layout domain.SeatLayout) error {
	args := m.Called(ctx, showtimeID, layout)
	return args.Error(0)
}

func (m *MockSeatRepo) HoldSeats(
	ctx context.Context,
	showtimeID int,
	seatIDs []int,
	sessionID string,
	expiresAt, now time.Time) error {

	args := m.Called(ctx, showtimeID, seatIDs, sessionID, expiresAt, now)
	return args.Error(0)
}

func (m *MockSeatRepo) ReleaseSeats(
	ctx context.Context,
	showtimeID int,
	seatIDs []int,
	sessionID string,
	now time.Time) error {

	args := m.Called(ctx, showtimeID, seatIDs, sessionID, now)
	return args.Error(0)
}

func (m *MockSeatRepo) ReapExpiredHolds(ctx context.Context, now time.Time, batchSize int) (int, error) {
	args := m.Called(ctx, now, batchSize)
	return args.Int(0), args.Error(1)
}

func (m *MockSeatRepo) SeatsByState(
	ctx context.Context,
	showtimeID int,
	state domain.SeatState,
	now time.Time) ([]domain.Seat, error) {

	args := m.Called(ctx, showtimeID, state, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Seat), args.Error(1)
}

func (m *MockSeatRepo) AvailableSeatCount(ctx context.Context, showtimeID int, now time.Time) (int, error) {
	args := m.Called(ctx, showtimeID, now)
	return args.Int(0), args.Error(1)
}
