package mocks

import (
	"context"
	"time"

	"github.com/GNANESWARARAO24/revticket-aws/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockShowtimeRepo struct {
	mock.Mock
	domain.ShowtimeRepository
}

func (m *MockShowtimeRepo) GetByID(ctx context.Context, id int) (*domain.Showtime, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Showtime), args.Error(1)
}

func (m *MockShowtimeRepo) Update(ctx context.Context, showtime *domain.Showtime) error {
	args := m.Called(ctx, showtime)
	return args.Error(0)
}

func (m *MockShowtimeRepo) HasConflict(
	ctx context.Context,
	screenID int,
	start time.Time,
	duration time.Duration,
	excludeShowtimeID int) (bool, error) {

	args := m.Called(ctx, screenID, start, duration, excludeShowtimeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockShowtimeRepo) Stats(ctx context.Context, showtimeID int, now time.Time) (*domain.ShowtimeStats, error) {
	args := m.Called(ctx, showtimeID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ShowtimeStats), args.Error(1)
}
