package mocks

import (
	"context"
	"time"

	"github.com/GNANESWARARAO24/revticket-aws/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type MockBookingRepo struct {
	mock.Mock
	domain.BookingRepository
}

func (m *MockBookingRepo) Create(ctx context.Context, booking *domain.Booking, now time.Time) error {
	args := m.Called(ctx, booking, now)
	return args.Error(0)
}

func (m *MockBookingRepo) Cancel(
	ctx context.Context,
	bookingID, reason string,
	refundAmount decimal.Decimal,
	now time.Time) (*domain.Booking, error) {

	args := m.Called(ctx, bookingID, reason, refundAmount, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepo) GetByID(ctx context.Context, bookingID string) (*domain.Booking, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepo) GetByUserID(ctx context.Context, userID string) ([]domain.Booking, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}
