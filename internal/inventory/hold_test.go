package inventory

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/GNANESWARARAO24/revticket-aws/internal/domain"
	"github.com/GNANESWARARAO24/revticket-aws/internal/mocks"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func fixedClock(at time.Time) Clock {
	return func() time.Time { return at }
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type HoldManagerTestSuite struct {
	suite.Suite
	seatRepo *mocks.MockSeatRepo
	holds    *HoldManager
}

func (s *HoldManagerTestSuite) SetupTest() {
	s.seatRepo = new(mocks.MockSeatRepo)
	s.holds = NewHoldManager(s.seatRepo, DefaultHoldTTL, testLogger(), fixedClock(testNow))
}

func TestHoldManagerSuite(t *testing.T) {
	suite.Run(t, new(HoldManagerTestSuite))
}

func (s *HoldManagerTestSuite) TestHoldSeatsGrantsTTL() {
	wantExpiry := testNow.Add(DefaultHoldTTL)

	s.seatRepo.On("HoldSeats", mock.Anything, 1, []int{1, 2, 3}, "session-1", wantExpiry, testNow).
		Return(nil)

	expiresAt, err := s.holds.HoldSeats(context.Background(), 1, []int{1, 2, 3}, "session-1")

	s.NoError(err)
	s.Equal(wantExpiry, expiresAt)
	s.seatRepo.AssertExpectations(s.T())
}

func (s *HoldManagerTestSuite) TestHoldSeatsRejectsInvalidInput() {
	tests := []struct {
		name       string
		showtimeID int
		seatIDs    []int
		sessionID  string
	}{
		{"missing session", 1, []int{1}, ""},
		{"empty seat set", 1, nil, "session-1"},
		{"too many seats", 1, []int{1, 2, 3, 4, 5, 6, 7, 8, 9}, "session-1"},
		{"invalid showtime", 0, []int{1}, "session-1"},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, err := s.holds.HoldSeats(context.Background(), tt.showtimeID, tt.seatIDs, tt.sessionID)

			s.ErrorIs(err, domain.ErrInvalidSeatSet)
		})
	}

	s.seatRepo.AssertNotCalled(s.T(), "HoldSeats")
}

func (s *HoldManagerTestSuite) TestHoldSeatsPropagatesConflicts() {
	s.seatRepo.On("HoldSeats", mock.Anything, 1, []int{4}, "session-1", mock.Anything, mock.Anything).
		Return(domain.ErrSeatAlreadyHeld)

	_, err := s.holds.HoldSeats(context.Background(), 1, []int{4}, "session-1")

	s.ErrorIs(err, domain.ErrSeatAlreadyHeld)
}

func (s *HoldManagerTestSuite) TestReleaseSeatsRequiresSession() {
	_, err := s.holds.HoldSeats(context.Background(), 1, []int{1}, "")
	s.ErrorIs(err, domain.ErrInvalidSeatSet)

	err = s.holds.ReleaseSeats(context.Background(), 1, []int{1}, "")
	s.ErrorIs(err, domain.ErrInvalidSeatSet)

	s.seatRepo.AssertNotCalled(s.T(), "ReleaseSeats")
}

func (s *HoldManagerTestSuite) TestReleaseSeatsPassesSession() {
	s.seatRepo.On("ReleaseSeats", mock.Anything, 1, []int{1, 2}, "session-1", testNow).
		Return(nil)

	err := s.holds.ReleaseSeats(context.Background(), 1, []int{1, 2}, "session-1")

	s.NoError(err)
	s.seatRepo.AssertExpectations(s.T())
}

func (s *HoldManagerTestSuite) TestAdminReleaseBypassesOwnership() {
	s.seatRepo.On("ReleaseSeats", mock.Anything, 1, []int{7}, "", testNow).
		Return(nil)

	err := s.holds.AdminReleaseSeats(context.Background(), 1, []int{7})

	s.NoError(err)
	s.seatRepo.AssertExpectations(s.T())
}

func (s *HoldManagerTestSuite) TestReapExpired() {
	s.seatRepo.On("ReapExpiredHolds", mock.Anything, testNow, 100).Return(5, nil)

	freed, err := s.holds.ReapExpired(context.Background(), 100)

	s.NoError(err)
	s.Equal(5, freed)
}

func (s *HoldManagerTestSuite) TestReapExpiredRejectsBadBatchSize() {
	_, err := s.holds.ReapExpired(context.Background(), 0)

	s.Error(err)
	s.seatRepo.AssertNotCalled(s.T(), "ReapExpiredHolds")
}

func (s *HoldManagerTestSuite) TestZeroTTLFallsBackToDefault() {
	holds := NewHoldManager(s.seatRepo, 0, testLogger(), fixedClock(testNow))

	s.Equal(DefaultHoldTTL, holds.TTL())
}

func TestHoldManagerPropagatesRepositoryErrors(t *testing.T) {
	seatRepo := new(mocks.MockSeatRepo)
	holds := NewHoldManager(seatRepo, time.Minute, testLogger(), fixedClock(testNow))

	wantErr := errors.New("database error")
	seatRepo.On("HoldSeats", mock.Anything, 1, []int{1}, "s1", mock.Anything, mock.Anything).
		Return(wantErr)

	_, err := holds.HoldSeats(context.Background(), 1, []int{1}, "s1")
	if !errors.Is(err, wantErr) {
		t.Errorf("expected %v, got %v", wantErr, err)
	}
}
