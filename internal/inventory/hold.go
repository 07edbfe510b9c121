package inventory

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/GNANESWARARAO24/revticket-aws/internal/domain"
)

// HoldManager grants and releases time-boxed exclusive seat holds for
// checkout sessions. All check-and-set work happens inside the seat
// repository's locked transactions; the manager owns validation, TTL
// policy and logging.
type HoldManager struct {
	seats  domain.SeatRepository
	ttl    time.Duration
	logger *slog.Logger
	now    Clock
}

func NewHoldManager(seats domain.SeatRepository, ttl time.Duration, logger *slog.Logger, clock Clock) *HoldManager {
	if ttl <= 0 {
		ttl = DefaultHoldTTL
	}

	return &HoldManager{
		seats:  seats,
		ttl:    ttl,
		logger: logger,
		now:    orSystemClock(clock),
	}
}

// TTL returns the hold duration granted to new holds.
func (m *HoldManager) TTL() time.Duration {
	return m.ttl
}

// HoldSeats places an all-or-nothing hold on the seat set for the session
// and returns the expiry granted to it. Re-holding seats the session already
// holds extends their expiry.
func (m *HoldManager) HoldSeats(ctx context.Context, showtimeID int, seatIDs []int, sessionID string) (time.Time, error) {
	if err := validateSeatSelection(showtimeID, seatIDs); err != nil {
		return time.Time{}, err
	}

	if sessionID == "" {
		return time.Time{}, fmt.Errorf("%w: session ID is required", domain.ErrInvalidSeatSet)
	}

	now := m.now()
	expiresAt := now.Add(m.ttl)

	err := m.seats.HoldSeats(ctx, showtimeID, seatIDs, sessionID, expiresAt, now)
	if err != nil {
		return time.Time{}, err
	}

	m.logger.Info("seats held",
		"showtime_id", showtimeID,
		"seat_count", len(seatIDs),
		"ttl", m.ttl,
	)

	return expiresAt, nil
}

// ReleaseSeats gives the session's holds back. Already-free seats are a
// no-op; booked seats are never touched; a live hold owned by another
// session fails with ErrForbidden.
func (m *HoldManager) ReleaseSeats(ctx context.Context, showtimeID int, seatIDs []int, sessionID string) error {
	if err := validateSeatSelection(showtimeID, seatIDs); err != nil {
		return err
	}

	if sessionID == "" {
		return fmt.Errorf("%w: session ID is required", domain.ErrInvalidSeatSet)
	}

	return m.seats.ReleaseSeats(ctx, showtimeID, seatIDs, sessionID, m.now())
}

// AdminReleaseSeats releases holds regardless of the owning session. Used
// by operators cleaning up stuck checkouts; the reaper handles the routine
// expiry path.
func (m *HoldManager) AdminReleaseSeats(ctx context.Context, showtimeID int, seatIDs []int) error {
	if err := validateSeatSelection(showtimeID, seatIDs); err != nil {
		return err
	}

	return m.seats.ReleaseSeats(ctx, showtimeID, seatIDs, "", m.now())
}

// ReapExpired clears up to batchSize dead holds and reports how many seats
// were freed.
func (m *HoldManager) ReapExpired(ctx context.Context, batchSize int) (int, error) {
	if batchSize < 1 {
		return 0, fmt.Errorf("batch size must be positive, got %d", batchSize)
	}

	return m.seats.ReapExpiredHolds(ctx, m.now(), batchSize)
}
