// Package inventory implements the seat inventory core: time-boxed seat
// holds, the booking and cancellation transaction protocol, the
// availability read path and the background hold reaper. HTTP, auth and
// payment live elsewhere; callers hand the core an opaque user ID and
// session ID and get domain values or sentinel errors back.
package inventory

import (
	"fmt"
	"slices"
	"time"

	"github.com/GNANESWARARAO24/revticket-aws/internal/domain"
)

// Clock supplies the current time. Production code passes nil to the
// constructors and gets time.Now; tests inject a fake to drive TTL expiry.
type Clock func() time.Time

const (
	// DefaultHoldTTL bounds how long an abandoned checkout can keep seats
	// away from other sessions.
	DefaultHoldTTL = 10 * time.Minute

	// MaxSeatsPerRequest caps a single hold or booking request.
	MaxSeatsPerRequest = 8
)

func orSystemClock(clock Clock) Clock {
	if clock == nil {
		return time.Now
	}
	return clock
}

// validateSeatSelection rejects malformed seat sets before any storage
// round trip: empty sets, oversized sets, non-positive IDs and duplicates.
func validateSeatSelection(showtimeID int, seatIDs []int) error {
	if showtimeID < 1 {
		return fmt.Errorf("%w: showtime ID must be positive", domain.ErrInvalidSeatSet)
	}

	if len(seatIDs) == 0 {
		return fmt.Errorf("%w: at least one seat is required", domain.ErrInvalidSeatSet)
	}

	if len(seatIDs) > MaxSeatsPerRequest {
		return fmt.Errorf("%w: at most %d seats per request", domain.ErrInvalidSeatSet, MaxSeatsPerRequest)
	}

	sorted := slices.Clone(seatIDs)
	slices.Sort(sorted)

	for i, id := range sorted {
		if id < 1 {
			return fmt.Errorf("%w: seat IDs must be positive", domain.ErrInvalidSeatSet)
		}

		if i > 0 && sorted[i-1] == id {
			return fmt.Errorf("%w: duplicate seat ID %d", domain.ErrInvalidSeatSet, id)
		}
	}

	return nil
}
