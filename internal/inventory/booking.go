package inventory

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/GNANESWARARAO24/revticket-aws/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BookingCoordinator converts seat selections into confirmed bookings and
// unwinds them on cancellation. Seat-state checks run inside the booking
// repository's transactions; the coordinator owns identity generation,
// customer validation, refunds and the conflict query.
type BookingCoordinator struct {
	bookings  domain.BookingRepository
	showtimes domain.ShowtimeRepository
	refunds   domain.RefundPolicy
	logger    *slog.Logger
	now       Clock
}

func NewBookingCoordinator(
	bookings domain.BookingRepository,
	showtimes domain.ShowtimeRepository,
	refunds domain.RefundPolicy,
	logger *slog.Logger,
	clock Clock) *BookingCoordinator {

	return &BookingCoordinator{
		bookings:  bookings,
		showtimes: showtimes,
		refunds:   refunds,
		logger:    logger,
		now:       orSystemClock(clock),
	}
}

type CreateBookingParams struct {
	UserID      string
	ShowtimeID  int
	SeatIDs     []int
	SessionID   string
	Customer    domain.Customer
	TotalAmount decimal.Decimal
}

func (p CreateBookingParams) validate() error {
	if err := validateSeatSelection(p.ShowtimeID, p.SeatIDs); err != nil {
		return err
	}

	if strings.TrimSpace(p.UserID) == "" {
		return fmt.Errorf("%w: user ID is required", domain.ErrInvalidSeatSet)
	}

	if strings.TrimSpace(p.Customer.Name) == "" || strings.TrimSpace(p.Customer.Email) == "" {
		return fmt.Errorf("%w: customer name and email are required", domain.ErrInvalidSeatSet)
	}

	if !p.TotalAmount.IsPositive() {
		return fmt.Errorf("%w: total amount must be positive", domain.ErrInvalidSeatSet)
	}

	return nil
}

// CreateBooking atomically books the seat set: either every seat is booked,
// the showtime availability is debited and the PENDING booking persisted,
// or nothing is visible. Seats held by the caller's own session are
// consumed; a prior hold is the common path but not required.
func (c *BookingCoordinator) CreateBooking(ctx context.Context, params CreateBookingParams) (*domain.Booking, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	booking := &domain.Booking{
		ID:           uuid.New().String(),
		UserID:       params.UserID,
		ShowtimeID:   params.ShowtimeID,
		SessionID:    params.SessionID,
		SeatIDs:      params.SeatIDs,
		TicketNumber: domain.NewTicketNumber(),
		QRToken:      domain.NewQRToken(),
		Customer:     params.Customer,
		TotalAmount:  params.TotalAmount,
		Status:       domain.BookingStatusPending,
	}

	err := c.bookings.Create(ctx, booking, c.now())
	if err != nil {
		return nil, err
	}

	c.logger.Info("booking created",
		"booking_id", booking.ID,
		"ticket_number", booking.TicketNumber,
		"showtime_id", booking.ShowtimeID,
		"seat_count", len(booking.SeatIDs),
	)

	return booking, nil
}

// CancelBooking cancels the booking, frees its seats and records the
// refund computed by the configured policy. Cancelling twice fails with
// ErrAlreadyCancelled.
func (c *BookingCoordinator) CancelBooking(ctx context.Context, bookingID, reason string) (*domain.Booking, error) {
	if bookingID == "" {
		return nil, domain.ErrRecordNotFound
	}

	booking, err := c.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.Status == domain.BookingStatusCancelled {
		return nil, domain.ErrAlreadyCancelled
	}

	now := c.now()
	refund := c.refunds.RefundAmount(booking, now)

	cancelled, err := c.bookings.Cancel(ctx, bookingID, reason, refund, now)
	if err != nil {
		return nil, err
	}

	c.logger.Info("booking cancelled",
		"booking_id", bookingID,
		"refund_amount", refund.String(),
		"reason", reason,
	)

	return cancelled, nil
}

func (c *BookingCoordinator) GetBooking(ctx context.Context, bookingID string) (*domain.Booking, error) {
	if bookingID == "" {
		return nil, domain.ErrRecordNotFound
	}

	return c.bookings.GetByID(ctx, bookingID)
}

func (c *BookingCoordinator) GetUserBookings(ctx context.Context, userID string) ([]domain.Booking, error) {
	return c.bookings.GetByUserID(ctx, userID)
}

// CheckConflict reports whether scheduling a showtime of the given duration
// at start on the screen would overlap an existing non-cancelled showtime.
// excludeShowtimeID is ignored when zero and is used when rescheduling an
// existing showtime against its own slot.
func (c *BookingCoordinator) CheckConflict(
	ctx context.Context,
	screenID int,
	start time.Time,
	duration time.Duration,
	excludeShowtimeID int) (bool, error) {

	if screenID < 1 {
		return false, fmt.Errorf("%w: screen ID must be positive", domain.ErrInvalidSeatSet)
	}

	if duration <= 0 {
		return false, fmt.Errorf("%w: duration must be positive", domain.ErrInvalidSeatSet)
	}

	return c.showtimes.HasConflict(ctx, screenID, start, duration, excludeShowtimeID)
}
