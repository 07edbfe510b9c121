package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/GNANESWARARAO24/revticket-aws/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PostgresBookingRepository struct {
	db *pgxpool.Pool
}

func NewPostgresBookingRepository(db *pgxpool.Pool) *PostgresBookingRepository {
	return &PostgresBookingRepository{
		db: db,
	}
}

// Create books every listed seat, debits the showtime's availability and
// inserts the booking with its seat rows as one atomic unit. The booking
// passed in must carry identity, ticket material and customer info; seat
// state is validated against the locked rows, not against any prior read.
//
// A seat that is booked, or carries a live hold owned by a session other
// than booking.SessionID, fails the whole transaction with
// ErrSeatUnavailable. A hold owned by the booking session (the common
// checkout path) and any expired hold are consumed silently, so direct
// booking without a prior hold also works.
func (p *PostgresBookingRepository) Create(ctx context.Context, booking *domain.Booking, now time.Time) error {
	return runInTxWithRetry(ctx, p.db, func(tx pgx.Tx) error {
		var status domain.ShowtimeStatus

		err := tx.QueryRow(ctx, `
			SELECT status FROM showtimes WHERE id = $1 FOR UPDATE
		`, booking.ShowtimeID).Scan(&status)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrShowtimeNotFound
			}

			return err
		}

		if status != domain.ShowtimeStatusActive {
			return domain.ErrShowtimeInactive
		}

		seats, err := lockSeats(ctx, tx, booking.ShowtimeID, booking.SeatIDs)
		if err != nil {
			return err
		}

		seatTotal := decimal.Zero

		for i := range seats {
			seat := &seats[i]

			if seat.Booked {
				return fmt.Errorf("seat %s: %w", seat.Label(), domain.ErrSeatUnavailable)
			}

			if seat.HeldAt(now) && seat.HoldSessionID != booking.SessionID {
				return fmt.Errorf("seat %s: %w", seat.Label(), domain.ErrSeatUnavailable)
			}

			seatTotal = seatTotal.Add(seat.Price)
		}

		if !booking.TotalAmount.Equal(seatTotal) {
			return fmt.Errorf("%w: got %s, seats total %s",
				domain.ErrAmountMismatch, booking.TotalAmount, seatTotal)
		}

		_, err = tx.Exec(ctx, `
			UPDATE seats
			SET booked = TRUE, hold_session_id = NULL, hold_expires_at = NULL, updated_at = NOW()
			WHERE showtime_id = $1 AND id = ANY($2)
		`, booking.ShowtimeID, booking.SeatIDs)
		if err != nil {
			return err
		}

		_, err = tx.Exec(ctx, `
			UPDATE showtimes
			SET available_seats = available_seats - $2, updated_at = NOW()
			WHERE id = $1
		`, booking.ShowtimeID, len(booking.SeatIDs))
		if err != nil {
			return err
		}

		err = tx.QueryRow(ctx, `
			INSERT INTO bookings (
				id, user_id, showtime_id, ticket_number, qr_token,
				customer_name, customer_email, customer_phone,
				total_amount, status, created_at, updated_at
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11)
			RETURNING created_at, updated_at
		`,
			booking.ID,
			booking.UserID,
			booking.ShowtimeID,
			booking.TicketNumber,
			booking.QRToken,
			booking.Customer.Name,
			booking.Customer.Email,
			booking.Customer.Phone,
			booking.TotalAmount,
			booking.Status,
			now,
		).Scan(&booking.CreatedAt, &booking.UpdatedAt)
		if err != nil {
			return err
		}

		rows := make([][]any, 0, len(booking.SeatIDs))
		for _, seatID := range booking.SeatIDs {
			rows = append(rows, []any{booking.ID, booking.ShowtimeID, seatID})
		}

		_, err = tx.CopyFrom(
			ctx,
			pgx.Identifier{"booking_seats"},
			[]string{"booking_id", "showtime_id", "seat_id"},
			pgx.CopyFromRows(rows),
		)

		return err
	})
}

// Cancel flips the booking to CANCELLED, frees its seats, credits the
// showtime's availability and records the refund, all in one transaction.
// Status is re-checked under the row lock so a concurrent cancel loses
// cleanly with ErrAlreadyCancelled.
func (p *PostgresBookingRepository) Cancel(
	ctx context.Context,
	bookingID, reason string,
	refundAmount decimal.Decimal,
	now time.Time) (*domain.Booking, error) {

	var cancelled *domain.Booking

	err := runInTxWithRetry(ctx, p.db, func(tx pgx.Tx) error {
		var status domain.BookingStatus
		var showtimeID int

		err := tx.QueryRow(ctx, `
			SELECT status, showtime_id FROM bookings WHERE id = $1 FOR UPDATE
		`, bookingID).Scan(&status, &showtimeID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrRecordNotFound
			}

			return err
		}

		if status == domain.BookingStatusCancelled {
			return domain.ErrAlreadyCancelled
		}

		seatIDs, err := bookingSeatIDs(ctx, tx, bookingID)
		if err != nil {
			return err
		}

		_, err = tx.Exec(ctx, `
			UPDATE seats
			SET booked = FALSE, hold_session_id = NULL, hold_expires_at = NULL, updated_at = NOW()
			WHERE id = ANY($1)
		`, seatIDs)
		if err != nil {
			return err
		}

		_, err = tx.Exec(ctx, `
			UPDATE showtimes
			SET available_seats = available_seats + $2, updated_at = NOW()
			WHERE id = $1
		`, showtimeID, len(seatIDs))
		if err != nil {
			return err
		}

		_, err = tx.Exec(ctx, `
			UPDATE bookings
			SET status = $2, cancellation_reason = $3, refund_amount = $4, refund_date = $5, updated_at = $5
			WHERE id = $1
		`, bookingID, domain.BookingStatusCancelled, reason, refundAmount, now)
		if err != nil {
			return err
		}

		cancelled, err = getBooking(ctx, tx, bookingID)

		return err
	})
	if err != nil {
		return nil, err
	}

	return cancelled, nil
}

func (p *PostgresBookingRepository) GetByID(ctx context.Context, bookingID string) (*domain.Booking, error) {
	return getBooking(ctx, p.db, bookingID)
}

func (p *PostgresBookingRepository) GetByUserID(ctx context.Context, userID string) ([]domain.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := p.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]domain.Booking, 0)

	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}

		bookings = append(bookings, *booking)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	for i := range bookings {
		seatIDs, err := bookingSeatIDs(ctx, p.db, bookings[i].ID)
		if err != nil {
			return nil, err
		}

		bookings[i].SeatIDs = seatIDs
	}

	return bookings, nil
}

const bookingColumns = `id, user_id, showtime_id, ticket_number, qr_token,
	customer_name, customer_email, customer_phone, total_amount, status,
	cancellation_reason, refund_amount, refund_date, created_at, updated_at`

// querier lets the booking read helpers run against either the pool or an
// open transaction.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var booking domain.Booking
	var reason *string
	var refund decimal.NullDecimal

	err := row.Scan(
		&booking.ID,
		&booking.UserID,
		&booking.ShowtimeID,
		&booking.TicketNumber,
		&booking.QRToken,
		&booking.Customer.Name,
		&booking.Customer.Email,
		&booking.Customer.Phone,
		&booking.TotalAmount,
		&booking.Status,
		&reason,
		&refund,
		&booking.RefundDate,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if reason != nil {
		booking.CancellationReason = *reason
	}

	if refund.Valid {
		booking.RefundAmount = &refund.Decimal
	}

	return &booking, nil
}

func getBooking(ctx context.Context, q querier, bookingID string) (*domain.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE id = $1
	`

	booking, err := scanBooking(q.QueryRow(ctx, query, bookingID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	seatIDs, err := bookingSeatIDs(ctx, q, bookingID)
	if err != nil {
		return nil, err
	}

	booking.SeatIDs = seatIDs

	return booking, nil
}

func bookingSeatIDs(ctx context.Context, q querier, bookingID string) ([]int, error) {
	rows, err := q.Query(ctx, `
		SELECT seat_id FROM booking_seats WHERE booking_id = $1 ORDER BY seat_id
	`, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	seatIDs := make([]int, 0)

	for rows.Next() {
		var seatID int

		if err := rows.Scan(&seatID); err != nil {
			return nil, err
		}

		seatIDs = append(seatIDs, seatID)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return seatIDs, nil
}
