package repository

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/GNANESWARARAO24/revticket-aws/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresSeatRepository struct {
	db *pgxpool.Pool
}

func NewPostgresSeatRepository(db *pgxpool.Pool) *PostgresSeatRepository {
	return &PostgresSeatRepository{
		db: db,
	}
}

const seatColumns = `id, showtime_id, seat_row, seat_number, seat_class, price,
	booked, hold_session_id, hold_expires_at, created_at, updated_at`

func scanSeat(row pgx.Row) (*domain.Seat, error) {
	var seat domain.Seat
	var holdSession *string

	err := row.Scan(
		&seat.ID,
		&seat.ShowtimeID,
		&seat.Row,
		&seat.Number,
		&seat.Class,
		&seat.Price,
		&seat.Booked,
		&holdSession,
		&seat.HoldExpiresAt,
		&seat.CreatedAt,
		&seat.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if holdSession != nil {
		seat.HoldSessionID = *holdSession
	}

	return &seat, nil
}

func (p *PostgresSeatRepository) GetSeatsByShowtime(ctx context.Context, showtimeID int) ([]domain.Seat, error) {
	query := `
		SELECT ` + seatColumns + `
		FROM seats
		WHERE showtime_id = $1
		ORDER BY seat_row, seat_number
	`

	rows, err := p.db.Query(ctx, query, showtimeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	seats := make([]domain.Seat, 0)

	for rows.Next() {
		seat, err := scanSeat(rows)
		if err != nil {
			return nil, err
		}

		seats = append(seats, *seat)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return seats, nil
}

func (p *PostgresSeatRepository) GetSeat(ctx context.Context, seatID int) (*domain.Seat, error) {
	query := `
		SELECT ` + seatColumns + `
		FROM seats
		WHERE id = $1
	`

	seat, err := scanSeat(p.db.QueryRow(ctx, query, seatID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSeatNotFound
		}

		return nil, err
	}

	return seat, nil
}

// ProvisionSeats creates the full seat grid for a showtime and initializes
// the showtime's seat counters in the same transaction. It is idempotent:
// a second invocation fails with ErrAlreadyProvisioned and writes nothing.
func (p *PostgresSeatRepository) ProvisionSeats(ctx context.Context, showtimeID int, layout domain.SeatLayout) error {
	return runInTx(ctx, p.db, func(tx pgx.Tx) error {
		var id int

		err := tx.QueryRow(ctx, `SELECT id FROM showtimes WHERE id = $1 FOR UPDATE`, showtimeID).Scan(&id)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrShowtimeNotFound
			}

			return err
		}

		var provisioned bool

		err = tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM seats WHERE showtime_id = $1)`, showtimeID).Scan(&provisioned)
		if err != nil {
			return err
		}

		if provisioned {
			return domain.ErrAlreadyProvisioned
		}

		rows := make([][]any, 0, layout.TotalSeats())
		for _, row := range layout.Rows {
			class, price := domain.SeatPricing(row)

			for number := 1; number <= layout.SeatsPerRow; number++ {
				rows = append(rows, []any{showtimeID, row, number, string(class), price})
			}
		}

		_, err = tx.CopyFrom(
			ctx,
			pgx.Identifier{"seats"},
			[]string{"showtime_id", "seat_row", "seat_number", "seat_class", "price"},
			pgx.CopyFromRows(rows),
		)
		if err != nil {
			return err
		}

		total := layout.TotalSeats()

		_, err = tx.Exec(ctx, `
			UPDATE showtimes
			SET total_seats = $2, available_seats = $2, updated_at = NOW()
			WHERE id = $1
		`, showtimeID, total)

		return err
	})
}

// lockSeats acquires row locks on the requested seats in deterministic ID
// order so that competing multi-seat transactions cannot deadlock. Every
// caller re-validates seat state from the returned rows, never from an
// earlier unlocked read.
func lockSeats(ctx context.Context, tx pgx.Tx, showtimeID int, seatIDs []int) ([]domain.Seat, error) {
	ids := slices.Clone(seatIDs)
	slices.Sort(ids)

	query := `
		SELECT ` + seatColumns + `
		FROM seats
		WHERE showtime_id = $1 AND id = ANY($2)
		ORDER BY id
		FOR UPDATE
	`

	rows, err := tx.Query(ctx, query, showtimeID, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	seats := make([]domain.Seat, 0, len(ids))

	for rows.Next() {
		seat, err := scanSeat(rows)
		if err != nil {
			return nil, err
		}

		seats = append(seats, *seat)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	if len(seats) != len(ids) {
		return nil, domain.ErrSeatNotFound
	}

	return seats, nil
}

// HoldSeats grants the session a time-boxed exclusive hold on every listed
// seat, or fails without holding any of them. A live hold by the same
// session is extended to the new expiry.
func (p *PostgresSeatRepository) HoldSeats(
	ctx context.Context,
	showtimeID int,
	seatIDs []int,
	sessionID string,
	expiresAt, now time.Time) error {

	return runInTxWithRetry(ctx, p.db, func(tx pgx.Tx) error {
		seats, err := lockSeats(ctx, tx, showtimeID, seatIDs)
		if err != nil {
			return err
		}

		for i := range seats {
			seat := &seats[i]

			if seat.Booked {
				return fmt.Errorf("seat %s: %w", seat.Label(), domain.ErrSeatAlreadyBooked)
			}

			if seat.HeldAt(now) && seat.HoldSessionID != sessionID {
				return fmt.Errorf("seat %s: %w", seat.Label(), domain.ErrSeatAlreadyHeld)
			}
		}

		_, err = tx.Exec(ctx, `
			UPDATE seats
			SET hold_session_id = $1, hold_expires_at = $2, updated_at = NOW()
			WHERE showtime_id = $3 AND id = ANY($4)
		`, sessionID, expiresAt, showtimeID, seatIDs)

		return err
	})
}

// ReleaseSeats clears hold fields on the listed seats. Booked seats and
// seats that are already free are skipped without error, so the operation
// is idempotent. A live hold owned by a different session fails the whole
// call with ErrForbidden unless sessionID is empty, which marks an
// administrative or reaper release.
func (p *PostgresSeatRepository) ReleaseSeats(
	ctx context.Context,
	showtimeID int,
	seatIDs []int,
	sessionID string,
	now time.Time) error {

	return runInTxWithRetry(ctx, p.db, func(tx pgx.Tx) error {
		seats, err := lockSeats(ctx, tx, showtimeID, seatIDs)
		if err != nil {
			return err
		}

		toClear := make([]int, 0, len(seats))

		for i := range seats {
			seat := &seats[i]

			if seat.Booked || seat.HoldExpiresAt == nil {
				continue
			}

			if sessionID != "" && seat.HeldAt(now) && seat.HoldSessionID != sessionID {
				return fmt.Errorf("seat %s: %w", seat.Label(), domain.ErrForbidden)
			}

			toClear = append(toClear, seat.ID)
		}

		if len(toClear) == 0 {
			return nil
		}

		_, err = tx.Exec(ctx, `
			UPDATE seats
			SET hold_session_id = NULL, hold_expires_at = NULL, updated_at = NOW()
			WHERE id = ANY($1)
		`, toClear)

		return err
	})
}

// ReapExpiredHolds clears one batch of dead holds and reports how many
// seats were released. SKIP LOCKED keeps the sweep from queueing behind
// in-flight hold or booking transactions.
func (p *PostgresSeatRepository) ReapExpiredHolds(ctx context.Context, now time.Time, batchSize int) (int, error) {
	tag, err := p.db.Exec(ctx, `
		UPDATE seats
		SET hold_session_id = NULL, hold_expires_at = NULL, updated_at = NOW()
		WHERE id IN (
			SELECT id
			FROM seats
			WHERE hold_expires_at IS NOT NULL AND hold_expires_at <= $1 AND NOT booked
			ORDER BY hold_expires_at
			LIMIT $2
			FOR UPDATE SKIP LOCKED
		)
	`, now, batchSize)
	if err != nil {
		return 0, err
	}

	return int(tag.RowsAffected()), nil
}

func (p *PostgresSeatRepository) SeatsByState(
	ctx context.Context,
	showtimeID int,
	state domain.SeatState,
	now time.Time) ([]domain.Seat, error) {

	var condition string

	switch state {
	case domain.SeatStateBooked:
		condition = "booked"
	case domain.SeatStateHeld:
		condition = "NOT booked AND hold_expires_at IS NOT NULL AND hold_expires_at > $2"
	case domain.SeatStateAvailable:
		condition = "NOT booked AND (hold_expires_at IS NULL OR hold_expires_at <= $2)"
	default:
		return nil, fmt.Errorf("unknown seat state %q", state)
	}

	query := `
		SELECT ` + seatColumns + `
		FROM seats
		WHERE showtime_id = $1 AND ` + condition + `
		ORDER BY seat_row, seat_number
	`

	args := []any{showtimeID}
	if state != domain.SeatStateBooked {
		args = append(args, now)
	}

	rows, err := p.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	seats := make([]domain.Seat, 0)

	for rows.Next() {
		seat, err := scanSeat(rows)
		if err != nil {
			return nil, err
		}

		seats = append(seats, *seat)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return seats, nil
}

func (p *PostgresSeatRepository) AvailableSeatCount(ctx context.Context, showtimeID int, now time.Time) (int, error) {
	var exists bool

	err := p.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM showtimes WHERE id = $1)`, showtimeID).Scan(&exists)
	if err != nil {
		return 0, err
	}

	if !exists {
		return 0, domain.ErrShowtimeNotFound
	}

	var count int

	err = p.db.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM seats
		WHERE showtime_id = $1
			AND NOT booked
			AND (hold_expires_at IS NULL OR hold_expires_at <= $2)
	`, showtimeID, now).Scan(&count)
	if err != nil {
		return 0, err
	}

	return count, nil
}
