package repository

import (
	"context"
	"errors"
	"time"

	"github.com/GNANESWARARAO24/revticket-aws/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresShowtimeRepository struct {
	db *pgxpool.Pool
}

func NewPostgresShowtimeRepository(db *pgxpool.Pool) *PostgresShowtimeRepository {
	return &PostgresShowtimeRepository{
		db: db,
	}
}

func (p *PostgresShowtimeRepository) GetByID(ctx context.Context, id int) (*domain.Showtime, error) {
	query := `
		SELECT id, movie_title, screen_id, show_datetime, duration_minutes,
			ticket_price, total_seats, available_seats, status, created_at, updated_at
		FROM showtimes
		WHERE id = $1
	`

	var showtime domain.Showtime
	var durationMinutes int

	err := p.db.QueryRow(ctx, query, id).Scan(
		&showtime.ID,
		&showtime.MovieTitle,
		&showtime.ScreenID,
		&showtime.StartTime,
		&durationMinutes,
		&showtime.TicketPrice,
		&showtime.TotalSeats,
		&showtime.AvailableSeats,
		&showtime.Status,
		&showtime.CreatedAt,
		&showtime.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrShowtimeNotFound
		}

		return nil, err
	}

	showtime.Duration = time.Duration(durationMinutes) * time.Minute

	return &showtime, nil
}

func (p *PostgresShowtimeRepository) Update(ctx context.Context, showtime *domain.Showtime) error {
	tag, err := p.db.Exec(ctx, `
		UPDATE showtimes
		SET movie_title = $2, screen_id = $3, show_datetime = $4, duration_minutes = $5,
			ticket_price = $6, total_seats = $7, available_seats = $8, status = $9,
			updated_at = NOW()
		WHERE id = $1
	`,
		showtime.ID,
		showtime.MovieTitle,
		showtime.ScreenID,
		showtime.StartTime,
		int(showtime.Duration.Minutes()),
		showtime.TicketPrice,
		showtime.TotalSeats,
		showtime.AvailableSeats,
		showtime.Status,
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrShowtimeNotFound
	}

	return nil
}

// HasConflict reports whether another non-cancelled showtime on the same
// screen overlaps the interval [start, start+duration). Interval overlap is
// used instead of exact start-time equality so back-to-back scheduling on
// the same screen is caught.
func (p *PostgresShowtimeRepository) HasConflict(
	ctx context.Context,
	screenID int,
	start time.Time,
	duration time.Duration,
	excludeShowtimeID int) (bool, error) {

	query := `
		SELECT EXISTS (
			SELECT 1
			FROM showtimes
			WHERE screen_id = $1
				AND id <> $2
				AND status <> $3
				AND show_datetime < $4::timestamptz + make_interval(mins => $5)
				AND show_datetime + make_interval(mins => duration_minutes) > $4::timestamptz
		)
	`

	var conflict bool

	err := p.db.QueryRow(
		ctx,
		query,
		screenID,
		excludeShowtimeID,
		domain.ShowtimeStatusCancelled,
		start,
		int(duration.Minutes()),
	).Scan(&conflict)
	if err != nil {
		return false, err
	}

	return conflict, nil
}

func (p *PostgresShowtimeRepository) Stats(ctx context.Context, showtimeID int, now time.Time) (*domain.ShowtimeStats, error) {
	query := `
		SELECT
			sh.total_seats,
			COUNT(se.id) FILTER (WHERE NOT se.booked
				AND (se.hold_expires_at IS NULL OR se.hold_expires_at <= $2)),
			COUNT(se.id) FILTER (WHERE NOT se.booked
				AND se.hold_expires_at IS NOT NULL AND se.hold_expires_at > $2),
			COUNT(se.id) FILTER (WHERE se.booked)
		FROM showtimes sh
		LEFT JOIN seats se ON se.showtime_id = sh.id
		WHERE sh.id = $1
		GROUP BY sh.total_seats
	`

	stats := domain.ShowtimeStats{
		ShowtimeID:  showtimeID,
		GeneratedAt: now,
	}

	err := p.db.QueryRow(ctx, query, showtimeID, now).Scan(
		&stats.TotalSeats,
		&stats.AvailableSeats,
		&stats.HeldSeats,
		&stats.BookedSeats,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrShowtimeNotFound
		}

		return nil, err
	}

	return &stats, nil
}
