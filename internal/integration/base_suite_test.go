package integration_test

import (
	"context"
	"log"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"

	"github.com/GNANESWARARAO24/revticket-aws/internal/domain"
	"github.com/GNANESWARARAO24/revticket-aws/internal/repository"
)

const (
	dbName         = "revticket"
	dbUser         = "test_user"
	dbPassword     = "test_password"
	dbImageName    = "postgres:17-alpine"
	cacheImageName = "redis:7"
)

type BaseSuite struct {
	suite.Suite
	db             *pgxpool.Pool
	cache          *redis.Client
	dbContainer    *PostgresContainer
	cacheContainer *RedisContainer

	seatRepo     domain.SeatRepository
	showtimeRepo domain.ShowtimeRepository
	bookingRepo  domain.BookingRepository
}

func (s *BaseSuite) SetupSuite() {
	if testing.Short() {
		s.T().Skip("skipping integration tests in short mode")
	}

	ctx := context.Background()

	postgresContainer, err := getDbContainer(ctx)
	s.Require().NoError(err, "failed to start DB container")

	redisContainer, err := getCacheContainer(ctx)
	s.Require().NoError(err, "failed to start cache container")

	s.dbContainer = postgresContainer
	s.cacheContainer = redisContainer

	pool, err := pgxpool.New(ctx, postgresContainer.ConnectionString)
	s.Require().NoError(err, "failed to create connection pool")

	s.db = pool
	s.cache = redis.NewClient(&redis.Options{Addr: redisContainer.ConnectionString})

	s.seatRepo = repository.NewPostgresSeatRepository(pool)
	s.showtimeRepo = repository.NewPostgresShowtimeRepository(pool)
	s.bookingRepo = repository.NewPostgresBookingRepository(pool)
}

func (s *BaseSuite) TearDownSuite() {
	if s.db != nil {
		s.db.Close()
	}

	if s.cache != nil {
		s.cache.Close()
	}

	if s.dbContainer != nil {
		if err := testcontainers.TerminateContainer(s.dbContainer.Container.Container); err != nil {
			log.Printf("failed to terminate container: %s", err)
		}
	}

	if s.cacheContainer != nil {
		if err := testcontainers.TerminateContainer(s.cacheContainer.Container); err != nil {
			log.Printf("failed to terminate container: %s", err)
		}
	}
}

func (s *BaseSuite) TearDownTest() {
	ctx := context.Background()

	_, err := s.db.Exec(ctx, `TRUNCATE booking_seats, bookings, seats, showtimes RESTART IDENTITY CASCADE`)
	s.Require().NoError(err)

	s.Require().NoError(s.cache.FlushAll(ctx).Err())
}

// createShowtime seeds an ACTIVE showtime and returns its ID.
func (s *BaseSuite) createShowtime(screenID int, start time.Time, duration time.Duration) int {
	var id int

	err := s.db.QueryRow(context.Background(), `
		INSERT INTO showtimes (movie_title, screen_id, show_datetime, duration_minutes, ticket_price)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		"Test Movie", screenID, start, int(duration.Minutes()), "150.00",
	).Scan(&id)
	s.Require().NoError(err)

	return id
}

// provisionedShowtime seeds a showtime with its full seat grid and returns
// the showtime ID together with the seats in row/number order.
func (s *BaseSuite) provisionedShowtime() (int, []domain.Seat) {
	ctx := context.Background()

	showtimeID := s.createShowtime(1, time.Now().Add(24*time.Hour), 2*time.Hour)

	err := s.seatRepo.ProvisionSeats(ctx, showtimeID, domain.DefaultSeatLayout())
	s.Require().NoError(err)

	seats, err := s.seatRepo.GetSeatsByShowtime(ctx, showtimeID)
	s.Require().NoError(err)
	s.Require().Len(seats, 96)

	return showtimeID, seats
}
