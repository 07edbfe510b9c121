package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexedwards/scs/goredisstore"
	"github.com/alexedwards/scs/v2"
	"github.com/exaring/otelpgx"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
	"github.com/riandyrn/otelchi"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/contrib/bridges/otelslog"

	"github.com/GNANESWARARAO24/revticket-aws/internal/domain"
	"github.com/GNANESWARARAO24/revticket-aws/internal/inventory"
	"github.com/GNANESWARARAO24/revticket-aws/internal/repository"
	appvalidator "github.com/GNANESWARARAO24/revticket-aws/internal/validator"
	"github.com/GNANESWARARAO24/revticket-aws/internal/vcs"
)

const serviceName = "revticket-api"

var (
	version = vcs.Version()
)

type Application struct {
	config         config
	logger         *slog.Logger
	db             *pgxpool.Pool
	redis          redis.UniversalClient
	validator      *validator.Validate
	sessionManager *scs.SessionManager

	seatRepo     domain.SeatRepository
	showtimeRepo domain.ShowtimeRepository
	bookingRepo  domain.BookingRepository

	holds        *inventory.HoldManager
	bookings     *inventory.BookingCoordinator
	availability *inventory.AvailabilityService
	reaper       *inventory.Reaper
}

type config struct {
	port int
	env  string
	db   struct {
		dsn          string
		maxOpenConns int
		maxIdleTime  time.Duration
		autoMigrate  bool
	}
	redis struct {
		url          string
		maxOpenConns int
		maxIdleConns int
		maxIdleTime  time.Duration
	}
	hold struct {
		ttl            time.Duration
		sweepInterval  time.Duration
		sweepBatchSize int
	}
	refundRate       float64
	otelCollectorUrl string
}

func Run() error {
	var cfg config

	flag.IntVar(&cfg.port, "port", 3000, "server port")
	flag.StringVar(&cfg.env, "env", "dev", "Environment (dev|staging|prod)")

	flag.StringVar(&cfg.db.dsn, "db-dsn", "", "PostgreSQL DSN")
	flag.IntVar(&cfg.db.maxOpenConns, "db-max-open-conns", 25, "PostgreSQL max open connections")
	flag.DurationVar(&cfg.db.maxIdleTime, "db-max-idle-time", 15*time.Minute, "PostgreSQL max idle time for connections")
	flag.BoolVar(&cfg.db.autoMigrate, "db-migrate", false, "Apply pending schema migrations on startup")

	flag.StringVar(&cfg.redis.url, "redis-url", "", "Redis URL")
	flag.IntVar(&cfg.redis.maxOpenConns, "redis-max-open-conns", 25, "Redis max open connections")
	flag.IntVar(&cfg.redis.maxIdleConns, "redis-max-idle-conns", 10, "Redis max idle connections")
	flag.DurationVar(&cfg.redis.maxIdleTime, "redis-max-idle-time", 2*time.Minute, "Redis max idle time for connections")

	flag.DurationVar(&cfg.hold.ttl, "hold-ttl", inventory.DefaultHoldTTL, "Seat hold TTL")
	flag.DurationVar(&cfg.hold.sweepInterval, "hold-sweep-interval", inventory.DefaultSweepInterval, "Expired hold sweep interval")
	flag.IntVar(&cfg.hold.sweepBatchSize, "hold-sweep-batch-size", inventory.DefaultSweepBatchSize, "Seats released per sweep batch")

	flag.Float64Var(&cfg.refundRate, "refund-rate", 0.9, "Fraction of the booking total refunded on cancellation")

	flag.StringVar(&cfg.otelCollectorUrl, "otel-collector-url", "", "OpenTelemetry collector URL")

	displayVersion := flag.Bool("version", false, "Display version and exit")

	flag.Parse()

	if *displayVersion {
		fmt.Printf("Version:\t%s\n", version)
		os.Exit(0)
	}

	logger := slog.New(NewMultiHandler(
		slog.NewTextHandler(os.Stdout, nil),
		otelslog.NewHandler(serviceName),
	))

	validator := appvalidator.NewValidator()

	if cfg.db.autoMigrate {
		err := repository.Migrate(cfg.db.dsn)
		if err != nil {
			return err
		}

		logger.Info("database migrations applied")
	}

	db, err := newDatabasePool(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	redisClient, err := newRedisClient(cfg)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	seatRepo := repository.NewPostgresSeatRepository(db)
	showtimeRepo := repository.NewCachedShowtimeRepository(
		repository.NewPostgresShowtimeRepository(db),
		redisClient,
		repository.DefaultStatsCacheTTL,
	)
	bookingRepo := repository.NewPostgresBookingRepository(db)

	refundPolicy, err := domain.NewFlatRateRefundPolicy(decimal.NewFromFloat(cfg.refundRate))
	if err != nil {
		return err
	}

	holds := inventory.NewHoldManager(seatRepo, cfg.hold.ttl, logger, nil)
	bookings := inventory.NewBookingCoordinator(bookingRepo, showtimeRepo, refundPolicy, logger, nil)
	availability := inventory.NewAvailabilityService(seatRepo, nil)
	reaper := inventory.NewReaper(holds, cfg.hold.sweepInterval, cfg.hold.sweepBatchSize, logger)

	app := &Application{
		config:         cfg,
		logger:         logger,
		db:             db,
		redis:          redisClient,
		validator:      validator,
		sessionManager: newSessionManager(redisClient),
		seatRepo:       seatRepo,
		showtimeRepo:   showtimeRepo,
		bookingRepo:    bookingRepo,
		holds:          holds,
		bookings:       bookings,
		availability:   availability,
		reaper:         reaper,
	}

	return app.run()
}

func newSessionManager(client *redis.Client) *scs.SessionManager {
	sessionManager := scs.New()

	sessionManager.Store = goredisstore.New(client)
	sessionManager.IdleTimeout = 20 * time.Minute
	sessionManager.Cookie.Name = "session_id"

	return sessionManager
}

func newRedisClient(cfg config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:            cfg.redis.url,
		MaxIdleConns:    cfg.redis.maxIdleConns,
		MaxActiveConns:  cfg.redis.maxOpenConns,
		ConnMaxIdleTime: cfg.redis.maxIdleTime,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err := rdb.Ping(ctx).Err()
	if err != nil {
		return nil, err
	}

	if err := redisotel.InstrumentTracing(rdb); err != nil {
		return nil, err
	}

	return rdb, nil
}

func newDatabasePool(cfg config) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(cfg.db.dsn)
	if err != nil {
		return nil, err
	}

	config.MaxConnIdleTime = cfg.db.maxIdleTime
	config.MaxConns = int32(cfg.db.maxOpenConns)
	config.ConnConfig.Tracer = otelpgx.NewTracer()

	db, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err = db.Ping(ctx)
	if err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

func (app *Application) run() error {
	shutdownTelemetry, err := app.InitTelemetry()
	if err != nil {
		return err
	}
	defer shutdownTelemetry(context.Background())

	srv := &http.Server{
		Addr:         fmt.Sprintf("0.0.0.0:%d", app.config.port),
		Handler:      app.routes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorLog:     slog.NewLogLogger(app.logger.Handler(), slog.LevelDebug),
	}

	reaperCtx, stopReaper := context.WithCancel(context.Background())
	defer stopReaper()

	go app.reaper.Run(reaperCtx)

	shutdownError := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		app.logger.Info("shutting down server", "signal", s.String())

		stopReaper()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		err := srv.Shutdown(ctx)
		if err != nil {
			shutdownError <- err
		}

		shutdownError <- nil
	}()

	app.logger.Info("starting server", "addr", srv.Addr, "env", app.config.env)

	err = srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdownError
	if err != nil {
		return err
	}

	app.logger.Info("stopped server", "addr", srv.Addr)

	return nil
}

func (app *Application) routes() http.Handler {
	r := chi.NewRouter()

	r.NotFound(app.notFoundResponse)

	r.Use(middleware.RequestID)
	r.Use(otelchi.Middleware(serviceName, otelchi.WithChiRoutes(r)))
	r.Use(app.requestLogger)
	r.Use(app.recoverPanic)
	r.Use(app.sessionManager.LoadAndSave)
	r.Use(app.ensureGuestUserSession)

	r.Get("/healthcheck", app.GetHealth)

	r.Get("/showtimes/conflict", app.CheckConflictHandler)

	r.Route("/showtimes/{showtimeID}", func(r chi.Router) {
		r.Post("/seats/provision", app.ProvisionSeatsHandler)
		r.Get("/seats", app.GetSeatMapByShowtime)
		r.Get("/seats/availability", app.GetSeatAvailabilityHandler)
		r.Post("/holds", app.CreateHoldHandler)
		r.Delete("/holds", app.ReleaseHoldHandler)
		r.Get("/stats", app.GetShowtimeStatsHandler)
	})

	r.Route("/bookings", func(r chi.Router) {
		r.Post("/", app.CreateBookingHandler)
		r.Get("/{bookingID}", app.GetBookingHandler)
		r.Post("/{bookingID}/cancel", app.CancelBookingHandler)
	})

	r.Get("/users/{userID}/bookings", app.GetUserBookingsHandler)

	return r
}
