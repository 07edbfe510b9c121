package inventory

import (
	"context"
	"log/slog"
	"time"
)

const (
	DefaultSweepInterval  = time.Minute
	DefaultSweepBatchSize = 100
)

// Reaper periodically clears expired seat holds. Each sweep works in small
// batches with skip-locked semantics, so it never holds long-lived locks
// and never blocks in-flight holds or bookings. Lazy expiry on every read
// covers the window between sweeps.
type Reaper struct {
	holds     *HoldManager
	interval  time.Duration
	batchSize int
	logger    *slog.Logger
}

func NewReaper(holds *HoldManager, interval time.Duration, batchSize int, logger *slog.Logger) *Reaper {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}

	if batchSize < 1 {
		batchSize = DefaultSweepBatchSize
	}

	return &Reaper{
		holds:     holds,
		interval:  interval,
		batchSize: batchSize,
		logger:    logger,
	}
}

// Run sweeps until the context is cancelled. Intended to be started as a
// background goroutine alongside the server.
func (r *Reaper) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("hold reaper started", "interval", r.interval, "batch_size", r.batchSize)

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("hold reaper stopped")
			return
		case <-ticker.C:
			r.Sweep(ctx)
		}
	}
}

// Sweep reaps expired holds batch by batch until a batch comes back short,
// meaning no expired holds remain right now.
func (r *Reaper) Sweep(ctx context.Context) {
	total := 0

	for {
		n, err := r.holds.ReapExpired(ctx, r.batchSize)
		if err != nil {
			r.logger.Error("failed to reap expired holds", "error", err)
			return
		}

		total += n

		if n < r.batchSize {
			break
		}
	}

	if total > 0 {
		r.logger.Info("expired holds reaped", "seats_released", total)
	}
}
