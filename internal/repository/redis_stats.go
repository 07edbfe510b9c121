package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/GNANESWARARAO24/revticket-aws/internal/domain"
)

// DefaultStatsCacheTTL bounds how stale a cached stats snapshot can get.
const DefaultStatsCacheTTL = 10 * time.Second

// CachedShowtimeRepository decorates a ShowtimeRepository with a short-lived
// Redis cache for the Stats read. Stats is a reporting view and is allowed
// to lag committed seat state by up to the TTL; every other method passes
// straight through to the wrapped repository.
type CachedShowtimeRepository struct {
	domain.ShowtimeRepository

	cache redis.UniversalClient
	ttl   time.Duration
}

func NewCachedShowtimeRepository(
	inner domain.ShowtimeRepository,
	cache redis.UniversalClient,
	ttl time.Duration) *CachedShowtimeRepository {

	if ttl <= 0 {
		ttl = DefaultStatsCacheTTL
	}

	return &CachedShowtimeRepository{
		ShowtimeRepository: inner,
		cache:              cache,
		ttl:                ttl,
	}
}

func (r *CachedShowtimeRepository) Stats(ctx context.Context, showtimeID int, now time.Time) (*domain.ShowtimeStats, error) {
	key := statsCacheKey(showtimeID)

	// Cache failures degrade to a direct read rather than an error.
	cached, err := r.cache.Get(ctx, key).Bytes()
	if err == nil {
		var stats domain.ShowtimeStats
		if err := json.Unmarshal(cached, &stats); err == nil {
			return &stats, nil
		}
	}

	stats, err := r.ShowtimeRepository.Stats(ctx, showtimeID, now)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(stats)
	if err == nil {
		_ = r.cache.Set(ctx, key, payload, r.ttl).Err()
	}

	return stats, nil
}

func statsCacheKey(showtimeID int) string {
	return fmt.Sprintf("showtime_stats:%d", showtimeID)
}
