package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"movie-booking/internal/data/entity"
	"movie-booking/pkg/utils"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const keyPrefix = "movie-booking:catalog:"

// CatalogCache holds the read-only catalog: the movie list and the
// showtimes of each movie. Seats and bookings are never cached.
// A miss is reported as (nil, false, nil).
type CatalogCache interface {
	GetMovies(ctx context.Context) ([]*entity.Movie, bool, error)
	SetMovies(ctx context.Context, movies []*entity.Movie) error
	GetShowtimes(ctx context.Context, movieID uuid.UUID) ([]*entity.Showtime, bool, error)
	SetShowtimes(ctx context.Context, movieID uuid.UUID, showtimes []*entity.Showtime) error
	Close() error
}

type redisCatalog struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

// NewCatalogCache connects to Redis when config.Addr is set and returns a
// no-op cache otherwise.
func NewCatalogCache(ctx context.Context, config utils.RedisConfig, log *zap.Logger) (CatalogCache, error) {
	if config.Addr == "" {
		return NoopCatalog{}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", config.Addr, err)
	}

	return NewRedisCatalog(client, config.CacheTTL, log), nil
}

func NewRedisCatalog(client *redis.Client, ttl time.Duration, log *zap.Logger) CatalogCache {
	return &redisCatalog{
		client: client,
		ttl:    ttl,
		log:    log.With(zap.String("cache", "catalog")),
	}
}

func (c *redisCatalog) GetMovies(ctx context.Context) ([]*entity.Movie, bool, error) {
	var movies []*entity.Movie
	ok, err := c.get(ctx, keyPrefix+"movies", &movies)
	return movies, ok, err
}

func (c *redisCatalog) SetMovies(ctx context.Context, movies []*entity.Movie) error {
	return c.set(ctx, keyPrefix+"movies", movies)
}

func (c *redisCatalog) GetShowtimes(ctx context.Context, movieID uuid.UUID) ([]*entity.Showtime, bool, error) {
	var showtimes []*entity.Showtime
	ok, err := c.get(ctx, showtimesKey(movieID), &showtimes)
	return showtimes, ok, err
}

func (c *redisCatalog) SetShowtimes(ctx context.Context, movieID uuid.UUID, showtimes []*entity.Showtime) error {
	return c.set(ctx, showtimesKey(movieID), showtimes)
}

func (c *redisCatalog) Close() error {
	return c.client.Close()
}

func (c *redisCatalog) get(ctx context.Context, key string, dst any) (bool, error) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis get %s: %w", key, err)
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		// a stale shape is treated as a miss and overwritten on the next set
		c.log.Warn("Discarding undecodable cache entry", zap.String("key", key), zap.Error(err))
		return false, nil
	}

	return true, nil
}

func (c *redisCatalog) set(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}

	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}

	return nil
}

func showtimesKey(movieID uuid.UUID) string {
	return keyPrefix + "showtimes:" + movieID.String()
}

// NoopCatalog never stores anything.
type NoopCatalog struct{}

func (NoopCatalog) GetMovies(context.Context) ([]*entity.Movie, bool, error) { return nil, false, nil }

func (NoopCatalog) SetMovies(context.Context, []*entity.Movie) error { return nil }

func (NoopCatalog) GetShowtimes(context.Context, uuid.UUID) ([]*entity.Showtime, bool, error) {
	return nil, false, nil
}

func (NoopCatalog) SetShowtimes(context.Context, uuid.UUID, []*entity.Showtime) error { return nil }

func (NoopCatalog) Close() error { return nil }
