// Package cache holds the shared Redis cache for settlement rates.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/bibbank/aml-service/internal/domain/port"
	"github.com/bibbank/aml-service/pkg/money"
)

// Compile-time assertion that RateCache implements port.RateCache.
var _ port.RateCache = (*RateCache)(nil)

// Config holds Redis connection settings.
type Config struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisClient creates a client. Connections are established lazily.
func NewRedisClient(cfg Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// RateCache stores settlement rates as decimal strings.
type RateCache struct {
	client *redis.Client
}

// NewRateCache creates a rate cache on client.
func NewRateCache(client *redis.Client) *RateCache {
	return &RateCache{client: client}
}

func rateKey(currency money.Currency, date civil.Date) string {
	return fmt.Sprintf("fxrate:%s:%s", date, currency.Code())
}

// Get returns found=false on a miss.
func (c *RateCache) Get(ctx context.Context, currency money.Currency, date civil.Date) (decimal.Decimal, bool, error) {
	val, err := c.client.Get(ctx, rateKey(currency, date)).Result()
	if errors.Is(err, redis.Nil) {
		return decimal.Zero, false, nil
	}
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("redis get: %w", err)
	}
	rate, err := decimal.NewFromString(val)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("corrupt cached rate %q: %w", val, err)
	}
	return rate, true, nil
}

// Set stores rate with ttl; zero ttl keeps it forever.
func (c *RateCache) Set(ctx context.Context, currency money.Currency, date civil.Date, rate decimal.Decimal, ttl time.Duration) error {
	if err := c.client.Set(ctx, rateKey(currency, date), rate.String(), ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// HealthCheck pings the server.
func (c *RateCache) HealthCheck(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
