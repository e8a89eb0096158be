package fxrate

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"

	"github.com/bibbank/aml-service/internal/domain/port"
	"github.com/bibbank/aml-service/pkg/money"
)

// Compile-time assertion that CachedProvider implements port.RateProvider.
var _ port.RateProvider = (*CachedProvider)(nil)

// Cache layers reported to CacheObserver.
const (
	LayerLocal  = "local"
	LayerShared = "shared"
)

// CacheObserver receives cache outcomes for instrumentation.
type CacheObserver interface {
	RateCacheHit(ctx context.Context, layer string)
	RateCacheMiss(ctx context.Context)
}

type nopObserver struct{}

func (nopObserver) RateCacheHit(context.Context, string) {}
func (nopObserver) RateCacheMiss(context.Context)        {}

type cacheKey struct {
	date     civil.Date
	currency string
}

// CachedProvider memoizes rates per (value date, currency): first in process,
// then in the optional shared cache, then upstream. Historical rates never
// change, so the local layer has no expiry. Concurrent misses for the same
// key share one upstream call.
type CachedProvider struct {
	upstream port.RateProvider
	shared   port.RateCache
	ttl      time.Duration
	observer CacheObserver
	logger   *slog.Logger

	mu    sync.RWMutex
	local map[cacheKey]decimal.Decimal
	group singleflight.Group
}

// Option configures a CachedProvider.
type Option func(*CachedProvider)

// WithSharedCache adds a cross-process cache layer.
func WithSharedCache(cache port.RateCache, ttl time.Duration) Option {
	return func(p *CachedProvider) {
		p.shared = cache
		p.ttl = ttl
	}
}

// WithObserver reports cache hits and misses.
func WithObserver(o CacheObserver) Option {
	return func(p *CachedProvider) {
		p.observer = o
	}
}

// NewCachedProvider wraps upstream.
func NewCachedProvider(upstream port.RateProvider, logger *slog.Logger, opts ...Option) *CachedProvider {
	p := &CachedProvider{
		upstream: upstream,
		observer: nopObserver{},
		logger:   logger,
		local:    make(map[cacheKey]decimal.Decimal),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// SettlementRate returns the cached rate or fetches and stores it. Shared
// cache failures are logged and fall through to upstream.
func (p *CachedProvider) SettlementRate(ctx context.Context, currency money.Currency, date civil.Date) (decimal.Decimal, error) {
	key := cacheKey{date: date, currency: currency.Code()}

	p.mu.RLock()
	rate, ok := p.local[key]
	p.mu.RUnlock()
	if ok {
		p.observer.RateCacheHit(ctx, LayerLocal)
		return rate, nil
	}

	v, err, _ := p.group.Do(date.String()+":"+key.currency, func() (any, error) {
		// A flight that finished between the read above and Do has
		// already filled the local layer.
		p.mu.RLock()
		cached, ok := p.local[key]
		p.mu.RUnlock()
		if ok {
			return cached, nil
		}

		loaded, err := p.load(ctx, currency, date)
		if err != nil {
			return nil, err
		}
		p.mu.Lock()
		p.local[key] = loaded
		p.mu.Unlock()
		return loaded, nil
	})
	if err != nil {
		return decimal.Zero, err
	}
	return v.(decimal.Decimal), nil
}

func (p *CachedProvider) load(ctx context.Context, currency money.Currency, date civil.Date) (decimal.Decimal, error) {
	if p.shared != nil {
		rate, found, err := p.shared.Get(ctx, currency, date)
		switch {
		case err != nil:
			p.logger.WarnContext(ctx, "rate cache read failed",
				slog.String("currency", currency.Code()),
				slog.String("value_date", date.String()),
				slog.String("error", err.Error()),
			)
		case found:
			p.observer.RateCacheHit(ctx, LayerShared)
			return rate, nil
		}
	}

	p.observer.RateCacheMiss(ctx)
	rate, err := p.upstream.SettlementRate(ctx, currency, date)
	if err != nil {
		return decimal.Zero, fmt.Errorf("rate lookup for %s on %s: %w", currency, date, err)
	}

	if p.shared != nil {
		if err := p.shared.Set(ctx, currency, date, rate, p.ttl); err != nil {
			p.logger.WarnContext(ctx, "rate cache write failed",
				slog.String("currency", currency.Code()),
				slog.String("value_date", date.String()),
				slog.String("error", err.Error()),
			)
		}
	}
	return rate, nil
}
