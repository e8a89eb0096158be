// Package bootstrap builds the infrastructure adapters shared by the
// service and the batch CLI from configuration.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bibbank/aml-service/internal/domain/port"
	"github.com/bibbank/aml-service/internal/infrastructure/cache"
	"github.com/bibbank/aml-service/internal/infrastructure/config"
	"github.com/bibbank/aml-service/internal/infrastructure/fxrate"
	kafkainfra "github.com/bibbank/aml-service/internal/infrastructure/kafka"
	"github.com/bibbank/aml-service/internal/infrastructure/memory"
	pgstore "github.com/bibbank/aml-service/internal/infrastructure/postgres"
	"github.com/bibbank/aml-service/internal/infrastructure/telemetry"
	pkgkafka "github.com/bibbank/aml-service/pkg/kafka"
	pkgpostgres "github.com/bibbank/aml-service/pkg/postgres"
)

// Check reports whether one dependency is reachable.
type Check func(ctx context.Context) error

// Resources collects the built adapters with their readiness checks and
// cleanup hooks.
type Resources struct {
	Store     port.TransactionStore
	Rates     port.RateProvider
	Publisher port.EventPublisher
	Checks    map[string]Check

	closers []func() error
}

// Close releases everything in reverse order of acquisition.
func (r *Resources) Close() error {
	var errs []error
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (r *Resources) onClose(fn func() error) {
	r.closers = append(r.closers, fn)
}

// Build opens the store, the rate provider chain and the event publisher.
// On error everything acquired so far is released.
func Build(ctx context.Context, cfg config.Config, metrics *telemetry.Metrics, logger *slog.Logger) (*Resources, error) {
	res := &Resources{Checks: make(map[string]Check)}

	if err := res.openStore(ctx, cfg, logger); err != nil {
		_ = res.Close()
		return nil, err
	}
	res.buildRates(cfg, metrics, logger)
	if err := res.buildPublisher(cfg, logger); err != nil {
		_ = res.Close()
		return nil, err
	}
	return res, nil
}

func (r *Resources) openStore(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	switch cfg.Store {
	case config.StoreMemory:
		logger.Warn("using in-memory transaction store; data is lost on exit")
		r.Store = memory.NewTransactionStore()
		return nil
	case config.StorePostgres:
	default:
		return fmt.Errorf("unknown store %q", cfg.Store)
	}

	dsn, err := cfg.DB.DSN()
	if err != nil {
		return err
	}
	version, err := pkgpostgres.RunMigrations(dsn, cfg.MigrationsSource)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	logger.Info("database schema ready", slog.Uint64("version", uint64(version)))

	pool, err := pkgpostgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	r.onClose(func() error { pool.Close(); return nil })
	logger.Info("connected to database")

	r.Store = pgstore.NewTransactionStore(pool)
	r.Checks["database"] = func(ctx context.Context) error { return pkgpostgres.HealthCheck(ctx, pool) }
	return nil
}

func (r *Resources) buildRates(cfg config.Config, metrics *telemetry.Metrics, logger *slog.Logger) {
	var upstream port.RateProvider
	if cfg.Rates.APIKey == "" {
		logger.Warn("EXCHANGE_RATE_API_KEY not set, using static settlement rates")
		upstream = fxrate.NewStaticProvider()
	} else {
		upstream = fxrate.NewExchangeRateAPIProvider(cfg.Rates.APIKey, cfg.Rates.BaseURL, cfg.Rates.Timeout)
	}

	var opts []fxrate.Option
	if metrics != nil {
		opts = append(opts, fxrate.WithObserver(metrics))
	}
	if cfg.Redis.Addr != "" {
		client := cache.NewRedisClient(cache.Config(cfg.Redis))
		r.onClose(client.Close)
		rateCache := cache.NewRateCache(client)
		opts = append(opts, fxrate.WithSharedCache(rateCache, cfg.Rates.CacheTTL))
		r.Checks["redis"] = rateCache.HealthCheck
		logger.Info("shared rate cache enabled", slog.String("addr", cfg.Redis.Addr))
	}

	r.Rates = fxrate.NewCachedProvider(upstream, logger, opts...)
}

func (r *Resources) buildPublisher(cfg config.Config, logger *slog.Logger) error {
	producer, err := pkgkafka.NewProducer(cfg.Kafka)
	if err != nil {
		return fmt.Errorf("failed to create kafka producer: %w", err)
	}
	r.onClose(producer.Close)
	r.Publisher = kafkainfra.NewPublisher(producer, cfg.Topics.Events, logger)
	return nil
}
