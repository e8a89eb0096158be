package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bibbank/aml-service/internal/application/usecase"
	"github.com/bibbank/aml-service/internal/bootstrap"
	"github.com/bibbank/aml-service/internal/domain/service"
	"github.com/bibbank/aml-service/internal/infrastructure/config"
	kafkainfra "github.com/bibbank/aml-service/internal/infrastructure/kafka"
	"github.com/bibbank/aml-service/internal/infrastructure/telemetry"
	grpcpresentation "github.com/bibbank/aml-service/internal/presentation/grpc"
	"github.com/bibbank/aml-service/internal/presentation/rest"
	"github.com/bibbank/aml-service/pkg/auth"
	pkgkafka "github.com/bibbank/aml-service/pkg/kafka"
	"github.com/bibbank/aml-service/pkg/observability"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	config.LoadEnv(slog.Default())
	cfg := config.Load()

	logger := observability.InitLogger(observability.LogConfig{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: cfg.Telemetry.ServiceName,
	})
	slog.SetDefault(logger)

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("aml-service failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger.Info("starting aml-service",
		slog.Int("http_port", cfg.HTTPPort),
		slog.Int("grpc_port", cfg.GRPCPort),
		slog.String("store", cfg.Store),
	)

	if cfg.Telemetry.OTLPEndpoint != "" {
		shutdown, err := observability.InitTracer(ctx, observability.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Environment: cfg.Environment,
			Endpoint:    cfg.Telemetry.OTLPEndpoint,
			Insecure:    cfg.Telemetry.OTLPInsecure,
		})
		if err != nil {
			logger.Warn("failed to initialize tracer, continuing without tracing", slog.String("error", err.Error()))
		} else {
			defer shutdown(context.Background())
		}
	}

	meterProvider, metricsHandler, err := observability.InitMetrics(observability.MetricsConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Environment: cfg.Environment,
	})
	if err != nil {
		return err
	}
	defer meterProvider.Shutdown(context.Background())

	metrics, err := telemetry.NewMetrics(meterProvider.Meter(telemetry.MeterName))
	if err != nil {
		return err
	}

	dbCtx, dbCancel := context.WithTimeout(ctx, 30*time.Second)
	res, err := bootstrap.Build(dbCtx, cfg, metrics, logger)
	dbCancel()
	if err != nil {
		return err
	}
	defer func() {
		if err := res.Close(); err != nil {
			logger.Error("failed to release resources", slog.String("error", err.Error()))
		}
	}()

	// Domain services.
	engine := service.NewRiskEngine(res.Store, logger)
	if overlaps := engine.Countries().OverlappingCodes(); len(overlaps) > 0 {
		logger.Info("country codes listed in more than one tier; the lowest tier applies",
			slog.Any("codes", overlaps))
	}
	converter := service.NewSettlementConverter(res.Rates)

	// Use cases.
	submit := usecase.NewSubmitTransaction(res.Store, res.Publisher, converter, engine, metrics, logger)
	useCases := grpcpresentation.UseCases{
		Submit: submit,
		Score:  usecase.NewScoreTransaction(engine, metrics),
		Detect: usecase.NewDetectStructuring(service.NewStructuringDetector(res.Store, logger), metrics),
		Get:    usecase.NewGetTransaction(res.Store),
		List:   usecase.NewListTransactions(res.Store),
		Review: usecase.NewReviewTransaction(res.Store, res.Publisher, logger),
		Stats:  usecase.NewGetStats(res.Store),
	}

	jwtService, err := auth.NewJWTService(cfg.JWT)
	if err != nil {
		return fmt.Errorf("failed to create JWT service: %w", err)
	}

	grpcServer, err := grpcpresentation.NewServer(
		grpcpresentation.NewAmlServiceHandler(useCases, logger),
		grpcpresentation.ServerConfig{
			Address:    cfg.GRPCAddress(),
			TLS:        cfg.TLS,
			Reflection: cfg.GRPCReflection,
		},
		logger,
		jwtService,
	)
	if err != nil {
		return err
	}

	checks := make(map[string]rest.CheckFunc, len(res.Checks))
	for name, check := range res.Checks {
		checks[name] = rest.CheckFunc(check)
	}
	httpMux := http.NewServeMux()
	rest.NewHealthHandler(logger, checks, metricsHandler).RegisterRoutes(httpMux)

	httpServer := &http.Server{
		Addr:         cfg.HTTPAddress(),
		Handler:      httpMux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 3)

	go func() {
		if err := grpcServer.Start(); err != nil {
			errCh <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	go func() {
		logger.Info("HTTP server starting", slog.String("address", cfg.HTTPAddress()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	if cfg.IngestEnabled {
		ingest := kafkainfra.NewIngestHandler(submit, logger)
		consumer, err := pkgkafka.NewConsumer(cfg.Kafka, cfg.Topics.Ingest, ingest.Handle, logger)
		if err != nil {
			return fmt.Errorf("failed to create ingest consumer: %w", err)
		}
		defer consumer.Close()

		go func() {
			if err := consumer.Start(ctx); err != nil {
				errCh <- fmt.Errorf("ingest consumer error: %w", err)
			}
		}()
	}

	logger.Info("aml-service started",
		slog.String("grpc_address", cfg.GRPCAddress()),
		slog.String("http_address", cfg.HTTPAddress()),
		slog.String("environment", cfg.Environment),
	)

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case runErr = <-errCh:
		logger.Error("server error", slog.String("error", runErr.Error()))
	}

	logger.Info("shutting down aml-service")

	grpcServer.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
	}

	logger.Info("aml-service stopped")
	return runErr
}
