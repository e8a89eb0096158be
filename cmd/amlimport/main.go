package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cloud.google.com/go/civil"

	"github.com/bibbank/aml-service/internal/application/dto"
	"github.com/bibbank/aml-service/internal/application/usecase"
	"github.com/bibbank/aml-service/internal/bootstrap"
	"github.com/bibbank/aml-service/internal/domain/port"
	"github.com/bibbank/aml-service/internal/domain/service"
	"github.com/bibbank/aml-service/internal/infrastructure/config"
	"github.com/bibbank/aml-service/internal/infrastructure/csvimport"
	"github.com/bibbank/aml-service/pkg/observability"
)

var timeNow = time.Now

type options struct {
	file             string
	concurrency      int
	reconcileAccount string
	from             string
	to               string
}

func main() {
	var opts options
	flag.StringVar(&opts.file, "file", "", "CSV file of transactions to score and store")
	flag.IntVar(&opts.concurrency, "concurrency", 0, "parallel submissions (default IMPORT_CONCURRENCY)")
	flag.StringVar(&opts.reconcileAccount, "reconcile-account", "", "account to re-run structuring analysis for")
	flag.StringVar(&opts.from, "from", "", "first value date to analyse, YYYY-MM-DD (default 30 days before -to)")
	flag.StringVar(&opts.to, "to", "", "last value date to analyse, YYYY-MM-DD (default today)")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	config.LoadEnv(slog.Default())
	cfg := config.Load()

	logger := observability.InitLogger(observability.LogConfig{
		Level:   cfg.LogLevel,
		Format:  "text",
		Service: "amlimport",
		Output:  os.Stderr,
	})

	if err := run(ctx, cfg, opts, os.Stdout, logger); err != nil {
		logger.Error("amlimport failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, opts options, out io.Writer, logger *slog.Logger) error {
	if opts.file == "" && opts.reconcileAccount == "" {
		return errors.New("one of -file or -reconcile-account is required")
	}
	if opts.concurrency > 0 {
		cfg.ImportConcurrency = opts.concurrency
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	res, err := bootstrap.Build(ctx, cfg, nil, logger)
	if err != nil {
		return err
	}
	defer res.Close()

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")

	if opts.file != "" {
		result, err := importFile(ctx, cfg, res, opts.file, logger)
		if err != nil {
			return err
		}
		if err := enc.Encode(result); err != nil {
			return err
		}
	}

	if opts.reconcileAccount != "" {
		req, err := reconcileRequest(opts)
		if err != nil {
			return err
		}
		analysis, err := usecase.NewReconcileStructuring(res.Store).Execute(ctx, req)
		if err != nil {
			return err
		}
		if err := enc.Encode(analysis); err != nil {
			return err
		}
	}
	return nil
}

func importFile(ctx context.Context, cfg config.Config, res *bootstrap.Resources, path string, logger *slog.Logger) (dto.ImportResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return dto.ImportResult{}, fmt.Errorf("opening import file: %w", err)
	}
	defer f.Close()

	rows, err := csvimport.ReadRows(f)
	if err != nil {
		return dto.ImportResult{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	logger.Info("import file parsed", slog.String("file", path), slog.Int("rows", len(rows)))

	engine := service.NewRiskEngine(res.Store, logger)
	submit := usecase.NewSubmitTransaction(
		res.Store, res.Publisher,
		service.NewSettlementConverter(res.Rates),
		engine, port.NopMetrics{}, logger,
	)
	return usecase.NewImportTransactions(submit, cfg.ImportConcurrency, logger).Execute(ctx, rows)
}

func reconcileRequest(opts options) (dto.ReconcileStructuringRequest, error) {
	req := dto.ReconcileStructuringRequest{AccountID: opts.reconcileAccount}
	if opts.to != "" {
		to, err := civil.ParseDate(opts.to)
		if err != nil {
			return req, fmt.Errorf("invalid -to: %w", err)
		}
		req.To = to
	} else {
		req.To = civil.DateOf(timeNow())
	}
	if opts.from != "" {
		from, err := civil.ParseDate(opts.from)
		if err != nil {
			return req, fmt.Errorf("invalid -from: %w", err)
		}
		req.From = from
	}
	return req, nil
}
