package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/bibbank/aml-service/internal/application/dto"
)

// DefaultImportConcurrency bounds parallel submissions when none is configured.
const DefaultImportConcurrency = 8

// TransactionSubmitter is the slice of SubmitTransaction that imports need.
type TransactionSubmitter interface {
	Execute(ctx context.Context, req dto.SubmitTransactionRequest) (dto.TransactionResponse, error)
}

// ImportTransactions submits a batch of parsed rows on a bounded pool.
type ImportTransactions struct {
	submitter   TransactionSubmitter
	concurrency int
	logger      *slog.Logger
}

// NewImportTransactions creates a new ImportTransactions use case.
func NewImportTransactions(submitter TransactionSubmitter, concurrency int, logger *slog.Logger) *ImportTransactions {
	if concurrency <= 0 {
		concurrency = DefaultImportConcurrency
	}
	return &ImportTransactions{submitter: submitter, concurrency: concurrency, logger: logger}
}

// Execute submits every valid row. Row failures are collected in the result;
// the returned error is non-nil only when ctx ends before all rows ran.
func (uc *ImportTransactions) Execute(ctx context.Context, rows []dto.ImportRow) (dto.ImportResult, error) {
	ctx, span := tracer.Start(ctx, "ImportTransactions")
	defer span.End()

	results := make([]dto.ImportRowResult, len(rows))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.concurrency)

	for i, row := range rows {
		if row.ParseError != nil {
			results[i] = dto.ImportRowResult{
				Line:          row.Line,
				TransactionID: row.Request.TransactionID,
				Status:        dto.ImportStatusInvalid,
				Error:         row.ParseError.Error(),
			}
			continue
		}
		if gctx.Err() != nil {
			break
		}

		g.Go(func() error {
			results[i] = uc.submit(gctx, row)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		recordSpanError(span, err)
		return summarize(results), fmt.Errorf("import interrupted: %w", err)
	}

	res := summarize(results)
	uc.logger.InfoContext(ctx, "import finished",
		slog.Int("total", res.Total),
		slog.Int("suspicious", res.Suspicious),
		slog.Int("invalid", res.Invalid),
		slog.Int("failed", res.Failed),
	)
	return res, nil
}

func (uc *ImportTransactions) submit(ctx context.Context, row dto.ImportRow) dto.ImportRowResult {
	resp, err := uc.submitter.Execute(ctx, row.Request)
	if err != nil {
		uc.logger.WarnContext(ctx, "import row failed",
			slog.Int("line", row.Line),
			slog.String("transaction_id", row.Request.TransactionID),
			slog.String("error", err.Error()),
		)
		return dto.ImportRowResult{
			Line:          row.Line,
			TransactionID: row.Request.TransactionID,
			Status:        dto.ImportStatusFailed,
			Error:         err.Error(),
		}
	}
	return dto.ImportRowResult{
		Line:          row.Line,
		TransactionID: resp.TransactionID,
		Status:        dto.ImportStatusScored,
		TotalScore:    resp.TotalScore,
		IsSuspicious:  resp.IsSuspicious,
	}
}

// summarize drops rows that never ran (interrupted imports) and counts the rest.
func summarize(results []dto.ImportRowResult) dto.ImportResult {
	res := dto.ImportResult{Rows: make([]dto.ImportRowResult, 0, len(results))}
	for _, r := range results {
		switch r.Status {
		case dto.ImportStatusScored:
			if r.IsSuspicious {
				res.Suspicious++
			} else {
				res.Normal++
			}
		case dto.ImportStatusInvalid:
			res.Invalid++
		case dto.ImportStatusFailed:
			res.Failed++
		default:
			continue
		}
		res.Rows = append(res.Rows, r)
	}
	res.Total = len(res.Rows)
	return res
}
