package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/bibbank/aml-service/internal/application/dto"
	"github.com/bibbank/aml-service/internal/domain/model"
	"github.com/bibbank/aml-service/internal/domain/port"
	"github.com/bibbank/aml-service/internal/domain/service"
)

// DetectStructuring runs the structuring rule on its own.
type DetectStructuring struct {
	detector *service.StructuringDetector
	metrics  port.ScoringMetrics
}

// NewDetectStructuring creates a new DetectStructuring use case.
func NewDetectStructuring(detector *service.StructuringDetector, metrics port.ScoringMetrics) *DetectStructuring {
	return &DetectStructuring{detector: detector, metrics: metrics}
}

// Execute checks the request's trailing window.
func (uc *DetectStructuring) Execute(ctx context.Context, req dto.DetectStructuringRequest) (dto.StructuringResponse, error) {
	ctx, span := tracer.Start(ctx, "DetectStructuring")
	defer span.End()

	tx := model.Transaction{
		TransactionID:    req.TransactionID,
		AccountID:        strings.TrimSpace(req.AccountID),
		ValueDate:        req.ValueDate,
		SettlementAmount: req.Amount,
	}
	if err := tx.Validate(); err != nil {
		recordSpanError(span, err)
		return dto.StructuringResponse{}, fmt.Errorf("failed to detect structuring: %w", err)
	}

	result := uc.detector.Detect(ctx, service.StructuringQuery{
		TransactionID: tx.TransactionID,
		AccountID:     tx.AccountID,
		ValueDate:     tx.ValueDate,
		Amount:        tx.SettlementAmount,
	})
	if result.Skipped {
		uc.metrics.StructuringCheckSkipped(ctx)
	}

	return dto.FromStructuringResult(result), nil
}
