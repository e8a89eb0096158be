package usecase

import (
	"context"
	"fmt"

	"github.com/bibbank/aml-service/internal/application/dto"
	"github.com/bibbank/aml-service/internal/domain/port"
	"github.com/bibbank/aml-service/internal/domain/service"
)

// ScoreTransaction scores a settlement-currency transaction without storing it.
type ScoreTransaction struct {
	scorer  service.Scorer
	metrics port.ScoringMetrics
}

// NewScoreTransaction creates a new ScoreTransaction use case.
func NewScoreTransaction(scorer service.Scorer, metrics port.ScoringMetrics) *ScoreTransaction {
	return &ScoreTransaction{scorer: scorer, metrics: metrics}
}

// Execute returns the verdict and its classification. Only validation errors
// are returned.
func (uc *ScoreTransaction) Execute(ctx context.Context, req dto.ScoreTransactionRequest) (dto.VerdictResponse, error) {
	ctx, span := tracer.Start(ctx, "ScoreTransaction")
	defer span.End()

	verdict, err := uc.scorer.Score(ctx, req.ToModel())
	if err != nil {
		recordSpanError(span, err)
		return dto.VerdictResponse{}, fmt.Errorf("failed to score transaction: %w", err)
	}

	uc.metrics.TransactionScored(ctx, verdict)
	if verdict.StructuringSkipped {
		uc.metrics.StructuringCheckSkipped(ctx)
	}

	return dto.FromVerdict(verdict, service.BuildRiskReport(verdict)), nil
}
