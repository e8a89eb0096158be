package port

import (
	"context"

	"github.com/bibbank/aml-service/internal/domain/model"
)

// ScoringMetrics receives scoring outcomes for instrumentation.
type ScoringMetrics interface {
	TransactionScored(ctx context.Context, verdict model.RiskVerdict)
	StructuringCheckSkipped(ctx context.Context)
}

// NopMetrics discards everything.
type NopMetrics struct{}

func (NopMetrics) TransactionScored(context.Context, model.RiskVerdict) {}
func (NopMetrics) StructuringCheckSkipped(context.Context)              {}
