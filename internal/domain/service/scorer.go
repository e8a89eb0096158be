package service

import (
	"context"

	"github.com/bibbank/aml-service/internal/domain/model"
)

// Scorer scores a single transaction that is already in settlement currency.
type Scorer interface {
	Score(ctx context.Context, tx model.Transaction) (model.RiskVerdict, error)
}
