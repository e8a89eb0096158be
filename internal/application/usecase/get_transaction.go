package usecase

import (
	"context"
	"fmt"

	"github.com/bibbank/aml-service/internal/application/dto"
	"github.com/bibbank/aml-service/internal/domain/model"
	"github.com/bibbank/aml-service/internal/domain/port"
)

// GetTransaction is the use case for retrieving a scored transaction.
type GetTransaction struct {
	store port.TransactionStore
}

// NewGetTransaction creates a new GetTransaction use case.
func NewGetTransaction(store port.TransactionStore) *GetTransaction {
	return &GetTransaction{store: store}
}

// Execute retrieves a transaction by id.
func (uc *GetTransaction) Execute(ctx context.Context, req dto.GetTransactionRequest) (dto.TransactionResponse, error) {
	record, err := uc.store.FindByID(ctx, req.TransactionID)
	if err != nil {
		return dto.TransactionResponse{}, fmt.Errorf("failed to find transaction: %w", err)
	}
	if record == nil {
		return dto.TransactionResponse{}, fmt.Errorf("%w: %s", model.ErrTransactionNotFound, req.TransactionID)
	}

	return dto.FromModel(record), nil
}
