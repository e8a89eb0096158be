package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/bibbank/aml-service/internal/application/dto"
	"github.com/bibbank/aml-service/internal/domain/model"
	"github.com/bibbank/aml-service/internal/domain/port"
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 500
)

// ListTransactions lists an account's history or the suspicious review queue.
type ListTransactions struct {
	store port.TransactionStore
}

// NewListTransactions creates a new ListTransactions use case.
func NewListTransactions(store port.TransactionStore) *ListTransactions {
	return &ListTransactions{store: store}
}

// Execute lists by account when one is given, otherwise suspicious records.
func (uc *ListTransactions) Execute(ctx context.Context, req dto.ListTransactionsRequest) (dto.ListTransactionsResponse, error) {
	limit := req.Limit
	switch {
	case limit <= 0:
		limit = DefaultListLimit
	case limit > MaxListLimit:
		limit = MaxListLimit
	}

	var (
		records []*model.TransactionRecord
		err     error
	)
	if account := strings.TrimSpace(req.AccountID); account != "" {
		records, err = uc.store.ListByAccount(ctx, account, limit)
	} else {
		records, err = uc.store.ListSuspicious(ctx, limit)
	}
	if err != nil {
		return dto.ListTransactionsResponse{}, fmt.Errorf("failed to list transactions: %w", err)
	}

	resp := dto.ListTransactionsResponse{Transactions: make([]dto.TransactionResponse, 0, len(records))}
	for _, r := range records {
		resp.Transactions = append(resp.Transactions, dto.FromModel(r))
	}
	return resp, nil
}
