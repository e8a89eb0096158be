package usecase

import (
	"context"
	"fmt"

	"github.com/bibbank/aml-service/internal/application/dto"
	"github.com/bibbank/aml-service/internal/domain/port"
)

// GetStats reports store-wide counts.
type GetStats struct {
	store port.TransactionStore
}

// NewGetStats creates a new GetStats use case.
func NewGetStats(store port.TransactionStore) *GetStats {
	return &GetStats{store: store}
}

// Execute returns the totals and the suspicious rate.
func (uc *GetStats) Execute(ctx context.Context) (dto.StatsResponse, error) {
	stats, err := uc.store.Stats(ctx)
	if err != nil {
		return dto.StatsResponse{}, fmt.Errorf("failed to load stats: %w", err)
	}
	return dto.FromStats(stats), nil
}
