package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bibbank/aml-service/internal/application/dto"
	"github.com/bibbank/aml-service/internal/domain/model"
	"github.com/bibbank/aml-service/internal/domain/port"
	"github.com/bibbank/aml-service/internal/domain/valueobject"
)

// ReviewTransaction records an analyst decision on a scored transaction.
type ReviewTransaction struct {
	store     port.TransactionStore
	publisher port.EventPublisher
	logger    *slog.Logger
	now       func() time.Time
}

// NewReviewTransaction creates a new ReviewTransaction use case.
func NewReviewTransaction(store port.TransactionStore, publisher port.EventPublisher, logger *slog.Logger) *ReviewTransaction {
	return &ReviewTransaction{store: store, publisher: publisher, logger: logger, now: time.Now}
}

// Execute applies the status transition, persists it and publishes the event.
func (uc *ReviewTransaction) Execute(ctx context.Context, req dto.ReviewTransactionRequest) (dto.TransactionResponse, error) {
	ctx, span := tracer.Start(ctx, "ReviewTransaction")
	defer span.End()

	status, err := valueobject.ReviewStatusFromString(req.Status)
	if err != nil {
		recordSpanError(span, err)
		return dto.TransactionResponse{}, fmt.Errorf("%w: %w", valueobject.ErrInvalidReviewTransition, err)
	}

	record, err := uc.store.FindByID(ctx, req.TransactionID)
	if err != nil {
		recordSpanError(span, err)
		return dto.TransactionResponse{}, fmt.Errorf("failed to find transaction: %w", err)
	}
	if record == nil {
		return dto.TransactionResponse{}, fmt.Errorf("%w: %s", model.ErrTransactionNotFound, req.TransactionID)
	}

	if err := record.Review(status, req.Reviewer, req.Notes, uc.now()); err != nil {
		return dto.TransactionResponse{}, fmt.Errorf("failed to review transaction: %w", err)
	}
	if err := uc.store.UpdateReview(ctx, record); err != nil {
		recordSpanError(span, err)
		return dto.TransactionResponse{}, fmt.Errorf("failed to save review: %w", err)
	}

	if evts := record.DomainEvents(); len(evts) > 0 {
		if err := uc.publisher.Publish(ctx, evts...); err != nil {
			uc.logger.ErrorContext(ctx, "failed to publish review event",
				slog.String("transaction_id", record.ID()),
				slog.String("error", err.Error()),
			)
		}
	}

	return dto.FromModel(record), nil
}
