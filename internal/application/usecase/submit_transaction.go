package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/bibbank/aml-service/internal/application/dto"
	"github.com/bibbank/aml-service/internal/domain/model"
	"github.com/bibbank/aml-service/internal/domain/port"
	"github.com/bibbank/aml-service/internal/domain/service"
	"github.com/bibbank/aml-service/pkg/money"
)

// TransactionIDPrefix prefixes system-assigned transaction ids.
const TransactionIDPrefix = "TXN_"

// SubmitTransaction converts, scores, persists and announces one transaction.
type SubmitTransaction struct {
	store     port.TransactionStore
	publisher port.EventPublisher
	converter *service.SettlementConverter
	scorer    service.Scorer
	metrics   port.ScoringMetrics
	logger    *slog.Logger
}

// NewSubmitTransaction creates a new SubmitTransaction use case.
func NewSubmitTransaction(
	store port.TransactionStore,
	publisher port.EventPublisher,
	converter *service.SettlementConverter,
	scorer service.Scorer,
	metrics port.ScoringMetrics,
	logger *slog.Logger,
) *SubmitTransaction {
	return &SubmitTransaction{
		store:     store,
		publisher: publisher,
		converter: converter,
		scorer:    scorer,
		metrics:   metrics,
		logger:    logger,
	}
}

// Execute validates the request, normalizes the amount to the settlement
// currency, scores it and persists the record. Nothing is stored when the
// rate is unavailable.
func (uc *SubmitTransaction) Execute(ctx context.Context, req dto.SubmitTransactionRequest) (dto.TransactionResponse, error) {
	ctx, span := tracer.Start(ctx, "SubmitTransaction")
	defer span.End()

	resp, err := uc.execute(ctx, req)
	if err != nil {
		recordSpanError(span, err)
		return dto.TransactionResponse{}, err
	}
	span.SetAttributes(
		attribute.String("aml.transaction_id", resp.TransactionID),
		attribute.Int("aml.total_score", resp.TotalScore),
		attribute.Bool("aml.suspicious", resp.IsSuspicious),
	)
	return resp, nil
}

func (uc *SubmitTransaction) execute(ctx context.Context, req dto.SubmitTransactionRequest) (dto.TransactionResponse, error) {
	// 1. Validate before any lookup; the sign of the amount survives conversion.
	id := strings.TrimSpace(req.TransactionID)
	if id == "" {
		id = TransactionIDPrefix + uuid.NewString()
	}
	input := model.Transaction{
		TransactionID:    id,
		AccountID:        strings.TrimSpace(req.AccountID),
		ValueDate:        req.ValueDate,
		SettlementAmount: req.Amount,
	}
	if err := input.Validate(); err != nil {
		return dto.TransactionResponse{}, err
	}
	currency, err := money.ParseCurrency(req.Currency)
	if err != nil {
		return dto.TransactionResponse{}, fmt.Errorf("%w: currency: %w", model.ErrInvalidTransaction, err)
	}
	original := money.New(req.Amount, currency)

	// 2. Normalize to the settlement currency.
	settlement, rate, err := uc.converter.ConvertToSettlement(ctx, original, req.ValueDate)
	if err != nil {
		return dto.TransactionResponse{}, err
	}

	// 3. Score and classify.
	params := model.RecordParams{
		TransactionID:      id,
		AccountID:          input.AccountID,
		ValueDate:          req.ValueDate,
		OriginatorName:     req.OriginatorName,
		OriginatorCountry:  req.OriginatorCountry,
		BeneficiaryName:    req.BeneficiaryName,
		BeneficiaryCountry: req.BeneficiaryCountry,
		Original:           original,
		SettlementAmount:   settlement,
		SettlementRate:     rate,
		PaymentNarrative:   req.PaymentNarrative,
		PaymentType:        req.PaymentType,
	}
	verdict, err := uc.scorer.Score(ctx, model.Transaction{
		TransactionID:      id,
		AccountID:          params.AccountID,
		ValueDate:          params.ValueDate,
		SettlementAmount:   settlement,
		BeneficiaryCountry: params.BeneficiaryCountry,
		PaymentNarrative:   params.PaymentNarrative,
	})
	if err != nil {
		return dto.TransactionResponse{}, fmt.Errorf("failed to score transaction: %w", err)
	}
	uc.observe(ctx, id, verdict)
	report := service.BuildRiskReport(verdict)

	// 4. Persist.
	record, err := model.NewTransactionRecord(params, verdict, report)
	if err != nil {
		return dto.TransactionResponse{}, fmt.Errorf("failed to create transaction record: %w", err)
	}
	if err := uc.store.Insert(ctx, record); err != nil {
		return dto.TransactionResponse{}, fmt.Errorf("failed to save transaction: %w", err)
	}

	// 5. Publish. The record is already the source of truth, so a broker
	// failure is logged rather than returned.
	if evts := record.DomainEvents(); len(evts) > 0 {
		if err := uc.publisher.Publish(ctx, evts...); err != nil {
			uc.logger.ErrorContext(ctx, "failed to publish transaction events",
				slog.String("transaction_id", id),
				slog.String("error", err.Error()),
			)
		}
	}

	uc.logger.InfoContext(ctx, "transaction scored",
		slog.String("transaction_id", id),
		slog.String("account_id", params.AccountID),
		slog.Int("total_score", verdict.TotalScore),
		slog.Bool("is_suspicious", verdict.IsSuspicious),
	)

	return dto.FromModel(record), nil
}

func (uc *SubmitTransaction) observe(ctx context.Context, id string, v model.RiskVerdict) {
	uc.metrics.TransactionScored(ctx, v)
	if v.StructuringSkipped {
		uc.metrics.StructuringCheckSkipped(ctx)
		uc.logger.WarnContext(ctx, "transaction scored without structuring check",
			slog.String("transaction_id", id),
		)
	}
}
