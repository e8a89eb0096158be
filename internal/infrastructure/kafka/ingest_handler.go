package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bibbank/aml-service/internal/application/dto"
	"github.com/bibbank/aml-service/internal/application/usecase"
	"github.com/bibbank/aml-service/internal/domain/model"
	pkgkafka "github.com/bibbank/aml-service/pkg/kafka"
)

// IngestHandler submits transactions consumed from the ingest topic.
//
// Messages that can never succeed (malformed JSON, invalid fields, an id
// already stored) are logged and acknowledged. Anything else, such as a rate
// outage or a store error, is returned so the consumer retries it.
type IngestHandler struct {
	submitter usecase.TransactionSubmitter
	logger    *slog.Logger
}

// NewIngestHandler creates a handler over submitter.
func NewIngestHandler(submitter usecase.TransactionSubmitter, logger *slog.Logger) *IngestHandler {
	return &IngestHandler{submitter: submitter, logger: logger}
}

// Handle implements pkgkafka.Handler.
func (h *IngestHandler) Handle(ctx context.Context, msg pkgkafka.Message) error {
	var req dto.SubmitTransactionRequest
	if err := json.Unmarshal(msg.Value, &req); err != nil {
		h.logger.WarnContext(ctx, "dropping undecodable ingest message",
			slog.String("key", string(msg.Key)),
			slog.String("error", err.Error()),
		)
		return nil
	}
	if req.TransactionID == "" && len(msg.Key) > 0 {
		req.TransactionID = string(msg.Key)
	}

	resp, err := h.submitter.Execute(ctx, req)
	switch {
	case err == nil:
		h.logger.DebugContext(ctx, "ingested transaction",
			slog.String("transaction_id", resp.TransactionID),
			slog.Int("total_score", resp.TotalScore),
		)
		return nil
	case errors.Is(err, model.ErrInvalidTransaction):
		h.logger.WarnContext(ctx, "dropping invalid ingest message",
			slog.String("transaction_id", req.TransactionID),
			slog.String("error", err.Error()),
		)
		return nil
	case errors.Is(err, model.ErrDuplicateTransaction):
		h.logger.InfoContext(ctx, "skipping redelivered transaction",
			slog.String("transaction_id", req.TransactionID),
		)
		return nil
	default:
		return fmt.Errorf("ingest transaction %s: %w", req.TransactionID, err)
	}
}
