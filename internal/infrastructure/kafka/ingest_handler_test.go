package kafka

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/aml-service/internal/application/dto"
	"github.com/bibbank/aml-service/internal/domain/model"
	pkgkafka "github.com/bibbank/aml-service/pkg/kafka"
	"github.com/bibbank/aml-service/pkg/observability"
	"github.com/bibbank/aml-service/pkg/testutil"
)

var testTime = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

type mockSubmitter struct {
	ExecuteFunc func(ctx context.Context, req dto.SubmitTransactionRequest) (dto.TransactionResponse, error)
	requests    []dto.SubmitTransactionRequest
}

func (m *mockSubmitter) Execute(ctx context.Context, req dto.SubmitTransactionRequest) (dto.TransactionResponse, error) {
	m.requests = append(m.requests, req)
	if m.ExecuteFunc != nil {
		return m.ExecuteFunc(ctx, req)
	}
	return dto.TransactionResponse{TransactionID: req.TransactionID}, nil
}

const ingestPayload = `{
	"transaction_id": "TXN_42",
	"account_id": "ACC-0001",
	"value_date": "2024-03-15",
	"amount": "9000.00",
	"currency": "EUR",
	"beneficiary_country": "AE",
	"payment_narrative": "invoice 77"
}`

func TestIngestHandler_DecodesAndSubmits(t *testing.T) {
	sub := &mockSubmitter{}
	h := NewIngestHandler(sub, observability.NopLogger())

	require.NoError(t, h.Handle(context.Background(), pkgkafka.Message{Value: []byte(ingestPayload)}))

	require.Len(t, sub.requests, 1)
	req := sub.requests[0]
	assert.Equal(t, "TXN_42", req.TransactionID)
	assert.Equal(t, "ACC-0001", req.AccountID)
	assert.Equal(t, testutil.TestValueDate, req.ValueDate)
	testutil.AssertDecimalEqual(t, "9000", req.Amount)
	assert.Equal(t, "EUR", req.Currency)
	assert.Equal(t, "AE", req.BeneficiaryCountry)
}

func TestIngestHandler_KeyFillsMissingID(t *testing.T) {
	sub := &mockSubmitter{}
	h := NewIngestHandler(sub, observability.NopLogger())

	payload := `{"account_id":"ACC-0001","value_date":"2024-03-15","amount":"10","currency":"USD"}`
	require.NoError(t, h.Handle(context.Background(), pkgkafka.Message{Key: []byte("TXN_K"), Value: []byte(payload)}))

	require.Len(t, sub.requests, 1)
	assert.Equal(t, "TXN_K", sub.requests[0].TransactionID)
}

func TestIngestHandler_ErrorPolicy(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		err     error
		wantErr bool
	}{
		{"malformed json is dropped", `{"amount":`, nil, false},
		{"invalid transaction is dropped", ingestPayload, fmt.Errorf("%w: account id is required", model.ErrInvalidTransaction), false},
		{"duplicate is acknowledged", ingestPayload, model.ErrDuplicateTransaction, false},
		{"rate outage is retried", ingestPayload, fmt.Errorf("convert: %w", model.ErrRateUnavailable), true},
		{"store failure is retried", ingestPayload, errors.New("connection reset"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := &mockSubmitter{
				ExecuteFunc: func(context.Context, dto.SubmitTransactionRequest) (dto.TransactionResponse, error) {
					return dto.TransactionResponse{}, tt.err
				},
			}
			h := NewIngestHandler(sub, observability.NopLogger())

			err := h.Handle(context.Background(), pkgkafka.Message{Value: []byte(tt.payload)})
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "TXN_42")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
