package usecase_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/aml-service/internal/application/dto"
	"github.com/bibbank/aml-service/internal/application/usecase"
	"github.com/bibbank/aml-service/internal/domain/event"
	"github.com/bibbank/aml-service/internal/domain/model"
	"github.com/bibbank/aml-service/internal/domain/service"
	"github.com/bibbank/aml-service/internal/infrastructure/memory"
	"github.com/bibbank/aml-service/pkg/events"
	"github.com/bibbank/aml-service/pkg/money"
	"github.com/bibbank/aml-service/pkg/observability"
	"github.com/bibbank/aml-service/pkg/testutil"
)

type submitFixture struct {
	store     *mockTransactionStore
	publisher *mockEventPublisher
	rates     *mockRateProvider
	metrics   *mockMetrics
	uc        *usecase.SubmitTransaction
}

func newSubmitFixture() *submitFixture {
	f := &submitFixture{
		store:     &mockTransactionStore{},
		publisher: &mockEventPublisher{},
		rates:     &mockRateProvider{},
		metrics:   &mockMetrics{},
	}
	logger := observability.NopLogger()
	f.uc = usecase.NewSubmitTransaction(
		f.store,
		f.publisher,
		service.NewSettlementConverter(f.rates),
		service.NewRiskEngine(f.store, logger),
		f.metrics,
		logger,
	)
	return f
}

func validSubmitRequest() dto.SubmitTransactionRequest {
	return dto.SubmitTransactionRequest{
		AccountID:          testutil.TestAccountID,
		ValueDate:          testutil.TestValueDate,
		Amount:             decimal.RequireFromString("523.17"),
		Currency:           "USD",
		OriginatorName:     "Acme GmbH",
		OriginatorCountry:  "DE",
		BeneficiaryName:    "Jane Doe",
		BeneficiaryCountry: "",
		PaymentType:        "SWIFT",
	}
}

func TestSubmitTransaction_Execute(t *testing.T) {
	t.Run("assigns an id and stores a low-risk USD transaction", func(t *testing.T) {
		f := newSubmitFixture()

		resp, err := f.uc.Execute(context.Background(), validSubmitRequest())

		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(resp.TransactionID, usecase.TransactionIDPrefix))
		assert.Equal(t, 0, resp.TotalScore)
		assert.Equal(t, "LOW", resp.RiskLevel)
		assert.Equal(t, "PENDING", resp.ReviewStatus)
		testutil.AssertDecimalEqual(t, "523.17", resp.SettlementAmount)
		testutil.AssertDecimalEqual(t, "1", resp.SettlementRate)
		assert.Zero(t, f.rates.calls, "USD must not hit the rate provider")
		require.Len(t, f.store.inserted, 1)
		assert.Equal(t, []string{event.EventTypeTransactionScored}, f.publisher.types())
		assert.Equal(t, 1, f.metrics.scored)
	})

	t.Run("keeps a caller-supplied id", func(t *testing.T) {
		f := newSubmitFixture()
		req := validSubmitRequest()
		req.TransactionID = testutil.TestTransactionID1

		resp, err := f.uc.Execute(context.Background(), req)

		require.NoError(t, err)
		assert.Equal(t, testutil.TestTransactionID1, resp.TransactionID)
	})

	t.Run("suspicious transaction raises both events", func(t *testing.T) {
		f := newSubmitFixture()
		req := validSubmitRequest()
		req.BeneficiaryCountry = "IR"

		resp, err := f.uc.Execute(context.Background(), req)

		require.NoError(t, err)
		assert.Equal(t, 10, resp.TotalScore)
		assert.True(t, resp.IsSuspicious)
		assert.Equal(t, "CRITICAL", resp.RiskLevel)
		assert.Equal(t, "URGENT", resp.Priority)
		assert.Equal(t, []string{event.EventTypeTransactionScored, event.EventTypeSuspiciousTransaction}, f.publisher.types())
	})

	t.Run("converts foreign currency before scoring", func(t *testing.T) {
		f := newSubmitFixture()
		f.rates.settlementRateFunc = func(_ context.Context, cur money.Currency, _ civil.Date) (decimal.Decimal, error) {
			require.Equal(t, "EUR", cur.Code())
			return decimal.RequireFromString("1.25"), nil
		}
		req := validSubmitRequest()
		req.Currency = "eur"
		req.Amount = decimal.NewFromInt(8000)

		resp, err := f.uc.Execute(context.Background(), req)

		require.NoError(t, err)
		assert.Equal(t, "EUR", resp.Currency)
		testutil.AssertDecimalEqual(t, "8000", resp.OriginalAmount)
		testutil.AssertDecimalEqual(t, "10000", resp.SettlementAmount)
		// 10,000 USD is a rounded figure; the EUR amount alone would not be.
		assert.Equal(t, 2, resp.TotalScore)
	})

	t.Run("rate failure stores nothing", func(t *testing.T) {
		f := newSubmitFixture()
		f.rates.settlementRateFunc = func(context.Context, money.Currency, civil.Date) (decimal.Decimal, error) {
			return decimal.Zero, errors.New("no rate for date")
		}
		req := validSubmitRequest()
		req.Currency = "GBP"

		_, err := f.uc.Execute(context.Background(), req)

		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrRateUnavailable)
		assert.Empty(t, f.store.inserted)
		assert.Empty(t, f.publisher.publishedEvents)
		assert.Zero(t, f.metrics.scored)
	})

	t.Run("invalid request is rejected before any lookup", func(t *testing.T) {
		f := newSubmitFixture()
		req := validSubmitRequest()
		req.Currency = "GBP"
		req.ValueDate = civil.Date{}

		_, err := f.uc.Execute(context.Background(), req)

		assert.ErrorIs(t, err, model.ErrInvalidTransaction)
		assert.Zero(t, f.rates.calls)
	})

	t.Run("unknown currency code is invalid", func(t *testing.T) {
		f := newSubmitFixture()
		req := validSubmitRequest()
		req.Currency = "DOLLARS"

		_, err := f.uc.Execute(context.Background(), req)

		assert.ErrorIs(t, err, model.ErrInvalidTransaction)
	})

	t.Run("store failure is returned", func(t *testing.T) {
		f := newSubmitFixture()
		f.store.insertFunc = func(context.Context, *model.TransactionRecord) error {
			return model.ErrDuplicateTransaction
		}

		_, err := f.uc.Execute(context.Background(), validSubmitRequest())

		assert.ErrorIs(t, err, model.ErrDuplicateTransaction)
		assert.Empty(t, f.publisher.publishedEvents)
	})

	t.Run("publish failure does not fail the submission", func(t *testing.T) {
		f := newSubmitFixture()
		f.publisher.publishFunc = func(context.Context, ...events.DomainEvent) error {
			return errors.New("broker down")
		}

		_, err := f.uc.Execute(context.Background(), validSubmitRequest())

		require.NoError(t, err)
		assert.Len(t, f.store.inserted, 1)
	})

	t.Run("history failure is counted as a skipped structuring check", func(t *testing.T) {
		f := newSubmitFixture()
		f.store.rangeQueryFunc = func(context.Context, model.WindowQuery) ([]model.WindowEntry, error) {
			return nil, errors.New("pool exhausted")
		}
		req := validSubmitRequest()
		req.Amount = decimal.NewFromInt(9000)

		resp, err := f.uc.Execute(context.Background(), req)

		require.NoError(t, err)
		assert.True(t, resp.StructuringSkipped)
		assert.Equal(t, 1, f.metrics.skipped)
	})
}

func TestSubmitTransaction_RescoreMatchesStoredVerdict(t *testing.T) {
	ctx := context.Background()
	store := memory.NewTransactionStore()
	logger := observability.NopLogger()
	engine := service.NewRiskEngine(store, logger)
	uc := usecase.NewSubmitTransaction(store, &mockEventPublisher{}, service.NewSettlementConverter(&mockRateProvider{}), engine, &mockMetrics{}, logger)

	for i, id := range []string{"TXN_PRIOR_1", "TXN_PRIOR_2", "TXN_PRIOR_3"} {
		req := validSubmitRequest()
		req.TransactionID = id
		req.ValueDate = testutil.DaysBefore(i + 1)
		req.Amount = decimal.NewFromInt(9000)
		_, err := uc.Execute(ctx, req)
		require.NoError(t, err)
	}

	req := validSubmitRequest()
	req.TransactionID = testutil.TestTransactionID1
	req.Amount = decimal.NewFromInt(9000)
	_, err := uc.Execute(ctx, req)
	require.NoError(t, err)

	record, err := store.FindByID(ctx, testutil.TestTransactionID1)
	require.NoError(t, err)
	require.NotNil(t, record)
	stored := record.Verdict()
	assert.Equal(t, 4, stored.StructuringCount)
	testutil.AssertDecimalEqual(t, "36000", stored.StructuringWindowSum)

	// The stored row now sits in its own window under the same id.
	rescored, err := engine.Score(ctx, record.Transaction())
	require.NoError(t, err)

	assert.Equal(t, stored.StructuringCount, rescored.StructuringCount)
	testutil.AssertDecimalEqual(t, stored.StructuringWindowSum.String(), rescored.StructuringWindowSum)
	want, err := json.Marshal(stored)
	require.NoError(t, err)
	got, err := json.Marshal(rescored)
	require.NoError(t, err)
	assert.JSONEq(t, string(want), string(got))
}
