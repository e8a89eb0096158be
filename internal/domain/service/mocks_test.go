package service_test

import (
	"context"
	"sync/atomic"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/bibbank/aml-service/internal/domain/model"
	"github.com/bibbank/aml-service/pkg/money"
)

type mockWindowQuerier struct {
	RangeQueryFunc func(ctx context.Context, q model.WindowQuery) ([]model.WindowEntry, error)
	calls          atomic.Int32
}

func (m *mockWindowQuerier) RangeQuery(ctx context.Context, q model.WindowQuery) ([]model.WindowEntry, error) {
	m.calls.Add(1)
	if m.RangeQueryFunc != nil {
		return m.RangeQueryFunc(ctx, q)
	}
	return nil, nil
}

// historyOf returns a querier holding n in-band deposits of amount, filtered
// the way a real store would.
func historyOf(accountID string, date civil.Date, n int, amount decimal.Decimal) *mockWindowQuerier {
	entries := make([]model.WindowEntry, 0, n)
	for i := 0; i < n; i++ {
		entries = append(entries, model.WindowEntry{
			TransactionID:    "TXN_hist_" + decimal.NewFromInt(int64(i)).String(),
			ValueDate:        date.AddDays(-(i % 4)),
			SettlementAmount: amount,
		})
	}
	return &mockWindowQuerier{
		RangeQueryFunc: func(_ context.Context, q model.WindowQuery) ([]model.WindowEntry, error) {
			var out []model.WindowEntry
			for _, e := range entries {
				if q.Matches(accountID, e) {
					out = append(out, e)
				}
			}
			return out, nil
		},
	}
}

type mockRateProvider struct {
	SettlementRateFunc func(ctx context.Context, currency money.Currency, date civil.Date) (decimal.Decimal, error)
	calls              int
}

func (m *mockRateProvider) SettlementRate(ctx context.Context, currency money.Currency, date civil.Date) (decimal.Decimal, error) {
	m.calls++
	if m.SettlementRateFunc != nil {
		return m.SettlementRateFunc(ctx, currency, date)
	}
	return decimal.NewFromInt(1), nil
}
