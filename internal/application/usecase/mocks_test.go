package usecase_test

import (
	"context"
	"sync"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/bibbank/aml-service/internal/domain/model"
	"github.com/bibbank/aml-service/pkg/events"
	"github.com/bibbank/aml-service/pkg/money"
)

// --- Mock implementations ---

type mockTransactionStore struct {
	mu       sync.Mutex
	inserted []*model.TransactionRecord
	updated  []*model.TransactionRecord

	insertFunc         func(ctx context.Context, record *model.TransactionRecord) error
	updateReviewFunc   func(ctx context.Context, record *model.TransactionRecord) error
	findByIDFunc       func(ctx context.Context, id string) (*model.TransactionRecord, error)
	listByAccountFunc  func(ctx context.Context, accountID string, limit int) ([]*model.TransactionRecord, error)
	listSuspiciousFunc func(ctx context.Context, limit int) ([]*model.TransactionRecord, error)
	statsFunc          func(ctx context.Context) (model.TransactionStats, error)
	rangeQueryFunc     func(ctx context.Context, q model.WindowQuery) ([]model.WindowEntry, error)
}

func (m *mockTransactionStore) Insert(ctx context.Context, record *model.TransactionRecord) error {
	if m.insertFunc != nil {
		return m.insertFunc(ctx, record)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inserted = append(m.inserted, record)
	return nil
}

func (m *mockTransactionStore) UpdateReview(ctx context.Context, record *model.TransactionRecord) error {
	if m.updateReviewFunc != nil {
		return m.updateReviewFunc(ctx, record)
	}
	m.updated = append(m.updated, record)
	return nil
}

func (m *mockTransactionStore) FindByID(ctx context.Context, id string) (*model.TransactionRecord, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockTransactionStore) ListByAccount(ctx context.Context, accountID string, limit int) ([]*model.TransactionRecord, error) {
	if m.listByAccountFunc != nil {
		return m.listByAccountFunc(ctx, accountID, limit)
	}
	return nil, nil
}

func (m *mockTransactionStore) ListSuspicious(ctx context.Context, limit int) ([]*model.TransactionRecord, error) {
	if m.listSuspiciousFunc != nil {
		return m.listSuspiciousFunc(ctx, limit)
	}
	return nil, nil
}

func (m *mockTransactionStore) Stats(ctx context.Context) (model.TransactionStats, error) {
	if m.statsFunc != nil {
		return m.statsFunc(ctx)
	}
	return model.TransactionStats{}, nil
}

func (m *mockTransactionStore) RangeQuery(ctx context.Context, q model.WindowQuery) ([]model.WindowEntry, error) {
	if m.rangeQueryFunc != nil {
		return m.rangeQueryFunc(ctx, q)
	}
	return nil, nil
}

type mockEventPublisher struct {
	mu              sync.Mutex
	publishedEvents []events.DomainEvent
	publishFunc     func(ctx context.Context, evts ...events.DomainEvent) error
}

func (m *mockEventPublisher) Publish(ctx context.Context, evts ...events.DomainEvent) error {
	if m.publishFunc != nil {
		return m.publishFunc(ctx, evts...)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.publishedEvents = append(m.publishedEvents, evts...)
	return nil
}

func (m *mockEventPublisher) types() []string {
	out := make([]string, 0, len(m.publishedEvents))
	for _, e := range m.publishedEvents {
		out = append(out, e.EventType())
	}
	return out
}

type mockRateProvider struct {
	settlementRateFunc func(ctx context.Context, currency money.Currency, date civil.Date) (decimal.Decimal, error)
	calls              int
}

func (m *mockRateProvider) SettlementRate(ctx context.Context, currency money.Currency, date civil.Date) (decimal.Decimal, error) {
	m.calls++
	if m.settlementRateFunc != nil {
		return m.settlementRateFunc(ctx, currency, date)
	}
	return decimal.NewFromInt(1), nil
}

type mockMetrics struct {
	mu      sync.Mutex
	scored  int
	skipped int
}

func (m *mockMetrics) TransactionScored(context.Context, model.RiskVerdict) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scored++
}

func (m *mockMetrics) StructuringCheckSkipped(context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.skipped++
}
