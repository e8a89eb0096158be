package memory_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/aml-service/internal/domain/model"
	"github.com/bibbank/aml-service/internal/domain/service"
	"github.com/bibbank/aml-service/internal/domain/valueobject"
	"github.com/bibbank/aml-service/internal/infrastructure/memory"
	"github.com/bibbank/aml-service/pkg/money"
	"github.com/bibbank/aml-service/pkg/testutil"
)

func newRecord(t *testing.T, id, account string, daysBefore int, amount int64, suspicious bool) *model.TransactionRecord {
	t.Helper()
	var rules []model.RuleResult
	if suspicious {
		rules = append(rules, model.NewRuleResult(model.RuleHighRiskCountry, 10, "IR is in Level_3"))
	}
	verdict := model.NewRiskVerdict(rules, model.StructuringResult{})
	amt := decimal.NewFromInt(amount)
	r, err := model.NewTransactionRecord(model.RecordParams{
		TransactionID:    id,
		AccountID:        account,
		ValueDate:        testutil.DaysBefore(daysBefore),
		Original:         money.New(amt, money.USD),
		SettlementAmount: amt,
		SettlementRate:   decimal.NewFromInt(1),
	}, verdict, service.BuildRiskReport(verdict))
	require.NoError(t, err)
	return r
}

func TestTransactionStore_InsertAndFind(t *testing.T) {
	store := memory.NewTransactionStore()
	ctx := context.Background()
	rec := newRecord(t, testutil.TestTransactionID1, testutil.TestAccountID, 0, 9000, true)

	require.NoError(t, store.Insert(ctx, rec))
	assert.ErrorIs(t, store.Insert(ctx, rec), model.ErrDuplicateTransaction)

	got, err := store.FindByID(ctx, testutil.TestTransactionID1)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 10, got.Verdict().TotalScore)

	missing, err := store.FindByID(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestTransactionStore_RangeQueryBounds(t *testing.T) {
	store := memory.NewTransactionStore()
	ctx := context.Background()

	seed := []*model.TransactionRecord{
		newRecord(t, "in-0", testutil.TestAccountID, 0, 8000, false),
		newRecord(t, "in-3", testutil.TestAccountID, 3, 9999, false),
		newRecord(t, "too-old", testutil.TestAccountID, 4, 9000, false),
		newRecord(t, "too-big", testutil.TestAccountID, 1, 10000, false),
		newRecord(t, "other", testutil.OtherAccountID, 1, 9000, false),
	}
	for _, r := range seed {
		require.NoError(t, store.Insert(ctx, r))
	}

	entries, err := store.RangeQuery(ctx, model.WindowQuery{
		AccountID: testutil.TestAccountID,
		DateFrom:  testutil.DaysBefore(3),
		DateTo:    testutil.TestValueDate,
		AmountMin: service.StructuringBandMin,
		AmountMax: service.StructuringBandMax,
	})
	require.NoError(t, err)

	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.TransactionID)
	}
	assert.ElementsMatch(t, []string{"in-0", "in-3"}, ids)
}

func TestTransactionStore_ListsReviewAndStats(t *testing.T) {
	store := memory.NewTransactionStore()
	ctx := context.Background()

	older := newRecord(t, "older", testutil.TestAccountID, 2, 100, true)
	newer := newRecord(t, "newer", testutil.TestAccountID, 0, 100, false)
	require.NoError(t, store.Insert(ctx, older))
	require.NoError(t, store.Insert(ctx, newer))

	byAccount, err := store.ListByAccount(ctx, testutil.TestAccountID, 10)
	require.NoError(t, err)
	require.Len(t, byAccount, 2)
	assert.Equal(t, "newer", byAccount[0].ID())

	limited, err := store.ListByAccount(ctx, testutil.TestAccountID, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	suspicious, err := store.ListSuspicious(ctx, 10)
	require.NoError(t, err)
	require.Len(t, suspicious, 1)
	assert.Equal(t, "older", suspicious[0].ID())

	require.NoError(t, older.Review(valueobject.ReviewStatusApproved, "analyst-1", "ok", time.Now()))
	require.NoError(t, store.UpdateReview(ctx, older))
	got, err := store.FindByID(ctx, "older")
	require.NoError(t, err)
	assert.Equal(t, valueobject.ReviewStatusApproved, got.ReviewStatus())

	assert.ErrorIs(t, store.UpdateReview(ctx, newRecord(t, "ghost", testutil.TestAccountID, 0, 1, false)), model.ErrTransactionNotFound)

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Total)
	assert.Equal(t, int64(1), stats.Suspicious)
}

func TestTransactionStore_ConcurrentWriters(t *testing.T) {
	store := memory.NewTransactionStore()
	ctx := context.Background()

	records := make([]*model.TransactionRecord, 50)
	for i := range records {
		records[i] = newRecord(t, fmt.Sprintf("c-%d", i), testutil.TestAccountID, i%4, 9000, false)
	}

	var wg sync.WaitGroup
	for _, rec := range records {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, store.Insert(ctx, rec))
			_, err := store.RangeQuery(ctx, model.WindowQuery{AccountID: testutil.TestAccountID, DateFrom: testutil.DaysBefore(3), DateTo: testutil.TestValueDate, AmountMin: service.StructuringBandMin, AmountMax: service.StructuringBandMax})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(50), stats.Total)
}
