package bootstrap

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/aml-service/internal/infrastructure/config"
	"github.com/bibbank/aml-service/internal/infrastructure/fxrate"
	"github.com/bibbank/aml-service/internal/infrastructure/memory"
	"github.com/bibbank/aml-service/pkg/money"
	"github.com/bibbank/aml-service/pkg/observability"
	"github.com/bibbank/aml-service/pkg/testutil"
)

func memoryConfig(t *testing.T) config.Config {
	t.Helper()
	t.Setenv("STORE", config.StoreMemory)
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("EXCHANGE_RATE_API_KEY", "")
	return config.Load()
}

func TestBuild_MemoryStoreAndStaticRates(t *testing.T) {
	res, err := Build(context.Background(), memoryConfig(t), nil, observability.NopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = res.Close() })

	assert.IsType(t, &memory.TransactionStore{}, res.Store)
	assert.IsType(t, &fxrate.CachedProvider{}, res.Rates)
	assert.NotNil(t, res.Publisher)
	assert.Empty(t, res.Checks, "no database or redis checks without those backends")

	rate, err := res.Rates.SettlementRate(context.Background(), money.MustCurrency("EUR"), testutil.TestValueDate)
	require.NoError(t, err)
	testutil.AssertDecimalEqual(t, "1.085", rate)
}

func TestBuild_RedisAddsReadinessCheck(t *testing.T) {
	cfg := memoryConfig(t)
	cfg.Redis.Addr = "127.0.0.1:1"

	res, err := Build(context.Background(), cfg, nil, observability.NopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = res.Close() })

	assert.Contains(t, res.Checks, "redis")
}

func TestBuild_UnknownStore(t *testing.T) {
	cfg := memoryConfig(t)
	cfg.Store = "sqlite"

	_, err := Build(context.Background(), cfg, nil, observability.NopLogger())
	assert.ErrorContains(t, err, "unknown store")
}

func TestResources_CloseOrder(t *testing.T) {
	var order []int
	res := &Resources{}
	res.onClose(func() error { order = append(order, 1); return nil })
	res.onClose(func() error { order = append(order, 2); return errors.New("boom") })

	err := res.Close()
	assert.ErrorContains(t, err, "boom")
	assert.Equal(t, []int{2, 1}, order)
}
