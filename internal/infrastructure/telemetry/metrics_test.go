package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/bibbank/aml-service/internal/domain/model"
	"github.com/bibbank/aml-service/internal/infrastructure/fxrate"
)

func newTestMetrics(t *testing.T) (*Metrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	m, err := NewMetrics(provider.Meter(MeterName))
	require.NoError(t, err)
	return m, reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Aggregation {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := make(map[string]metricdata.Aggregation)
	for _, sm := range rm.ScopeMetrics {
		for _, md := range sm.Metrics {
			out[md.Name] = md.Data
		}
	}
	return out
}

func counterValue(t *testing.T, data metricdata.Aggregation, key, value string) int64 {
	t.Helper()
	sum, ok := data.(metricdata.Sum[int64])
	require.True(t, ok, "not an int64 sum: %T", data)
	for _, dp := range sum.DataPoints {
		if key == "" {
			return dp.Value
		}
		if v, ok := dp.Attributes.Value(attribute.Key(key)); ok && v.AsString() == value {
			return dp.Value
		}
	}
	return 0
}

func TestMetrics_TransactionScored(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	m.TransactionScored(ctx, model.RiskVerdict{
		TotalScore:   12,
		IsSuspicious: true,
		TriggeredRules: []model.RuleResult{
			model.NewRuleResult(model.RuleHighRiskCountry, 10, "Beneficiary country IR (Tier 3)"),
			model.NewRuleResult(model.RuleRoundedAmount, 2, "Rounded amount"),
		},
	})
	m.TransactionScored(ctx, model.RiskVerdict{TotalScore: 0})

	data := collect(t, reader)
	assert.Equal(t, int64(1), counterValue(t, data["aml.transactions_scored"], "suspicious", "true"))
	assert.Equal(t, int64(1), counterValue(t, data["aml.transactions_scored"], "suspicious", "false"))
	assert.Equal(t, int64(1), counterValue(t, data["aml.rules_fired"], "rule", "high_risk_country"))
	assert.Equal(t, int64(1), counterValue(t, data["aml.rules_fired"], "rule", "rounded_amounts"))

	hist, ok := data["aml.risk_score"].(metricdata.Histogram[int64])
	require.True(t, ok)
	require.Len(t, hist.DataPoints, 1)
	assert.Equal(t, uint64(2), hist.DataPoints[0].Count)
	assert.Equal(t, int64(12), hist.DataPoints[0].Sum)
}

func TestMetrics_SkippedAndCache(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	m.StructuringCheckSkipped(ctx)
	m.StructuringCheckSkipped(ctx)
	m.RateCacheHit(ctx, fxrate.LayerLocal)
	m.RateCacheHit(ctx, fxrate.LayerShared)
	m.RateCacheHit(ctx, fxrate.LayerShared)
	m.RateCacheMiss(ctx)

	data := collect(t, reader)
	assert.Equal(t, int64(2), counterValue(t, data["aml.structuring_checks_skipped"], "", ""))
	assert.Equal(t, int64(1), counterValue(t, data["aml.rate_cache_hits"], "layer", fxrate.LayerLocal))
	assert.Equal(t, int64(2), counterValue(t, data["aml.rate_cache_hits"], "layer", fxrate.LayerShared))
	assert.Equal(t, int64(1), counterValue(t, data["aml.rate_cache_misses"], "", ""))
}
