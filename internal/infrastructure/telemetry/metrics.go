// Package telemetry records scoring and rate-cache metrics with OpenTelemetry.
package telemetry

import (
	"context"
	"fmt"
	"strconv"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/bibbank/aml-service/internal/domain/model"
	"github.com/bibbank/aml-service/internal/domain/port"
	"github.com/bibbank/aml-service/internal/infrastructure/fxrate"
)

var (
	_ port.ScoringMetrics  = (*Metrics)(nil)
	_ fxrate.CacheObserver = (*Metrics)(nil)
)

// MeterName scopes every instrument in this package.
const MeterName = "aml-service/scoring"

// Metrics holds the service's instruments. Exported through Prometheus the
// names gain a _total suffix on counters.
type Metrics struct {
	scored          metric.Int64Counter
	rulesFired      metric.Int64Counter
	checksSkipped   metric.Int64Counter
	score           metric.Int64Histogram
	rateCacheHits   metric.Int64Counter
	rateCacheMisses metric.Int64Counter
}

// NewMetrics registers the instruments on meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	var (
		m   Metrics
		err error
	)
	if m.scored, err = meter.Int64Counter("aml.transactions_scored",
		metric.WithDescription("Transactions scored, by suspicious flag")); err != nil {
		return nil, fmt.Errorf("telemetry: transactions_scored: %w", err)
	}
	if m.rulesFired, err = meter.Int64Counter("aml.rules_fired",
		metric.WithDescription("Triggered rules, by rule")); err != nil {
		return nil, fmt.Errorf("telemetry: rules_fired: %w", err)
	}
	if m.checksSkipped, err = meter.Int64Counter("aml.structuring_checks_skipped",
		metric.WithDescription("Structuring checks skipped because the history lookup failed")); err != nil {
		return nil, fmt.Errorf("telemetry: structuring_checks_skipped: %w", err)
	}
	if m.score, err = meter.Int64Histogram("aml.risk_score",
		metric.WithDescription("Total risk score per transaction"),
		metric.WithExplicitBucketBoundaries(0, 2, 3, 4, 5, 7, 10, 13, 15, 18, 25)); err != nil {
		return nil, fmt.Errorf("telemetry: risk_score: %w", err)
	}
	if m.rateCacheHits, err = meter.Int64Counter("aml.rate_cache_hits",
		metric.WithDescription("Settlement rate cache hits, by layer")); err != nil {
		return nil, fmt.Errorf("telemetry: rate_cache_hits: %w", err)
	}
	if m.rateCacheMisses, err = meter.Int64Counter("aml.rate_cache_misses",
		metric.WithDescription("Settlement rate lookups that reached the upstream provider")); err != nil {
		return nil, fmt.Errorf("telemetry: rate_cache_misses: %w", err)
	}
	return &m, nil
}

// TransactionScored implements port.ScoringMetrics.
func (m *Metrics) TransactionScored(ctx context.Context, v model.RiskVerdict) {
	m.scored.Add(ctx, 1, metric.WithAttributes(attribute.String("suspicious", strconv.FormatBool(v.IsSuspicious))))
	m.score.Record(ctx, int64(v.TotalScore))
	for _, r := range v.TriggeredRules {
		m.rulesFired.Add(ctx, 1, metric.WithAttributes(attribute.String("rule", r.RuleID.Key())))
	}
}

// StructuringCheckSkipped implements port.ScoringMetrics.
func (m *Metrics) StructuringCheckSkipped(ctx context.Context) {
	m.checksSkipped.Add(ctx, 1)
}

// RateCacheHit implements fxrate.CacheObserver.
func (m *Metrics) RateCacheHit(ctx context.Context, layer string) {
	m.rateCacheHits.Add(ctx, 1, metric.WithAttributes(attribute.String("layer", layer)))
}

// RateCacheMiss implements fxrate.CacheObserver.
func (m *Metrics) RateCacheMiss(ctx context.Context) {
	m.rateCacheMisses.Add(ctx, 1)
}
