package service

import (
	"context"
	"fmt"
	"log/slog"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/bibbank/aml-service/internal/domain/model"
	"github.com/bibbank/aml-service/internal/domain/port"
)

const (
	StructuringPoints     = 5
	StructuringWindowDays = 3
	StructuringBand       = "8000-9999"
)

var (
	StructuringBandMin   = decimal.NewFromInt(8000)
	StructuringBandMax   = decimal.NewFromInt(9999)
	StructuringThreshold = decimal.NewFromInt(1_000_000)
)

// StructuringQuery identifies the transaction whose trailing window is checked.
// TransactionID is optional; when set, stored rows with that id are not
// counted a second time.
type StructuringQuery struct {
	TransactionID string
	AccountID     string
	ValueDate     civil.Date
	Amount        decimal.Decimal
}

// StructuringDetector looks for in-band deposits on one account whose
// trailing window total crosses the threshold.
type StructuringDetector struct {
	history port.WindowQuerier
	logger  *slog.Logger
}

// NewStructuringDetector creates a detector reading history from store.
func NewStructuringDetector(history port.WindowQuerier, logger *slog.Logger) *StructuringDetector {
	return &StructuringDetector{history: history, logger: logger}
}

// InBand reports whether amount lies in the structuring band, bounds inclusive.
func InBand(amount decimal.Decimal) bool {
	return amount.GreaterThanOrEqual(StructuringBandMin) && amount.LessThanOrEqual(StructuringBandMax)
}

// Detect evaluates the window [ValueDate-3d, ValueDate]. The current
// transaction is always counted exactly once. Amounts outside the band never
// reach the store. A store failure fails closed with Skipped set.
func (d *StructuringDetector) Detect(ctx context.Context, q StructuringQuery) model.StructuringResult {
	result := model.StructuringResult{WindowSum: decimal.Zero, Band: StructuringBand}
	if !InBand(q.Amount) {
		return result
	}

	entries, err := d.history.RangeQuery(ctx, model.WindowQuery{
		AccountID: q.AccountID,
		DateFrom:  q.ValueDate.AddDays(-StructuringWindowDays),
		DateTo:    q.ValueDate,
		AmountMin: StructuringBandMin,
		AmountMax: StructuringBandMax,
	})
	if err != nil {
		d.logger.WarnContext(ctx, "structuring check skipped, history lookup failed",
			slog.String("account_id", q.AccountID),
			slog.String("value_date", q.ValueDate.String()),
			slog.String("error", err.Error()),
		)
		result.Skipped = true
		return result
	}

	sum := q.Amount
	count := 1
	for _, e := range entries {
		if q.TransactionID != "" && e.TransactionID == q.TransactionID {
			continue
		}
		sum = sum.Add(e.SettlementAmount)
		count++
	}

	result.WindowSum = sum
	result.Count = count
	result.Detected = sum.GreaterThan(StructuringThreshold)
	return result
}

// RuleResult turns a detection into the scored rule, if it fired.
func (d *StructuringDetector) RuleResult(r model.StructuringResult) (model.RuleResult, bool) {
	if !r.Detected {
		return model.RuleResult{}, false
	}
	return model.NewRuleResult(
		model.RuleStructuring,
		StructuringPoints,
		structuringDetail(r),
	), true
}

func structuringDetail(r model.StructuringResult) string {
	return fmt.Sprintf("3-day sum: $%s (%d transactions)", FormatUSD(r.WindowSum), r.Count)
}
