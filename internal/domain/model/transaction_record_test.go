package model_test

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/aml-service/internal/domain/event"
	"github.com/bibbank/aml-service/internal/domain/model"
	"github.com/bibbank/aml-service/internal/domain/valueobject"
	"github.com/bibbank/aml-service/pkg/money"
)

func validParams() model.RecordParams {
	return model.RecordParams{
		TransactionID:      "TXN_1",
		AccountID:          "ACC-1",
		ValueDate:          civil.Date{Year: 2024, Month: 3, Day: 15},
		OriginatorName:     "Acme Ltd",
		BeneficiaryName:    "Globex GmbH",
		BeneficiaryCountry: "DE",
		Original:           money.New(decimal.NewFromInt(1000000), money.USD),
		SettlementAmount:   decimal.NewFromInt(1000000),
		SettlementRate:     decimal.NewFromInt(1),
		PaymentNarrative:   "consulting fee for services",
		PaymentType:        "SWIFT",
	}
}

func suspiciousVerdict() (model.RiskVerdict, model.RiskReport) {
	verdict := model.NewRiskVerdict([]model.RuleResult{
		model.NewRuleResult(model.RuleHighRiskCountry, 2, "DE is in Level_1"),
		model.NewRuleResult(model.RuleSuspiciousKeyword, 3, `Found keyword: "consulting fee"`),
		model.NewRuleResult(model.RuleRoundedAmount, 2, "Amount $1000000.00 is a rounded figure"),
	}, model.StructuringResult{Band: "8000-9999", WindowSum: decimal.Zero})
	report := model.RiskReport{
		TotalScore:            verdict.TotalScore,
		RiskLevel:             valueobject.RiskLevelHigh,
		Priority:              valueobject.PriorityHigh,
		Recommendations:       []string{"Transaction flagged as suspicious - manual review required"},
		InvestigationRequired: true,
	}
	return verdict, report
}

func TestNewRiskVerdict(t *testing.T) {
	verdict, _ := suspiciousVerdict()

	assert.Equal(t, 7, verdict.TotalScore)
	assert.True(t, verdict.IsSuspicious)
	assert.Equal(t, 3, verdict.PointsFor(model.RuleSuspiciousKeyword))
	assert.Equal(t, 0, verdict.PointsFor(model.RuleHighAmount))
	assert.False(t, verdict.Fired(model.RuleStructuring))
}

func TestNewRiskVerdict_Empty(t *testing.T) {
	verdict := model.NewRiskVerdict(nil, model.StructuringResult{})

	assert.Equal(t, 0, verdict.TotalScore)
	assert.False(t, verdict.IsSuspicious)
	assert.NotNil(t, verdict.TriggeredRules)
	assert.Empty(t, verdict.TriggeredRules)
}

func TestNewRiskVerdict_ThresholdIsInclusive(t *testing.T) {
	verdict := model.NewRiskVerdict([]model.RuleResult{
		model.NewRuleResult(model.RuleHighAmount, 3, "Amount $1000001.00 > $1M"),
	}, model.StructuringResult{})

	assert.True(t, verdict.IsSuspicious)
}

func TestTransactionValidate(t *testing.T) {
	base := model.Transaction{
		AccountID:        "ACC-1",
		ValueDate:        civil.Date{Year: 2024, Month: 1, Day: 2},
		SettlementAmount: decimal.NewFromInt(10),
	}

	t.Run("valid", func(t *testing.T) {
		require.NoError(t, base.Validate())
	})

	t.Run("zero amount is allowed", func(t *testing.T) {
		tx := base
		tx.SettlementAmount = decimal.Zero
		require.NoError(t, tx.Validate())
	})

	tests := []struct {
		name   string
		mutate func(*model.Transaction)
		field  string
	}{
		{"missing account", func(tx *model.Transaction) { tx.AccountID = "  " }, "account_id"},
		{"missing date", func(tx *model.Transaction) { tx.ValueDate = civil.Date{} }, "value_date"},
		{"impossible date", func(tx *model.Transaction) { tx.ValueDate = civil.Date{Year: 2024, Month: 2, Day: 30} }, "value_date"},
		{"negative amount", func(tx *model.Transaction) { tx.SettlementAmount = decimal.NewFromInt(-1) }, "settlement_amount"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := base
			tt.mutate(&tx)
			err := tx.Validate()
			require.ErrorIs(t, err, model.ErrInvalidTransaction)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestNewTransactionRecord(t *testing.T) {
	t.Run("suspicious record raises scored and suspicious events", func(t *testing.T) {
		verdict, report := suspiciousVerdict()

		record, err := model.NewTransactionRecord(validParams(), verdict, report)
		require.NoError(t, err)

		assert.Equal(t, "TXN_1", record.ID())
		assert.Equal(t, valueobject.ReviewStatusPending, record.ReviewStatus())
		assert.Nil(t, record.ReviewedAt())

		evts := record.DomainEvents()
		require.Len(t, evts, 2)
		assert.Equal(t, event.EventTypeTransactionScored, evts[0].EventType())
		assert.Equal(t, event.EventTypeSuspiciousTransaction, evts[1].EventType())
		assert.Equal(t, "TXN_1", evts[0].AggregateID())

		scored, ok := evts[0].(event.TransactionScored)
		require.True(t, ok)
		assert.Equal(t, []string{"High-risk country", "Suspicious keyword", "Rounded amount"}, scored.TriggeredRules)

		assert.Empty(t, record.DomainEvents(), "events should be drained")
	})

	t.Run("clean record raises only scored event", func(t *testing.T) {
		verdict := model.NewRiskVerdict(nil, model.StructuringResult{})
		report := model.RiskReport{RiskLevel: valueobject.RiskLevelLow, Priority: valueobject.PriorityLow}

		record, err := model.NewTransactionRecord(validParams(), verdict, report)
		require.NoError(t, err)
		assert.Len(t, record.DomainEvents(), 1)
	})

	t.Run("missing transaction id", func(t *testing.T) {
		p := validParams()
		p.TransactionID = ""
		verdict, report := suspiciousVerdict()

		_, err := model.NewTransactionRecord(p, verdict, report)
		assert.ErrorIs(t, err, model.ErrInvalidTransaction)
	})

	t.Run("scoring input projection", func(t *testing.T) {
		verdict, report := suspiciousVerdict()
		record, err := model.NewTransactionRecord(validParams(), verdict, report)
		require.NoError(t, err)

		tx := record.Transaction()
		assert.Equal(t, "ACC-1", tx.AccountID)
		assert.Equal(t, "DE", tx.BeneficiaryCountry)
		assert.True(t, tx.SettlementAmount.Equal(decimal.NewFromInt(1000000)))
	})
}

func TestTransactionRecordReview(t *testing.T) {
	verdict, report := suspiciousVerdict()
	record, err := model.NewTransactionRecord(validParams(), verdict, report)
	require.NoError(t, err)
	_ = record.DomainEvents()

	at := time.Date(2024, 3, 20, 9, 0, 0, 0, time.UTC)
	require.NoError(t, record.Review(valueobject.ReviewStatusReviewed, "analyst-1", "source of funds requested", at))

	assert.Equal(t, valueobject.ReviewStatusReviewed, record.ReviewStatus())
	assert.Equal(t, "analyst-1", record.ReviewedBy())
	require.NotNil(t, record.ReviewedAt())
	assert.Equal(t, at, *record.ReviewedAt())

	evts := record.DomainEvents()
	require.Len(t, evts, 1)
	assert.Equal(t, event.EventTypeTransactionReviewed, evts[0].EventType())

	require.NoError(t, record.Review(valueobject.ReviewStatusApproved, "lead-2", "", at.Add(time.Hour)))

	err = record.Review(valueobject.ReviewStatusRejected, "lead-2", "", at.Add(2*time.Hour))
	assert.ErrorIs(t, err, valueobject.ErrInvalidReviewTransition)

	err = record.Review(valueobject.ReviewStatusRejected, "", "", at)
	assert.Error(t, err)
}

func TestReconstructRoundTrip(t *testing.T) {
	verdict, report := suspiciousVerdict()
	record, err := model.NewTransactionRecord(validParams(), verdict, report)
	require.NoError(t, err)

	rebuilt := model.Reconstruct(record.Snapshot())

	assert.Equal(t, record.Snapshot(), rebuilt.Snapshot())
	assert.Empty(t, rebuilt.DomainEvents())
}

func TestNewTransactionStats(t *testing.T) {
	stats := model.NewTransactionStats(3, 1)
	assert.Equal(t, int64(2), stats.Normal)
	assert.Equal(t, "33.33", stats.SuspiciousRate.StringFixed(2))

	empty := model.NewTransactionStats(0, 0)
	assert.True(t, empty.SuspiciousRate.IsZero())
}

func TestWindowQueryMatches(t *testing.T) {
	q := model.WindowQuery{
		AccountID: "ACC-1",
		DateFrom:  civil.Date{Year: 2024, Month: 3, Day: 12},
		DateTo:    civil.Date{Year: 2024, Month: 3, Day: 15},
		AmountMin: decimal.NewFromInt(8000),
		AmountMax: decimal.NewFromInt(9999),
	}
	entry := func(day int, amount int64) model.WindowEntry {
		return model.WindowEntry{ValueDate: civil.Date{Year: 2024, Month: 3, Day: day}, SettlementAmount: decimal.NewFromInt(amount)}
	}

	assert.True(t, q.Matches("ACC-1", entry(12, 8000)), "lower bounds inclusive")
	assert.True(t, q.Matches("ACC-1", entry(15, 9999)), "upper bounds inclusive")
	assert.False(t, q.Matches("ACC-1", entry(11, 9000)), "before window")
	assert.False(t, q.Matches("ACC-1", entry(16, 9000)), "after window")
	assert.False(t, q.Matches("ACC-1", entry(13, 10000)), "above band")
	assert.False(t, q.Matches("ACC-2", entry(13, 9000)), "other account")
}
