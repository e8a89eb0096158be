package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/bibbank/aml-service/internal/domain/model"
	"github.com/bibbank/aml-service/internal/domain/port"
)

// Compile-time assertion that RiskEngine implements Scorer.
var _ Scorer = (*RiskEngine)(nil)

// RiskEngine evaluates the five AML rules against a transaction. It holds no
// per-call state and may be shared across goroutines.
type RiskEngine struct {
	countries   *CountryClassifier
	keywords    *KeywordMatcher
	structuring *StructuringDetector
}

// NewRiskEngine wires the built-in rule tables to the given history source.
func NewRiskEngine(history port.WindowQuerier, logger *slog.Logger) *RiskEngine {
	return &RiskEngine{
		countries:   NewCountryClassifier(),
		keywords:    NewKeywordMatcher(),
		structuring: NewStructuringDetector(history, logger),
	}
}

// Score validates tx and runs every rule in order: country, keyword, high
// amount, structuring, rounded amount. Only validation errors are returned;
// a failed history lookup is reflected in the verdict instead.
func (e *RiskEngine) Score(ctx context.Context, tx model.Transaction) (model.RiskVerdict, error) {
	tx.TransactionID = strings.TrimSpace(tx.TransactionID)
	tx.AccountID = strings.TrimSpace(tx.AccountID)
	if err := tx.Validate(); err != nil {
		return model.RiskVerdict{}, err
	}

	rules := make([]model.RuleResult, 0, len(model.AllRules))
	add := func(r model.RuleResult, fired bool) {
		if fired {
			rules = append(rules, r)
		}
	}

	add(e.countries.Evaluate(tx.BeneficiaryCountry))
	add(e.keywords.Evaluate(tx.PaymentNarrative))
	add(EvaluateHighAmount(tx.SettlementAmount))

	structuring := e.structuring.Detect(ctx, StructuringQuery{
		TransactionID: tx.TransactionID,
		AccountID:     tx.AccountID,
		ValueDate:     tx.ValueDate,
		Amount:        tx.SettlementAmount,
	})
	add(e.structuring.RuleResult(structuring))

	add(EvaluateRoundedAmount(tx.SettlementAmount))

	return model.NewRiskVerdict(rules, structuring), nil
}

// DetectStructuring exposes the structuring rule on its own.
func (e *RiskEngine) DetectStructuring(ctx context.Context, q StructuringQuery) model.StructuringResult {
	return e.structuring.Detect(ctx, q)
}

// Countries exposes the classifier, mainly for startup diagnostics.
func (e *RiskEngine) Countries() *CountryClassifier {
	return e.countries
}
