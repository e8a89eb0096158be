package service

import (
	"github.com/bibbank/aml-service/internal/domain/model"
	"github.com/bibbank/aml-service/internal/domain/valueobject"
)

var ruleRecommendations = map[model.RuleID]string{
	model.RuleHighRiskCountry:   "Enhanced due diligence required for high-risk country",
	model.RuleSuspiciousKeyword: "Review payment instruction for suspicious keywords",
	model.RuleHighAmount:        "Large transaction - verify source of funds",
	model.RuleStructuring:       "Potential structuring detected - investigate account history",
	model.RuleRoundedAmount:     "Rounded amount - verify transaction purpose",
}

const manualReviewRecommendation = "Transaction flagged as suspicious - manual review required"

// BuildRiskReport classifies a verdict for analysts. Recommendations follow
// rule order, with the manual review line last when the verdict is suspicious.
func BuildRiskReport(v model.RiskVerdict) model.RiskReport {
	level := valueobject.RiskLevelFromScore(v.TotalScore)

	recs := make([]string, 0, len(v.TriggeredRules)+1)
	for _, rule := range model.AllRules {
		if v.Fired(rule) {
			recs = append(recs, ruleRecommendations[rule])
		}
	}
	if v.IsSuspicious {
		recs = append(recs, manualReviewRecommendation)
	}

	return model.RiskReport{
		TotalScore:            v.TotalScore,
		RiskLevel:             level,
		Priority:              level.Priority(),
		Recommendations:       recs,
		InvestigationRequired: v.IsSuspicious,
	}
}
