package model

import (
	"github.com/shopspring/decimal"

	"github.com/bibbank/aml-service/internal/domain/valueobject"
)

// SuspicionThreshold is the minimum total score flagged for manual review.
const SuspicionThreshold = 3

// StructuringResult is the outcome of a trailing-window structuring check.
// Skipped is set when the history lookup failed and the rule failed closed.
type StructuringResult struct {
	Detected  bool
	WindowSum decimal.Decimal
	Count     int
	Band      string
	Skipped   bool
}

// RiskVerdict is the full scoring outcome for one transaction.
type RiskVerdict struct {
	TotalScore           int
	TriggeredRules       []RuleResult
	IsSuspicious         bool
	StructuringDetected  bool
	StructuringWindowSum decimal.Decimal
	StructuringCount     int
	StructuringBand      string
	StructuringSkipped   bool
}

// NewRiskVerdict derives the totals from the triggered rules so the score
// always equals the sum of awarded points.
func NewRiskVerdict(rules []RuleResult, structuring StructuringResult) RiskVerdict {
	total := 0
	for _, r := range rules {
		total += r.Points
	}
	if rules == nil {
		rules = []RuleResult{}
	}
	return RiskVerdict{
		TotalScore:           total,
		TriggeredRules:       rules,
		IsSuspicious:         total >= SuspicionThreshold,
		StructuringDetected:  structuring.Detected,
		StructuringWindowSum: structuring.WindowSum,
		StructuringCount:     structuring.Count,
		StructuringBand:      structuring.Band,
		StructuringSkipped:   structuring.Skipped,
	}
}

// PointsFor returns the points awarded by rule, or 0 if it did not fire.
func (v RiskVerdict) PointsFor(rule RuleID) int {
	for _, r := range v.TriggeredRules {
		if r.RuleID == rule {
			return r.Points
		}
	}
	return 0
}

// Fired reports whether rule contributed to the score.
func (v RiskVerdict) Fired(rule RuleID) bool {
	return v.PointsFor(rule) > 0
}

// RiskReport is the analyst-facing classification derived from a verdict.
type RiskReport struct {
	TotalScore            int
	RiskLevel             valueobject.RiskLevel
	Priority              valueobject.Priority
	Recommendations       []string
	InvestigationRequired bool
}
