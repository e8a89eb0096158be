package model

// RuleID identifies one of the five scoring rules. Rules always evaluate in
// ascending RuleID order.
type RuleID int

const (
	RuleHighRiskCountry RuleID = iota + 1
	RuleSuspiciousKeyword
	RuleHighAmount
	RuleStructuring
	RuleRoundedAmount
)

// AllRules lists the rules in evaluation order.
var AllRules = []RuleID{
	RuleHighRiskCountry,
	RuleSuspiciousKeyword,
	RuleHighAmount,
	RuleStructuring,
	RuleRoundedAmount,
}

// Name returns the human-readable rule name used in reports.
func (r RuleID) Name() string {
	switch r {
	case RuleHighRiskCountry:
		return "High-risk country"
	case RuleSuspiciousKeyword:
		return "Suspicious keyword"
	case RuleHighAmount:
		return "High amount"
	case RuleStructuring:
		return "Structuring pattern"
	case RuleRoundedAmount:
		return "Rounded amount"
	default:
		return "Unknown rule"
	}
}

// Key is the snake_case identifier used in persisted score breakdowns and metrics.
func (r RuleID) Key() string {
	switch r {
	case RuleHighRiskCountry:
		return "high_risk_country"
	case RuleSuspiciousKeyword:
		return "suspicious_keywords"
	case RuleHighAmount:
		return "high_amount"
	case RuleStructuring:
		return "structuring"
	case RuleRoundedAmount:
		return "rounded_amounts"
	default:
		return "unknown"
	}
}

// RuleResult records one triggered rule. Rules that do not fire produce no result.
type RuleResult struct {
	RuleID RuleID `json:"rule_id"`
	Name   string `json:"rule_name"`
	Points int    `json:"points_awarded"`
	Detail string `json:"detail_text"`
}

// NewRuleResult fills Name from the rule id.
func NewRuleResult(id RuleID, points int, detail string) RuleResult {
	return RuleResult{RuleID: id, Name: id.Name(), Points: points, Detail: detail}
}
