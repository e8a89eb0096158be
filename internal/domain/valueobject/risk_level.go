package valueobject

import "fmt"

// RiskLevel buckets a total rule score for reporting and review routing.
type RiskLevel struct {
	value string
}

var (
	RiskLevelLow      = RiskLevel{value: "LOW"}
	RiskLevelMedium   = RiskLevel{value: "MEDIUM"}
	RiskLevelHigh     = RiskLevel{value: "HIGH"}
	RiskLevelCritical = RiskLevel{value: "CRITICAL"}
)

// riskBands is ordered from the highest score floor down; the last band
// catches everything.
var riskBands = []struct {
	floor    int
	level    RiskLevel
	priority Priority
}{
	{floor: 10, level: RiskLevelCritical, priority: PriorityUrgent},
	{floor: 7, level: RiskLevelHigh, priority: PriorityHigh},
	{floor: 4, level: RiskLevelMedium, priority: PriorityMedium},
	{floor: 0, level: RiskLevelLow, priority: PriorityLow},
}

// RiskLevelFromString reconstructs a stored RiskLevel.
func RiskLevelFromString(s string) (RiskLevel, error) {
	for _, b := range riskBands {
		if b.level.value == s {
			return b.level, nil
		}
	}
	return RiskLevel{}, fmt.Errorf("invalid risk level: %s", s)
}

// RiskLevelFromScore maps a total rule score onto a level.
func RiskLevelFromScore(score int) RiskLevel {
	for _, b := range riskBands {
		if score >= b.floor {
			return b.level
		}
	}
	return RiskLevelLow
}

// Priority returns the review queue priority for this level.
func (r RiskLevel) Priority() Priority {
	for _, b := range riskBands {
		if b.level == r {
			return b.priority
		}
	}
	return PriorityLow
}

func (r RiskLevel) String() string {
	return r.value
}
