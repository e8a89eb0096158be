package valueobject

import "fmt"

// CountryTier is the risk tier of a beneficiary jurisdiction. The zero value
// means the code is unlisted and carries no country risk.
type CountryTier int

const (
	TierNone CountryTier = iota
	Tier1
	Tier2
	Tier3
)

// Points awarded by the country rule for this tier.
func (t CountryTier) Points() int {
	switch t {
	case Tier1:
		return 2
	case Tier2:
		return 4
	case Tier3:
		return 10
	default:
		return 0
	}
}

// Label renders the tier the way list maintainers name it ("Level_2").
func (t CountryTier) Label() string {
	return fmt.Sprintf("Level_%d", int(t))
}
