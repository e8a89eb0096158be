package service

import (
	"fmt"
	"slices"
	"strings"

	"github.com/bibbank/aml-service/internal/domain/model"
	"github.com/bibbank/aml-service/internal/domain/valueobject"
)

// The tier lists are maintained by compliance and kept exactly as published,
// including codes repeated within a list and codes listed in several tiers.
// Lookup resolves overlaps in favour of the lowest tier; OverlappingCodes
// reports them for review.
var (
	tier1Countries = []string{
		"DE", "US", "FR", "GB", "CA", "AU", "AT", "AZ", "BE", "BW", "BN", "BG", "CA", "CL", "CN", "CR", "HR", "CY",
		"CZ", "DK", "EE", "FI", "GE", "HU", "IS", "IE", "IL", "JP", "KZ", "KW", "LV", "LT", "LU", "MY", "MT", "NL",
		"NZ", "NO", "OM", "PL", "PT", "QA", "SA", "SG", "SK", "SI", "SE", "CH", "TH", "TT", "AE", "UY", "VN",
	}
	tier2Countries = []string{
		"AE", "BR", "IN", "ZA", "MX", "DZ", "AG", "AR", "AM", "BD", "BB", "BY", "BZ", "BT", "BA", "KH", "CO", "DM",
		"DO", "EC", "EG", "SV", "GQ", "ER", "ET", "FJ", "GA", "GR", "GD", "GT", "GY", "HN", "ID", "IQ", "IT", "JM",
		"JO", "KG", "KI", "LA", "LB", "LS", "LR", "MG", "MW", "MV", "ML", "MH", "MR", "MU", "FM", "MD", "MN", "ME",
		"MA", "MZ", "MM", "NA", "NR", "NP", "NI", "PA", "PG", "PY", "PE", "PH", "RO", "WS", "SN", "RS", "SC", "SB",
		"LK", "KN", "LC", "VC", "SR", "TJ", "TL", "TO", "TR", "TM", "TV", "UZ", "VU", "ZW",
	}
	tier3Countries = []string{
		"IR", "KP", "SY", "RU", "CU", "AO", "BJ", "BO", "BF", "BI", "CM", "CV", "CF", "TD", "KM", "CG", "CD", "DJ",
		"EG", "SV", "GQ", "ER", "ET", "GH", "GN", "GW", "HT", "AF", "IR", "IQ", "JO", "KE", "LA", "LB", "LS", "LR",
		"LY", "MG", "MW", "MV", "ML", "MR", "MZ", "MM", "NE", "NG", "KP", "PK", "PG", "RW", "ST", "SN", "SL", "SO",
		"SS", "LK", "SD", "SR", "SY", "TZ", "TG", "TN", "UG", "UA", "VE", "ZM", "ZW",
	}
)

// CountryClassifier maps beneficiary country codes onto risk tiers.
type CountryClassifier struct {
	tiers    map[string]valueobject.CountryTier
	overlaps []string
}

// NewCountryClassifier builds the lookup from the published tier lists.
func NewCountryClassifier() *CountryClassifier {
	return newCountryClassifier(map[valueobject.CountryTier][]string{
		valueobject.Tier1: tier1Countries,
		valueobject.Tier2: tier2Countries,
		valueobject.Tier3: tier3Countries,
	})
}

func newCountryClassifier(lists map[valueobject.CountryTier][]string) *CountryClassifier {
	c := &CountryClassifier{tiers: make(map[string]valueobject.CountryTier)}
	seen := make(map[string]int)

	for _, tier := range []valueobject.CountryTier{valueobject.Tier1, valueobject.Tier2, valueobject.Tier3} {
		for _, code := range lists[tier] {
			seen[code]++
			if _, ok := c.tiers[code]; !ok {
				c.tiers[code] = tier
			}
		}
	}
	for code, n := range seen {
		if n > 1 {
			c.overlaps = append(c.overlaps, code)
		}
	}
	slices.Sort(c.overlaps)

	return c
}

// Classify returns the tier of code, or TierNone when it is absent or unlisted.
func (c *CountryClassifier) Classify(code string) valueobject.CountryTier {
	return c.tiers[normalizeCountry(code)]
}

// Evaluate runs the high-risk country rule.
func (c *CountryClassifier) Evaluate(code string) (model.RuleResult, bool) {
	code = normalizeCountry(code)
	tier := c.tiers[code]
	if tier == valueobject.TierNone {
		return model.RuleResult{}, false
	}
	return model.NewRuleResult(
		model.RuleHighRiskCountry,
		tier.Points(),
		fmt.Sprintf("%s is in %s", code, tier.Label()),
	), true
}

// OverlappingCodes lists codes that appear more than once across the tier lists.
func (c *CountryClassifier) OverlappingCodes() []string {
	return slices.Clone(c.overlaps)
}

func normalizeCountry(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
