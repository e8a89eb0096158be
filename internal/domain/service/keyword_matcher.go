package service

import (
	"fmt"
	"strings"

	"github.com/bibbank/aml-service/internal/domain/model"
)

// KeywordPoints is awarded once per transaction, however many terms match.
const KeywordPoints = 3

// suspiciousKeywords is ordered: the first entry found in a narrative wins.
var suspiciousKeywords = []string{
	// generic cover descriptions
	"gift", "donation", "loan", "cash", "payment", "personal expense", "consulting fee",
	"marketing services", "professional services", "commission", "reimbursement", "miscellaneous",
	"service charge", "for processing", "fees", "proceeds", "family support", "living expenses",
	"for safekeeping", "capital investment", "unspecified invoice",
	// urgency and secrecy
	"urgent", "rush payment", "confidential", "special handling", "discreet", "do not disclose",
	"sensitive", "private arrangement", "handle personally", "third-party payment",
	"pay on behalf of", "pass-through", "as per verbal instructions", "quick transfer",
	// shell and offshore vehicles
	"offshore", "shell company", "shell corp", "bearer bond", "bearer shares", "trust",
	"foundation", "nominee", "IBC", "SPV",
	// structuring
	"structuring", "smurfing", "below threshold", "under 10k", "cash deposit",
	"multiple deposits", "split payment", "cash intensive", "cash-out",
	// crypto and informal value transfer
	"crypto", "cryptocurrency", "BTC", "ETH", "USDT", "XMR", "Monero", "digital wallet",
	"mixer", "tumbler", "Hawala", "Hundi", "underground banking",
	// high-value goods
	"art", "gems", "diamonds", "luxury goods", "gold", "bullion", "antiques",
	"real estate deposit", "yacht", "aircraft", "over-invoicing", "under-invoicing",
	"double invoicing", "invoice 999",
	// trade-based laundering
	"transshipment", "intermediary", "routed via", "bill of lading", "dual-use goods",
	"freight forwarding", "customs duty", "vessel name change", "port of call",
	// cyber-enabled fraud
	"ransomware", "CEO fraud", "BEC", "pig butchering", "romance scam", "unfreezing fee",
	"account recovery", "dark web", "darknet", "malware", "phishing",
	// corruption
	"facilitation payment", "government contract", "public official", "political donation",
	"slush fund", "backhander", "introduction fee",
	// charitable cover
	"humanitarian aid", "religious donation", "charitable contribution", "fundraising", "relief fund",
}

// KeywordMatcher finds the first dictionary term contained in a payment narrative.
// Matching is case-insensitive substring containment, so short terms such as
// "art" also match inside longer words.
type KeywordMatcher struct {
	keywords []string
	lowered  []string
}

// NewKeywordMatcher builds a matcher over the built-in dictionary.
func NewKeywordMatcher() *KeywordMatcher {
	return newKeywordMatcher(suspiciousKeywords)
}

func newKeywordMatcher(keywords []string) *KeywordMatcher {
	m := &KeywordMatcher{
		keywords: keywords,
		lowered:  make([]string, len(keywords)),
	}
	for i, k := range keywords {
		m.lowered[i] = strings.ToLower(k)
	}
	return m
}

// FindFirstMatch returns the earliest dictionary entry, in its original
// spelling, that occurs in narrative.
func (m *KeywordMatcher) FindFirstMatch(narrative string) (string, bool) {
	if narrative == "" {
		return "", false
	}
	text := strings.ToLower(narrative)
	for i, k := range m.lowered {
		if strings.Contains(text, k) {
			return m.keywords[i], true
		}
	}
	return "", false
}

// Evaluate runs the suspicious keyword rule.
func (m *KeywordMatcher) Evaluate(narrative string) (model.RuleResult, bool) {
	keyword, ok := m.FindFirstMatch(narrative)
	if !ok {
		return model.RuleResult{}, false
	}
	return model.NewRuleResult(model.RuleSuspiciousKeyword, KeywordPoints, fmt.Sprintf("Found keyword: %q", keyword)), true
}

// Keywords returns the dictionary in match order.
func (m *KeywordMatcher) Keywords() []string {
	return append([]string(nil), m.keywords...)
}
