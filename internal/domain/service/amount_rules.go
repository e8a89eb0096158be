package service

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/bibbank/aml-service/internal/domain/model"
)

const (
	HighAmountPoints    = 3
	RoundedAmountPoints = 2
)

// HighAmountThreshold is exclusive: exactly 1,000,000 does not fire.
var HighAmountThreshold = decimal.NewFromInt(1_000_000)

var roundedAmounts = []decimal.Decimal{
	decimal.NewFromInt(1_000_000),
	decimal.NewFromInt(750_000),
	decimal.NewFromInt(500_000),
	decimal.NewFromInt(250_000),
	decimal.NewFromInt(100_000),
	decimal.NewFromInt(50_000),
	decimal.NewFromInt(25_000),
	decimal.NewFromInt(10_000),
	decimal.NewFromInt(5_000),
	decimal.NewFromInt(1_000),
}

// EvaluateHighAmount fires when amount is strictly above the threshold.
func EvaluateHighAmount(amount decimal.Decimal) (model.RuleResult, bool) {
	if !amount.GreaterThan(HighAmountThreshold) {
		return model.RuleResult{}, false
	}
	return model.NewRuleResult(
		model.RuleHighAmount,
		HighAmountPoints,
		fmt.Sprintf("Amount $%s > $1M", FormatUSD(amount)),
	), true
}

// EvaluateRoundedAmount fires on exact value equality with a listed figure.
// Scale is ignored (10000.00 matches) but there is no tolerance.
func EvaluateRoundedAmount(amount decimal.Decimal) (model.RuleResult, bool) {
	for _, r := range roundedAmounts {
		if amount.Equal(r) {
			return model.NewRuleResult(
				model.RuleRoundedAmount,
				RoundedAmountPoints,
				fmt.Sprintf("Amount $%s is a rounded figure", FormatUSD(amount)),
			), true
		}
	}
	return model.RuleResult{}, false
}

// FormatUSD renders an amount with thousands separators and at most two
// fraction digits, dropping trailing zeros: 1234567.50 -> "1,234,567.5".
func FormatUSD(amount decimal.Decimal) string {
	s := amount.Round(2).String()

	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}

	intPart, frac, _ := strings.Cut(s, ".")
	frac = strings.TrimRight(frac, "0")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	if frac != "" {
		return sign + b.String() + "." + frac
	}
	return sign + b.String()
}
