package fxrate

import (
	"context"
	"fmt"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/bibbank/aml-service/internal/domain/port"
	"github.com/bibbank/aml-service/pkg/money"
)

// Compile-time assertion that StaticProvider implements port.RateProvider.
var _ port.RateProvider = (*StaticProvider)(nil)

// defaultStaticRates are USD per unit of currency.
var defaultStaticRates = map[string]string{
	"EUR": "1.0850",
	"GBP": "1.2650",
	"CHF": "1.1338",
	"JPY": "0.006689",
	"CAD": "0.7364",
	"AUD": "0.6520",
	"NZD": "0.6080",
	"AED": "0.2723",
	"INR": "0.01203",
	"CNY": "0.1381",
}

// StaticProvider returns fixed settlement rates regardless of value date.
// It is intended for development, testing, and CI environments.
type StaticProvider struct {
	rates map[string]decimal.Decimal
}

// NewStaticProvider creates a provider over the built-in table.
func NewStaticProvider() *StaticProvider {
	rates := make(map[string]decimal.Decimal, len(defaultStaticRates))
	for code, s := range defaultStaticRates {
		rates[code] = decimal.RequireFromString(s)
	}
	return &StaticProvider{rates: rates}
}

// NewStaticProviderFromRates creates a provider over rates, keyed by ISO code.
func NewStaticProviderFromRates(rates map[string]decimal.Decimal) *StaticProvider {
	return &StaticProvider{rates: rates}
}

// SettlementRate returns the fixed rate for currency.
func (p *StaticProvider) SettlementRate(_ context.Context, currency money.Currency, _ civil.Date) (decimal.Decimal, error) {
	if currency == money.USD {
		return decimal.NewFromInt(1), nil
	}
	rate, ok := p.rates[currency.Code()]
	if !ok {
		return decimal.Zero, fmt.Errorf("no static rate available for %s", currency)
	}
	return rate, nil
}
