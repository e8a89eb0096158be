package service

import (
	"context"
	"fmt"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/bibbank/aml-service/internal/domain/model"
	"github.com/bibbank/aml-service/internal/domain/port"
	"github.com/bibbank/aml-service/pkg/money"
)

// SettlementConverter normalizes original amounts into the settlement currency.
type SettlementConverter struct {
	rates port.RateProvider
}

// NewSettlementConverter creates a converter backed by rates.
func NewSettlementConverter(rates port.RateProvider) *SettlementConverter {
	return &SettlementConverter{rates: rates}
}

// ConvertToSettlement returns the settlement amount, rounded to cents, and
// the rate applied. Settlement-currency amounts pass through at rate 1
// without a lookup. Any provider failure is reported as
// model.ErrRateUnavailable.
func (c *SettlementConverter) ConvertToSettlement(ctx context.Context, amount money.Money, date civil.Date) (decimal.Decimal, decimal.Decimal, error) {
	if amount.Currency() == money.USD {
		return amount.RoundCents().Amount(), decimal.NewFromInt(1), nil
	}

	rate, err := c.rates.SettlementRate(ctx, amount.Currency(), date)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("%w: %s on %s: %w", model.ErrRateUnavailable, amount.Currency(), date, err)
	}
	if !rate.IsPositive() {
		return decimal.Zero, decimal.Zero, fmt.Errorf("%w: non-positive rate %s for %s on %s", model.ErrRateUnavailable, rate, amount.Currency(), date)
	}

	return amount.Convert(rate, money.USD).Amount(), rate, nil
}
