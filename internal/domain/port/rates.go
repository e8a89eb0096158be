package port

import (
	"context"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/bibbank/aml-service/pkg/money"
)

// RateProvider quotes the multiplier converting one unit of currency into
// the settlement currency on a given value date.
type RateProvider interface {
	SettlementRate(ctx context.Context, currency money.Currency, date civil.Date) (decimal.Decimal, error)
}

// RateCache is a shared cache of settlement rates keyed by (date, currency).
// A miss is reported as found=false with a nil error.
type RateCache interface {
	Get(ctx context.Context, currency money.Currency, date civil.Date) (rate decimal.Decimal, found bool, err error)
	Set(ctx context.Context, currency money.Currency, date civil.Date, rate decimal.Decimal, ttl time.Duration) error
}
