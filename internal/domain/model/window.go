package model

import (
	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// WindowQuery selects an account's history for a date range and amount band,
// both bounds inclusive on each axis.
type WindowQuery struct {
	AccountID string
	DateFrom  civil.Date
	DateTo    civil.Date
	AmountMin decimal.Decimal
	AmountMax decimal.Decimal
}

// WindowEntry is the projection the structuring rule needs from history.
type WindowEntry struct {
	TransactionID    string
	ValueDate        civil.Date
	SettlementAmount decimal.Decimal
}

// Matches reports whether e falls inside q. Adapters that filter in memory use it.
func (q WindowQuery) Matches(accountID string, e WindowEntry) bool {
	if accountID != q.AccountID {
		return false
	}
	if e.ValueDate.Before(q.DateFrom) || e.ValueDate.After(q.DateTo) {
		return false
	}
	return e.SettlementAmount.GreaterThanOrEqual(q.AmountMin) && e.SettlementAmount.LessThanOrEqual(q.AmountMax)
}
