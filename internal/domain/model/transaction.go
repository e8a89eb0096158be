package model

import (
	"fmt"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// Transaction is the immutable scoring input. Amounts are already expressed
// in the settlement currency. BeneficiaryCountry and PaymentNarrative are
// optional; the empty string means absent.
type Transaction struct {
	TransactionID      string
	AccountID          string
	ValueDate          civil.Date
	SettlementAmount   decimal.Decimal
	BeneficiaryCountry string
	PaymentNarrative   string
}

// Validate rejects inputs no rule can run against.
func (t Transaction) Validate() error {
	if strings.TrimSpace(t.AccountID) == "" {
		return fmt.Errorf("%w: account_id is required", ErrInvalidTransaction)
	}
	if t.ValueDate.IsZero() || !t.ValueDate.IsValid() {
		return fmt.Errorf("%w: value_date is required", ErrInvalidTransaction)
	}
	if t.SettlementAmount.IsNegative() {
		return fmt.Errorf("%w: settlement_amount must be non-negative, got %s", ErrInvalidTransaction, t.SettlementAmount)
	}
	return nil
}

// HasBeneficiaryCountry reports whether a country code was supplied.
func (t Transaction) HasBeneficiaryCountry() bool {
	return strings.TrimSpace(t.BeneficiaryCountry) != ""
}
