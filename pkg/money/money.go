package money

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// CentPlaces is the precision settlement amounts are kept at. Converted
// amounts are rounded half to even.
const CentPlaces = 2

var (
	currencyCodeRe = regexp.MustCompile(`^[A-Z]{3}$`)
	groupedAmount  = regexp.MustCompile(`^[+-]?\d{1,3}(,\d{3})+(\.\d+)?$`)
)

// ErrEmptyAmount is returned by ParseAmount for blank input.
var ErrEmptyAmount = errors.New("amount is empty")

// Currency is an ISO 4217 currency code.
type Currency struct {
	code string
}

// NewCurrency creates a Currency after validating the code is exactly 3 uppercase letters.
func NewCurrency(code string) (Currency, error) {
	if !currencyCodeRe.MatchString(code) {
		return Currency{}, fmt.Errorf("invalid currency code %q: must be exactly 3 uppercase letters", code)
	}
	return Currency{code: code}, nil
}

// ParseCurrency normalizes free-form input (" usd ") before validating it.
func ParseCurrency(code string) (Currency, error) {
	return NewCurrency(strings.ToUpper(strings.TrimSpace(code)))
}

// MustCurrency creates a Currency and panics on error. Intended for package-level variable
// initialization only.
func MustCurrency(code string) Currency {
	c, err := NewCurrency(code)
	if err != nil {
		panic(err)
	}
	return c
}

// Code returns the ISO 4217 currency code.
func (c Currency) Code() string {
	return c.code
}

func (c Currency) String() string {
	return c.code
}

// USD is the settlement currency every amount is normalized to before scoring.
var USD = MustCurrency("USD")

// ParseAmount parses a decimal amount as it appears in payment files and API
// payloads. Surrounding whitespace is ignored and comma thousands separators
// are accepted when they group correctly ("1,000,000.00"). The sign is kept.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrEmptyAmount
	}
	if groupedAmount.MatchString(s) {
		s = strings.ReplaceAll(s, ",", "")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", s)
	}
	return d, nil
}

// Money is an amount in an original currency.
type Money struct {
	amount   decimal.Decimal
	currency Currency
}

// New creates a Money value from a decimal amount and currency.
func New(amount decimal.Decimal, currency Currency) Money {
	return Money{amount: amount, currency: currency}
}

// Amount returns the decimal amount.
func (m Money) Amount() decimal.Decimal {
	return m.amount
}

// Currency returns the currency.
func (m Money) Currency() Currency {
	return m.currency
}

// Convert multiplies by rate, re-denominates in target and rounds to cents.
func (m Money) Convert(rate decimal.Decimal, target Currency) Money {
	return Money{amount: m.amount.Mul(rate).RoundBank(CentPlaces), currency: target}
}

// RoundCents rounds the amount half to even at CentPlaces.
func (m Money) RoundCents() Money {
	return Money{amount: m.amount.RoundBank(CentPlaces), currency: m.currency}
}

// Equal returns true if both the amount and currency of m and other are equal.
func (m Money) Equal(other Money) bool {
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

// String formats the Money value as "<amount> <currency>", e.g. "100.00 USD".
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.amount.StringFixed(CentPlaces), m.currency.Code())
}
