package valueobject

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Currency is an ISO 4217 code
type Currency string

const (
	CHF Currency = "CHF"
	EUR Currency = "EUR"
	USD Currency = "USD"
	GBP Currency = "GBP"
)

// ParseCurrency normalises a currency code. It does not restrict the code to the
// constants above; callers decide which currencies they support.
func ParseCurrency(code string) (Currency, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != 3 {
		return "", fmt.Errorf("invalid currency code %q", code)
	}
	return Currency(code), nil
}

func (c Currency) String() string {
	return string(c)
}

// IsSwissPayment returns true for the currencies accepted on Swiss payment slips
func (c Currency) IsSwissPayment() bool {
	return c == CHF || c == EUR
}

// Money is an amount due in a currency. Operations return new values.
type Money struct {
	amount   decimal.Decimal
	currency Currency
}

// NewMoney returns amount in currency; the currency is required.
func NewMoney(amount decimal.Decimal, currency Currency) (Money, error) {
	if currency == "" {
		return Money{}, errors.New("currency cannot be empty")
	}
	return Money{amount: amount, currency: currency}, nil
}

func (m Money) IsNegative() bool {
	return m.amount.IsNegative()
}

// Round rounds half away from zero to places decimals.
func (m Money) Round(places int32) Money {
	return Money{amount: m.amount.Round(places), currency: m.currency}
}

// SplitUnitsCents rounds the amount to places decimals and returns the integer and
// fractional digits separately, e.g. 3949.75 -> "3949", "75" and 494 -> "494", "00".
// The sign is dropped; check IsNegative first when it matters.
func (m Money) SplitUnitsCents(places int32) (units, cents string) {
	fixed := m.amount.Abs().StringFixed(places)
	units, cents, _ = strings.Cut(fixed, ".")
	return units, cents
}

// String formats the amount the way slips print it, "3949.75 CHF".
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.amount.StringFixed(2), m.currency)
}
