package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// AmountScale is the number of decimal places stored for prices and totals.
const AmountScale int32 = 4

// Money is a currency-tagged decimal amount.
type Money struct {
	Amount   decimal.Decimal
	Currency string
}

func NewMoney(amount decimal.Decimal, currency string) Money {
	return Money{Amount: amount, Currency: currency}
}

// Zero returns a zero amount in the given currency.
func Zero(currency string) Money {
	return Money{Amount: decimal.Zero, Currency: currency}
}

// SameCurrency compares currency codes case-insensitively.
func (m Money) SameCurrency(other Money) bool {
	return strings.EqualFold(m.Currency, other.Currency)
}

// Add sums two amounts of the same currency. The result keeps m's currency code.
func (m Money) Add(other Money) (Money, error) {
	if !m.SameCurrency(other) {
		return Money{}, fmt.Errorf("%w: %s + %s", ErrCurrencyMismatch, m.Currency, other.Currency)
	}
	return Money{Amount: m.Amount.Add(other.Amount), Currency: m.Currency}, nil
}

// MustAdd is Add for call sites where a mismatch can only be a programming error.
func (m Money) MustAdd(other Money) Money {
	sum, err := m.Add(other)
	if err != nil {
		panic(err)
	}
	return sum
}

// Round rounds the amount half away from zero to AmountScale places.
func (m Money) Round() Money {
	return Money{Amount: m.Amount.Round(AmountScale), Currency: m.Currency}
}

// FitsScale reports whether d is representable with AmountScale decimal places.
func FitsScale(d decimal.Decimal) bool {
	return d.Equal(d.Round(AmountScale))
}

func (m Money) String() string {
	return m.Amount.StringFixed(2) + " " + m.Currency
}
