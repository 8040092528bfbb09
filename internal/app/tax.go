package app

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/yagoscalfoni/order-processing/internal/domain"
)

// TaxClient resolves the tax owed on a subtotal.
type TaxClient interface {
	GetTax(ctx context.Context, subtotal domain.Money) (domain.Money, error)
}

var (
	// DefaultTaxRate applies to currencies missing from the rate table.
	DefaultTaxRate = decimal.RequireFromString("0.05")

	defaultTaxRates = map[string]decimal.Decimal{
		"BRL": decimal.RequireFromString("0.12"),
		"USD": decimal.RequireFromString("0.07"),
	}
)

// StaticTaxClient looks rates up in an in-memory table. It never fails.
// The table is read-only after construction.
type StaticTaxClient struct {
	rates    map[string]decimal.Decimal
	fallback decimal.Decimal
}

type TaxOption func(*StaticTaxClient)

// WithRate sets the rate for one currency, replacing any built-in entry.
func WithRate(currency string, rate decimal.Decimal) TaxOption {
	return func(c *StaticTaxClient) {
		c.rates[strings.ToUpper(strings.TrimSpace(currency))] = rate
	}
}

// WithDefaultRate overrides the fallback used for unknown currencies.
func WithDefaultRate(rate decimal.Decimal) TaxOption {
	return func(c *StaticTaxClient) {
		c.fallback = rate
	}
}

func NewStaticTaxClient(opts ...TaxOption) *StaticTaxClient {
	c := &StaticTaxClient{
		rates:    make(map[string]decimal.Decimal, len(defaultTaxRates)),
		fallback: DefaultTaxRate,
	}
	for code, rate := range defaultTaxRates {
		c.rates[code] = rate
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Rate returns the rate for a currency, matched case-insensitively.
func (c *StaticTaxClient) Rate(currency string) decimal.Decimal {
	if rate, ok := c.rates[strings.ToUpper(strings.TrimSpace(currency))]; ok {
		return rate
	}
	return c.fallback
}

func (c *StaticTaxClient) GetTax(_ context.Context, subtotal domain.Money) (domain.Money, error) {
	return domain.NewMoney(subtotal.Amount.Mul(c.Rate(subtotal.Currency)), subtotal.Currency), nil
}
