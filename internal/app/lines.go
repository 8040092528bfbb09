package app

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/yagoscalfoni/order-processing/internal/domain"
)

// NormalizeSKU trims surrounding whitespace and upper-cases the code.
// Blank input normalizes to "".
func NormalizeSKU(sku string) string {
	trimmed := strings.TrimSpace(sku)
	if trimmed == "" {
		return ""
	}
	return strings.ToUpper(trimmed)
}

// NormalizeLines builds the canonical lines for a request. The returned slice
// is fully materialized and owned by the caller.
func NormalizeLines(items []OrderItemInput) []domain.OrderLine {
	lines := make([]domain.OrderLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, domain.OrderLine{
			SKU:       NormalizeSKU(item.SKU),
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}
	return lines
}

// Subtotal sums the extended price of every line in the requested currency.
// No conversion happens: all lines are priced in that currency.
func Subtotal(lines []domain.OrderLine, currency string) domain.Money {
	sum := decimal.Zero
	for _, line := range lines {
		sum = sum.Add(line.ExtendedPrice())
	}
	return domain.NewMoney(sum, currency)
}
