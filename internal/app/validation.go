package app

import (
	"fmt"
	"iter"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/yagoscalfoni/order-processing/internal/domain"
)

// MaxLineQuantity is the largest quantity accepted for a single line.
const MaxLineQuantity = 10_000

type OrderItemInput struct {
	SKU       string
	Quantity  int
	UnitPrice decimal.Decimal
}

type CreateOrderInput struct {
	CustomerID uuid.UUID
	Currency   string
	Items      []OrderItemInput
}

// Validate yields one message per violated rule. Every rule is evaluated;
// nothing short-circuits, so callers see the complete list.
func Validate(in CreateOrderInput) iter.Seq[string] {
	return func(yield func(string) bool) {
		if in.CustomerID == uuid.Nil {
			if !yield("invalid customer id") {
				return
			}
		}
		if strings.TrimSpace(in.Currency) == "" {
			if !yield("currency required") {
				return
			}
		}
		if len(in.Items) == 0 {
			if !yield("at least one item required") {
				return
			}
		}
		for _, item := range in.Items {
			if item.Quantity <= 0 || item.Quantity > MaxLineQuantity {
				if !yield(fmt.Sprintf("invalid quantity for SKU %s", item.SKU)) {
					return
				}
			}
			if !item.UnitPrice.IsPositive() || !domain.FitsScale(item.UnitPrice) {
				if !yield(fmt.Sprintf("invalid price for SKU %s", item.SKU)) {
					return
				}
			}
		}
	}
}
