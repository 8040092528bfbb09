package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderLine is a normalized request item.
type OrderLine struct {
	SKU       string
	Quantity  int
	UnitPrice decimal.Decimal
}

// ExtendedPrice is unit price times quantity.
func (l OrderLine) ExtendedPrice() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// OrderDraft is a fully computed order that has not been stored yet.
type OrderDraft struct {
	CustomerID uuid.UUID
	CreatedAt  time.Time
	Total      Money
	Lines      []OrderLine
}

// Order is the stored form of a draft, identified by the id storage assigned.
type Order struct {
	ID          int64
	CustomerID  uuid.UUID
	CreatedAt   time.Time
	TotalAmount decimal.Decimal
	Currency    string
	Items       []OrderItem
}

type OrderItem struct {
	ID        int64
	OrderID   int64
	SKU       string
	Quantity  int
	UnitPrice decimal.Decimal
}

// OrderMetric is emitted once per stored order.
type OrderMetric struct {
	OrderID     int64
	TotalAmount decimal.Decimal
	CreatedAt   time.Time
}
