package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/yagoscalfoni/order-processing/internal/domain"
)

const callCreateOrder = `SELECT create_order_sp($1, $2, $3, $4, $5::jsonb)`

// ProcedureRepository delegates the whole insert to the create_order_sp
// database function, which owns the transaction.
type ProcedureRepository struct {
	pool *pgxpool.Pool
}

func NewProcedureRepository(pool *pgxpool.Pool) *ProcedureRepository {
	return &ProcedureRepository{pool: pool}
}

type procedureItem struct {
	SKU       string          `json:"sku"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

func (r *ProcedureRepository) CreateOrder(ctx context.Context, draft domain.OrderDraft) (int64, error) {
	items := make([]procedureItem, 0, len(draft.Lines))
	for _, line := range draft.Lines {
		items = append(items, procedureItem{SKU: line.SKU, Quantity: line.Quantity, UnitPrice: line.UnitPrice})
	}
	payload, err := json.Marshal(items)
	if err != nil {
		return 0, fmt.Errorf("encode order items: %w", err)
	}

	var orderID int64
	err = r.pool.QueryRow(ctx, callCreateOrder,
		draft.CustomerID, draft.CreatedAt, draft.Total.Currency, draft.Total.Amount, string(payload),
	).Scan(&orderID)
	if err != nil {
		return 0, fmt.Errorf("call create_order_sp: %w", err)
	}
	return orderID, nil
}
