package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yagoscalfoni/order-processing/internal/domain"
)

// MapperRepository stores orders with hand-written SQL and no entity tracking.
type MapperRepository struct {
	pool *pgxpool.Pool
}

func NewMapperRepository(pool *pgxpool.Pool) *MapperRepository {
	return &MapperRepository{pool: pool}
}

func (r *MapperRepository) CreateOrder(ctx context.Context, draft domain.OrderDraft) (int64, error) {
	var orderID int64
	err := withTx(ctx, r.pool, func(txCtx context.Context) error {
		q := conn(txCtx, r.pool)

		err := q.QueryRow(txCtx, insertOrderSQL,
			draft.CustomerID, draft.CreatedAt, draft.Total.Amount, draft.Total.Currency,
		).Scan(&orderID)
		if err != nil {
			return fmt.Errorf("insert order: %w", err)
		}

		batch := &pgx.Batch{}
		for _, line := range draft.Lines {
			batch.Queue(insertOrderItemSQL, orderID, line.SKU, line.Quantity, line.UnitPrice)
		}
		if err := q.SendBatch(txCtx, batch).Close(); err != nil {
			return fmt.Errorf("insert order items: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("create order: %w", err)
	}
	return orderID, nil
}
