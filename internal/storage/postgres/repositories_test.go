package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yagoscalfoni/order-processing/internal/app"
	"github.com/yagoscalfoni/order-processing/internal/domain"
	"github.com/yagoscalfoni/order-processing/internal/testutil"
)

func testDraft() domain.OrderDraft {
	return domain.OrderDraft{
		CustomerID: uuid.MustParse("11111111-1111-1111-1111-111111111111"),
		CreatedAt:  time.Date(2025, 1, 2, 10, 0, 0, 0, time.UTC),
		Total:      domain.NewMoney(decimal.RequireFromString("24.50"), "USD"),
		Lines: []domain.OrderLine{
			{SKU: "SKU-001", Quantity: 2, UnitPrice: decimal.RequireFromString("10.00")},
			{SKU: "SKU-002", Quantity: 1, UnitPrice: decimal.RequireFromString("2.90")},
		},
	}
}

func TestOrderCreators(t *testing.T) {
	pool := testutil.NewTestPool(t)
	ctx := context.Background()
	testutil.ApplyMigrations(t, ctx, pool)

	gormRepo, err := NewGormRepository(pool)
	require.NoError(t, err)
	syncRepo, err := OpenSyncRepository(testutil.DatabaseURL(), 2)
	require.NoError(t, err)
	t.Cleanup(func() { _ = syncRepo.Close() })

	strategies := []struct {
		name    string
		creator app.OrderCreator
	}{
		{name: "orm", creator: gormRepo},
		{name: "mapper", creator: NewMapperRepository(pool)},
		{name: "procedure", creator: NewProcedureRepository(pool)},
		{name: "sync", creator: app.FromSync(syncRepo)},
	}

	for _, s := range strategies {
		t.Run(s.name+" stores order and lines", func(t *testing.T) {
			testutil.TruncateAll(t, ctx, pool)
			draft := testDraft()

			id, err := s.creator.CreateOrder(ctx, draft)
			require.NoError(t, err)
			assert.Positive(t, id)

			got, err := gormRepo.GetOrderByID(ctx, id)
			require.NoError(t, err)
			assert.Equal(t, id, got.ID)
			assert.Equal(t, draft.CustomerID, got.CustomerID)
			assert.Equal(t, "USD", got.Currency)
			assert.True(t, got.TotalAmount.Equal(draft.Total.Amount), "total %s", got.TotalAmount)
			assert.True(t, got.CreatedAt.Equal(draft.CreatedAt), "created_at %v", got.CreatedAt)

			require.Len(t, got.Items, 2)
			for i, line := range draft.Lines {
				assert.Equal(t, id, got.Items[i].OrderID)
				assert.Equal(t, line.SKU, got.Items[i].SKU)
				assert.Equal(t, line.Quantity, got.Items[i].Quantity)
				assert.True(t, got.Items[i].UnitPrice.Equal(line.UnitPrice))
			}
		})

		t.Run(s.name+" assigns distinct ids", func(t *testing.T) {
			testutil.TruncateAll(t, ctx, pool)

			first, err := s.creator.CreateOrder(ctx, testDraft())
			require.NoError(t, err)
			second, err := s.creator.CreateOrder(ctx, testDraft())
			require.NoError(t, err)
			assert.NotEqual(t, first, second)
		})

		t.Run(s.name+" leaves nothing behind when a line is rejected", func(t *testing.T) {
			testutil.TruncateAll(t, ctx, pool)
			draft := testDraft()
			draft.Lines[1].Quantity = 0

			_, err := s.creator.CreateOrder(ctx, draft)
			require.Error(t, err)

			orders, items := testutil.CountOrders(t, ctx, pool)
			assert.Zero(t, orders)
			assert.Zero(t, items)
		})
	}
}

func TestGormRepository_GetOrderByIDNotFound(t *testing.T) {
	pool := testutil.NewTestPool(t)
	ctx := context.Background()
	testutil.ApplyMigrations(t, ctx, pool)
	testutil.TruncateAll(t, ctx, pool)

	repo, err := NewGormRepository(pool)
	require.NoError(t, err)

	_, err = repo.GetOrderByID(ctx, 424242)
	assert.True(t, errors.Is(err, domain.ErrOrderNotFound))
}

func TestMapperRepository_JoinsOuterTransaction(t *testing.T) {
	pool := testutil.NewTestPool(t)
	ctx := context.Background()
	testutil.ApplyMigrations(t, ctx, pool)
	testutil.TruncateAll(t, ctx, pool)

	repo := NewMapperRepository(pool)
	abort := errors.New("abort")

	err := withTx(ctx, pool, func(txCtx context.Context) error {
		id, err := repo.CreateOrder(txCtx, testDraft())
		if err != nil {
			return err
		}
		if id <= 0 {
			t.Errorf("expected id, got %d", id)
		}
		return abort
	})
	require.True(t, errors.Is(err, abort))

	orders, items := testutil.CountOrders(t, ctx, pool)
	assert.Zero(t, orders)
	assert.Zero(t, items)
}
