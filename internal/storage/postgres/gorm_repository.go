package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/shopspring/decimal"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/yagoscalfoni/order-processing/internal/domain"
)

type orderEntity struct {
	ID           int64             `gorm:"primaryKey;column:id"`
	CustomerID   uuid.UUID         `gorm:"type:uuid;not null;column:customer_id"`
	CreatedAtUTC time.Time         `gorm:"not null;column:created_at_utc"`
	TotalAmount  decimal.Decimal   `gorm:"type:numeric(18,4);not null;column:total_amount"`
	Currency     string            `gorm:"type:text;not null;column:currency"`
	Items        []orderItemEntity `gorm:"foreignKey:OrderID"`
}

func (orderEntity) TableName() string { return "orders" }

type orderItemEntity struct {
	ID        int64           `gorm:"primaryKey;column:id"`
	OrderID   int64           `gorm:"not null;column:order_id"`
	SKU       string          `gorm:"type:text;not null;column:sku"`
	Quantity  int             `gorm:"not null;column:quantity"`
	UnitPrice decimal.Decimal `gorm:"type:numeric(18,4);not null;column:unit_price"`
}

func (orderItemEntity) TableName() string { return "order_items" }

// GormRepository stores orders through the ORM. The order and its items are
// written by a single Create, which GORM wraps in a transaction.
type GormRepository struct {
	db *gorm.DB
}

// NewGormRepository opens a GORM session on top of the shared pgx pool.
func NewGormRepository(pool *pgxpool.Pool) (*GormRepository, error) {
	sqlDB := stdlib.OpenDBFromPool(pool)
	db, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open gorm: %w", err)
	}
	return &GormRepository{db: db}, nil
}

func (r *GormRepository) CreateOrder(ctx context.Context, draft domain.OrderDraft) (int64, error) {
	entity := orderEntity{
		CustomerID:   draft.CustomerID,
		CreatedAtUTC: draft.CreatedAt,
		TotalAmount:  draft.Total.Amount,
		Currency:     draft.Total.Currency,
		Items:        make([]orderItemEntity, 0, len(draft.Lines)),
	}
	for _, line := range draft.Lines {
		entity.Items = append(entity.Items, orderItemEntity{
			SKU:       line.SKU,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		})
	}

	if err := r.db.WithContext(ctx).Create(&entity).Error; err != nil {
		return 0, fmt.Errorf("create order: %w", err)
	}
	return entity.ID, nil
}

// GetOrderByID reads an order and its items without going through the pipeline.
func (r *GormRepository) GetOrderByID(ctx context.Context, id int64) (domain.Order, error) {
	var entity orderEntity
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		First(&entity, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Order{}, domain.ErrOrderNotFound
		}
		return domain.Order{}, fmt.Errorf("get order: %w", err)
	}

	order := domain.Order{
		ID:          entity.ID,
		CustomerID:  entity.CustomerID,
		CreatedAt:   entity.CreatedAtUTC.UTC(),
		TotalAmount: entity.TotalAmount,
		Currency:    entity.Currency,
		Items:       make([]domain.OrderItem, 0, len(entity.Items)),
	}
	for _, item := range entity.Items {
		order.Items = append(order.Items, domain.OrderItem{
			ID:        item.ID,
			OrderID:   item.OrderID,
			SKU:       item.SKU,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}
	return order, nil
}
