package postgres

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/yagoscalfoni/order-processing/internal/domain"
)

// SyncRepository is the blocking variant of MapperRepository, built on
// database/sql and the lib/pq driver.
type SyncRepository struct {
	db *sql.DB
}

// OpenSyncRepository opens a dedicated database/sql handle for dsn.
func OpenSyncRepository(dsn string, maxConns int) (*SyncRepository, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if maxConns > 0 {
		db.SetMaxOpenConns(maxConns)
	}
	return &SyncRepository{db: db}, nil
}

func (r *SyncRepository) Ping() error {
	return r.db.Ping()
}

func (r *SyncRepository) Close() error {
	return r.db.Close()
}

func (r *SyncRepository) CreateOrderSync(draft domain.OrderDraft) (id int64, err error) {
	tx, err := r.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	err = tx.QueryRow(insertOrderSQL,
		draft.CustomerID, draft.CreatedAt, draft.Total.Amount, draft.Total.Currency,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert order: %w", err)
	}

	stmt, err := tx.Prepare(insertOrderItemSQL)
	if err != nil {
		return 0, fmt.Errorf("prepare order item insert: %w", err)
	}
	defer stmt.Close()

	for _, line := range draft.Lines {
		if _, err = stmt.Exec(id, line.SKU, line.Quantity, line.UnitPrice); err != nil {
			return 0, fmt.Errorf("insert order item %s: %w", line.SKU, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return id, nil
}
