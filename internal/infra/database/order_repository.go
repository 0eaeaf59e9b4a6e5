package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type OrderRepository struct {
	DB *sql.DB
}

func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{DB: db}
}

// Create stores the order and moves the customer aggregates forward in one
// transaction. Backfilled orders older than the latest one leave
// last_order_date alone.
func (r *OrderRepository) Create(ctx context.Context, o *entity.Order) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("start order transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO orders (id, customer_id, amount, status, created_at) VALUES ($1, $2, $3, $4, $5)`,
		o.ID, o.CustomerID, o.Amount, o.Status, o.CreatedAt,
	)
	if err != nil {
		if hasPQCode(err, foreignKeyViolation) || hasPQCode(err, invalidTextRepresentation) {
			return entity.ErrCustomerNotFound
		}
		return fmt.Errorf("insert order: %w", err)
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE customers
		SET total_spend = total_spend + $2,
		    visit_count = visit_count + 1,
		    last_order_date = GREATEST(COALESCE(last_order_date, $3), $3)
		WHERE id = $1
	`, o.CustomerID, o.Amount, o.CreatedAt)
	if err != nil {
		return fmt.Errorf("apply order to customer %s: %w", o.CustomerID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("apply order rows affected: %w", err)
	}
	if n == 0 {
		return entity.ErrCustomerNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit order: %w", err)
	}
	return nil
}

// List returns the newest orders first; an empty customerID lists all orders.
func (r *OrderRepository) List(ctx context.Context, customerID string, limit int) ([]*entity.Order, error) {
	query := `
		SELECT id, customer_id, amount, status, created_at
		FROM orders
		WHERE ($1 = '' OR customer_id::text = $1)
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.DB.QueryContext(ctx, query, customerID, limit)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders := make([]*entity.Order, 0)
	for rows.Next() {
		var o entity.Order
		if err := rows.Scan(&o.ID, &o.CustomerID, &o.Amount, &o.Status, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, &o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}
	return orders, nil
}
