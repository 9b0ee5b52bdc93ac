package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/elliemck/boba-pos/internal/domain/order"
)

const (
	createOrderSQL = `INSERT INTO orders
		(subtotal, sales_tax, tips, order_price, payment_method, order_date, order_time, employee_id, customer_id)
		VALUES ($1, $2, $3, $4, $5, $6::date, $6::time, $7, $8)
		RETURNING order_id`

	createDrinkSQL = `INSERT INTO drinks
		(order_id, item_id, item_name, cup_size, sugar_level, ice_amount, drink_price)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING drink_id`

	createToppingSQL = `INSERT INTO drink_toppings (drink_id, topping_id, topping_name, position)
		VALUES ($1, $2, $3, $4)`

	maxOrderNumberSQL = `SELECT COALESCE(MAX(order_id), 0) FROM orders`
)

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository backed by PostgreSQL.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Create persists the order header and every drink row in one transaction.
// The order number comes from the sequence behind order_id via RETURNING, so
// allocation and insertion are a single atomic step.
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) (int64, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("beginning order transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var orderID int64
	err = tx.QueryRow(ctx, createOrderSQL,
		o.Subtotal, o.Tax, o.Tip, o.Total, o.PaymentMethod,
		o.PlacedAt, o.EmployeeID, o.CustomerID,
	).Scan(&orderID)
	if err != nil {
		return 0, fmt.Errorf("creating order: %w", err)
	}

	for _, d := range o.Drinks {
		var drinkID int64
		err = tx.QueryRow(ctx, createDrinkSQL,
			orderID, d.ItemID, d.ItemName,
			d.Size.ID, d.Sugar.ID, d.Ice.ID, d.Price,
		).Scan(&drinkID)
		if err != nil {
			return 0, fmt.Errorf("creating drink row for order %d: %w", orderID, err)
		}

		for pos, topping := range d.Toppings {
			_, err = tx.Exec(ctx, createToppingSQL, drinkID, topping.ID, topping.Name, pos)
			if err != nil {
				return 0, fmt.Errorf("creating topping row for drink %d: %w", drinkID, err)
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("committing order %d: %w", orderID, err)
	}

	o.Number = orderID
	return orderID, nil
}

// MaxNumber returns the highest allocated order number, 0 when none exist.
func (r *OrderRepository) MaxNumber(ctx context.Context) (int64, error) {
	var max int64
	if err := r.pool.QueryRow(ctx, maxOrderNumberSQL).Scan(&max); err != nil {
		return 0, fmt.Errorf("reading max order number: %w", err)
	}
	return max, nil
}
