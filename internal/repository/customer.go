package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/elliemck/boba-pos/internal/domain/customer"
)

const (
	findCustomerSQL = `SELECT customer_id, first_name, last_name, phone_number, loyalty_points
		FROM customers
		WHERE LOWER(first_name) = LOWER($1) AND LOWER(last_name) = LOWER($2)`

	adjustPointsSQL = `UPDATE customers
		SET loyalty_points = GREATEST(loyalty_points + $3, 0)
		WHERE LOWER(first_name) = LOWER($1) AND LOWER(last_name) = LOWER($2)
		RETURNING loyalty_points`
)

var _ customer.Repository = (*CustomerRepository)(nil)

// CustomerRepository implements customer.Repository backed by PostgreSQL.
type CustomerRepository struct {
	pool *pgxpool.Pool
}

// NewCustomerRepository returns a CustomerRepository that uses the given pool.
func NewCustomerRepository(pool *pgxpool.Pool) *CustomerRepository {
	return &CustomerRepository{pool: pool}
}

// FindByName resolves a rewards member by case-insensitive first and last name.
func (r *CustomerRepository) FindByName(ctx context.Context, first, last string) (*customer.Customer, error) {
	rows, err := r.pool.Query(ctx, findCustomerSQL, first, last)
	if err != nil {
		return nil, fmt.Errorf("finding customer %q %q: %w", first, last, err)
	}

	c, err := pgx.CollectExactlyOneRow(rows, func(row pgx.CollectableRow) (customer.Customer, error) {
		var c customer.Customer
		err := row.Scan(&c.ID, &c.FirstName, &c.LastName, &c.PhoneNumber, &c.Points)
		return c, err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, customer.ErrNotFound
		}
		return nil, fmt.Errorf("finding customer %q %q: %w", first, last, err)
	}
	return &c, nil
}

// AdjustPoints applies a signed delta to the member's balance in one
// statement. The balance floors at zero.
func (r *CustomerRepository) AdjustPoints(ctx context.Context, first, last string, delta int64) (int64, error) {
	var balance int64
	err := r.pool.QueryRow(ctx, adjustPointsSQL, first, last, delta).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, customer.ErrNotFound
		}
		return 0, fmt.Errorf("adjusting points for %q %q: %w", first, last, err)
	}
	return balance, nil
}
