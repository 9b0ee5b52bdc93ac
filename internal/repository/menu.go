package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/elliemck/boba-pos/internal/domain/catalog"
)

const (
	listMenuByCategorySQL = `SELECT menu_id, item_name, item_price, category, photo, description
		FROM menu WHERE category = $1 ORDER BY menu_id`

	getMenuByIDSQL = `SELECT menu_id, item_name, item_price, category, photo, description
		FROM menu WHERE menu_id = $1`

	findMenuByNameSQL = `SELECT menu_id, item_name, item_price, category, photo, description
		FROM menu WHERE category = $1 AND LOWER(item_name) = LOWER($2)`
)

var _ catalog.Repository = (*MenuRepository)(nil)

// MenuRepository implements catalog.Repository backed by PostgreSQL.
type MenuRepository struct {
	pool *pgxpool.Pool
}

// NewMenuRepository returns a MenuRepository that uses the given pool.
func NewMenuRepository(pool *pgxpool.Pool) *MenuRepository {
	return &MenuRepository{pool: pool}
}

// ListByCategory returns all menu rows in a category ordered by id.
func (r *MenuRepository) ListByCategory(ctx context.Context, category string) ([]catalog.Item, error) {
	rows, err := r.pool.Query(ctx, listMenuByCategorySQL, category)
	if err != nil {
		return nil, fmt.Errorf("listing menu category %q: %w", category, err)
	}
	return pgx.CollectRows(rows, scanMenuItem)
}

// GetByID returns a single menu row by its identifier.
func (r *MenuRepository) GetByID(ctx context.Context, id int64) (*catalog.Item, error) {
	rows, err := r.pool.Query(ctx, getMenuByIDSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting menu item %d: %w", id, err)
	}

	item, err := pgx.CollectExactlyOneRow(rows, scanMenuItem)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrNotFound
		}
		return nil, fmt.Errorf("getting menu item %d: %w", id, err)
	}
	return &item, nil
}

// FindByName resolves a menu row by case-insensitive name within a category.
func (r *MenuRepository) FindByName(ctx context.Context, category, name string) (*catalog.Item, error) {
	rows, err := r.pool.Query(ctx, findMenuByNameSQL, category, name)
	if err != nil {
		return nil, fmt.Errorf("finding menu item %q in %q: %w", name, category, err)
	}

	item, err := pgx.CollectExactlyOneRow(rows, scanMenuItem)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrNotFound
		}
		return nil, fmt.Errorf("finding menu item %q in %q: %w", name, category, err)
	}
	return &item, nil
}

func scanMenuItem(row pgx.CollectableRow) (catalog.Item, error) {
	var (
		item  catalog.Item
		price decimal.Decimal
	)
	err := row.Scan(&item.ID, &item.Name, &price, &item.Category, &item.Photo, &item.Description)
	item.Price = price
	return item, err
}
