package catalog

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested menu item does not exist.
var ErrNotFound = errors.New("menu item not found")

// Category tags partition the menu table. Drinks and toppings are sellable;
// the modifier categories hold the named size/sugar/ice entries that drink
// rows reference.
const (
	CategoryDrink   = "Drink"
	CategoryTopping = "Topping"
	CategorySize    = "Modifier-Size"
	CategorySugar   = "Modifier-Sugar"
	CategoryIce     = "Modifier-Ice"
)

// Item is a menu catalog entry. Immutable once fetched.
type Item struct {
	ID          int64
	Name        string
	Price       decimal.Decimal
	Category    string
	Photo       string
	Description string
}

// Repository defines read operations on the menu catalog.
type Repository interface {
	ListByCategory(ctx context.Context, category string) ([]Item, error)
	GetByID(ctx context.Context, id int64) (*Item, error)
	// FindByName resolves an item by name within a category. Returns
	// ErrNotFound when no item matches; callers decide whether a miss is
	// fatal (it is not during order placement).
	FindByName(ctx context.Context, category, name string) (*Item, error)
}
