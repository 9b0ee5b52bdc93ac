package order

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Payment methods accepted at checkout.
const (
	PaymentCard = "card"
	PaymentCash = "cash"
)

// ModifierRef is a resolved reference to a modifier's menu row. ID is nil
// when name resolution missed at write time; the name is kept so the kitchen
// can still display the customization.
type ModifierRef struct {
	ID   *int64
	Name string
}

// Drink is one persisted drink unit. A cart line with quantity 3 fans out to
// 3 Drink rows, each carrying its own resolved modifier references.
type Drink struct {
	ItemID   *int64
	ItemName string
	Size     ModifierRef
	Sugar    ModifierRef
	Ice      ModifierRef
	Toppings []ModifierRef
	Price    decimal.Decimal
}

// Order is a persisted order header with its drink rows. Immutable once
// written except for tips in some flows.
type Order struct {
	Number        int64
	Drinks        []Drink
	Subtotal      decimal.Decimal
	Tax           decimal.Decimal
	Tip           decimal.Decimal
	Total         decimal.Decimal
	PaymentMethod string
	EmployeeID    *int64
	CustomerID    *int64
	PlacedAt      time.Time
}

// Repository defines persistence for orders. Create must write the header
// and all drink rows in a single transaction and return the order number
// allocated by the store; allocation has to be serialized so concurrent
// checkouts never share a number.
type Repository interface {
	Create(ctx context.Context, o *Order) (int64, error)
	MaxNumber(ctx context.Context) (int64, error)
}
