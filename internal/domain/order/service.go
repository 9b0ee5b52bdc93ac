package order

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/elliemck/boba-pos/internal/domain/cart"
	"github.com/elliemck/boba-pos/internal/domain/catalog"
)

// Sentinel errors for checkout validation.
var (
	ErrEmptyCart   = errors.New("cart is empty")
	ErrNegativeTip = errors.New("tip must not be negative")
)

// InvalidPaymentMethodError indicates an unknown payment method.
type InvalidPaymentMethodError struct {
	Method string
}

func (e *InvalidPaymentMethodError) Error() string {
	return fmt.Sprintf("invalid payment method %q", e.Method)
}

// PlaceRequest holds the input for placing an order.
type PlaceRequest struct {
	Cart          *cart.Cart
	PaymentMethod string
	Tip           decimal.Decimal
	// TaxRate is the surface's published rate (kiosk and cashier differ).
	TaxRate decimal.Decimal
	// ClientTotal is the total the client computed. It is a display hint
	// only: the server recomputes from catalog prices and the hint is merely
	// compared, never persisted.
	ClientTotal *decimal.Decimal
	EmployeeID  *int64
	CustomerID  *int64
}

// Confirmation is the result of a successfully placed order.
type Confirmation struct {
	OrderNumber int64
	Subtotal    decimal.Decimal
	Tax         decimal.Decimal
	Tip         decimal.Decimal
	Total       decimal.Decimal
	// Warnings lists non-fatal problems, currently modifier names that could
	// not be resolved to catalog rows. The order is placed regardless.
	Warnings []string
}

// Service turns a finalized cart into a persisted order. It recomputes all
// money server-side, resolves modifier names against the catalog, persists
// atomically, and clears the cart only after the write succeeds.
type Service struct {
	menu   catalog.Repository
	orders Repository
	now    func() time.Time
}

// NewService creates an order Service with the required dependencies.
func NewService(menu catalog.Repository, orders Repository) *Service {
	return &Service{
		menu:   menu,
		orders: orders,
		now:    time.Now,
	}
}

// PlaceOrder validates the request, recomputes totals from the cart's stored
// line prices, fans each line out into per-unit drink rows with resolved
// modifier references, and persists the whole order in one transaction.
// On any persistence failure the cart is left intact so the caller can retry.
func (s *Service) PlaceOrder(ctx context.Context, req PlaceRequest) (*Confirmation, error) {
	if req.Cart == nil || req.Cart.Len() == 0 {
		return nil, ErrEmptyCart
	}
	if req.PaymentMethod != PaymentCard && req.PaymentMethod != PaymentCash {
		return nil, &InvalidPaymentMethodError{Method: req.PaymentMethod}
	}
	if req.Tip.IsNegative() {
		return nil, ErrNegativeTip
	}

	totals := req.Cart.Totals(req.TaxRate, req.Tip)

	var warnings []string
	if req.ClientTotal != nil && !req.ClientTotal.Equal(totals.Total.Round(2)) {
		warnings = append(warnings, fmt.Sprintf(
			"client total %s disagrees with server total %s",
			req.ClientTotal.StringFixed(2), totals.Total.StringFixed(2)))
	}

	lines := req.Cart.Lines()
	drinks := make([]Drink, 0, len(lines))
	for _, line := range lines {
		d, w := s.resolveDrink(ctx, line)
		warnings = append(warnings, w...)
		// Fan out: one independent drink row per unit.
		for range line.Quantity {
			drinks = append(drinks, d)
		}
	}

	o := &Order{
		Drinks:        drinks,
		Subtotal:      totals.Subtotal.Round(2),
		Tax:           totals.Tax.Round(2),
		Tip:           totals.Tip.Round(2),
		Total:         totals.Total.Round(2),
		PaymentMethod: req.PaymentMethod,
		EmployeeID:    req.EmployeeID,
		CustomerID:    req.CustomerID,
		PlacedAt:      s.now(),
	}

	number, err := s.orders.Create(ctx, o)
	if err != nil {
		return nil, errors.Wrap(err, "create order")
	}
	o.Number = number

	// Only a successful write destroys the cart.
	req.Cart.Clear()

	return &Confirmation{
		OrderNumber: number,
		Subtotal:    o.Subtotal,
		Tax:         o.Tax,
		Tip:         o.Tip,
		Total:       o.Total,
		Warnings:    warnings,
	}, nil
}

// NextNumberPreview returns the order number the next checkout would likely
// receive. Display only: actual allocation happens inside the placement
// transaction.
func (s *Service) NextNumberPreview(ctx context.Context) (int64, error) {
	maxNumber, err := s.orders.MaxNumber(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "max order number")
	}
	return maxNumber + 1, nil
}

// resolveDrink maps a cart line to a drink row, resolving each modifier name
// to a catalog reference. A miss for any one modifier is recorded as an
// absent reference plus a warning; it never aborts the order.
func (s *Service) resolveDrink(ctx context.Context, line cart.Line) (Drink, []string) {
	var warnings []string

	resolve := func(category, name string) ModifierRef {
		if name == "" {
			return ModifierRef{}
		}
		item, err := s.menu.FindByName(ctx, category, name)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf(
				"unresolved %s %q for %s", category, name, line.ItemName))
			return ModifierRef{Name: name}
		}
		return ModifierRef{ID: &item.ID, Name: name}
	}

	itemID := line.ItemID
	d := Drink{
		ItemID:   &itemID,
		ItemName: line.ItemName,
		Size:     resolve(catalog.CategorySize, line.Modifiers.Size),
		Sugar:    resolve(catalog.CategorySugar, line.Modifiers.Sweetness),
		Ice:      resolve(catalog.CategoryIce, line.Modifiers.Ice),
		Price:    line.UnitPrice.Round(2),
	}

	// Client-supplied topping ids are hints, not trusted references: an id
	// must name an actual topping row before it is persisted, otherwise the
	// foreign key would abort the whole order at commit. A bad id falls back
	// to name resolution, and a name miss is an absent reference plus a
	// warning like any other modifier.
	for _, t := range line.Modifiers.Toppings {
		if t.ID != 0 {
			item, err := s.menu.GetByID(ctx, t.ID)
			if err == nil && item.Category == catalog.CategoryTopping {
				d.Toppings = append(d.Toppings, ModifierRef{ID: &item.ID, Name: t.Name})
				continue
			}
		}
		d.Toppings = append(d.Toppings, resolve(catalog.CategoryTopping, t.Name))
	}

	return d, warnings
}
