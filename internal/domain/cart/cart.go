// Package cart holds the in-progress order for one customer or cashier
// session. Lines are keyed by id rather than index, so a handle to a line
// stays valid across removals of its neighbours. Insertion order is kept
// separately for rendering.
package cart

import (
	"fmt"
	"sync"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/elliemck/boba-pos/internal/domain/catalog"
	"github.com/elliemck/boba-pos/internal/domain/pricing"
)

// Sentinel errors for cart operations.
var (
	ErrLineNotFound = errors.New("cart line not found")

	// ErrConfirmRemoval is returned by ChangeQuantity when a decrement would
	// drop the quantity below 1. The caller must confirm with the user and
	// then call RemoveLine; a silent removal (or silent no-op) is wrong.
	ErrConfirmRemoval = errors.New("quantity at minimum: confirm removal instead")
)

// InvalidModifierError reports a modifier value outside its allowed set.
type InvalidModifierError struct {
	Field string
	Value string
}

func (e *InvalidModifierError) Error() string {
	return fmt.Sprintf("invalid %s %q", e.Field, e.Value)
}

// Line is one configured, priced drink entry awaiting checkout.
type Line struct {
	ID        string
	ItemID    int64
	ItemName  string
	Photo     string
	BasePrice decimal.Decimal
	UnitPrice decimal.Decimal
	Quantity  int
	Modifiers pricing.Selection
}

// Totals is the priced summary of a cart.
type Totals struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Tip      decimal.Decimal
	Total    decimal.Decimal
}

// Cart is an ordered collection of lines. Methods are safe for concurrent
// use, though a session normally has a single writer.
type Cart struct {
	mu    sync.Mutex
	lines map[string]*Line
	order []string
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{lines: make(map[string]*Line)}
}

func validateSelection(sel pricing.Selection) error {
	if !pricing.ValidSize(sel.Size) {
		return &InvalidModifierError{Field: "size", Value: sel.Size}
	}
	if !pricing.ValidSweetness(sel.Sweetness) {
		return &InvalidModifierError{Field: "sweetness", Value: sel.Sweetness}
	}
	if !pricing.ValidIce(sel.Ice) {
		return &InvalidModifierError{Field: "ice", Value: sel.Ice}
	}
	if !pricing.ValidTemperature(sel.Temperature) {
		return &InvalidModifierError{Field: "temperature", Value: sel.Temperature}
	}
	return nil
}

// AddLine appends a new line for the given drink. The base price is captured
// from the item now and the unit price is computed here, at commit time, so
// the stored price reflects the final modifier state. A quantity below 1 is
// treated as 1.
func (c *Cart) AddLine(item catalog.Item, sel pricing.Selection, quantity int) (Line, error) {
	if err := validateSelection(sel); err != nil {
		return Line{}, err
	}
	if quantity < 1 {
		quantity = 1
	}

	line := &Line{
		ID:        uuid.New().String(),
		ItemID:    item.ID,
		ItemName:  item.Name,
		Photo:     item.Photo,
		BasePrice: item.Price,
		UnitPrice: pricing.Price(item.Price, sel),
		Quantity:  quantity,
		Modifiers: sel,
	}

	c.mu.Lock()
	c.lines[line.ID] = line
	c.order = append(c.order, line.ID)
	c.mu.Unlock()

	return *line, nil
}

// UpdateLine replaces the modifiers of an existing line in place and
// recomputes its unit price from the captured base price. Quantity and
// position are preserved; this is edit-in-place, not append-a-duplicate.
func (c *Cart) UpdateLine(id string, sel pricing.Selection) (Line, error) {
	if err := validateSelection(sel); err != nil {
		return Line{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	line, ok := c.lines[id]
	if !ok {
		return Line{}, ErrLineNotFound
	}
	line.Modifiers = sel
	line.UnitPrice = pricing.Price(line.BasePrice, sel)
	return *line, nil
}

// ChangeQuantity adjusts a line's quantity by delta, floored at 1.
// A decrement that would go below 1 returns ErrConfirmRemoval and leaves the
// line untouched.
func (c *Cart) ChangeQuantity(id string, delta int) (Line, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	line, ok := c.lines[id]
	if !ok {
		return Line{}, ErrLineNotFound
	}
	next := line.Quantity + delta
	if next < 1 {
		return *line, ErrConfirmRemoval
	}
	line.Quantity = next
	return *line, nil
}

// RemoveLine deletes a line. Later lines keep their ids and shift up in
// render order.
func (c *Cart) RemoveLine(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.lines[id]; !ok {
		return ErrLineNotFound
	}
	delete(c.lines, id)
	for i, lid := range c.order {
		if lid == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return nil
}

// Clear empties the cart (checkout or explicit empty).
func (c *Cart) Clear() {
	c.mu.Lock()
	c.lines = make(map[string]*Line)
	c.order = c.order[:0]
	c.mu.Unlock()
}

// Len returns the number of lines.
func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines)
}

// Lines returns the lines in insertion order.
func (c *Cart) Lines() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Line, 0, len(c.order))
	for _, id := range c.order {
		if line, ok := c.lines[id]; ok {
			out = append(out, *line)
		}
	}
	return out
}

// Totals computes subtotal, tax, and total for the cart. The tax rate is
// configuration (the kiosk and cashier surfaces publish different rates) and
// tip may be zero. Nothing is rounded here.
func (c *Cart) Totals(taxRate, tip decimal.Decimal) Totals {
	c.mu.Lock()
	defer c.mu.Unlock()

	subtotal := decimal.Zero
	for _, id := range c.order {
		line := c.lines[id]
		subtotal = subtotal.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	tax := subtotal.Mul(taxRate)
	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Tip:      tip,
		Total:    subtotal.Add(tax).Add(tip),
	}
}
