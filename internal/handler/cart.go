package handler

import (
	"net/http"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/elliemck/boba-pos/internal/domain/cart"
	"github.com/elliemck/boba-pos/internal/domain/catalog"
	"github.com/elliemck/boba-pos/internal/domain/pricing"
)

type cartLine struct {
	ID        string            `json:"id"`
	ItemID    int64             `json:"itemId"`
	Name      string            `json:"name"`
	Photo     string            `json:"photo,omitempty"`
	UnitPrice string            `json:"unitPrice"`
	Quantity  int               `json:"quantity"`
	LineTotal string            `json:"lineTotal"`
	Modifiers pricing.Selection `json:"modifiers"`
}

type cartResponse struct {
	Items    []cartLine `json:"items"`
	Subtotal string     `json:"subtotal"`
	Tax      string     `json:"tax"`
	Total    string     `json:"total"`
}

func toCartLine(line cart.Line) cartLine {
	qty := decimal.NewFromInt(int64(line.Quantity))
	return cartLine{
		ID:        line.ID,
		ItemID:    line.ItemID,
		Name:      line.ItemName,
		Photo:     line.Photo,
		UnitPrice: money(line.UnitPrice),
		Quantity:  line.Quantity,
		LineTotal: money(line.UnitPrice.Mul(qty)),
		Modifiers: line.Modifiers,
	}
}

func (h *Handler) cartResponse(r *http.Request, c *cart.Cart) cartResponse {
	lines := c.Lines()
	items := make([]cartLine, len(lines))
	for i, line := range lines {
		items[i] = toCartLine(line)
	}
	totals := c.Totals(h.taxRate(r.URL.Query().Get("register")), decimal.Zero)
	return cartResponse{
		Items:    items,
		Subtotal: money(totals.Subtotal),
		Tax:      money(totals.Tax),
		Total:    money(totals.Total),
	}
}

// GetCart handles GET /api/cart.
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	c := h.carts.Get(sessionID(r))
	writeJSON(w, r, http.StatusOK, h.cartResponse(r, c))
}

// AddCartItem handles POST /api/cart/items.
func (h *Handler) AddCartItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ItemID    int64              `json:"itemId"`
		Quantity  int                `json:"quantity"`
		Modifiers *pricing.Selection `json:"modifiers"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	item, err := h.menu.GetByID(r.Context(), req.ItemID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, r, http.StatusNotFound, "menu item not found")
			return
		}
		writeError(w, r, http.StatusInternalServerError, "failed to load menu item")
		return
	}

	sel := pricing.DefaultSelection()
	if req.Modifiers != nil {
		sel = *req.Modifiers
	}

	c := h.carts.Get(sessionID(r))
	line, err := c.AddLine(*item, sel, req.Quantity)
	if err != nil {
		var modErr *cart.InvalidModifierError
		if errors.As(err, &modErr) {
			writeError(w, r, http.StatusBadRequest, modErr.Error())
			return
		}
		writeError(w, r, http.StatusInternalServerError, "failed to add item")
		return
	}
	writeJSON(w, r, http.StatusCreated, toCartLine(line))
}

// UpdateCartItem handles PUT /api/cart/items/{id}: edit the modifiers in
// place, keeping quantity and position.
func (h *Handler) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Modifiers pricing.Selection `json:"modifiers"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	c := h.carts.Get(sessionID(r))
	line, err := c.UpdateLine(r.PathValue("id"), req.Modifiers)
	if err != nil {
		writeCartError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toCartLine(line))
}

// ChangeCartQuantity handles PATCH /api/cart/items/{id}/quantity. A decrement
// that would drop below one is answered with 409 and confirmRemoval=true; the
// client is expected to confirm and then DELETE the line.
func (h *Handler) ChangeCartQuantity(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Delta int `json:"delta"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	c := h.carts.Get(sessionID(r))
	line, err := c.ChangeQuantity(r.PathValue("id"), req.Delta)
	if err != nil {
		if errors.Is(err, cart.ErrConfirmRemoval) {
			writeJSON(w, r, http.StatusConflict, map[string]any{
				"confirmRemoval": true,
				"item":           toCartLine(line),
			})
			return
		}
		writeCartError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toCartLine(line))
}

// RemoveCartItem handles DELETE /api/cart/items/{id}.
func (h *Handler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	c := h.carts.Get(sessionID(r))
	if err := c.RemoveLine(r.PathValue("id")); err != nil {
		writeCartError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ClearCart handles DELETE /api/cart.
func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	h.carts.Delete(sessionID(r))
	w.WriteHeader(http.StatusNoContent)
}

func writeCartError(w http.ResponseWriter, r *http.Request, err error) {
	var modErr *cart.InvalidModifierError
	switch {
	case errors.Is(err, cart.ErrLineNotFound):
		writeError(w, r, http.StatusNotFound, "cart item not found")
	case errors.As(err, &modErr):
		writeError(w, r, http.StatusBadRequest, modErr.Error())
	default:
		writeError(w, r, http.StatusInternalServerError, "cart operation failed")
	}
}
