package handler

import (
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/elliemck/boba-pos/internal/domain/order"
)

// NextOrderNumber handles GET /api/orders: a display-only preview of the
// current and next order numbers. Allocation happens at placement.
func (h *Handler) NextOrderNumber(w http.ResponseWriter, r *http.Request) {
	next, err := h.orders.NextNumberPreview(r.Context())
	if err != nil {
		zctx.From(r.Context()).Error("order number preview", zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "failed to read order number")
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]int64{
		"max":  next - 1,
		"next": next,
	})
}

// PlaceOrder handles POST /api/orders/place: checkout of the session cart.
func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PaymentMethod string           `json:"paymentMethod"`
		Register      string           `json:"register"`
		Tip           decimal.Decimal  `json:"tip"`
		ClientTotal   *decimal.Decimal `json:"clientTotal"`
		EmployeeID    *int64           `json:"employeeId"`
		CustomerID    *int64           `json:"customerId"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	sid := sessionID(r)
	conf, err := h.orders.PlaceOrder(r.Context(), order.PlaceRequest{
		Cart:          h.carts.Get(sid),
		PaymentMethod: req.PaymentMethod,
		Tip:           req.Tip,
		TaxRate:       h.taxRate(req.Register),
		ClientTotal:   req.ClientTotal,
		EmployeeID:    req.EmployeeID,
		CustomerID:    req.CustomerID,
	})
	if err != nil {
		writeOrderError(w, r, err)
		return
	}

	for _, warning := range conf.Warnings {
		zctx.From(r.Context()).Warn("order placed with warning",
			zap.Int64("order_id", conf.OrderNumber),
			zap.String("warning", warning))
	}

	// Checkout destroys the session; a fresh cart starts on next use.
	h.carts.Delete(sid)

	writeJSON(w, r, http.StatusCreated, map[string]any{
		"success":  true,
		"orderId":  conf.OrderNumber,
		"subtotal": money(conf.Subtotal),
		"tax":      money(conf.Tax),
		"tip":      money(conf.Tip),
		"total":    money(conf.Total),
		"warnings": conf.Warnings,
	})
}

func writeOrderError(w http.ResponseWriter, r *http.Request, err error) {
	var pmErr *order.InvalidPaymentMethodError
	switch {
	case errors.Is(err, order.ErrEmptyCart):
		writeError(w, r, http.StatusBadRequest, "cart is empty")
	case errors.As(err, &pmErr):
		writeError(w, r, http.StatusBadRequest, pmErr.Error())
	case errors.Is(err, order.ErrNegativeTip):
		writeError(w, r, http.StatusBadRequest, "tip must not be negative")
	default:
		zctx.From(r.Context()).Error("place order", zap.Error(err))
		writeError(w, r, http.StatusServiceUnavailable, "order could not be saved, please retry")
	}
}
