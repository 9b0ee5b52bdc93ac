package handler

import (
	"net/http"
	"strconv"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/elliemck/boba-pos/internal/domain/kitchen"
)

// ListKitchenOrders handles GET /api/kitchen/orders: today's open tickets in
// FIFO order with live statuses overlaid.
func (h *Handler) ListKitchenOrders(w http.ResponseWriter, r *http.Request) {
	tickets, err := h.kitchen.Tickets(r.Context())
	if err != nil {
		zctx.From(r.Context()).Error("list kitchen orders", zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "failed to load kitchen orders")
		return
	}
	if tickets == nil {
		tickets = []kitchen.Ticket{}
	}
	writeJSON(w, r, http.StatusOK, tickets)
}

// UpdateKitchenStatus handles PATCH /api/kitchen/orders/{id}/status.
func (h *Handler) UpdateKitchenStatus(w http.ResponseWriter, r *http.Request) {
	orderID, ok := kitchenOrderID(w, r)
	if !ok {
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	status, err := h.kitchen.Advance(orderID, req.Status)
	if err != nil {
		var invErr *kitchen.InvalidStatusError
		switch {
		case errors.As(err, &invErr):
			writeError(w, r, http.StatusBadRequest, invErr.Error())
		case errors.Is(err, kitchen.ErrOrderBumped):
			writeError(w, r, http.StatusConflict, "order has been bumped")
		default:
			writeError(w, r, http.StatusInternalServerError, "failed to update status")
		}
		return
	}

	writeJSON(w, r, http.StatusOK, map[string]any{
		"orderid": orderID,
		"status":  status,
	})
}

// BumpKitchenOrder handles DELETE /api/kitchen/orders/{id}: remove the ticket
// from the board for the rest of the day.
func (h *Handler) BumpKitchenOrder(w http.ResponseWriter, r *http.Request) {
	orderID, ok := kitchenOrderID(w, r)
	if !ok {
		return
	}
	h.kitchen.Bump(orderID)
	w.WriteHeader(http.StatusNoContent)
}

func kitchenOrderID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id < 1 {
		writeError(w, r, http.StatusBadRequest, "invalid order id")
		return 0, false
	}
	return id, true
}
