package handler

import (
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/elliemck/boba-pos/internal/domain/customer"
)

// GetCustomerPoints handles GET /api/customer/points?name=First+Last.
func (h *Handler) GetCustomerPoints(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	first, last := customer.SplitName(name)
	if first == "" {
		writeError(w, r, http.StatusBadRequest, "name query parameter is required")
		return
	}

	c, err := h.customers.FindByName(r.Context(), first, last)
	if err != nil {
		if errors.Is(err, customer.ErrNotFound) {
			writeError(w, r, http.StatusNotFound, "customer not found")
			return
		}
		zctx.From(r.Context()).Error("get customer points", zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "failed to load customer")
		return
	}

	writeJSON(w, r, http.StatusOK, map[string]any{
		"customerName": c.Name(),
		"points":       c.Points,
	})
}

// AdjustCustomerPoints handles PATCH /api/customer/points: apply a signed
// rewards delta. The balance never drops below zero.
func (h *Handler) AdjustCustomerPoints(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CustomerName string `json:"customerName"`
		PointsChange int64  `json:"pointsChange"`
		Action       string `json:"action"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	first, last := customer.SplitName(req.CustomerName)
	if first == "" {
		writeError(w, r, http.StatusBadRequest, "customerName is required")
		return
	}
	if req.PointsChange < 0 {
		writeError(w, r, http.StatusBadRequest, "pointsChange must not be negative")
		return
	}

	delta := req.PointsChange
	switch req.Action {
	case "add":
	case "subtract":
		delta = -delta
	default:
		writeError(w, r, http.StatusBadRequest, "action must be add or subtract")
		return
	}

	balance, err := h.customers.AdjustPoints(r.Context(), first, last, delta)
	if err != nil {
		if errors.Is(err, customer.ErrNotFound) {
			writeError(w, r, http.StatusNotFound, "customer not found")
			return
		}
		zctx.From(r.Context()).Error("adjust customer points", zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "failed to update points")
		return
	}

	writeJSON(w, r, http.StatusOK, map[string]any{
		"customerName": req.CustomerName,
		"points":       balance,
	})
}
