// Package handler exposes the HTTP API: menu reads, cart mutation, order
// placement, the kitchen board, and loyalty points. Handlers decode JSON,
// delegate to the domain, and map typed domain errors to status codes.
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-faster/sdk/zctx"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/elliemck/boba-pos/internal/domain/cart"
	"github.com/elliemck/boba-pos/internal/domain/catalog"
	"github.com/elliemck/boba-pos/internal/domain/customer"
	"github.com/elliemck/boba-pos/internal/domain/kitchen"
	"github.com/elliemck/boba-pos/internal/domain/order"
)

// Registers with distinct tax treatment. The register is chosen per request;
// the rates come from configuration.
const (
	RegisterKiosk   = "kiosk"
	RegisterCashier = "cashier"
)

// Config holds non-dependency configuration for the Handler.
type Config struct {
	// TaxKiosk and TaxCashier are the sales tax rates applied per register.
	TaxKiosk   decimal.Decimal
	TaxCashier decimal.Decimal
}

// Handler wires the HTTP surface to the domain services.
type Handler struct {
	cfg       Config
	menu      catalog.Repository
	carts     *cart.Store
	orders    *order.Service
	kitchen   *kitchen.Store
	customers customer.Repository
}

// NewHandler constructs a Handler with the required domain dependencies.
func NewHandler(
	cfg Config,
	menu catalog.Repository,
	carts *cart.Store,
	orders *order.Service,
	kitchenStore *kitchen.Store,
	customers customer.Repository,
) *Handler {
	return &Handler{
		cfg:       cfg,
		menu:      menu,
		carts:     carts,
		orders:    orders,
		kitchen:   kitchenStore,
		customers: customers,
	}
}

// Routes registers every API route on mux.
func (h *Handler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/menu/{category}", h.ListMenu)

	mux.HandleFunc("GET /api/cart", h.GetCart)
	mux.HandleFunc("POST /api/cart/items", h.AddCartItem)
	mux.HandleFunc("PUT /api/cart/items/{id}", h.UpdateCartItem)
	mux.HandleFunc("PATCH /api/cart/items/{id}/quantity", h.ChangeCartQuantity)
	mux.HandleFunc("DELETE /api/cart/items/{id}", h.RemoveCartItem)
	mux.HandleFunc("DELETE /api/cart", h.ClearCart)

	mux.HandleFunc("GET /api/orders", h.NextOrderNumber)
	mux.HandleFunc("POST /api/orders/place", h.PlaceOrder)

	mux.HandleFunc("GET /api/kitchen/orders", h.ListKitchenOrders)
	mux.HandleFunc("PATCH /api/kitchen/orders/{id}/status", h.UpdateKitchenStatus)
	mux.HandleFunc("DELETE /api/kitchen/orders/{id}", h.BumpKitchenOrder)

	mux.HandleFunc("GET /api/customer/points", h.GetCustomerPoints)
	mux.HandleFunc("PATCH /api/customer/points", h.AdjustCustomerPoints)
}

// taxRate returns the configured rate for a register, defaulting to kiosk.
func (h *Handler) taxRate(register string) decimal.Decimal {
	if register == RegisterCashier {
		return h.cfg.TaxCashier
	}
	return h.cfg.TaxKiosk
}

// sessionID identifies the caller's cart session. Anonymous callers share
// the "default" session, which matches single-register deployments.
func sessionID(r *http.Request) string {
	if id := r.Header.Get("X-Session-ID"); id != "" {
		return id
	}
	return "default"
}

// money renders a decimal amount with two fixed digits. Rounding happens
// here, at the serialization edge, and nowhere upstream.
func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zctx.From(r.Context()).Error("encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}
