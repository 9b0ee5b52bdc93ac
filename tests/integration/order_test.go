//go:build integration

package integration

import (
	"fmt"
	"net/http"
	"testing"
)

type addItemRequest struct {
	ItemID    int64        `json:"itemId"`
	Quantity  int          `json:"quantity"`
	Modifiers *modifierSet `json:"modifiers,omitempty"`
}

type modifierSet struct {
	Size        string       `json:"size"`
	Temperature string       `json:"temperature,omitempty"`
	Sweetness   string       `json:"sweetness"`
	Ice         string       `json:"ice"`
	Toppings    []toppingRef `json:"toppings,omitempty"`
}

type toppingRef struct {
	ID    int64  `json:"id,omitempty"`
	Name  string `json:"name"`
	Price string `json:"price"`
}

type placeOrderRequest struct {
	PaymentMethod string `json:"paymentMethod"`
	Register      string `json:"register"`
	Tip           string `json:"tip"`
}

// fillCart adds quantity large milk teas with boba and pudding to a session:
// 5.00 + 1.00 + 0.95 + 0.75 = 7.70 per unit.
func fillCart(t *testing.T, session string, quantity int) {
	t.Helper()

	drinkID := menuItemID(t, "Drink", "Classic Milk Tea")
	bobaID := menuItemID(t, "Topping", "Boba")
	puddingID := menuItemID(t, "Topping", "Pudding")

	resp := doRequest(t, http.MethodPost, "/api/cart/items", session, addItemRequest{
		ItemID:   drinkID,
		Quantity: quantity,
		Modifiers: &modifierSet{
			Size: "large", Temperature: "iced", Sweetness: "100%", Ice: "100%",
			Toppings: []toppingRef{
				{ID: bobaID, Name: "Boba", Price: "0.95"},
				{ID: puddingID, Name: "Pudding", Price: "0.75"},
			},
		},
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("add item: expected 201, got %d", resp.StatusCode)
	}
}

func TestCart_TotalsAtCashierRate(t *testing.T) {
	session := "it-cart-totals"
	fillCart(t, session, 2)

	resp := doRequest(t, http.MethodGet, "/api/cart?register=cashier", session, nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	cart := decodeJSON[cartResponse](t, resp)
	if cart.Subtotal != "15.40" {
		t.Errorf("subtotal: got %s, want 15.40", cart.Subtotal)
	}
	if cart.Tax != "1.27" {
		t.Errorf("tax: got %s, want 1.27", cart.Tax)
	}
	if cart.Total != "16.67" {
		t.Errorf("total: got %s, want 16.67", cart.Total)
	}
}

func TestPlaceOrder_EmptyCart(t *testing.T) {
	resp := doRequest(t, http.MethodPost, "/api/orders/place", "it-empty",
		placeOrderRequest{PaymentMethod: "card"})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestPlaceOrder_InvalidPaymentMethod(t *testing.T) {
	session := "it-bad-payment"
	fillCart(t, session, 1)

	resp := doRequest(t, http.MethodPost, "/api/orders/place", session,
		placeOrderRequest{PaymentMethod: "points"})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestPlaceOrder_FullCheckout(t *testing.T) {
	session := "it-checkout"
	fillCart(t, session, 2)

	resp := doRequest(t, http.MethodPost, "/api/orders/place", session,
		placeOrderRequest{PaymentMethod: "card", Register: "cashier", Tip: "0"})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	order := decodeJSON[placeOrderResponse](t, resp)
	if !order.Success {
		t.Error("success: got false")
	}
	if order.OrderID < 1 {
		t.Errorf("orderId: got %d, want >= 1", order.OrderID)
	}
	if order.Total != "16.67" {
		t.Errorf("total: got %s, want 16.67", order.Total)
	}
	if len(order.Warnings) != 0 {
		t.Errorf("warnings: got %v, want none", order.Warnings)
	}

	// Checkout destroys the session cart.
	cartResp := doRequest(t, http.MethodGet, "/api/cart", session, nil)
	defer cartResp.Body.Close()
	cart := decodeJSON[cartResponse](t, cartResp)
	if len(cart.Items) != 0 {
		t.Errorf("cart not cleared: %d items remain", len(cart.Items))
	}

	// The placed order is visible to the kitchen.
	kitchenResp := doGet(t, "/api/kitchen/orders")
	defer kitchenResp.Body.Close()
	tickets := decodeJSON[[]ticketResponse](t, kitchenResp)
	var found bool
	for _, ticket := range tickets {
		if ticket.OrderID == order.OrderID {
			found = true
			if ticket.Status != "New" {
				t.Errorf("status: got %s, want New", ticket.Status)
			}
			if len(ticket.Items) != 1 || ticket.Items[0].Quantity != 2 {
				t.Errorf("items: got %+v, want one line with quantity 2", ticket.Items)
			}
		}
	}
	if !found {
		t.Errorf("order %d not on the kitchen board", order.OrderID)
	}
}

func TestPlaceOrder_NumbersIncrease(t *testing.T) {
	place := func(session string) int64 {
		fillCart(t, session, 1)
		resp := doRequest(t, http.MethodPost, "/api/orders/place", session,
			placeOrderRequest{PaymentMethod: "cash"})
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("expected 201, got %d", resp.StatusCode)
		}
		return decodeJSON[placeOrderResponse](t, resp).OrderID
	}

	first := place("it-seq-1")
	second := place("it-seq-2")
	if second <= first {
		t.Errorf("order numbers must increase: got %d then %d", first, second)
	}

	// The preview reflects the latest allocation.
	resp := doGet(t, "/api/orders")
	defer resp.Body.Close()
	preview := decodeJSON[map[string]int64](t, resp)
	if preview["max"] < second {
		t.Errorf("preview max %d behind placed order %d", preview["max"], second)
	}
}

func TestCart_QuantityFloor(t *testing.T) {
	session := "it-qty-floor"
	fillCart(t, session, 1)

	resp := doRequest(t, http.MethodGet, "/api/cart", session, nil)
	cart := decodeJSON[cartResponse](t, resp)
	resp.Body.Close()
	if len(cart.Items) != 1 {
		t.Fatalf("expected 1 cart line, got %d", len(cart.Items))
	}

	path := fmt.Sprintf("/api/cart/items/%s/quantity", cart.Items[0].ID)
	decResp := doRequest(t, http.MethodPatch, path, session, map[string]int{"delta": -1})
	defer decResp.Body.Close()
	if decResp.StatusCode != http.StatusConflict {
		t.Fatalf("decrement from 1: expected 409, got %d", decResp.StatusCode)
	}

	// Line survives until the client confirms with an explicit DELETE.
	resp = doRequest(t, http.MethodGet, "/api/cart", session, nil)
	cart = decodeJSON[cartResponse](t, resp)
	resp.Body.Close()
	if len(cart.Items) != 1 {
		t.Errorf("line removed without confirmation: %d items", len(cart.Items))
	}
}
