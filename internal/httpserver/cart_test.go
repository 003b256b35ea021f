package httpserver

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"storefront-client/internal/domain"
	cartsvc "storefront-client/internal/service/cart"
)

func TestGetCartHandler_RequiresAuth(t *testing.T) {
	router := testRouter(t, Deps{})

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAddCartLineHandler_RecordsProductAndQuantity(t *testing.T) {
	carts := &stubCartService{cart: &domain.Cart{
		ID:         "cart-1",
		CustomerID: "cust-1",
		Lines: []domain.CartLine{
			{ProductID: "p-1", Quantity: 2, ServerLineID: "ln-1", Stock: 9},
		},
	}}
	router := testRouter(t, Deps{CartSvc: carts})

	body := `{"productId":"p-1","quantity":2}`
	req := httptest.NewRequest(http.MethodPost, "/cart", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer token")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	if carts.lastProductID != "p-1" || carts.lastQuantity != 2 {
		t.Fatalf("service got product=%q quantity=%d", carts.lastProductID, carts.lastQuantity)
	}
	if !strings.Contains(rec.Body.String(), `"serverLineId":"ln-1"`) {
		t.Fatalf("cart body missing line id: %s", rec.Body.String())
	}
}

func TestAddCartLineHandler_UnknownProduct(t *testing.T) {
	carts := &stubCartService{addErr: domain.ErrNotFound}
	router := testRouter(t, Deps{CartSvc: carts})

	body := `{"productId":"missing","quantity":1}`
	req := httptest.NewRequest(http.MethodPost, "/cart", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer token")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestSetCartLineHandler_PassesLineID(t *testing.T) {
	carts := &stubCartService{cart: &domain.Cart{ID: "cart-1"}}
	router := testRouter(t, Deps{CartSvc: carts})

	body := `{"quantity":5}`
	req := httptest.NewRequest(http.MethodPut, "/cart/item/ln-9", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer token")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	if carts.lastLineID != "ln-9" || carts.lastQuantity != 5 {
		t.Fatalf("service got line=%q quantity=%d", carts.lastLineID, carts.lastQuantity)
	}
}

func TestRemoveCartLineHandler_UnknownLine(t *testing.T) {
	carts := &stubCartService{removeErr: domain.ErrNotFound}
	router := testRouter(t, Deps{CartSvc: carts})

	req := httptest.NewRequest(http.MethodDelete, "/cart/item/ln-gone", nil)
	req.Header.Set("Authorization", "Bearer token")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestCheckoutHandler_CreatesOrder(t *testing.T) {
	carts := &stubCartService{order: &domain.Order{ID: "ord-1", CustomerID: "cust-1", TotalCents: 1999}}
	router := testRouter(t, Deps{CartSvc: carts})

	req := httptest.NewRequest(http.MethodPost, "/orders", nil)
	req.Header.Set("Authorization", "Bearer token")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"id":"ord-1"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestCheckoutHandler_EmptyCart(t *testing.T) {
	carts := &stubCartService{checkoutErr: cartsvc.ErrEmptyCart}
	router := testRouter(t, Deps{CartSvc: carts})

	req := httptest.NewRequest(http.MethodPost, "/orders", nil)
	req.Header.Set("Authorization", "Bearer token")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestListOrdersHandler_EmptyListNotNull(t *testing.T) {
	carts := &stubCartService{}
	router := testRouter(t, Deps{CartSvc: carts})

	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	req.Header.Set("Authorization", "Bearer token")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Fatalf("expected empty array, got %s", rec.Body.String())
	}
}
